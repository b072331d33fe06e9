// Package nbt encodes and decodes the big-endian named binary tag format used
// for cube region files.
package nbt

import (
	"errors"
	"fmt"
)

// NBT tag type IDs.
const (
	TagEnd       byte = 0
	TagByte      byte = 1
	TagShort     byte = 2
	TagInt       byte = 3
	TagLong      byte = 4
	TagFloat     byte = 5
	TagDouble    byte = 6
	TagByteArray byte = 7
	TagString    byte = 8
	TagList      byte = 9
	TagCompound  byte = 10
	TagIntArray  byte = 11
)

// ErrMalformed is returned when decoding input that is not valid NBT.
var ErrMalformed = errors.New("nbt: malformed data")

// Compound is a named set of tags. Values are byte, int16, int32, int64,
// float32, float64, []byte, string, List, Compound or []int32.
type Compound map[string]any

// List is a homogeneous list of unnamed tags of type Elem.
type List struct {
	Elem  byte
	Items []any
}

// Byte returns the byte tag name, or false if absent or of another type.
func (c Compound) Byte(name string) (byte, bool) {
	v, ok := c[name].(byte)
	return v, ok
}

// Int returns the int tag name.
func (c Compound) Int(name string) (int32, bool) {
	v, ok := c[name].(int32)
	return v, ok
}

// Long returns the long tag name.
func (c Compound) Long(name string) (int64, bool) {
	v, ok := c[name].(int64)
	return v, ok
}

// Bytes returns the byte array tag name.
func (c Compound) Bytes(name string) ([]byte, bool) {
	v, ok := c[name].([]byte)
	return v, ok
}

// Compound returns the nested compound name.
func (c Compound) Compound(name string) (Compound, bool) {
	v, ok := c[name].(Compound)
	return v, ok
}

func tagOf(v any) (byte, error) {
	switch v.(type) {
	case byte:
		return TagByte, nil
	case int16:
		return TagShort, nil
	case int32:
		return TagInt, nil
	case int64:
		return TagLong, nil
	case float32:
		return TagFloat, nil
	case float64:
		return TagDouble, nil
	case []byte:
		return TagByteArray, nil
	case string:
		return TagString, nil
	case List:
		return TagList, nil
	case Compound:
		return TagCompound, nil
	case []int32:
		return TagIntArray, nil
	}
	return 0, fmt.Errorf("nbt: unsupported value type %T", v)
}
