// Package coord packs column and cube coordinates into scalar map keys.
package coord

import (
	"errors"
	"fmt"
	"math"
)

// CubeSize is the edge length of a cube in blocks.
const CubeSize = 16

const (
	cubeBits = 21
	cubeMask = 1<<cubeBits - 1

	// MinCube and MaxCube bound every axis of a packable cube coordinate.
	MinCube = -(1 << (cubeBits - 1))
	MaxCube = 1<<(cubeBits-1) - 1

	// MinColumn and MaxColumn bound both axes of a packable column coordinate.
	MinColumn = math.MinInt32
	MaxColumn = math.MaxInt32
)

// ErrOutOfRange is wrapped by every RangeError.
var ErrOutOfRange = errors.New("coordinate out of range")

// RangeError reports a coordinate that cannot be packed without loss.
type RangeError struct {
	Axis  string
	Value int
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("coord: %s=%d outside [%d, %d]", e.Axis, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// ColumnKey is a packed (x, z) column coordinate.
type ColumnKey int64

// CubeKey is a packed (x, y, z) cube coordinate.
type CubeKey int64

// PackColumn packs x into the high and z into the low 32 bits.
func PackColumn(x, z int) (ColumnKey, error) {
	if err := check("x", x, MinColumn, MaxColumn); err != nil {
		return 0, err
	}
	if err := check("z", z, MinColumn, MaxColumn); err != nil {
		return 0, err
	}
	return ColumnKey(int64(x)<<32 | int64(uint32(int32(z)))), nil
}

// MustPackColumn is like PackColumn but panics with a *RangeError.
func MustPackColumn(x, z int) ColumnKey {
	k, err := PackColumn(x, z)
	if err != nil {
		panic(err)
	}
	return k
}

// Unpack returns the column coordinates stored in k.
func (k ColumnKey) Unpack() (x, z int) {
	return int(int32(k >> 32)), int(int32(uint32(k)))
}

func (k ColumnKey) String() string {
	x, z := k.Unpack()
	return fmt.Sprintf("column(%d, %d)", x, z)
}

// PackCube packs three 21-bit two's complement fields as x<<42 | y<<21 | z.
func PackCube(x, y, z int) (CubeKey, error) {
	for _, a := range [...]struct {
		name string
		v    int
	}{{"x", x}, {"y", y}, {"z", z}} {
		if err := check(a.name, a.v, MinCube, MaxCube); err != nil {
			return 0, err
		}
	}
	return CubeKey(int64(x&cubeMask)<<(2*cubeBits) | int64(y&cubeMask)<<cubeBits | int64(z&cubeMask)), nil
}

// MustPackCube is like PackCube but panics with a *RangeError.
func MustPackCube(x, y, z int) CubeKey {
	k, err := PackCube(x, y, z)
	if err != nil {
		panic(err)
	}
	return k
}

// Unpack returns the cube coordinates stored in k.
func (k CubeKey) Unpack() (x, y, z int) {
	return signExtend(int64(k) >> (2 * cubeBits)),
		signExtend(int64(k) >> cubeBits),
		signExtend(int64(k))
}

func (k CubeKey) String() string {
	x, y, z := k.Unpack()
	return fmt.Sprintf("cube(%d, %d, %d)", x, y, z)
}

// BlockToCube returns the cube coordinate containing block coordinate v.
func BlockToCube(v int) int {
	return v >> 4
}

// BlockToLocal returns v's offset inside its cube, always in [0, CubeSize).
func BlockToLocal(v int) int {
	return v & (CubeSize - 1)
}

// CubeToBlock returns the lowest block coordinate of cube c.
func CubeToBlock(c int) int {
	return c * CubeSize
}

func signExtend(v int64) int {
	v &= cubeMask
	if v&(1<<(cubeBits-1)) != 0 {
		v -= 1 << cubeBits
	}
	return int(v)
}

func check(axis string, v, lo, hi int) error {
	if v < lo || v > hi {
		return &RangeError{Axis: axis, Value: v, Min: lo, Max: hi}
	}
	return nil
}
