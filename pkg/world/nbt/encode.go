package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
)

// Encode writes c as a root compound tag called name.
func Encode(w io.Writer, name string, c Compound) error {
	e := &encoder{w: w}
	e.writeTagHeader(TagCompound, name)
	e.compound(c)
	return e.err
}

// encoder accumulates the first error; later writes are dropped.
type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) write(data []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(data)
}

func (e *encoder) putByte(v byte) {
	e.write([]byte{v})
}

func (e *encoder) putUint16(v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	e.write(buf[:])
}

func (e *encoder) putInt32(v int32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	e.write(buf[:])
}

func (e *encoder) putInt64(v int64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	e.write(buf[:])
}

func (e *encoder) putString(s string) {
	if len(s) > math.MaxUint16 {
		e.fail(fmt.Errorf("nbt: string of %d bytes is too long", len(s)))
		return
	}
	e.putUint16(uint16(len(s)))
	if len(s) > 0 {
		e.write([]byte(s))
	}
}

func (e *encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) writeTagHeader(tagType byte, name string) {
	e.putByte(tagType)
	e.putString(name)
}

// compound writes the tags of c in name order followed by an End tag.
func (e *encoder) compound(c Compound) {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := c[name]
		tag, err := tagOf(v)
		if err != nil {
			e.fail(fmt.Errorf("%w (tag %q)", err, name))
			return
		}
		e.writeTagHeader(tag, name)
		e.payload(tag, v)
	}
	e.putByte(TagEnd)
}

func (e *encoder) payload(tag byte, v any) {
	switch tag {
	case TagByte:
		e.putByte(v.(byte))
	case TagShort:
		e.putUint16(uint16(v.(int16)))
	case TagInt:
		e.putInt32(v.(int32))
	case TagLong:
		e.putInt64(v.(int64))
	case TagFloat:
		e.putInt32(int32(math.Float32bits(v.(float32))))
	case TagDouble:
		e.putInt64(int64(math.Float64bits(v.(float64))))
	case TagByteArray:
		b := v.([]byte)
		e.putInt32(int32(len(b)))
		e.write(b)
	case TagString:
		e.putString(v.(string))
	case TagList:
		e.list(v.(List))
	case TagCompound:
		e.compound(v.(Compound))
	case TagIntArray:
		ints := v.([]int32)
		e.putInt32(int32(len(ints)))
		for _, val := range ints {
			e.putInt32(val)
		}
	}
}

func (e *encoder) list(l List) {
	e.putByte(l.Elem)
	e.putInt32(int32(len(l.Items)))
	for i, item := range l.Items {
		tag, err := tagOf(item)
		if err != nil {
			e.fail(err)
			return
		}
		if tag != l.Elem {
			e.fail(fmt.Errorf("nbt: list item %d has tag %d, want %d", i, tag, l.Elem))
			return
		}
		e.payload(tag, item)
	}
}
