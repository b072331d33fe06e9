package nbt

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	maxDepth     = 512
	maxArrayLen  = 1 << 24
	maxListItems = 1 << 20

	// Lengths come from the input, so storage grows as data arrives
	// rather than being reserved up front.
	readChunk  = 64 << 10
	initialCap = 1024
)

// Decode reads a root compound tag and returns its name and contents.
func Decode(r io.Reader) (string, Compound, error) {
	d := &decoder{r: bufio.NewReader(r)}
	tag := d.byte()
	if d.err != nil {
		return "", nil, d.err
	}
	if tag != TagCompound {
		return "", nil, fmt.Errorf("%w: root tag %d is not a compound", ErrMalformed, tag)
	}
	name := d.string()
	c := d.compound(0)
	if d.err != nil {
		return "", nil, d.err
	}
	return name, c, nil
}

type decoder struct {
	r   *bufio.Reader
	err error
}

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *decoder) read(n int) []byte {
	if d.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = fmt.Errorf("%w: unexpected end of data", ErrMalformed)
		}
		d.fail(err)
		return nil
	}
	return buf
}

// readLong reads n bytes in chunks so a forged length fails at end of input
// before much memory is committed.
func (d *decoder) readLong(n int) []byte {
	buf := make([]byte, 0, min(n, readChunk))
	for len(buf) < n && d.err == nil {
		buf = append(buf, d.read(min(n-len(buf), readChunk))...)
	}
	if d.err != nil {
		return nil
	}
	return buf
}

func (d *decoder) byte() byte {
	b := d.read(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) uint16() uint16 {
	b := d.read(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (d *decoder) int32() int32 {
	b := d.read(4)
	if b == nil {
		return 0
	}
	return int32(binary.BigEndian.Uint32(b))
}

func (d *decoder) int64() int64 {
	b := d.read(8)
	if b == nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}

func (d *decoder) string() string {
	n := d.uint16()
	if n == 0 {
		return ""
	}
	return string(d.read(int(n)))
}

func (d *decoder) length(limit int) int {
	n := d.int32()
	if d.err != nil {
		return 0
	}
	if n < 0 || int(n) > limit {
		d.fail(fmt.Errorf("%w: length %d out of range", ErrMalformed, n))
		return 0
	}
	return int(n)
}

func (d *decoder) compound(depth int) Compound {
	if depth > maxDepth {
		d.fail(fmt.Errorf("%w: nesting deeper than %d", ErrMalformed, maxDepth))
		return nil
	}
	c := make(Compound)
	for d.err == nil {
		tag := d.byte()
		if tag == TagEnd {
			break
		}
		name := d.string()
		c[name] = d.payload(tag, depth)
	}
	return c
}

func (d *decoder) payload(tag byte, depth int) any {
	switch tag {
	case TagByte:
		return d.byte()
	case TagShort:
		return int16(d.uint16())
	case TagInt:
		return d.int32()
	case TagLong:
		return d.int64()
	case TagFloat:
		return math.Float32frombits(uint32(d.int32()))
	case TagDouble:
		return math.Float64frombits(uint64(d.int64()))
	case TagByteArray:
		n := d.length(maxArrayLen)
		b := d.readLong(n)
		if b == nil {
			b = []byte{}
		}
		return b
	case TagString:
		return d.string()
	case TagList:
		elem := d.byte()
		n := d.length(maxListItems)
		l := List{Elem: elem, Items: make([]any, 0, min(n, initialCap))}
		for i := 0; i < n && d.err == nil; i++ {
			l.Items = append(l.Items, d.payload(elem, depth+1))
		}
		return l
	case TagCompound:
		return d.compound(depth + 1)
	case TagIntArray:
		n := d.length(maxArrayLen)
		ints := make([]int32, 0, min(n, initialCap))
		for i := 0; i < n && d.err == nil; i++ {
			ints = append(ints, d.int32())
		}
		return ints
	}
	d.fail(fmt.Errorf("%w: unknown tag type %d", ErrMalformed, tag))
	return nil
}
