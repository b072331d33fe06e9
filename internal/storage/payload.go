package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/DinnerBuffet/CubicChunks/pkg/world/gen"
)

// ErrCorrupt is returned when a stored cube cannot be decoded.
var ErrCorrupt = errors.New("storage: corrupt cube data")

const rawSize = gen.BlockCount * 2

// encodeBlocks writes each block state as a little-endian uint16 and
// compresses the result.
func (s *Store) encodeBlocks(b *gen.Blocks) []byte {
	raw := make([]byte, rawSize)
	for i, v := range b {
		binary.LittleEndian.PutUint16(raw[i*2:], v)
	}
	return s.enc.EncodeAll(raw, make([]byte, 0, len(raw)/4))
}

func (s *Store) decodeBlocks(data []byte, b *gen.Blocks) error {
	raw, err := s.dec.DecodeAll(data, make([]byte, 0, rawSize))
	if err != nil {
		return fmt.Errorf("decompress: %w: %w", ErrCorrupt, err)
	}
	if len(raw) != rawSize {
		return fmt.Errorf("payload is %d bytes, want %d: %w", len(raw), rawSize, ErrCorrupt)
	}
	for i := range b {
		b[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return nil
}
