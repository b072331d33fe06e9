// Package region stores cubes in sector-aligned region files, each holding
// an 8×8×8 block of cubes.
package region

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/DinnerBuffet/CubicChunks/pkg/coord"
)

// Size is the edge length of a region in cubes.
const Size = 8

const (
	entries         = Size * Size * Size
	sectorSize      = 512
	tableSectors    = entries * 4 / sectorSize
	headerSectors   = 2 * tableSectors // location table + timestamp table
	maxEntrySectors = 0xFF
	compressionZstd = 4
	ext             = ".3dr"
)

// ErrCorrupt is returned when a region file cannot be parsed.
var ErrCorrupt = errors.New("region: corrupt region file")

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil)
)

// Pos identifies a region.
type Pos struct{ X, Y, Z int }

// Of returns the region holding the cube at (cx, cy, cz).
func Of(cx, cy, cz int) Pos {
	return Pos{cx >> 3, cy >> 3, cz >> 3}
}

// FileName returns the file name of the region.
func (p Pos) FileName() string {
	return fmt.Sprintf("r.%d.%d.%d%s", p.X, p.Y, p.Z, ext)
}

func index(cx, cy, cz int) int {
	return (cx & (Size - 1)) + (cz&(Size-1))*Size + (cy&(Size-1))*Size*Size
}

// Save writes cubes to the region file for pos in dir, replacing any
// existing file. Every key must lie inside the region; payloads are stored
// compressed.
func Save(dir string, pos Pos, cubes map[coord.CubeKey][]byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create region dir: %w", err)
	}

	type cubeEntry struct {
		index      int
		compressed []byte
	}
	list := make([]cubeEntry, 0, len(cubes))
	for key, payload := range cubes {
		cx, cy, cz := key.Unpack()
		if Of(cx, cy, cz) != pos {
			return fmt.Errorf("cube (%d,%d,%d) is outside region %v", cx, cy, cz, pos)
		}
		list = append(list, cubeEntry{
			index:      index(cx, cy, cz),
			compressed: encoder.EncodeAll(payload, nil),
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].index < list[j].index })

	locations := make([]byte, tableSectors*sectorSize)
	timestamps := make([]byte, tableSectors*sectorSize)
	now := uint32(time.Now().Unix())

	// Each entry: 4 bytes length + 1 byte compression type + compressed data,
	// padded to sector boundary.
	var dataBuf bytes.Buffer
	currentSector := uint32(headerSectors)

	for _, e := range list {
		payloadLen := uint32(len(e.compressed)) + 1 // +1 for compression byte
		totalLen := 4 + payloadLen                  // 4 for the length field itself
		sectorCount := (totalLen + sectorSize - 1) / sectorSize
		if sectorCount > maxEntrySectors {
			return fmt.Errorf("cube entry %d needs %d sectors", e.index, sectorCount)
		}

		// Location entry: (offset << 8) | sectorCount
		off := e.index * 4
		binary.BigEndian.PutUint32(locations[off:off+4], (currentSector<<8)|sectorCount)
		binary.BigEndian.PutUint32(timestamps[off:off+4], now)

		var header [5]byte
		binary.BigEndian.PutUint32(header[0:4], payloadLen)
		header[4] = compressionZstd
		dataBuf.Write(header[:])
		dataBuf.Write(e.compressed)

		if pad := int(sectorCount)*sectorSize - int(totalLen); pad > 0 {
			dataBuf.Write(make([]byte, pad))
		}
		currentSector += sectorCount
	}

	// Write the file atomically.
	path := filepath.Join(dir, pos.FileName())
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp region file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmp)
	}()

	if _, err := f.Write(locations); err != nil {
		return fmt.Errorf("write locations: %w", err)
	}
	if _, err := f.Write(timestamps); err != nil {
		return fmt.Errorf("write timestamps: %w", err)
	}
	if _, err := f.Write(dataBuf.Bytes()); err != nil {
		return fmt.Errorf("write cube data: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close region file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename region file: %w", err)
	}
	return nil
}

// Load reads the region file for pos in dir and returns the uncompressed
// payload of every cube it holds.
func Load(dir string, pos Pos) (map[coord.CubeKey][]byte, error) {
	path := filepath.Join(dir, pos.FileName())
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read region: %w", err)
	}
	if len(data) < headerSectors*sectorSize {
		return nil, fmt.Errorf("%s: short header: %w", path, ErrCorrupt)
	}

	cubes := make(map[coord.CubeKey][]byte)
	for i := 0; i < entries; i++ {
		loc := binary.BigEndian.Uint32(data[i*4 : i*4+4])
		if loc == 0 {
			continue
		}
		start := int(loc>>8) * sectorSize
		end := start + int(loc&0xFF)*sectorSize
		if start < headerSectors*sectorSize || end > len(data) || end-start < 5 {
			return nil, fmt.Errorf("%s: entry %d: bad location: %w", path, i, ErrCorrupt)
		}

		length := int(binary.BigEndian.Uint32(data[start : start+4]))
		if length < 1 || start+4+length > end {
			return nil, fmt.Errorf("%s: entry %d: bad length: %w", path, i, ErrCorrupt)
		}
		if data[start+4] != compressionZstd {
			return nil, fmt.Errorf("%s: entry %d: compression %d: %w", path, i, data[start+4], ErrCorrupt)
		}
		payload, err := decoder.DecodeAll(data[start+5:start+4+length], nil)
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w: %w", path, i, ErrCorrupt, err)
		}

		cx := pos.X*Size + i%Size
		cz := pos.Z*Size + (i/Size)%Size
		cy := pos.Y*Size + i/(Size*Size)
		key, err := coord.PackCube(cx, cy, cz)
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w", path, i, err)
		}
		cubes[key] = payload
	}
	return cubes, nil
}

// List returns the regions stored in dir.
func List(dir string) ([]Pos, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "r.*"+ext))
	if err != nil {
		return nil, err
	}
	var out []Pos
	for _, m := range matches {
		var p Pos
		if _, err := fmt.Sscanf(filepath.Base(m), "r.%d.%d.%d"+ext, &p.X, &p.Y, &p.Z); err != nil {
			continue
		}
		if p.FileName() != filepath.Base(m) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	return out, nil
}
