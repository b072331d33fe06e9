package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/DinnerBuffet/CubicChunks/pkg/coord"
	"github.com/DinnerBuffet/CubicChunks/pkg/world/gen"
	"github.com/DinnerBuffet/CubicChunks/pkg/world/nbt"
	"github.com/DinnerBuffet/CubicChunks/pkg/world/region"
)

// ExportRegions writes every stored cube to region files in dir and returns
// the number of cubes written.
func (s *Store) ExportRegions(ctx context.Context, dir string) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `SELECT x, y, z, stage, data FROM cubes`)
	if err != nil {
		return 0, fmt.Errorf("query cubes: %w", err)
	}
	defer rows.Close()

	regions := make(map[region.Pos]map[coord.CubeKey][]byte)
	n := 0
	for rows.Next() {
		var (
			r     record
			stage int
			data  []byte
		)
		if err := rows.Scan(&r.x, &r.y, &r.z, &stage, &data); err != nil {
			return 0, fmt.Errorf("scan cube: %w", err)
		}
		if r.stage, err = storedStage(stage); err != nil {
			return 0, fmt.Errorf("cube %d,%d,%d: %w", r.x, r.y, r.z, err)
		}
		if err := s.decodeBlocks(data, &r.blocks); err != nil {
			return 0, fmt.Errorf("cube %d,%d,%d: %w", r.x, r.y, r.z, err)
		}

		payload, err := encodeCubeNBT(&r)
		if err != nil {
			return 0, fmt.Errorf("cube %d,%d,%d: %w", r.x, r.y, r.z, err)
		}
		pos := region.Of(r.x, r.y, r.z)
		if regions[pos] == nil {
			regions[pos] = make(map[coord.CubeKey][]byte)
		}
		regions[pos][coord.MustPackCube(r.x, r.y, r.z)] = payload
		n++
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("query cubes: %w", err)
	}

	for pos, cubes := range regions {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := region.Save(dir, pos, cubes); err != nil {
			return 0, fmt.Errorf("save region %v: %w", pos, err)
		}
	}
	s.log.Info("regions exported", "dir", dir, "regions", len(regions), "cubes", n)
	return n, nil
}

// ImportRegions stores every cube found in the region files in dir,
// replacing cubes already stored at the same coordinates.
func (s *Store) ImportRegions(ctx context.Context, dir string) (int, error) {
	positions, err := region.List(dir)
	if err != nil {
		return 0, fmt.Errorf("list regions: %w", err)
	}

	n := 0
	for _, pos := range positions {
		cubes, err := region.Load(dir, pos)
		if err != nil {
			return n, err
		}
		recs := make([]record, 0, len(cubes))
		for key, payload := range cubes {
			x, y, z := key.Unpack()
			r, err := decodeCubeNBT(payload)
			if err != nil {
				return n, fmt.Errorf("region %v cube %d,%d,%d: %w", pos, x, y, z, err)
			}
			if r.x != x || r.y != y || r.z != z {
				return n, fmt.Errorf("region %v slot %d,%d,%d holds cube %d,%d,%d: %w", pos, x, y, z, r.x, r.y, r.z, ErrCorrupt)
			}
			recs = append(recs, *r)
		}
		if err := s.put(ctx, recs); err != nil {
			return n, err
		}
		n += len(recs)
	}
	s.log.Info("regions imported", "dir", dir, "regions", len(positions), "cubes", n)
	return n, nil
}

// encodeCubeNBT encodes a cube in the section layout: the low eight bits of
// each block ID in Blocks, the metadata nibbles in Data and, only when some
// ID exceeds 255, the high ID nibbles in Add.
func encodeCubeNBT(r *record) ([]byte, error) {
	blocks := make([]byte, gen.BlockCount)
	data := make([]byte, gen.BlockCount/2)
	add := make([]byte, gen.BlockCount/2)
	hasAdd := false

	for i, state := range r.blocks {
		blockID := state >> 4
		blocks[i] = byte(blockID)
		setNibble(data, i, byte(state&0xF))
		if blockID > 255 {
			hasAdd = true
			setNibble(add, i, byte(blockID>>8))
		}
	}

	level := nbt.Compound{
		"x":      int32(r.x),
		"y":      int32(r.y),
		"z":      int32(r.z),
		"Stage":  byte(r.stage),
		"Blocks": blocks,
		"Data":   data,
	}
	if hasAdd {
		level["Add"] = add
	}

	var buf bytes.Buffer
	if err := nbt.Encode(&buf, "", nbt.Compound{"Level": level}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeCubeNBT(payload []byte) (*record, error) {
	_, root, err := nbt.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	level, ok := root.Compound("Level")
	if !ok {
		return nil, fmt.Errorf("missing Level: %w", ErrCorrupt)
	}

	x, okX := level.Int("x")
	y, okY := level.Int("y")
	z, okZ := level.Int("z")
	stage, okS := level.Byte("Stage")
	blocks, okB := level.Bytes("Blocks")
	data, okD := level.Bytes("Data")
	if !okX || !okY || !okZ || !okS || !okB || !okD {
		return nil, fmt.Errorf("missing cube fields: %w", ErrCorrupt)
	}
	if len(blocks) != gen.BlockCount || len(data) != gen.BlockCount/2 {
		return nil, fmt.Errorf("bad section sizes: %w", ErrCorrupt)
	}
	if gen.Stage(stage) > gen.LastStage() {
		return nil, fmt.Errorf("stage %d: %w", stage, ErrCorrupt)
	}
	add, hasAdd := level.Bytes("Add")
	if hasAdd && len(add) != gen.BlockCount/2 {
		return nil, fmt.Errorf("bad Add size: %w", ErrCorrupt)
	}

	r := &record{x: int(x), y: int(y), z: int(z), stage: gen.Stage(stage)}
	for i := range r.blocks {
		blockID := uint16(blocks[i])
		if hasAdd {
			blockID |= uint16(getNibble(add, i)) << 8
		}
		r.blocks[i] = blockID<<4 | uint16(getNibble(data, i))
	}
	return r, nil
}

func setNibble(arr []byte, index int, value byte) {
	if index&1 == 0 {
		arr[index>>1] = (arr[index>>1] & 0xF0) | (value & 0x0F)
	} else {
		arr[index>>1] = (arr[index>>1] & 0x0F) | ((value & 0x0F) << 4)
	}
}

func getNibble(arr []byte, index int) byte {
	if index&1 == 0 {
		return arr[index>>1] & 0x0F
	}
	return arr[index>>1] >> 4
}
