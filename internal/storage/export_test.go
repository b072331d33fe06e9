package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DinnerBuffet/CubicChunks/internal/world"
	"github.com/DinnerBuffet/CubicChunks/pkg/coord"
	"github.com/DinnerBuffet/CubicChunks/pkg/world/gen"
	"github.com/DinnerBuffet/CubicChunks/pkg/world/region"
)

func TestCubeNBTRoundTrip(t *testing.T) {
	r := &record{x: -9, y: 300, z: 4, stage: gen.StageFeatures}
	r.blocks.SetBlock(0, 0, 0, gen.StateStone)
	r.blocks.SetBlock(15, 15, 15, 4095<<4|0xF)
	r.blocks.SetBlock(3, 8, 1, 300<<4|2)

	payload, err := encodeCubeNBT(r)
	if err != nil {
		t.Fatalf("encodeCubeNBT: %v", err)
	}
	got, err := decodeCubeNBT(payload)
	if err != nil {
		t.Fatalf("decodeCubeNBT: %v", err)
	}
	if got.x != r.x || got.y != r.y || got.z != r.z {
		t.Errorf("coords = (%d,%d,%d), want (%d,%d,%d)", got.x, got.y, got.z, r.x, r.y, r.z)
	}
	if got.stage != r.stage {
		t.Errorf("stage = %s, want %s", got.stage, r.stage)
	}
	if got.blocks != r.blocks {
		t.Error("blocks differ after round trip")
	}
}

func TestExportImportRegions(t *testing.T) {
	ctx := context.Background()
	src := openTestStore(t)

	p := world.NewProvider(gen.NewDefaultPipeline(11), world.Options{})
	for x := -1; x <= 1; x++ {
		for y := 3; y <= 5; y++ {
			p.ProvideCube(x, y, 7)
		}
	}
	want := p.ProvideCube(-1, 4, 7).Blocks()
	if _, err := src.SaveProvider(ctx, p); err != nil {
		t.Fatalf("SaveProvider: %v", err)
	}

	dir := t.TempDir()
	n, err := src.ExportRegions(ctx, dir)
	if err != nil {
		t.Fatalf("ExportRegions: %v", err)
	}
	if n != 9 {
		t.Errorf("exported %d cubes, want 9", n)
	}
	regions, err := region.List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	// x=-1 falls in region -1, x=0..1 in region 0.
	if len(regions) != 2 {
		t.Errorf("got %d region files, want 2", len(regions))
	}

	dst := openTestStore(t)
	n, err = dst.ImportRegions(ctx, dir)
	if err != nil {
		t.Fatalf("ImportRegions: %v", err)
	}
	if n != 9 {
		t.Errorf("imported %d cubes, want 9", n)
	}
	stored, err := dst.LoadCube(ctx, -1, 4, 7)
	if err != nil || stored == nil {
		t.Fatalf("LoadCube = %v, %v", stored, err)
	}
	if stored.Blocks != want {
		t.Error("imported cube differs from the exported one")
	}
	if stored.Stage != gen.StageLive {
		t.Errorf("imported stage = %s, want live", stored.Stage)
	}
}

func TestExportRejectsUnknownStage(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	var blocks gen.Blocks
	_, err := s.db.ExecContext(ctx, `INSERT INTO cubes (key, x, y, z, stage, data, updated_at) VALUES (0, 0, 0, 0, 260, ?, 0)`, s.encodeBlocks(&blocks))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.ExportRegions(ctx, t.TempDir()); !errors.Is(err, ErrCorrupt) {
		t.Errorf("ExportRegions error = %v, want ErrCorrupt", err)
	}
}

func TestImportRejectsMisplacedCube(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// The payload says (0,0,0) but sits in the slot for (1,0,0).
	payload, err := encodeCubeNBT(&record{x: 0, y: 0, z: 0, stage: gen.StageLive})
	if err != nil {
		t.Fatalf("encodeCubeNBT: %v", err)
	}
	cubes := map[coord.CubeKey][]byte{coord.MustPackCube(1, 0, 0): payload}
	if err := region.Save(dir, region.Of(1, 0, 0), cubes); err != nil {
		t.Fatalf("region.Save: %v", err)
	}

	s := openTestStore(t)
	if _, err := s.ImportRegions(ctx, dir); !errors.Is(err, ErrCorrupt) {
		t.Errorf("ImportRegions error = %v, want ErrCorrupt", err)
	}
	if n, err := s.CountCubes(ctx); err != nil || n != 0 {
		t.Errorf("CountCubes = %d, %v, want 0", n, err)
	}
}
