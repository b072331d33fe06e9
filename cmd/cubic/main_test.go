package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/DinnerBuffet/CubicChunks/internal/config"
	"github.com/DinnerBuffet/CubicChunks/internal/storage"
	"github.com/DinnerBuffet/CubicChunks/pkg/world/gen"
	"github.com/DinnerBuffet/CubicChunks/pkg/world/region"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.GeneratorType = "flat"
	cfg.Seed = 5
	cfg.PregenRadius = 1
	cfg.PregenY = 0
	cfg.Workers = 2
	cfg.WorldDir = filepath.Join(t.TempDir(), "world")
	return cfg
}

func TestRunGeneratesAndExports(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t)
	exportDir := t.TempDir()

	if err := run(ctx, cfg, runOptions{exportDir: exportDir}, log); err != nil {
		t.Fatalf("run: %v", err)
	}

	store, err := storage.Open(ctx, cfg.WorldDir, log)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	n, err := store.CountCubes(ctx)
	if err != nil {
		t.Fatalf("CountCubes: %v", err)
	}
	if n != 27 {
		t.Errorf("stored %d cubes, want 27", n)
	}

	regions, err := region.List(exportDir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	// Cubes -1..1 on each axis span two regions per axis.
	if len(regions) != 8 {
		t.Errorf("exported %d regions, want 8", len(regions))
	}
}

func TestRunRejectsDifferentSeed(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t)

	if err := run(ctx, cfg, runOptions{}, log); err != nil {
		t.Fatalf("first run: %v", err)
	}
	cfg.Seed = 6
	if err := run(ctx, cfg, runOptions{}, log); !errors.Is(err, storage.ErrMismatch) {
		t.Errorf("run with another seed = %v, want ErrMismatch", err)
	}
}

func TestRunDefaultsRunEveryStage(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := config.DefaultConfig()
	cfg.Seed = 5
	cfg.PregenRadius = 0
	cfg.Workers = 1
	cfg.WorldDir = filepath.Join(t.TempDir(), "world")

	// Pick the cube holding the surface so the later stages have work to do.
	pl := gen.NewDefaultPipeline(cfg.Seed)
	cfg.PregenY = pl.Terrain().HeightAt(0, 0) >> 4

	if err := run(ctx, cfg, runOptions{}, log); err != nil {
		t.Fatalf("run: %v", err)
	}

	store, err := storage.Open(ctx, cfg.WorldDir, log)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	got, err := store.LoadCube(ctx, 0, cfg.PregenY, 0)
	if err != nil || got == nil {
		t.Fatalf("LoadCube = %v, %v", got, err)
	}
	if got.Stage != gen.StageLive {
		t.Errorf("stored stage = %v, want live", got.Stage)
	}

	var shaped gen.Blocks
	pl.Shape(&shaped, 0, cfg.PregenY, 0)
	full := shaped
	pl.Run(&full, 0, cfg.PregenY, 0, gen.FirstStage(), gen.LastStage())
	if got.Blocks != full {
		t.Error("stored cube does not match a fully generated cube")
	}
	if got.Blocks == shaped {
		t.Error("stored cube is only shaped; later stages never ran")
	}
}
