package gen

import "testing"

func TestPipelineRunsStepsInOrder(t *testing.T) {
	var calls []string
	record := func(name string) Processor {
		return ProcessorFunc(func(Primer, int, int, int) { calls = append(calls, name) })
	}

	pl := NewPipeline(NewFlatGenerator(0)).
		Add(StageTerrain, record("surface")).
		Add(StageSurface, record("caves"), record("ores")).
		Add(StageFeatures, record("finish")).
		Add(StageLive, record("never"))

	var b Blocks
	got := pl.Run(&b, 0, 0, 0, StageTerrain, StageFeatures)
	if got != StageFeatures {
		t.Fatalf("Run to features = %s, want features", got)
	}
	want := []string{"surface", "caves", "ores"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}

	calls = nil
	if got := pl.Run(&b, 0, 0, 0, StageFeatures, LastStage()); got != StageLive {
		t.Fatalf("Run to live = %s, want live", got)
	}
	if len(calls) != 1 || calls[0] != "finish" {
		t.Errorf("calls = %v, want [finish]", calls)
	}
}

func TestPipelineNeverMovesBackward(t *testing.T) {
	ran := false
	pl := NewPipeline(NewFlatGenerator(0)).
		Add(StageTerrain, ProcessorFunc(func(Primer, int, int, int) { ran = true }))

	var b Blocks
	if got := pl.Run(&b, 0, 0, 0, StageFeatures, StageTerrain); got != StageFeatures {
		t.Errorf("Run backward = %s, want features", got)
	}
	if got := pl.Run(&b, 0, 0, 0, StageSurface, StageSurface); got != StageSurface {
		t.Errorf("Run to same stage = %s, want surface", got)
	}
	if ran {
		t.Error("no processor should run when the target is not ahead")
	}
}

func TestDefaultPipelineDeterministic(t *testing.T) {
	run := func() Blocks {
		pl := NewDefaultPipeline(2024)
		var b Blocks
		pl.Shape(&b, 2, 4, -7)
		pl.Run(&b, 2, 4, -7, FirstStage(), LastStage())
		return b
	}
	if run() != run() {
		t.Fatal("default pipeline is not deterministic")
	}
}

func TestSurfaceProcessorCapsStone(t *testing.T) {
	const seed = 5
	pl := NewDefaultPipeline(seed)
	terrain := pl.Terrain().(*DefaultGenerator)

	// Find a cube containing the surface at (0, 0).
	cy := terrain.HeightAt(0, 0) >> 4
	var b Blocks
	pl.Shape(&b, 0, cy, 0)
	pl.Run(&b, 0, cy, 0, StageTerrain, StageSurface)

	// The topmost solid block of each surface column must not be bare stone
	// unless the column is a mountain peak.
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			for y := 14; y >= 0; y-- {
				top := b.GetBlock(x, y, z)
				above := b.GetBlock(x, y+1, z)
				if top == blockAir<<4 || top == blockWater<<4 {
					continue
				}
				if above != blockAir<<4 && above != blockWater<<4 {
					continue
				}
				biome := terrain.BiomeAt(x, z)
				if top == blockStone<<4 && biome != biomeMountains {
					t.Fatalf("bare stone surface at (%d,%d,%d) in biome %v", x, cy*16+y, z, biome)
				}
				break
			}
		}
	}
}

func TestOreProcessorOnlyReplacesStone(t *testing.T) {
	op := NewOreProcessor(3)
	var b Blocks
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			for y := 0; y < 8; y++ {
				b.SetBlock(x, y, z, blockStone<<4)
			}
		}
	}
	for cy := -4; cy < 0; cy++ {
		op.Process(&b, 0, cy, 0)
	}
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			for y := 8; y < 16; y++ {
				if s := b.GetBlock(x, y, z); s != blockAir<<4 {
					t.Fatalf("ore placed in air at (%d,%d,%d): %d", x, y, z, s)
				}
			}
		}
	}
}
