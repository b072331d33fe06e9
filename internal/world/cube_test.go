package world

import (
	"testing"

	"github.com/DinnerBuffet/CubicChunks/pkg/world/gen"
)

func TestCubeSetBlockMarksDirty(t *testing.T) {
	c := newCube(1, 2, 3)
	if c.Dirty() {
		t.Fatal("new cube should be clean")
	}

	c.SetBlock(0, 0, 0, 0)
	if c.Dirty() {
		t.Error("setting an unchanged block should not mark the cube dirty")
	}

	c.SetBlock(4, 5, 6, gen.StateStone)
	if got := c.GetBlock(4, 5, 6); got != gen.StateStone {
		t.Errorf("GetBlock(4,5,6) = %d, want %d", got, gen.StateStone)
	}
	if !c.Dirty() {
		t.Error("SetBlock should mark the cube dirty")
	}
	_, _, rev := c.Snapshot()
	if !c.MarkClean(rev) {
		t.Error("MarkClean at the current revision should succeed")
	}
	if c.Dirty() {
		t.Error("MarkClean should clear the dirty flag")
	}
}

func TestCubeMarkCleanStaleRevision(t *testing.T) {
	c := newCube(0, 0, 0)
	c.SetBlock(1, 1, 1, gen.StateDirt)
	blocks, _, rev := c.Snapshot()

	c.SetBlock(2, 2, 2, gen.StateStone)
	if c.MarkClean(rev) {
		t.Error("MarkClean should refuse a revision older than the last change")
	}
	if !c.Dirty() {
		t.Error("cube changed after the snapshot must stay dirty")
	}
	if got := blocks.GetBlock(2, 2, 2); got != 0 {
		t.Errorf("snapshot block (2,2,2) = %d, want 0", got)
	}
}

func TestCubeAdvanceTo(t *testing.T) {
	c := newCube(0, 0, 0)
	if c.Stage() != gen.FirstStage() {
		t.Fatalf("new cube stage = %s, want %s", c.Stage(), gen.FirstStage())
	}
	if !c.AdvanceTo(gen.StageFeatures) {
		t.Error("AdvanceTo(features) should move a terrain cube")
	}
	if c.AdvanceTo(gen.StageSurface) {
		t.Error("AdvanceTo(surface) should not move a features cube backward")
	}
	if c.AdvanceTo(gen.StageFeatures) {
		t.Error("AdvanceTo(current stage) should report false")
	}
	if c.Stage() != gen.StageFeatures {
		t.Errorf("stage = %s, want features", c.Stage())
	}
}

func TestCubeKey(t *testing.T) {
	c := newCube(-3, 7, 12)
	x, y, z := c.Key().Unpack()
	if x != -3 || y != 7 || z != 12 {
		t.Errorf("Key().Unpack() = (%d, %d, %d), want (-3, 7, 12)", x, y, z)
	}
}
