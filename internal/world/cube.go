package world

import (
	"sync"

	"github.com/DinnerBuffet/CubicChunks/pkg/coord"
	"github.com/DinnerBuffet/CubicChunks/pkg/world/gen"
)

// Cube is one 16×16×16 block of the world, owned by its Column.
// Its generator stage only ever moves forward.
type Cube struct {
	x, y, z int

	mu     sync.RWMutex
	blocks gen.Blocks
	stage  gen.Stage
	dirty  bool
	// rev counts modifications so a save can tell whether the cube changed
	// after it was snapshotted.
	rev uint64
}

func newCube(x, y, z int) *Cube {
	return &Cube{x: x, y: y, z: z, stage: gen.FirstStage()}
}

// Coords returns the cube coordinates.
func (c *Cube) Coords() (x, y, z int) { return c.x, c.y, c.z }

func (c *Cube) X() int { return c.x }
func (c *Cube) Y() int { return c.y }
func (c *Cube) Z() int { return c.z }

// Key returns the packed cube coordinate.
func (c *Cube) Key() coord.CubeKey { return coord.MustPackCube(c.x, c.y, c.z) }

// Stage returns the cube's current generator stage.
func (c *Cube) Stage() gen.Stage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stage
}

// AdvanceTo moves the cube to stage s without running any generation.
// It reports false, leaving the stage unchanged, unless s is ahead.
func (c *Cube) AdvanceTo(s gen.Stage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advanceLocked(s)
}

func (c *Cube) advanceLocked(s gen.Stage) bool {
	if !c.stage.Before(s) {
		return false
	}
	c.stage = s
	c.touch()
	return true
}

// GetBlock returns the block state at local coordinates in [0,16).
func (c *Cube) GetBlock(x, y, z int) uint16 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks.GetBlock(x, y, z)
}

// SetBlock stores a block state at local coordinates in [0,16).
func (c *Cube) SetBlock(x, y, z int, state uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.blocks.GetBlock(x, y, z) == state {
		return
	}
	c.blocks.SetBlock(x, y, z, state)
	c.touch()
}

func (c *Cube) touch() {
	c.dirty = true
	c.rev++
}

// Blocks returns a copy of the cube's block data.
func (c *Cube) Blocks() gen.Blocks {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks
}

// IsEmpty reports whether every block is air.
func (c *Cube) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks.IsEmpty()
}

// Dirty reports whether the cube changed since it was last stored.
func (c *Cube) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

// Snapshot returns a consistent copy of the cube's blocks and stage along
// with the revision they were taken at.
func (c *Cube) Snapshot() (blocks gen.Blocks, stage gen.Stage, rev uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks, c.stage, c.rev
}

// MarkClean clears the dirty flag if the cube has not changed since the
// snapshot taken at rev. It reports whether the flag was cleared.
func (c *Cube) MarkClean(rev uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rev != rev {
		return false
	}
	c.dirty = false
	return true
}

// generate runs pl from the cube's stage up to target under the cube lock and
// reports whether the stage moved.
func (c *Cube) generate(pl *gen.Pipeline, target gen.Stage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stage.Before(target) {
		return false
	}
	reached := pl.Run(&c.blocks, c.x, c.y, c.z, c.stage, target)
	return c.advanceLocked(reached)
}
