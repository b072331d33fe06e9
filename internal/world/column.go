package world

import (
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/DinnerBuffet/CubicChunks/pkg/coord"
	"github.com/DinnerBuffet/CubicChunks/pkg/world/gen"
)

// cubeFactory builds a cube that is not yet owned by any column.
type cubeFactory func(x, y, z int, forceGenerate bool) *Cube

// Column is the vertical stack of cubes at one (x, z) coordinate.
type Column struct {
	x, z    int
	blank   bool
	factory cubeFactory

	mu     sync.RWMutex
	cubes  map[int]*Cube
	loaded atomic.Bool

	// creating deduplicates concurrent creation of the same height.
	creating singleflight.Group
}

func newColumn(x, z int, factory cubeFactory) *Column {
	return &Column{
		x:       x,
		z:       z,
		factory: factory,
		cubes:   make(map[int]*Cube),
	}
}

// newBlankColumn creates the placeholder returned for columns that have not
// been materialized. It never holds cubes.
func newBlankColumn() *Column {
	return &Column{blank: true}
}

func (c *Column) X() int { return c.x }
func (c *Column) Z() int { return c.z }

// Key returns the packed column coordinate.
func (c *Column) Key() coord.ColumnKey { return coord.MustPackColumn(c.x, c.z) }

// IsBlank reports whether c is the placeholder column.
func (c *Column) IsBlank() bool { return c.blank }

// Loaded reports whether the provider has materialized the column.
func (c *Column) Loaded() bool { return c.loaded.Load() }

// Cube returns the cube at height y if it exists.
func (c *Column) Cube(y int) (*Cube, bool) {
	if c.blank {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	cube, ok := c.cubes[y]
	return cube, ok
}

// Cubes returns the column's cubes ordered by height.
func (c *Column) Cubes() []*Cube {
	if c.blank {
		return nil
	}
	c.mu.RLock()
	cubes := make([]*Cube, 0, len(c.cubes))
	for _, cube := range c.cubes {
		cubes = append(cubes, cube)
	}
	c.mu.RUnlock()

	sort.Slice(cubes, func(i, j int) bool { return cubes[i].y < cubes[j].y })
	return cubes
}

// Len returns the number of cubes in the column.
func (c *Column) Len() int {
	if c.blank {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cubes)
}

// GetOrCreateCube returns the cube at height y, creating it if absent.
// A new cube is shaped by the terrain generator and starts at the first
// generator stage; with forceGenerate it is run through every stage before
// it is returned. An existing cube is returned unchanged.
//
// Concurrent callers for the same height share a single creation, so at most
// one cube ever exists per height. The placeholder column returns a fresh,
// unowned, all-air cube and stays empty.
func (c *Column) GetOrCreateCube(y int, forceGenerate bool) *Cube {
	return c.getOrCreate(y, func(x, y, z int) *Cube {
		return c.factory(x, y, z, forceGenerate)
	})
}

// getOrCreate returns the cube at height y, building it with build if absent.
func (c *Column) getOrCreate(y int, build func(x, y, z int) *Cube) *Cube {
	coord.MustPackCube(c.x, y, c.z)
	if c.blank {
		cube := newCube(c.x, y, c.z)
		cube.stage = gen.LastStage()
		return cube
	}
	if cube, ok := c.Cube(y); ok {
		return cube
	}

	v, _, _ := c.creating.Do(strconv.Itoa(y), func() (any, error) {
		if cube, ok := c.Cube(y); ok {
			return cube, nil
		}

		// Generation runs without holding the column lock.
		cube := build(c.x, y, c.z)

		c.mu.Lock()
		defer c.mu.Unlock()
		if existing, ok := c.cubes[y]; ok {
			return existing, nil
		}
		c.cubes[y] = cube
		return cube, nil
	})
	return v.(*Cube)
}
