package world

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/DinnerBuffet/CubicChunks/pkg/coord"
	"github.com/DinnerBuffet/CubicChunks/pkg/world/gen"
)

// LivePolicy decides what stage ProvideCube leaves a newly created cube in.
type LivePolicy int

const (
	// LiveStamp marks new cubes as live without running the stages after
	// shaping. Suits consumers that need a usable cube immediately.
	LiveStamp LivePolicy = iota
	// LiveGenerate runs every stage synchronously before returning.
	LiveGenerate
	// LiveDeferred leaves new cubes at the first stage so a Populator can
	// advance them in the background.
	LiveDeferred
)

var livePolicyNames = [...]string{
	LiveStamp:    "stamp",
	LiveGenerate: "generate",
	LiveDeferred: "deferred",
}

func (p LivePolicy) String() string {
	if int(p) < len(livePolicyNames) {
		return livePolicyNames[p]
	}
	return "unknown"
}

// ParseLivePolicy returns the policy with the given name.
func ParseLivePolicy(name string) (LivePolicy, bool) {
	for i, n := range livePolicyNames {
		if n == name {
			return LivePolicy(i), true
		}
	}
	return 0, false
}

// StoredCube is a cube payload held by a CubeSource.
type StoredCube struct {
	Blocks gen.Blocks
	Stage  gen.Stage
}

// CubeSource supplies previously stored cubes. When a source has a cube the
// provider uses it instead of generating one.
type CubeSource interface {
	HasCube(ctx context.Context, x, y, z int) (bool, error)
	// LoadCube returns nil and no error when the cube is not stored.
	LoadCube(ctx context.Context, x, y, z int) (*StoredCube, error)
}

// Options configures a Provider. The zero value generates every cube on
// demand and stamps new cubes live.
type Options struct {
	Live LivePolicy
	// Source, when set, is consulted before generating and backs CubeExists.
	Source CubeSource
	// SkipShaping leaves new cubes empty instead of running the terrain
	// generator.
	SkipShaping bool
	Logger      *slog.Logger
}

// Provider is the coordinate-indexed cache of columns. It creates columns and
// cubes on demand and guarantees one instance per coordinate while cached.
// It is safe for concurrent use.
type Provider struct {
	pipeline *gen.Pipeline
	opts     Options
	log      *slog.Logger

	mu      sync.RWMutex
	columns map[coord.ColumnKey]*Column

	// blank is returned by ProvideColumn for columns not in the cache.
	blank *Column
}

// NewProvider creates an empty Provider generating cubes with pipeline.
func NewProvider(pipeline *gen.Pipeline, opts Options) *Provider {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Provider{
		pipeline: pipeline,
		opts:     opts,
		log:      log,
		columns:  make(map[coord.ColumnKey]*Column),
		blank:    newBlankColumn(),
	}
}

// Pipeline returns the generation pipeline.
func (p *Provider) Pipeline() *gen.Pipeline { return p.pipeline }

// Blank returns the placeholder column.
func (p *Provider) Blank() *Column { return p.blank }

// LoadColumn returns the column at (x, z), creating and caching it if absent.
// It never returns the placeholder.
func (p *Provider) LoadColumn(x, z int) *Column {
	key := coord.MustPackColumn(x, z)

	p.mu.RLock()
	if c, ok := p.columns[key]; ok {
		p.mu.RUnlock()
		return c
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	// Double-check after acquiring write lock.
	if existing, ok := p.columns[key]; ok {
		return existing
	}
	c := newColumn(x, z, p.createCube)
	c.loaded.Store(true)
	p.columns[key] = c
	p.log.Debug("column loaded", "x", x, "z", z)
	return c
}

// ProvideColumn returns the cached column at (x, z), or the placeholder if
// it is not cached. It never changes the cache.
func (p *Provider) ProvideColumn(x, z int) *Column {
	key := coord.MustPackColumn(x, z)

	p.mu.RLock()
	defer p.mu.RUnlock()
	if c, ok := p.columns[key]; ok {
		return c
	}
	return p.blank
}

// CubeExists reports whether a cube can be produced at (x, y, z). Without a
// source every cube can be generated, so it is always true. With a source it
// reports whether the cube is cached or stored.
func (p *Provider) CubeExists(x, y, z int) bool {
	coord.MustPackCube(x, y, z)
	if p.opts.Source == nil {
		return true
	}
	if c := p.ProvideColumn(x, z); !c.IsBlank() {
		if _, ok := c.Cube(y); ok {
			return true
		}
	}
	ok, err := p.opts.Source.HasCube(context.Background(), x, y, z)
	if err != nil {
		p.log.Warn("cube existence check failed", "x", x, "y", y, "z", z, "error", err)
		return false
	}
	return ok
}

// ProvideCube returns the cube at (x, y, z), materializing its column and
// creating the cube if needed. What stage a new cube is left in depends on
// Options.Live. An existing cube is returned unchanged.
func (p *Provider) ProvideCube(x, y, z int) *Cube {
	coord.MustPackCube(x, y, z)
	return p.LoadColumn(x, z).getOrCreate(y, p.createLive)
}

// Advance runs the pipeline on cube up to target and reports whether its
// stage moved. Cubes at or past target are left alone.
func (p *Provider) Advance(cube *Cube, target gen.Stage) bool {
	return cube.generate(p.pipeline, target)
}

// Unload removes the column at (x, z) from the cache and returns it so the
// caller can persist its cubes. The provider itself never evicts.
func (p *Provider) Unload(x, z int) (*Column, bool) {
	key := coord.MustPackColumn(x, z)

	p.mu.Lock()
	c, ok := p.columns[key]
	delete(p.columns, key)
	p.mu.Unlock()

	if ok {
		c.loaded.Store(false)
		p.log.Debug("column unloaded", "x", x, "z", z)
	}
	return c, ok
}

// Len returns the number of cached columns.
func (p *Provider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.columns)
}

// Columns returns the cached columns ordered by x, then z.
func (p *Provider) Columns() []*Column {
	p.mu.RLock()
	cols := make([]*Column, 0, len(p.columns))
	for _, c := range p.columns {
		cols = append(cols, c)
	}
	p.mu.RUnlock()

	sort.Slice(cols, func(i, j int) bool {
		if cols[i].x != cols[j].x {
			return cols[i].x < cols[j].x
		}
		return cols[i].z < cols[j].z
	})
	return cols
}

// createCube builds a cube for a column, preferring stored data.
func (p *Provider) createCube(x, y, z int, forceGenerate bool) *Cube {
	cube := newCube(x, y, z)

	if stored := p.loadStored(x, y, z); stored != nil {
		cube.blocks = stored.Blocks
		cube.stage = stored.Stage
	} else {
		if !p.opts.SkipShaping {
			p.pipeline.Shape(&cube.blocks, x, y, z)
		}
		cube.dirty = true
	}

	if forceGenerate {
		cube.generate(p.pipeline, gen.LastStage())
	}
	p.logCreated(cube)
	return cube
}

func (p *Provider) logCreated(c *Cube) {
	if !p.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	attrs := []any{"x", c.x, "y", c.y, "z", c.z, "stage", c.stage}
	if bs, ok := p.pipeline.Terrain().(gen.BiomeSource); ok {
		attrs = append(attrs, "biome", bs.BiomeAt(c.x*16+8, c.z*16+8).String())
	}
	p.log.Debug("cube created", attrs...)
}

// createLive builds a cube for ProvideCube and applies the live policy before
// the cube becomes visible in its column.
func (p *Provider) createLive(x, y, z int) *Cube {
	cube := p.createCube(x, y, z, false)
	switch p.opts.Live {
	case LiveStamp:
		cube.AdvanceTo(gen.LastStage())
	case LiveGenerate:
		cube.generate(p.pipeline, gen.LastStage())
	}
	return cube
}

func (p *Provider) loadStored(x, y, z int) *StoredCube {
	if p.opts.Source == nil {
		return nil
	}
	stored, err := p.opts.Source.LoadCube(context.Background(), x, y, z)
	if err != nil {
		p.log.Warn("load stored cube failed, generating instead", "x", x, "y", y, "z", z, "error", err)
		return nil
	}
	return stored
}
