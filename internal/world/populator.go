package world

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/DinnerBuffet/CubicChunks/pkg/world/gen"
)

// Populator advances cubes through the generation pipeline on a worker pool.
// Each cube is advanced under its own lock, so a cube submitted twice is
// still processed once per stage.
type Populator struct {
	provider *Provider
	pool     pond.Pool
	log      *slog.Logger
}

// NewPopulator creates a Populator with the given number of workers.
func NewPopulator(provider *Provider, workers int, log *slog.Logger) *Populator {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Populator{
		provider: provider,
		pool:     pond.NewPool(workers),
		log:      log,
	}
}

// Populate advances every cube to target and returns how many cubes moved.
// Cubes not yet started when ctx is cancelled are skipped.
func (pp *Populator) Populate(ctx context.Context, cubes []*Cube, target gen.Stage) (int, error) {
	start := time.Now()
	var advanced atomic.Int64

	group := pp.pool.NewGroup()
	for _, cube := range cubes {
		group.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			if pp.provider.Advance(cube, target) {
				advanced.Add(1)
			}
		})
	}
	if err := group.Wait(); err != nil {
		return int(advanced.Load()), err
	}

	pp.log.Info("cubes populated",
		"requested", len(cubes),
		"advanced", advanced.Load(),
		"target", target,
		"elapsed", time.Since(start),
	)
	return int(advanced.Load()), ctx.Err()
}

// PopulateRegion provides every cube within radius cubes of (cx, cy, cz) on
// all three axes and advances them to target.
func (pp *Populator) PopulateRegion(ctx context.Context, cx, cy, cz, radius int, target gen.Stage) (int, error) {
	side := 2*radius + 1
	cubes := make([]*Cube, 0, side*side*side)
	for x := cx - radius; x <= cx+radius; x++ {
		for z := cz - radius; z <= cz+radius; z++ {
			for y := cy - radius; y <= cy+radius; y++ {
				cubes = append(cubes, pp.provider.ProvideCube(x, y, z))
			}
		}
	}
	return pp.Populate(ctx, cubes, target)
}

// Stop waits for queued work and releases the workers.
func (pp *Populator) Stop() {
	pp.pool.StopAndWait()
}
