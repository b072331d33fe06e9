package gen

// Processor performs the work of one stage transition on a cube.
type Processor interface {
	Process(p Primer, cubeX, cubeY, cubeZ int)
}

// ProcessorFunc adapts a function to a Processor.
type ProcessorFunc func(p Primer, cubeX, cubeY, cubeZ int)

func (f ProcessorFunc) Process(p Primer, cubeX, cubeY, cubeZ int) { f(p, cubeX, cubeY, cubeZ) }

// Pipeline shapes new cubes and advances them stage by stage.
// steps[s] runs when a cube leaves stage s.
type Pipeline struct {
	terrain TerrainGenerator
	steps   [StageLive][]Processor
}

// NewPipeline creates a pipeline that shapes cubes with terrain and runs no
// processors until some are registered with Add.
func NewPipeline(terrain TerrainGenerator) *Pipeline {
	return &Pipeline{terrain: terrain}
}

// NewDefaultPipeline wires the default generator with surface, cave, ore and
// decoration processors.
func NewDefaultPipeline(seed int64) *Pipeline {
	terrain := NewDefaultGenerator(seed)
	return NewPipeline(terrain).
		Add(StageTerrain, NewSurfaceProcessor(seed, terrain)).
		Add(StageSurface, NewCaveProcessor(seed, terrain), NewOreProcessor(seed), NewDecorationProcessor(seed, terrain))
}

// NewFlatPipeline creates a superflat pipeline. Flat cubes need no processing
// after shaping.
func NewFlatPipeline(seed int64) *Pipeline {
	return NewPipeline(NewFlatGenerator(seed))
}

// Add registers processors to run when a cube leaves stage from.
// Adding to the terminal stage is a no-op.
func (pl *Pipeline) Add(from Stage, procs ...Processor) *Pipeline {
	if from.IsLast() {
		return pl
	}
	pl.steps[from] = append(pl.steps[from], procs...)
	return pl
}

// Terrain returns the generator used to shape new cubes.
func (pl *Pipeline) Terrain() TerrainGenerator {
	return pl.terrain
}

// Shape fills a new cube with raw terrain. The cube is then at FirstStage.
func (pl *Pipeline) Shape(p Primer, cubeX, cubeY, cubeZ int) {
	pl.terrain.Generate(p, cubeX, cubeY, cubeZ)
}

// Run advances a cube from stage from to stage to, running every processor
// in between in order, and returns the stage reached. It never moves a cube
// backward: if to is not after from, nothing runs and from is returned.
func (pl *Pipeline) Run(p Primer, cubeX, cubeY, cubeZ int, from, to Stage) Stage {
	for s := from; s.Before(to) && !s.IsLast(); s = s.Next() {
		for _, proc := range pl.steps[s] {
			proc.Process(p, cubeX, cubeY, cubeZ)
		}
	}
	if to.Before(from) {
		return from
	}
	if to.IsLast() {
		return LastStage()
	}
	return to
}
