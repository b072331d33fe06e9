package gen

import "fmt"

// Stage marks how far a cube has progressed through the generation pipeline.
// Stages are totally ordered and a cube only ever moves forward.
type Stage uint8

const (
	// StageTerrain: density shaping done, surface layers not yet applied.
	StageTerrain Stage = iota
	// StageSurface: biome surface layers applied.
	StageSurface
	// StageFeatures: caves, ores and decorations placed.
	StageFeatures
	// StageLive: fully generated and usable.
	StageLive
)

var stageNames = [...]string{
	StageTerrain:  "terrain",
	StageSurface:  "surface",
	StageFeatures: "features",
	StageLive:     "live",
}

// FirstStage returns the stage a freshly shaped cube starts in.
func FirstStage() Stage { return StageTerrain }

// LastStage returns the terminal stage.
func LastStage() Stage { return StageLive }

// IsLast reports whether s is the terminal stage.
func (s Stage) IsLast() bool { return s >= StageLive }

// Next returns the stage after s. The terminal stage is its own successor.
func (s Stage) Next() Stage {
	if s.IsLast() {
		return StageLive
	}
	return s + 1
}

// Before reports whether s comes strictly earlier than o.
func (s Stage) Before(o Stage) bool { return s < o }

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

// ParseStage returns the stage with the given name.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown generator stage %q", name)
}
