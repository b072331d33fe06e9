package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/DinnerBuffet/CubicChunks/internal/world"
	"github.com/DinnerBuffet/CubicChunks/pkg/world/gen"
)

// ErrInvalid is returned when a configuration fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config holds the world host configuration.
type Config struct {
	Seed          int64  `yaml:"seed" json:"seed"`
	GeneratorType string `yaml:"generator" json:"generator" validate:"oneof=default flat"`
	LivePolicy    string `yaml:"live_policy" json:"live_policy" validate:"oneof=stamp generate deferred"`
	SkipShaping   bool   `yaml:"skip_shaping" json:"skip_shaping"`

	Workers      int    `yaml:"workers" json:"workers" validate:"gte=1,lte=256"`
	PregenRadius int    `yaml:"pregen_radius" json:"pregen_radius" validate:"gte=0,lte=32"`
	PregenY      int    `yaml:"pregen_y" json:"pregen_y" validate:"gte=-1048576,lte=1048575"`
	TargetStage  string `yaml:"target_stage" json:"target_stage" validate:"oneof=terrain surface features live"`

	WorldDir string `yaml:"world_dir" json:"world_dir" validate:"required"`
	LogLevel string `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		GeneratorType: "default",
		LivePolicy:    "deferred",
		Workers:       4,
		PregenRadius:  2,
		PregenY:       4,
		TargetStage:   "live",
		WorldDir:      "world",
		LogLevel:      "info",
	}
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["generator"] {
		cfg.GeneratorType = fromFile.GeneratorType
	}
	if !explicitFlags["live"] {
		cfg.LivePolicy = fromFile.LivePolicy
	}
	if !explicitFlags["skip-shaping"] {
		cfg.SkipShaping = fromFile.SkipShaping
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["radius"] {
		cfg.PregenRadius = fromFile.PregenRadius
	}
	if !explicitFlags["y"] {
		cfg.PregenY = fromFile.PregenY
	}
	if !explicitFlags["stage"] {
		cfg.TargetStage = fromFile.TargetStage
	}
	if !explicitFlags["world"] {
		cfg.WorldDir = fromFile.WorldDir
	}
	if !explicitFlags["log-level"] {
		cfg.LogLevel = fromFile.LogLevel
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg field ranges. The returned error wraps ErrInvalid.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.ActualTag(), fe.Value()))
		}
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}

// Pipeline builds the generation pipeline for the configured generator.
func (c *Config) Pipeline() (*gen.Pipeline, error) {
	switch c.GeneratorType {
	case "default":
		return gen.NewDefaultPipeline(c.Seed), nil
	case "flat":
		return gen.NewFlatPipeline(c.Seed), nil
	}
	return nil, fmt.Errorf("%w: unknown generator %q", ErrInvalid, c.GeneratorType)
}

// Live returns the configured live policy.
func (c *Config) Live() (world.LivePolicy, error) {
	p, ok := world.ParseLivePolicy(c.LivePolicy)
	if !ok {
		return 0, fmt.Errorf("%w: unknown live policy %q", ErrInvalid, c.LivePolicy)
	}
	return p, nil
}

// Target returns the stage pre-generated cubes are advanced to.
func (c *Config) Target() (gen.Stage, error) {
	s, err := gen.ParseStage(c.TargetStage)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return s, nil
}
