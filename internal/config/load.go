package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("config.schema.json", schemaJSON)

// EnvPrefix prefixes every environment variable read by LoadEnv.
const EnvPrefix = "CUBIC_"

// LoadFile reads a YAML config file on top of DefaultConfig. Keys missing
// from the file keep their defaults; unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML document on top of DefaultConfig.
func Parse(raw []byte) (*Config, error) {
	if err := CheckDocument(raw); err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// CheckDocument validates a YAML document against the config schema without
// decoding it into a Config.
func CheckDocument(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	// The schema validator expects values shaped like encoding/json output.
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// LoadEnv loads envFile into the process environment if it exists, then
// overrides cfg with any CUBIC_* variables that are set.
func LoadEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var err error
	cfg.Seed, err = getEnvAsInt64("SEED", cfg.Seed)
	if err != nil {
		return err
	}
	cfg.GeneratorType = getEnv("GENERATOR", cfg.GeneratorType)
	cfg.LivePolicy = getEnv("LIVE_POLICY", cfg.LivePolicy)
	if cfg.SkipShaping, err = getEnvAsBool("SKIP_SHAPING", cfg.SkipShaping); err != nil {
		return err
	}
	if cfg.Workers, err = getEnvAsInt("WORKERS", cfg.Workers); err != nil {
		return err
	}
	if cfg.PregenRadius, err = getEnvAsInt("PREGEN_RADIUS", cfg.PregenRadius); err != nil {
		return err
	}
	if cfg.PregenY, err = getEnvAsInt("PREGEN_Y", cfg.PregenY); err != nil {
		return err
	}
	cfg.TargetStage = getEnv("TARGET_STAGE", cfg.TargetStage)
	cfg.WorldDir = getEnv("WORLD_DIR", cfg.WorldDir)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(EnvPrefix + key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s%s=%q: %v", ErrInvalid, EnvPrefix, key, value, err)
	}
	return n, nil
}

func getEnvAsInt64(key string, defaultValue int64) (int64, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s%s=%q: %v", ErrInvalid, EnvPrefix, key, value, err)
	}
	return n, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s%s=%q: %v", ErrInvalid, EnvPrefix, key, value, err)
	}
	return b, nil
}
