package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PIXRANK_CONFIG is set
//  3. env (prefix PIXRANK_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("PIXRANK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: PIXRANK_ROUNDS, PIXRANK_K_FACTOR, ...
	// Map env keys like PIXRANK_STATE_FILE -> state_file (flat keys),
	// preserving underscores to match the koanf tags on the struct.
	envProvider := env.Provider("PIXRANK_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "pixrank_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Rounds < 1 {
		return fmt.Errorf("%w: rounds must be at least 1", ErrInvalidConfig)
	}
	if c.KFactor <= 0 {
		return fmt.Errorf("%w: k_factor must be positive", ErrInvalidConfig)
	}
	if c.MaxEdge < 1 {
		return fmt.Errorf("%w: max_edge must be at least 1", ErrInvalidConfig)
	}
	if c.StateFile == "" {
		return fmt.Errorf("%w: state_file must not be empty", ErrInvalidConfig)
	}
	if c.ReportFile == "" {
		return fmt.Errorf("%w: report_file must not be empty", ErrInvalidConfig)
	}
	return nil
}
