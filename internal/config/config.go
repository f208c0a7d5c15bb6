// Package config loads the framebatch command configuration from YAML.
package config

import (
	"github.com/rs/zerolog"

	"github.com/MasterOfBinary/framebatch/batch"
)

// Tick source kinds.
const (
	TickLoop  = "loop"
	TickTimer = "timer"
)

// Config is the root configuration structure.
type Config struct {
	TargetFPS              float64    `yaml:"target_fps"`
	BatchMode              bool       `yaml:"batch_mode"`
	InitialIntervalPerItem float64    `yaml:"initial_interval_per_item"`
	LogLevel               string     `yaml:"log_level"`
	Tick                   TickConfig `yaml:"tick"`
}

// TickConfig selects the tick source that drives the Scheduler.
type TickConfig struct {
	// Kind is "loop" for a single-goroutine frame loop or "timer" for
	// independent timers.
	Kind string `yaml:"kind"`

	// FPS is the rate of the tick source, which may differ from the target
	// frame rate batches are sized for.
	FPS float64 `yaml:"fps"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		TargetFPS:              batch.DefaultTargetFPS,
		InitialIntervalPerItem: batch.InitialIntervalPerItem,
		LogLevel:               zerolog.InfoLevel.String(),
		Tick: TickConfig{
			Kind: TickLoop,
			FPS:  60,
		},
	}
}

// ToValues converts the configuration to Scheduler values.
func (c *Config) ToValues() batch.ConfigValues {
	return batch.ConfigValues{
		TargetFPS:              c.TargetFPS,
		InitialIntervalPerItem: c.InitialIntervalPerItem,
	}
}

// Level returns the parsed log level, or info if it is not valid.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
