package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// Validate checks the values of a Config and reports every problem found.
func Validate(cfg *Config) error {
	var errs []error

	if !(cfg.TargetFPS > 0) || math.IsInf(cfg.TargetFPS, 0) {
		errs = append(errs, fmt.Errorf("config: target_fps must be positive, got %v", cfg.TargetFPS))
	}

	if cfg.InitialIntervalPerItem < 0 || math.IsNaN(cfg.InitialIntervalPerItem) {
		errs = append(errs, fmt.Errorf("config: initial_interval_per_item cannot be negative, got %v", cfg.InitialIntervalPerItem))
	}

	if cfg.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
			errs = append(errs, fmt.Errorf("config: log_level: %w", err))
		}
	}

	errs = append(errs, validateTick(cfg.Tick)...)

	return errors.Join(errs...)
}

func validateTick(tick TickConfig) []error {
	var errs []error

	switch tick.Kind {
	case TickLoop, TickTimer:
	case "":
		errs = append(errs, errors.New("config: tick.kind is required"))
	default:
		errs = append(errs, fmt.Errorf("config: tick.kind must be %q or %q, got %q", TickLoop, TickTimer, tick.Kind))
	}

	if !(tick.FPS > 0) {
		errs = append(errs, fmt.Errorf("config: tick.fps must be positive, got %v", tick.FPS))
	}

	return errs
}
