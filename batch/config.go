package batch

import (
	"sync"
	"time"
)

// Config retrieves the config values used by a Scheduler. If these values
// are constant, NewConstantConfig can be used to create an implementation
// of the interface.
//
// Get is called before every batch, so an implementation may retune the
// target frame rate while a Run is in progress.
type Config interface {
	// Get returns the values for configuration.
	//
	// If the config values may be modified during a Run, Get must properly
	// handle concurrency issues.
	Get() ConfigValues
}

// ConfigValues is a struct that contains the Scheduler config values.
type ConfigValues struct {
	// TargetFPS is the frame rate the work should not disturb. Each batch is
	// sized to fit in 1000/TargetFPS milliseconds. Zero or a negative value
	// means DefaultTargetFPS.
	TargetFPS float64 `json:"targetFPS" yaml:"target_fps"`

	// InitialIntervalPerItem seeds the cost estimate, in milliseconds per
	// item. Zero or a negative value means InitialIntervalPerItem. Callers
	// reusing Meta from an earlier Run can pass its IntervalPerItem here.
	InitialIntervalPerItem float64 `json:"initialIntervalPerItem" yaml:"initial_interval_per_item"`
}

// TargetInterval returns the per-tick time budget in milliseconds.
func (c ConfigValues) TargetInterval() float64 {
	return 1000 / c.fps()
}

// FrameDuration returns the per-tick time budget as a time.Duration.
func (c ConfigValues) FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / c.fps())
}

func (c ConfigValues) fps() float64 {
	if c.TargetFPS <= 0 {
		return DefaultTargetFPS
	}
	return c.TargetFPS
}

func (c ConfigValues) initialEstimate() float64 {
	if c.InitialIntervalPerItem <= 0 {
		return InitialIntervalPerItem
	}
	return c.InitialIntervalPerItem
}

// NewConstantConfig returns a Config with constant values. If values is nil,
// the default values are used.
func NewConstantConfig(values *ConfigValues) *ConstantConfig {
	if values == nil {
		return &ConstantConfig{}
	}

	return &ConstantConfig{
		values: *values,
	}
}

// ConstantConfig is a Config with constant values. Create one with
// NewConstantConfig.
type ConstantConfig struct {
	values ConfigValues
}

// Get implements the Config interface.
func (b *ConstantConfig) Get() ConfigValues {
	return b.values
}

// NewDynamicConfig creates a configuration that can be adjusted while Runs
// are in progress. If values is nil, the default values are used.
func NewDynamicConfig(values *ConfigValues) *DynamicConfig {
	if values == nil {
		return &DynamicConfig{}
	}

	return &DynamicConfig{
		values: *values,
	}
}

// DynamicConfig implements the Config interface with values that can be
// modified at runtime. It is safe for concurrent use.
type DynamicConfig struct {
	mu     sync.RWMutex
	values ConfigValues
}

// Get implements the Config interface.
func (c *DynamicConfig) Get() ConfigValues {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values
}

// UpdateTargetFPS changes the frame rate used to size the next batch.
func (c *DynamicConfig) UpdateTargetFPS(fps float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values.TargetFPS = fps
}

// Update replaces all configuration values at once.
func (c *DynamicConfig) Update(values ConfigValues) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = values
}
