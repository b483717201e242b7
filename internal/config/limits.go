package config

import "fmt"

// Limits bounds the resources a run may claim. They stand in for the
// allocation and thread-creation failures a constrained host would report.
type Limits struct {
	MaxWorkers  int `yaml:"max_workers" json:"max_workers"`     // 0 = unlimited
	MaxMemoryMB int `yaml:"max_memory_mb" json:"max_memory_mb"` // budget for input + both output series
}

// bytesPerElement covers one input int and two float64 outputs.
const bytesPerElement = 8 + 8 + 8

// ValidateLimits checks that limits are within acceptable ranges.
func (c *Config) ValidateLimits() error {
	if c.Limits.MaxWorkers < 0 {
		return fmt.Errorf("%w: max_workers must be >= 0", ErrInvalid)
	}
	if c.Limits.MaxMemoryMB < 1 {
		return fmt.Errorf("%w: max_memory_mb must be >= 1", ErrInvalid)
	}
	return nil
}

// MemoryBudgetBytes returns the memory budget in bytes.
func (c *Config) MemoryBudgetBytes() int64 {
	return int64(c.Limits.MaxMemoryMB) * 1024 * 1024
}

// RequiredBytes estimates the storage a run over n elements needs.
func RequiredBytes(n int) int64 {
	return int64(n) * bytesPerElement
}
