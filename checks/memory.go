package checks

import (
	"context"
	"fmt"
	"runtime"

	"github.com/jonwraymond/statuscheck/status"
)

// MemoryConfig configures the memory check.
type MemoryConfig struct {
	// WarningThreshold is the heap usage ratio that yields a warning.
	// Value should be between 0 and 1. Default: 0.8 (80%)
	WarningThreshold float64

	// CriticalThreshold is the heap usage ratio that yields critical.
	// Value should be between 0 and 1. Default: 0.95 (95%)
	CriticalThreshold float64

	// Limit is the allocation budget in bytes. If zero, the memory obtained
	// from the OS is used.
	Limit uint64
}

// MemoryCheck reports heap usage of the running process.
type MemoryCheck struct {
	config MemoryConfig
	read   func(*runtime.MemStats)
}

// NewMemoryCheck creates a memory check.
func NewMemoryCheck(config MemoryConfig) *MemoryCheck {
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold >= 1 {
		config.CriticalThreshold = 0.95
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = min(config.WarningThreshold+0.1, 0.99)
	}
	return &MemoryCheck{config: config, read: runtime.ReadMemStats}
}

// Ref returns "memory_usage".
func (m *MemoryCheck) Ref() string { return "memory_usage" }

// Name returns the display name.
func (m *MemoryCheck) Name() string { return "Memory usage" }

// Component returns "runtime".
func (m *MemoryCheck) Component() string { return "runtime" }

// Type returns status.CategoryPerformance.
func (m *MemoryCheck) Type() status.Category { return status.CategoryPerformance }

// Result reads the memory statistics and grades heap usage.
func (m *MemoryCheck) Result(ctx context.Context) (status.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var stats runtime.MemStats
	m.read(&stats)

	limit := m.config.Limit
	if limit == 0 {
		limit = stats.Sys
	}
	if limit == 0 {
		return status.Info("memory statistics unavailable"), nil
	}

	ratio := float64(stats.Alloc) / float64(limit)
	details := fmt.Sprintf("alloc=%d limit=%d heap_objects=%d num_gc=%d goroutines=%d",
		stats.Alloc, limit, stats.HeapObjects, stats.NumGC, runtime.NumGoroutine())

	switch {
	case ratio >= m.config.CriticalThreshold:
		return status.Critical(fmt.Sprintf("memory usage critical: %.1f%%", ratio*100)).WithDetails(details), nil
	case ratio >= m.config.WarningThreshold:
		return status.Warning(fmt.Sprintf("memory usage high: %.1f%%", ratio*100)).WithDetails(details), nil
	default:
		return status.OK(fmt.Sprintf("memory usage normal: %.1f%%", ratio*100)).WithDetails(details), nil
	}
}

var (
	_ status.Check = (*MemoryCheck)(nil)
	_ status.Typed = (*MemoryCheck)(nil)
)
