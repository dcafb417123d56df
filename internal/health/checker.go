// Package health проверяет доступность зависимостей и публикует результат через gRPC health.
package health

import (
	"context"
	"sync"
	"time"
)

// Статусы проверок.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// DefaultProbeTimeout время ожидания одной проверки.
const DefaultProbeTimeout = 2 * time.Second

// Probe проверяет одну зависимость.
type Probe func(ctx context.Context) error

type namedProbe struct {
	name  string
	probe Probe
}

// Checker объединяет именованные проверки.
type Checker struct {
	timeout time.Duration
	probes  []namedProbe
}

// NewChecker создает Checker. timeout <= 0 означает DefaultProbeTimeout.
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Checker{timeout: timeout}
}

// Add добавляет проверку.
func (c *Checker) Add(name string, probe Probe) *Checker {
	c.probes = append(c.probes, namedProbe{name: name, probe: probe})
	return c
}

// CheckResult результат одной проверки.
type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report результат всех проверок.
type Report struct {
	Healthy bool                   `json:"healthy"`
	Checks  map[string]CheckResult `json:"checks"`
}

// Check выполняет все проверки параллельно.
func (c *Checker) Check(ctx context.Context) Report {
	report := Report{Healthy: true, Checks: make(map[string]CheckResult, len(c.probes))}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, p := range c.probes {
		wg.Add(1)
		go func() {
			defer wg.Done()

			probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			result := CheckResult{Status: StatusOK}
			if err := p.probe(probeCtx); err != nil {
				result = CheckResult{Status: StatusError, Error: err.Error()}
			}

			mu.Lock()
			defer mu.Unlock()
			report.Checks[p.name] = result
			if result.Status != StatusOK {
				report.Healthy = false
			}
		}()
	}
	wg.Wait()

	return report
}
