package protocell

import (
	"context"
	"sync"
	"time"
)

// Runner drives a Simulation on a ticker and publishes censuses. Ticks and
// census reads are serialized.
type Runner struct {
	mu     sync.Mutex
	sim    *Simulation
	latest Census
}

// NewRunner wraps sim.
func NewRunner(sim *Simulation) *Runner {
	return &Runner{sim: sim, latest: sim.Census()}
}

// Step advances the simulation once and returns the new census.
func (r *Runner) Step() Census {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sim.Step()
	r.latest = r.sim.Census()
	return r.latest
}

// Snapshot returns the census of the last completed tick.
func (r *Runner) Snapshot() Census {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}

// Run steps every interval until ctx ends. onTick, when set, receives each
// census outside the lock.
func (r *Runner) Run(ctx context.Context, interval time.Duration, onTick func(Census)) error {
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c := r.Step()
			if onTick != nil {
				onTick(c)
			}
		}
	}
}
