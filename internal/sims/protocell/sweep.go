package protocell

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Variant is one point of a parameter sweep, expressed as config overrides.
type Variant struct {
	Name      string            `yaml:"name"`
	Overrides map[string]string `yaml:"set"`
}

// SweepResult is the final census of one variant.
type SweepResult struct {
	Variant string `json:"variant"`
	Census  Census `json:"census"`
}

// Sweep runs every variant for ticks steps in its own world, at most workers
// at a time. Results keep variant order.
func Sweep(ctx context.Context, base Config, variants []Variant, ticks, workers int) ([]SweepResult, error) {
	if workers < 1 {
		workers = 1
	}
	configs := make([]Config, len(variants))
	for i, v := range variants {
		cfg := base
		if err := cfg.Apply(v.Overrides); err != nil {
			return nil, fmt.Errorf("variant %s: %w", v.Name, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("variant %s: %w", v.Name, err)
		}
		configs[i] = cfg
	}

	results := make([]SweepResult, len(variants))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, v := range variants {
		g.Go(func() error {
			sim := New(configs[i])
			for t := 0; t < ticks; t++ {
				if t%64 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				sim.Step()
			}
			results[i] = SweepResult{Variant: v.Name, Census: sim.Census()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// GridVariants expands key → values into the cartesian product of
// overrides, named like "a=1,b=2".
func GridVariants(axes map[string][]string) []Variant {
	keys := slices.Sorted(maps.Keys(axes))
	out := []Variant{{Overrides: map[string]string{}}}
	for _, k := range keys {
		var next []Variant
		for _, v := range out {
			for _, val := range axes[k] {
				ov := maps.Clone(v.Overrides)
				ov[k] = val
				next = append(next, Variant{Overrides: ov})
			}
		}
		out = next
	}
	for i := range out {
		name := ""
		for j, k := range keys {
			if j > 0 {
				name += ","
			}
			name += k + "=" + out[i].Overrides[k]
		}
		out[i].Name = name
	}
	return out
}
