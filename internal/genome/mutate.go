package genome

import (
	"math"

	"protocell/internal/chem"
	"protocell/internal/core"
	"protocell/internal/enzyme"
)

const (
	defaultMutationRate = 0.05
	minReproThreshold   = 0.01
	minDecayTime        = 50
	minTempStress       = 0.001
)

// Mutate perturbs g in place. It is applied to a child's cloned genome only.
func Mutate(g *Genome, rng *core.RNG) {
	rate := g.MutationRate
	if rate <= 0 {
		rate = defaultMutationRate
	}
	if g.OptimalTemp == nil {
		t := 0.5
		if len(g.Enzymes) > 0 {
			t = g.Enzymes[0].TOpt
		}
		g.OptimalTemp = &t
	}

	if rng.Chance(rate) {
		g.ReproThreshold *= 1 + rng.Jitter(0.2)
	}
	if rng.Chance(rate) {
		g.DecayTime = math.Round(g.DecayTime * (1 + rng.Jitter(0.2)))
	}
	if rng.Chance(rate) {
		g.DefaultSecretionProb = clamp01(g.DefaultSecretionProb + rng.Jitter(0.2))
	}
	if rng.Chance(rate * 0.5) {
		g.TempStressFactor = math.Max(minTempStress, g.TempStressFactor*(1+rng.Jitter(0.3)))
	}
	*g.OptimalTemp = biasedPerturb(*g.OptimalTemp, 0.1, rng)

	kinds := enzyme.KnownKinds()
	for i := range g.Enzymes {
		if !rng.Chance(rate) {
			continue
		}
		en := &g.Enzymes[i]
		if rng.Chance(rate) {
			en.Affinity.Strengthen(chem.Element(rng.IntN(chem.NumElements)), rng.Float64())
		}
		if rng.Chance(rate * 0.2) {
			en.Kind = enzyme.KindFromName(kinds[rng.IntN(len(kinds))])
		}
		if rng.Chance(rate) {
			en.PHOpt = clamp01(en.PHOpt + rng.Jitter(0.2))
		}
		if rng.Chance(rate) {
			base := 0.5
			if en.SecretionProb != nil {
				base = *en.SecretionProb
			}
			p := clamp01(base + rng.Jitter(0.2))
			en.SecretionProb = &p
		}
	}

	switch {
	case rng.Chance(rate*0.3) && len(g.Enzymes) > 0:
		i := rng.IntN(len(g.Enzymes))
		g.Enzymes = append(g.Enzymes[:i], g.Enzymes[i+1:]...)
	case rng.Chance(rate*0.3) && len(g.Enzymes) < MaxEnzymes:
		g.Enzymes = append(g.Enzymes, randomEnzyme(kinds[rng.IntN(len(kinds))], *g.OptimalTemp, rng))
	}

	for i := range g.Enzymes {
		g.Enzymes[i].TOpt = *g.OptimalTemp
	}
	g.ReproThreshold = math.Max(minReproThreshold, g.ReproThreshold)
	g.DecayTime = math.Max(minDecayTime, g.DecayTime)
}

func randomEnzyme(kind string, tOpt float64, rng *core.RNG) enzyme.Enzyme {
	e := enzyme.New(kind, tOpt, rng.Float64())
	for _, el := range []chem.Element{chem.A, chem.B, chem.C, chem.D} {
		e.Affinity.Strengthen(el, rng.Float64())
	}
	p := rng.Float64()
	e.SecretionProb = &p
	return e
}

// biasedPerturb leaves v unchanged half the time, otherwise nudges it by up
// to maxDelta in either direction.
func biasedPerturb(v, maxDelta float64, rng *core.RNG) float64 {
	r := rng.Float64()
	if r < 0.5 {
		return clamp01(v)
	}
	delta := maxDelta * rng.Float64()
	if r < 0.75 {
		return clamp01(v - delta)
	}
	return clamp01(v + delta)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
