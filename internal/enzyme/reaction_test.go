package enzyme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"protocell/internal/chem"
	"protocell/internal/core"
)

var optimum = Environment{Temperature: 0.5, PH: 0.5}

func atOptimum(kind Kind) Enzyme {
	return Enzyme{Kind: kind, TOpt: 0.5, PHOpt: 0.5}
}

func TestSynthesisGatedByEnergy(t *testing.T) {
	e := atOptimum(Anabolase{BondMultiplier: 1.15})
	subs := []*chem.Molecule{
		chem.Simple(map[chem.Element]int{chem.A: 2}),
		chem.Simple(map[chem.Element]int{chem.A: 2}),
	}
	host := Host{Energy: 0.05}

	out := Attempt(e, subs, optimum, host, core.NewRNG(1))
	assert.Nil(t, out, "synthesis costing 0.4 must not run on 0.05 energy")
	assert.Equal(t, 0.05, host.Energy)

	host.Energy = 1
	out = Attempt(e, subs, optimum, host, core.NewRNG(1))
	require.NotNil(t, out)
	assert.InDelta(t, 0.4, out.Debit, 1e-9)
	assert.Zero(t, out.EnergyDelta)
	assert.InDelta(t, -0.3, out.HeatDelta, 1e-9)
	assert.Len(t, out.Consumed, 2)
	require.NotNil(t, out.Product)
	assert.Equal(t, 4, out.Product.Composition.Get(chem.A))
	assert.InDelta(t, 2.3, out.Product.Energy, 1e-9)
	assert.Empty(t, out.Byproducts)
}

func TestSynthesisNeedsTwoSubstrates(t *testing.T) {
	e := atOptimum(Anabolase{BondMultiplier: 1.2})
	subs := []*chem.Molecule{chem.Simple(map[chem.Element]int{chem.B: 1})}
	assert.Nil(t, Attempt(e, subs, optimum, Host{Energy: 10}, core.NewRNG(2)))
}

func TestBreakdownIsProfitable(t *testing.T) {
	e := atOptimum(Catabolase{TransmuteProb: 0, HarvestFraction: 0.85})
	strained := chem.New(chem.Of(map[chem.Element]int{chem.A: 4}), 1.3)
	require.Equal(t, 4, strained.Size)

	for seed := int64(1); seed <= 20; seed++ {
		out := Attempt(e, []*chem.Molecule{strained}, optimum, Host{}, core.NewRNG(seed))
		require.NotNil(t, out, "seed %d", seed)
		assert.Greater(t, out.EnergyDelta, 0.0)
		assert.GreaterOrEqual(t, out.HeatDelta, 0.0)
		assert.Same(t, strained, out.Consumed[0])
		assert.Nil(t, out.Product)
		assert.NotEmpty(t, out.Byproducts)
		assert.LessOrEqual(t, len(out.Byproducts), 2)
		assert.Equal(t, strained.Composition, chem.TotalComposition(out.Byproducts))
		assert.InDelta(t, 0.55, out.RawDelta, 1e-9)
	}
}

func TestZeroKineticsFromYAMLAreHonored(t *testing.T) {
	var cat Enzyme
	require.NoError(t, yaml.Unmarshal([]byte("type: catabolase\nt_opt: 0.5\nph_opt: 0.5\ntransmute_prob: 0\nharvest_fraction: 0\n"), &cat))
	require.NoError(t, cat.Validate())
	assert.Equal(t, Catabolase{TransmuteProb: 0, HarvestFraction: 0}, cat.Kind)

	strained := chem.New(chem.Of(map[chem.Element]int{chem.A: 4}), 1.3)
	out := Attempt(cat, []*chem.Molecule{strained}, optimum, Host{}, core.NewRNG(1))
	require.NotNil(t, out)
	assert.InDelta(t, 0.55, out.RawDelta, 1e-9)
	assert.Zero(t, out.EnergyDelta)
	assert.Zero(t, out.Usable)
	assert.InDelta(t, out.RawDelta, out.HeatDelta, 1e-9)

	var pump Enzyme
	require.NoError(t, yaml.Unmarshal([]byte("type: transportase\nt_opt: 0.5\nph_opt: 0.5\ntransport_rate: 0\n"), &pump))
	require.NoError(t, pump.Validate())
	assert.Equal(t, 0, pump.Kind.(Transportase).Rate)
	tile := []*chem.Molecule{chem.Simple(map[chem.Element]int{chem.A: 2, chem.B: 2})}
	assert.Nil(t, Attempt(pump, nil, optimum, Host{Energy: 1, Tile: tile}, core.NewRNG(1)), "a zero rate moves nothing")

	var defaults Enzyme
	require.NoError(t, yaml.Unmarshal([]byte("type: transportase\nt_opt: 0.5\nph_opt: 0.5\n"), &defaults))
	assert.Equal(t, defaultTransportRate, defaults.Kind.(Transportase).Rate)
}

func TestBreakdownOfUnstrainedMoleculeRejected(t *testing.T) {
	e := atOptimum(Catabolase{HarvestFraction: 0.85})
	plain := chem.Simple(map[chem.Element]int{chem.B: 3})
	assert.Nil(t, Attempt(e, []*chem.Molecule{plain}, optimum, Host{}, core.NewRNG(3)))
}

func TestBreakdownTransmutesHotAtoms(t *testing.T) {
	e := atOptimum(Catabolase{TransmuteProb: 1, HarvestFraction: 0.5})
	hot := chem.Simple(map[chem.Element]int{chem.D: 2, chem.A: 1})
	out := Attempt(e, []*chem.Molecule{hot}, optimum, Host{}, core.NewRNG(4))
	require.NotNil(t, out)
	after := chem.TotalComposition(out.Byproducts)
	assert.Equal(t, 0, after.Get(chem.D))
	assert.Equal(t, 2, after.Get(chem.X))
	assert.InDelta(t, 2*(3.0+0.2), out.TransmutationGain, 1e-9)
	assert.InDelta(t, 0.5*out.RawDelta, out.EnergyDelta, 1e-9)
}

func TestEnergyNeutralRelabelingRejected(t *testing.T) {
	// isomerase costs 0.1; a 1.1 bond multiplier on 1.0 elemental energy
	// releases exactly that, leaving a raw delta inside the noise band.
	e := atOptimum(Generic{Type: "isomerase", TransmuteProb: 0, HarvestFraction: 0.85})
	m := chem.New(chem.Of(map[chem.Element]int{chem.A: 2}), 1.1)
	for seed := int64(1); seed <= 20; seed++ {
		assert.Nil(t, Attempt(e, []*chem.Molecule{m}, optimum, Host{Energy: 5}, core.NewRNG(seed)))
	}
}

func TestGenericDebitsDeficit(t *testing.T) {
	e := atOptimum(Generic{Type: "ligase", HarvestFraction: 0.85})
	subs := []*chem.Molecule{
		chem.Simple(map[chem.Element]int{chem.A: 1}),
		chem.Simple(map[chem.Element]int{chem.B: 1}),
	}
	var out *Outcome
	rng := core.NewRNG(5)
	for i := 0; i < 50 && out == nil; i++ {
		out = Attempt(e, subs, optimum, Host{Energy: 5}, rng)
	}
	require.NotNil(t, out)
	assert.InDelta(t, 1.0, out.Debit, 1e-9)
	assert.Zero(t, out.EnergyDelta)
	assert.Equal(t, chem.TotalComposition(subs), chem.TotalComposition(out.Outputs()))

	assert.Nil(t, Attempt(e, subs, optimum, Host{Energy: 0.5}, core.NewRNG(5)), "ligase must not run on insufficient energy")
}

func TestTransportMovesNutrients(t *testing.T) {
	e := atOptimum(Transportase{Rate: 3, CostPerAtom: 0.01})
	source := chem.Simple(map[chem.Element]int{chem.A: 2, chem.B: 2, chem.D: 1})
	tile := []*chem.Molecule{source}

	out := Attempt(e, nil, optimum, Host{Energy: 1, Tile: tile}, core.NewRNG(6))
	require.NotNil(t, out)
	assert.Equal(t, []*chem.Molecule{source}, out.Consumed)
	imported := chem.TotalComposition(out.Imported)
	assert.Equal(t, 3, imported.Size())
	assert.Zero(t, imported.Get(chem.D))
	assert.Equal(t, source.Composition, imported.Plus(chem.TotalComposition(out.Returned)))
	assert.InDelta(t, 0.05, out.Debit, 1e-9)
	assert.Zero(t, out.HeatDelta)

	assert.Nil(t, Attempt(e, nil, optimum, Host{Energy: 0.01, Tile: tile}, core.NewRNG(6)))
	inert := []*chem.Molecule{chem.Simple(map[chem.Element]int{chem.X: 3})}
	assert.Nil(t, Attempt(e, nil, optimum, Host{Energy: 1, Tile: inert}, core.NewRNG(6)))
}

func TestAffinityFiltersCandidates(t *testing.T) {
	e := atOptimum(Anabolase{BondMultiplier: 1.1})
	e.Affinity.Strengthen(chem.D, 1)
	subs := []*chem.Molecule{
		chem.Simple(map[chem.Element]int{chem.A: 1}),
		chem.Simple(map[chem.Element]int{chem.B: 1}),
	}
	assert.Nil(t, Attempt(e, subs, optimum, Host{Energy: 10}, core.NewRNG(7)))

	cat := atOptimum(Catabolase{HarvestFraction: 0.85})
	cat.Affinity.Strengthen(chem.D, 1)
	strained := chem.New(chem.Of(map[chem.Element]int{chem.B: 2}), 1.4)
	assert.True(t, cat.Accepts(strained), "strained molecules bypass catabolase affinity")
	assert.False(t, cat.Accepts(chem.Simple(map[chem.Element]int{chem.B: 2})))
	assert.False(t, cat.Accepts(chem.New(chem.Composition{}, 2)))
}

func TestInvalidEnzymesFailClosed(t *testing.T) {
	subs := []*chem.Molecule{
		chem.Simple(map[chem.Element]int{chem.A: 1}),
		chem.Simple(map[chem.Element]int{chem.A: 1}),
	}
	cases := []struct {
		name string
		e    Enzyme
		err  error
	}{
		{"unknown kind", atOptimum(Generic{Type: "polymerase"}), ErrUnknownKind},
		{"nil kind", Enzyme{TOpt: 0.5, PHOpt: 0.5}, ErrUnknownKind},
		{"missing bond multiplier", atOptimum(Anabolase{}), ErrInvalidParameter},
		{"t_opt out of range", Enzyme{Kind: Catabolase{}, TOpt: 2, PHOpt: 0.5}, ErrInvalidParameter},
		{"negative transport", atOptimum(Transportase{Rate: -1}), ErrInvalidParameter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.e.Validate(), tc.err)
			assert.Nil(t, Attempt(tc.e, subs, optimum, Host{Energy: 10, Tile: subs}, core.NewRNG(8)))
		})
	}
}

func TestRateFallsOffAwayFromOptimum(t *testing.T) {
	e := atOptimum(Catabolase{})
	cls, ok := ClassFor(e.Kind)
	require.True(t, ok)
	assert.InDelta(t, 1.0, Rate(e, cls, optimum), 1e-9)
	hot := Rate(e, cls, Environment{Temperature: 1.0, PH: 0.5})
	acid := Rate(e, cls, Environment{Temperature: 0.5, PH: 0.0})
	assert.Less(t, hot, 0.1)
	assert.InDelta(t, 0.6065, acid, 1e-3)
}

func TestHeatInvariantHolds(t *testing.T) {
	rng := core.NewRNG(9)
	kinds := []Kind{
		Anabolase{BondMultiplier: 1.3},
		Catabolase{TransmuteProb: 0.5, HarvestFraction: 0.7},
		Transportase{Rate: 4, CostPerAtom: 0.02},
		Generic{Type: "ligase", TransmuteProb: 0.3, HarvestFraction: 0.85},
		Generic{Type: "hydrolase", TransmuteProb: 0.3, HarvestFraction: 0.6},
	}
	seen := 0
	for i := 0; i < 2000; i++ {
		pool := make([]*chem.Molecule, 0, 4)
		for j := 0; j < 4; j++ {
			var comp chem.Composition
			for _, el := range chem.All() {
				comp.Add(el, rng.IntN(3))
			}
			if comp.Empty() {
				comp.Add(chem.A, 1)
			}
			pool = append(pool, chem.New(comp, 1+rng.Float64()))
		}
		e := atOptimum(kinds[i%len(kinds)])
		out := Attempt(e, pool, optimum, Host{Energy: 50, Tile: pool}, rng)
		if out == nil {
			continue
		}
		seen++
		require.InDelta(t, out.RawDelta-out.Usable, out.HeatDelta, 1e-9, "kind %s", out.Enzyme)
		require.GreaterOrEqual(t, out.Debit, 0.0)
		if out.RawDelta > 0 {
			require.LessOrEqual(t, out.Usable, out.RawDelta+1e-12)
		}
	}
	assert.Greater(t, seen, 100)
}
