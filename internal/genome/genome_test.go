package genome

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"protocell/internal/chem"
	"protocell/internal/core"
	"protocell/internal/enzyme"
)

func sampleGenome() *Genome {
	opt := 0.4
	secretion := 0.3
	cat := enzyme.New("catabolase", 0.4, 0.5)
	cat.Affinity.Strengthen(chem.A, 1)
	cat.SecretionProb = &secretion
	return &Genome{
		Enzymes:               []enzyme.Enzyme{enzyme.New("anabolase", 0.4, 0.6), cat},
		ReproThreshold:        4,
		InitialEnergy:         2,
		DecayTime:             1500,
		DefaultSecretionProb:  0.15,
		MutationRate:          0.05,
		DesiredElementReserve: 2,
		TempStressFactor:      0.02,
		OptimalTemp:           &opt,
		MaintenanceCostPerSec: 0.05,
		LineageID:             7,
	}
}

func TestCloneIsDeep(t *testing.T) {
	g := sampleGenome()
	c := g.Clone()
	*c.OptimalTemp = 0.9
	*c.Enzymes[1].SecretionProb = 1
	c.Enzymes[0].PHOpt = 0
	c.Enzymes = append(c.Enzymes, enzyme.New("transportase", 0, 0))

	assert.Equal(t, 0.4, *g.OptimalTemp)
	assert.Equal(t, 0.3, *g.Enzymes[1].SecretionProb)
	assert.Equal(t, 0.6, g.Enzymes[0].PHOpt)
	assert.Len(t, g.Enzymes, 2)
}

func TestPreferredTempFallsBackToEnzymeMean(t *testing.T) {
	g := sampleGenome()
	g.OptimalTemp = nil
	g.Enzymes[0].TOpt = 0.2
	g.Enzymes[1].TOpt = 0.6
	assert.InDelta(t, 0.4, g.PreferredTemp(), 1e-9)
	g.Enzymes = nil
	assert.Equal(t, 0.5, g.PreferredTemp())
}

func TestMutateKeepsValuesInRange(t *testing.T) {
	rng := core.NewRNG(11)
	g := sampleGenome()
	g.MutationRate = 1
	for i := 0; i < 500; i++ {
		Mutate(g, rng)
		require.GreaterOrEqual(t, g.ReproThreshold, minReproThreshold)
		require.GreaterOrEqual(t, g.DecayTime, float64(minDecayTime))
		require.GreaterOrEqual(t, g.TempStressFactor, minTempStress)
		require.True(t, g.DefaultSecretionProb >= 0 && g.DefaultSecretionProb <= 1)
		require.NotNil(t, g.OptimalTemp)
		require.True(t, *g.OptimalTemp >= 0 && *g.OptimalTemp <= 1)
		require.LessOrEqual(t, len(g.Enzymes), MaxEnzymes)
		for _, e := range g.Enzymes {
			require.Equal(t, *g.OptimalTemp, e.TOpt, "tOpt must track the genome optimum")
			require.True(t, e.PHOpt >= 0 && e.PHOpt <= 1)
			if e.SecretionProb != nil {
				require.True(t, *e.SecretionProb >= 0 && *e.SecretionProb <= 1)
			}
		}
	}
}

func TestMutateLeavesParentUntouched(t *testing.T) {
	parent := sampleGenome()
	parent.MutationRate = 1
	before := parent.Clone()
	child := parent.Clone()
	Mutate(child, core.NewRNG(3))
	if diff := cmp.Diff(before, parent, cmp.Comparer(func(a, b enzyme.Enzyme) bool {
		return a.Name() == b.Name() && a.TOpt == b.TOpt && a.PHOpt == b.PHOpt && a.Affinity == b.Affinity
	})); diff != "" {
		t.Fatalf("parent genome changed (-before +after):\n%s", diff)
	}
}

func TestRandomFactory(t *testing.T) {
	cfg := DefaultFactoryConfig()
	factory := RandomFactory(cfg)
	rng := core.NewRNG(5)
	lineages := map[uint64]bool{}
	for i := 0; i < 50; i++ {
		g := factory(rng)
		require.NoError(t, g.Validate())
		assert.GreaterOrEqual(t, len(g.Enzymes), cfg.EnzymesMin)
		assert.LessOrEqual(t, len(g.Enzymes), cfg.EnzymesMax)
		assert.GreaterOrEqual(t, g.DecayTime, cfg.DecayTime.Min)
		assert.LessOrEqual(t, g.DecayTime, cfg.DecayTime.Max)
		lineages[g.LineageID] = true
	}
	assert.Greater(t, len(lineages), 45, "founders should start distinct lineages")
}

func TestFactoryTemplates(t *testing.T) {
	cfg := DefaultFactoryConfig()
	cfg.Templates = []Genome{*sampleGenome()}
	g := RandomFactory(cfg)(core.NewRNG(1))
	assert.Len(t, g.Enzymes, 2)
	*g.OptimalTemp = 0.99
	assert.Equal(t, 0.4, *cfg.Templates[0].OptimalTemp, "templates must be cloned")
}

func TestGenomeYAMLRoundTrip(t *testing.T) {
	g := sampleGenome()
	data, err := yaml.Marshal(g)
	require.NoError(t, err)

	var back Genome
	require.NoError(t, yaml.Unmarshal(data, &back))
	require.Len(t, back.Enzymes, 2)
	assert.Equal(t, "anabolase", back.Enzymes[0].Name())
	assert.Equal(t, "catabolase", back.Enzymes[1].Name())
	assert.Equal(t, g.Enzymes[1].Affinity, back.Enzymes[1].Affinity)
	assert.Equal(t, 0.3, *back.Enzymes[1].SecretionProb)
	assert.Equal(t, g.DecayTime, back.DecayTime)
	assert.Equal(t, 0.4, *back.OptimalTemp)
	require.NoError(t, back.Validate())
}

func TestGenomeYAMLUnknownKindFailsValidation(t *testing.T) {
	doc := `
enzymes:
  - type: polymerase
    t_opt: 0.5
    ph_opt: 0.5
repro_threshold: 3
decay_time: 1000
`
	var g Genome
	require.NoError(t, yaml.Unmarshal([]byte(doc), &g))
	assert.ErrorIs(t, g.Validate(), enzyme.ErrUnknownKind)
}

func TestValidateRejectsBadScalars(t *testing.T) {
	g := sampleGenome()
	g.DecayTime = 0
	assert.ErrorIs(t, g.Validate(), ErrInvalid)
	g = sampleGenome()
	g.PostDivideMortality = 1.5
	assert.ErrorIs(t, g.Validate(), ErrInvalid)
}
