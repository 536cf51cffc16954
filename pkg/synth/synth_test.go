package synth

import (
	"math"
	"testing"

	"github.com/de-tools/purchase-atlas/pkg/models/domain"
	"github.com/de-tools/purchase-atlas/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSegments = []domain.SegmentSpec{
	{Name: "Low value", Count: 550, Mu: 3.0, Sigma: 0.6, Color: "#7fbf7f"},
	{Name: "Mid value", Count: 450, Mu: 4.2, Sigma: 0.7, Color: "#4a90e2"},
	{Name: "High value", Count: 200, Mu: 5.0, Sigma: 0.9, Color: "#d64545"},
}

func generate(t *testing.T, seed uint64, specs []domain.SegmentSpec) domain.Dataset {
	t.Helper()
	ds, err := New(DefaultOptions()).Generate(NewRand(seed), specs)
	require.NoError(t, err)
	return ds
}

func TestGenerate_SegmentCountsMatchConfig(t *testing.T) {
	ds := generate(t, 42, testSegments)

	assert.Len(t, ds, 1200)
	for _, spec := range testSegments {
		assert.Equal(t, spec.Count, ds.Count(spec.Name), spec.Name)
	}
}

func TestGenerate_AmountsArePositiveAndRounded(t *testing.T) {
	ds := generate(t, 42, testSegments)

	for i, r := range ds {
		require.Greater(t, r.Amount, 0.0, "record %d", i)
		cents := r.Amount * 100
		assert.InDelta(t, math.Round(cents), cents, 1e-6, "record %d not rounded: %v", i, r.Amount)
	}
}

func TestGenerate_KeepsSegmentBlockOrder(t *testing.T) {
	ds := generate(t, 42, testSegments)

	offset := 0
	for _, spec := range testSegments {
		for i := offset; i < offset+spec.Count; i++ {
			require.Equal(t, spec.Name, ds[i].Segment, "record %d", i)
		}
		offset += spec.Count
	}
}

func TestGenerate_SameSeedIsDeterministic(t *testing.T) {
	first := generate(t, 42, testSegments)
	second := generate(t, 42, testSegments)

	assert.Equal(t, first, second)
	assert.Equal(t, "Low value", first[0].Segment)
	assert.Equal(t, first[0].Amount, second[0].Amount)
}

func TestGenerate_DefaultSeedFirstAmountIsStable(t *testing.T) {
	// Given
	low := []domain.SegmentSpec{{Name: "Low value", Count: 550, Mu: 3.0, Sigma: 0.6}}

	// When
	lowOnly := generate(t, 42, low)
	full := generate(t, 42, testSegments)

	// Then
	assert.Equal(t, 17.05, lowOnly[0].Amount)
	assert.Equal(t, 17.05, full[0].Amount)
	assert.Equal(t, lowOnly, full[:550])
}

func TestGenerate_DifferentSeedsDiffer(t *testing.T) {
	a := generate(t, 42, testSegments)
	b := generate(t, 43, testSegments)

	assert.NotEqual(t, a.Amounts(), b.Amounts())
}

func TestGenerate_HeavyTailFrequency(t *testing.T) {
	// Given a single large segment
	const n = 200_000
	specs := []domain.SegmentSpec{{Name: "bulk", Count: n, Mu: 3.0, Sigma: 0.6}}

	// When
	ds := generate(t, 7, specs)

	// Then the flagged share lies within five standard errors of 3%
	flagged := 0
	for _, r := range ds {
		if r.HeavyTail {
			flagged++
		}
	}
	p := DefaultHeavyTailProbability
	se := math.Sqrt(p * (1 - p) / n)
	assert.InDelta(t, p, float64(flagged)/n, 5*se)
}

func TestGenerate_NoHeavyTailWhenProbabilityZero(t *testing.T) {
	opts := DefaultOptions()
	opts.HeavyTailProbability = 0

	ds, err := New(opts).Generate(NewRand(42), testSegments)
	require.NoError(t, err)

	for _, r := range ds {
		require.False(t, r.HeavyTail)
	}
}

func TestGenerate_HighMedianAboveLowMedian(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3, 42, 1234, 99999} {
		ds := generate(t, seed, testSegments)
		groups := ds.BySegment()

		low := stats.Median(groups["Low value"])
		high := stats.Median(groups["High value"])
		assert.Greater(t, high, low, "seed %d", seed)
	}
}

func TestGenerate_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		specs []domain.SegmentSpec
	}{
		{name: "no segments", specs: nil},
		{name: "zero count", specs: []domain.SegmentSpec{{Name: "a", Count: 0, Sigma: 1}}},
		{name: "negative sigma", specs: []domain.SegmentSpec{{Name: "a", Count: 1, Sigma: -1}}},
		{name: "missing name", specs: []domain.SegmentSpec{{Count: 1, Sigma: 1}}},
		{name: "duplicate name", specs: []domain.SegmentSpec{
			{Name: "a", Count: 1, Sigma: 1},
			{Name: "a", Count: 1, Sigma: 1},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := New(DefaultOptions()).Generate(NewRand(42), tt.specs)
			assert.Error(t, err)
			assert.Nil(t, ds)
		})
	}
}

func TestGenerate_NilRand(t *testing.T) {
	_, err := New(DefaultOptions()).Generate(nil, testSegments)
	assert.Error(t, err)
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 12.35, RoundCents(12.345))
	assert.Equal(t, 20.09, RoundCents(20.0855369))
	assert.Equal(t, 0.01, RoundCents(0.001))
	assert.Equal(t, 1234.5, RoundCents(1234.5))
	// Halves round away from zero on the shortest decimal form.
	assert.Equal(t, 2.68, RoundCents(2.675))
	assert.Equal(t, 1.01, RoundCents(1.005))
}
