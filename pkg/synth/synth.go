// Package synth generates the synthetic purchase dataset.
package synth

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/de-tools/purchase-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat/distuv"
)

// Heavy-tail defaults: 3% of purchases are inflated by a factor of (1+u), u in [3, 10].
const (
	DefaultHeavyTailProbability = 0.03
	DefaultHeavyTailMin         = 3.0
	DefaultHeavyTailMax         = 10.0
)

type Options struct {
	HeavyTailProbability float64
	HeavyTailMin         float64
	HeavyTailMax         float64
}

func DefaultOptions() Options {
	return Options{
		HeavyTailProbability: DefaultHeavyTailProbability,
		HeavyTailMin:         DefaultHeavyTailMin,
		HeavyTailMax:         DefaultHeavyTailMax,
	}
}

type Synthesizer struct {
	opts Options
}

func New(opts Options) *Synthesizer {
	return &Synthesizer{opts: opts}
}

// NewRand returns a deterministic PCG generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Generate draws every segment in order from rng. Each segment consumes its
// lognormal draws first, then its heavy-tail flags, then its inflation
// factors, so the output only depends on the seed and the segment list.
func (s *Synthesizer) Generate(rng *rand.Rand, specs []domain.SegmentSpec) (domain.Dataset, error) {
	if rng == nil {
		return nil, errors.New("random generator is nil")
	}
	if err := s.validate(specs); err != nil {
		return nil, err
	}

	total := 0
	for _, spec := range specs {
		total += spec.Count
	}

	dataset := make(domain.Dataset, 0, total)
	for _, spec := range specs {
		dataset = append(dataset, s.segment(rng, spec)...)
	}
	return dataset, nil
}

func (s *Synthesizer) segment(rng *rand.Rand, spec domain.SegmentSpec) []domain.PurchaseRecord {
	n := spec.Count

	logNormal := distuv.LogNormal{Mu: spec.Mu, Sigma: spec.Sigma, Src: rng}
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = logNormal.Rand()
	}

	coin := distuv.Bernoulli{P: s.opts.HeavyTailProbability, Src: rng}
	flags := make([]bool, n)
	for i := range flags {
		flags[i] = coin.Rand() == 1
	}

	inflation := distuv.Uniform{Min: s.opts.HeavyTailMin, Max: s.opts.HeavyTailMax, Src: rng}
	factors := make([]float64, n)
	for i := range factors {
		factors[i] = inflation.Rand()
	}

	records := make([]domain.PurchaseRecord, n)
	for i := range records {
		amount := samples[i]
		if flags[i] {
			amount *= 1 + factors[i]
		}
		records[i] = domain.PurchaseRecord{
			Segment:   spec.Name,
			Amount:    RoundCents(amount),
			HeavyTail: flags[i],
		}
	}
	return records
}

func (s *Synthesizer) validate(specs []domain.SegmentSpec) error {
	if len(specs) == 0 {
		return errors.New("no segments configured")
	}
	if s.opts.HeavyTailProbability < 0 || s.opts.HeavyTailProbability > 1 {
		return fmt.Errorf("heavy tail probability %v out of [0, 1]", s.opts.HeavyTailProbability)
	}
	if s.opts.HeavyTailMax < s.opts.HeavyTailMin {
		return fmt.Errorf("heavy tail range [%v, %v] is inverted", s.opts.HeavyTailMin, s.opts.HeavyTailMax)
	}

	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		switch {
		case spec.Name == "":
			return errors.New("segment name is required")
		case seen[spec.Name]:
			return fmt.Errorf("duplicate segment %q", spec.Name)
		case spec.Count <= 0:
			return fmt.Errorf("segment %q: count must be positive, got %d", spec.Name, spec.Count)
		case spec.Sigma <= 0:
			return fmt.Errorf("segment %q: sigma must be positive, got %v", spec.Name, spec.Sigma)
		}
		seen[spec.Name] = true
	}
	return nil
}

// RoundCents rounds amount to two decimal places. A positive amount never
// rounds down to zero; the smallest representable purchase is one cent.
func RoundCents(amount float64) float64 {
	rounded := decimal.NewFromFloat(amount).Round(2).InexactFloat64()
	if amount > 0 && rounded <= 0 {
		return 0.01
	}
	return rounded
}
