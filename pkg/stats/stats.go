// Package stats computes the display statistics of a purchase dataset.
package stats

import (
	"math"
	"slices"

	"github.com/de-tools/purchase-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// ClipQuantile is the quantile used to cap the y axis.
	ClipQuantile = 0.995
	// ClipPadding stretches the cap so the clipped quantile is not on the border.
	ClipPadding = 1.05
)

// Quantile returns the p-quantile of sorted using linear interpolation
// between the closest ranks. sorted must be in ascending order.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return math.NaN()
	case p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[n-1]
	}

	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// Median returns the median of values; values is left untouched.
func Median(values []float64) float64 {
	return Quantile(sortedCopy(values), 0.5)
}

// AxisUpperBound is the y-axis maximum for a dataset: the padded 99.5th percentile.
func AxisUpperBound(ds domain.Dataset) float64 {
	if len(ds) == 0 {
		return 0
	}
	return Quantile(sortedCopy(ds.Amounts()), ClipQuantile) * ClipPadding
}

// Medians returns the rounded median of each segment in order.
func Medians(ds domain.Dataset, order []string) []float64 {
	groups := ds.BySegment()
	out := make([]float64, len(order))
	for i, seg := range order {
		out[i] = roundCents(Median(groups[seg]))
	}
	return out
}

// Summarize computes per-segment summaries following order. Segments
// without records are reported with a zero count and NaN statistics.
func Summarize(ds domain.Dataset, order []string) []domain.SegmentSummary {
	groups := ds.BySegment()
	heavy := make(map[string]int)
	for _, r := range ds {
		if r.HeavyTail {
			heavy[r.Segment]++
		}
	}

	out := make([]domain.SegmentSummary, 0, len(order))
	for _, seg := range order {
		values := sortedCopy(groups[seg])
		summary := domain.SegmentSummary{
			Segment:   seg,
			Count:     len(values),
			HeavyTail: heavy[seg],
		}
		if len(values) == 0 {
			nan := math.NaN()
			summary.Min, summary.Q1, summary.Median, summary.Q3 = nan, nan, nan, nan
			summary.Max, summary.Mean, summary.StdDev = nan, nan, nan
			out = append(out, summary)
			continue
		}

		summary.Min = floats.Min(values)
		summary.Max = floats.Max(values)
		summary.Q1 = roundCents(Quantile(values, 0.25))
		summary.Median = roundCents(Quantile(values, 0.5))
		summary.Q3 = roundCents(Quantile(values, 0.75))
		summary.Mean = roundCents(stat.Mean(values, nil))
		if len(values) > 1 {
			summary.StdDev = roundCents(stat.StdDev(values, nil))
		}
		out = append(out, summary)
	}
	return out
}

// Segments returns the distinct segment labels in first-seen order.
func Segments(ds domain.Dataset) []string {
	var order []string
	seen := make(map[string]bool)
	for _, r := range ds {
		if !seen[r.Segment] {
			seen[r.Segment] = true
			order = append(order, r.Segment)
		}
	}
	return order
}

func sortedCopy(values []float64) []float64 {
	out := slices.Clone(values)
	slices.Sort(out)
	return out
}

func roundCents(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
