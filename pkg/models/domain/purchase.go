package domain

// PurchaseRecord is one simulated customer purchase.
type PurchaseRecord struct {
	Segment   string
	Amount    float64 // USD, rounded to cents
	HeavyTail bool    // amount was inflated by the heavy-tail factor
}

// Dataset is the ordered set of records produced by a single synthesis run.
// Records are grouped in segment blocks following the configured order.
type Dataset []PurchaseRecord

// Amounts returns every purchase amount in dataset order.
func (d Dataset) Amounts() []float64 {
	out := make([]float64, len(d))
	for i, r := range d {
		out[i] = r.Amount
	}
	return out
}

// BySegment groups amounts by segment label.
func (d Dataset) BySegment() map[string][]float64 {
	out := make(map[string][]float64)
	for _, r := range d {
		out[r.Segment] = append(out[r.Segment], r.Amount)
	}
	return out
}

// Count returns the number of records labeled with segment.
func (d Dataset) Count(segment string) int {
	n := 0
	for _, r := range d {
		if r.Segment == segment {
			n++
		}
	}
	return n
}
