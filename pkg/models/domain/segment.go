package domain

import "fmt"

// SegmentSpec describes the spending behaviour of a customer cohort.
type SegmentSpec struct {
	Name  string
	Count int
	Mu    float64 // mean of the underlying normal
	Sigma float64 // standard deviation of the underlying normal
	Color string  // hex fill used by the renderer
}

func (s SegmentSpec) String() string {
	return fmt.Sprintf("%s(n=%d, mu=%.2f, sigma=%.2f)", s.Name, s.Count, s.Mu, s.Sigma)
}

// SegmentSummary holds the display statistics of one segment.
type SegmentSummary struct {
	Segment   string
	Count     int
	HeavyTail int
	Min       float64
	Q1        float64
	Median    float64
	Q3        float64
	Max       float64
	Mean      float64
	StdDev    float64
}
