package store

import "time"

type Purchase struct {
	RunID     string
	Position  int
	Segment   string
	Amount    float64
	HeavyTail bool
}

type Run struct {
	ID         string
	Seed       uint64
	SampleSeed uint64
	Records    int
	Output     string
	CreatedAt  time.Time
}
