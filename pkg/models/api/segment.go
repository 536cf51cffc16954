package api

type SegmentSummary struct {
	Segment   string  `json:"segment"`
	Count     int     `json:"count"`
	HeavyTail int     `json:"heavy_tail"`
	Min       float64 `json:"min"`
	Q1        float64 `json:"q1"`
	Median    float64 `json:"median"`
	Q3        float64 `json:"q3"`
	Max       float64 `json:"max"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Label     string  `json:"label"`
}

type DatasetSummary struct {
	Seed       uint64           `json:"seed"`
	Records    int              `json:"records"`
	UpperBound float64          `json:"y_axis_max"`
	Currency   string           `json:"currency"`
	Segments   []SegmentSummary `json:"segments"`
}
