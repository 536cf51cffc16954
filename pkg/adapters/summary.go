package adapters

import (
	"fmt"
	"time"

	"github.com/de-tools/purchase-atlas/pkg/models/api"
	"github.com/de-tools/purchase-atlas/pkg/models/domain"
	"github.com/dustin/go-humanize"
)

const Currency = "USD"

func MapSegmentSummaryDomainToApi(s domain.SegmentSummary) api.SegmentSummary {
	return api.SegmentSummary{
		Segment:   s.Segment,
		Count:     s.Count,
		HeavyTail: s.HeavyTail,
		Min:       s.Min,
		Q1:        s.Q1,
		Median:    s.Median,
		Q3:        s.Q3,
		Max:       s.Max,
		Mean:      s.Mean,
		StdDev:    s.StdDev,
		Label:     "Median: " + usd(s.Median),
	}
}

func MapDatasetSummaryToApi(seed uint64, records int, upper float64, summaries []domain.SegmentSummary) api.DatasetSummary {
	out := api.DatasetSummary{
		Seed:       seed,
		Records:    records,
		UpperBound: upper,
		Currency:   Currency,
		Segments:   make([]api.SegmentSummary, 0, len(summaries)),
	}
	for _, s := range summaries {
		out.Segments = append(out.Segments, MapSegmentSummaryDomainToApi(s))
	}
	return out
}

// MapSummariesToReport builds the terminal report of a run.
func MapSummariesToReport(
	runID string,
	seed uint64,
	records int,
	upper float64,
	summaries []domain.SegmentSummary,
	generatedAt time.Time,
) *domain.Report {
	report := &domain.Report{
		Title:       "Purchase Amounts by Customer Segment",
		RunID:       runID,
		GeneratedAt: generatedAt,
		Seed:        seed,
		Records:     records,
		Currency:    Currency,
		Sections:    make([]domain.ReportSection, 0, len(summaries)+1),
	}

	for _, s := range summaries {
		share := 0.0
		if s.Count > 0 {
			share = float64(s.HeavyTail) / float64(s.Count) * 100
		}
		report.Sections = append(report.Sections, domain.ReportSection{
			Title: s.Segment,
			Summary: map[string]interface{}{
				"Records": s.Count,
				"Median":  usd(s.Median),
			},
			Details: []domain.ReportDetail{
				{Name: "Min", Value: usd(s.Min), Unit: Currency},
				{Name: "Q1", Value: usd(s.Q1), Unit: Currency},
				{Name: "Median", Value: usd(s.Median), Unit: Currency, Description: "annotated on the chart"},
				{Name: "Q3", Value: usd(s.Q3), Unit: Currency},
				{Name: "Max", Value: usd(s.Max), Unit: Currency},
				{Name: "Mean", Value: usd(s.Mean), Unit: Currency},
				{Name: "Std dev", Value: usd(s.StdDev), Unit: Currency},
				{
					Name:        "Heavy tail",
					Value:       s.HeavyTail,
					Unit:        "records",
					Description: fmt.Sprintf("%.1f%% of the segment inflated x(1+u)", share),
				},
			},
		})
	}

	report.Sections = append(report.Sections, domain.ReportSection{
		Title: "Chart",
		Summary: map[string]interface{}{
			"Y axis max": usd(upper),
		},
		Details: []domain.ReportDetail{
			{Name: "Y axis max", Value: usd(upper), Unit: Currency, Description: "1.05 x 99.5th percentile"},
		},
	})
	return report
}

func usd(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}
