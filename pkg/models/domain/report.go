package domain

import "time"

// Report represents a complete dataset report
type Report struct {
	Title       string
	RunID       string
	GeneratedAt time.Time
	Seed        uint64
	Records     int
	Sections    []ReportSection
	Currency    string
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title    string
	Summary  map[string]interface{}
	Details  []ReportDetail
	Metadata map[string]interface{}
}

// ReportDetail represents detailed information within a section
type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}
