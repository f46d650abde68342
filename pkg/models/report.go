package models

import "time"

// MetricName identifies a per-user metric a report can request.
type MetricName string

const (
	MetricTotal         MetricName = "total"
	MetricDailyAverage  MetricName = "dailyAverage"
	MetricWeeklyAverage MetricName = "weeklyAverage"
)

// ReportRequest describes a batch metric computation over a user list.
type ReportRequest struct {
	Name    string       `json:"name"`
	Metrics []MetricName `json:"metrics"`
	Users   []string     `json:"users"`
}

// ReportEntry holds one user's computed metrics, or an {"Error": ...} marker
// when the user could not be resolved.
type ReportEntry map[string]interface{}

// Report is a completed, named batch computation. Reports are immutable once
// published; regenerating under the same name replaces the whole report.
type Report struct {
	Name        string                 `json:"Name"`
	Metrics     []MetricName           `json:"metrics"`
	Users       []string               `json:"users"`
	PerUser     map[string]ReportEntry `json:"perUser"`
	GeneratedAt time.Time              `json:"generatedAt"`
}
