package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"presight/pkg/errors"
	"presight/pkg/metrics"
	"presight/pkg/models"
)

// userNotFoundEntry is the marker placed in a report for users the store
// has no record of. Per-user failure never aborts the batch.
const userNotFoundEntry = "user not found"

// reportServiceImpl implements ReportService. The cache is the one piece of
// shared mutable state in the core: reports are built completely off-lock
// and published atomically, so readers never observe a partial report.
type reportServiceImpl struct {
	stats StatsService
	mets  *metrics.Metrics
	now   func() time.Time

	mu      sync.RWMutex
	reports map[string]*models.Report
}

// NewReportService creates a new report service. mets may be nil.
func NewReportService(stats StatsService, mets *metrics.Metrics) ReportService {
	return &reportServiceImpl{
		stats:   stats,
		mets:    mets,
		now:     time.Now,
		reports: make(map[string]*models.Report),
	}
}

// Generate computes a report for the request and publishes it under the
// request's name, replacing any previous report of that name.
func (s *reportServiceImpl) Generate(ctx context.Context, req models.ReportRequest) (*models.Report, error) {
	if req.Name == "" {
		return nil, errors.ValidationErrorf("MISSING_PARAMETER", "report name is required")
	}
	if len(req.Metrics) == 0 {
		return nil, errors.ValidationErrorf("MISSING_PARAMETER", "at least one metric is required")
	}
	for _, metric := range req.Metrics {
		switch metric {
		case models.MetricTotal, models.MetricDailyAverage, models.MetricWeeklyAverage:
		default:
			return nil, errors.ValidationErrorf("UNKNOWN_METRIC", "unknown metric: %s", metric)
		}
	}

	report := &models.Report{
		Name:        req.Name,
		Metrics:     req.Metrics,
		Users:       req.Users,
		PerUser:     make(map[string]models.ReportEntry, len(req.Users)),
		GeneratedAt: s.now(),
	}

	for _, userID := range req.Users {
		entry, err := s.computeEntry(ctx, userID, req.Metrics)
		if err != nil {
			return nil, err
		}
		report.PerUser[userID] = entry
	}

	s.mu.Lock()
	s.reports[req.Name] = report
	s.mu.Unlock()

	if s.mets != nil {
		s.mets.ReportsGenerated.Inc()
	}
	return report, nil
}

// computeEntry resolves one user's requested metrics. Not-found users yield
// an error marker entry; store failures abort the whole generation.
func (s *reportServiceImpl) computeEntry(ctx context.Context, userID string, requested []models.MetricName) (models.ReportEntry, error) {
	entry := make(models.ReportEntry, len(requested))

	needAverages := false
	for _, metric := range requested {
		if metric == models.MetricDailyAverage || metric == models.MetricWeeklyAverage {
			needAverages = true
		}
	}

	var averages *AverageStats
	if needAverages {
		avg, err := s.stats.DailyAndWeeklyAverage(ctx, userID)
		if err != nil {
			if errors.IsNotFound(err) {
				return models.ReportEntry{"Error": userNotFoundEntry}, nil
			}
			return nil, err
		}
		averages = avg
	}

	for _, metric := range requested {
		switch metric {
		case models.MetricTotal:
			total, err := s.stats.TotalOnlineSeconds(ctx, userID)
			if err != nil {
				if errors.IsNotFound(err) {
					return models.ReportEntry{"Error": userNotFoundEntry}, nil
				}
				return nil, err
			}
			entry[string(metric)] = float64(total)
		case models.MetricDailyAverage:
			entry[string(metric)] = averages.Day
		case models.MetricWeeklyAverage:
			entry[string(metric)] = averages.Week
		}
	}

	return entry, nil
}

// Get retrieves a report by name
func (s *reportServiceImpl) Get(name string) (*models.Report, error) {
	s.mu.RLock()
	report, ok := s.reports[name]
	s.mu.RUnlock()

	if !ok {
		return nil, errors.NotFoundErrorf("REPORT_NOT_FOUND", "report %q not found", name)
	}
	return report, nil
}

// ListAll returns all cached reports sorted by name
func (s *reportServiceImpl) ListAll() []*models.Report {
	s.mu.RLock()
	reports := make([]*models.Report, 0, len(s.reports))
	for _, report := range s.reports {
		reports = append(reports, report)
	}
	s.mu.RUnlock()

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Name < reports[j].Name
	})
	return reports
}

// ClearAll drops every cached report
func (s *reportServiceImpl) ClearAll() {
	s.mu.Lock()
	s.reports = make(map[string]*models.Report)
	s.mu.Unlock()
}
