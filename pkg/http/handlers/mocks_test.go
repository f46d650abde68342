package handlers

import (
	"context"
	"time"

	"presight/pkg/errors"
	"presight/pkg/models"
	"presight/pkg/services"
)

// mockPresenceService returns canned answers for presence queries.
type mockPresenceService struct {
	status      *services.OnlineStatus
	count       *int64
	users       []models.User
	forgetErr   error
	wasOnlineErr error
}

func (m *mockPresenceService) WasOnline(ctx context.Context, userID string, t time.Time) (*services.OnlineStatus, error) {
	if m.wasOnlineErr != nil {
		return nil, m.wasOnlineErr
	}
	return m.status, nil
}

func (m *mockPresenceService) OnlineCountAt(ctx context.Context, t time.Time) (*int64, error) {
	return m.count, nil
}

func (m *mockPresenceService) ForgetUser(ctx context.Context, userID string) error {
	return m.forgetErr
}

func (m *mockPresenceService) ListUsers(ctx context.Context) ([]models.User, error) {
	if m.users == nil {
		return []models.User{}, nil
	}
	return m.users, nil
}

// mockStatsService returns canned totals and averages.
type mockStatsService struct {
	total    int64
	averages *services.AverageStats
	err      error
}

func (m *mockStatsService) TotalOnlineSeconds(ctx context.Context, userID string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.total, nil
}

func (m *mockStatsService) DailyAndWeeklyAverage(ctx context.Context, userID string) (*services.AverageStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.averages, nil
}

// mockPredictionService returns canned predictions.
type mockPredictionService struct {
	count      *int64
	prediction *services.OnlinePrediction
	err        error

	gotTolerance float64
}

func (m *mockPredictionService) PredictOnlineCount(ctx context.Context, target time.Time) (*int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.count, nil
}

func (m *mockPredictionService) PredictUserOnline(ctx context.Context, userID string, target time.Time, tolerance float64) (*services.OnlinePrediction, error) {
	m.gotTolerance = tolerance
	if m.err != nil {
		return nil, m.err
	}
	return m.prediction, nil
}

// mockReportService captures requests and serves a fixed report set.
type mockReportService struct {
	reports map[string]*models.Report
	gotReq  models.ReportRequest
}

func (m *mockReportService) Generate(ctx context.Context, req models.ReportRequest) (*models.Report, error) {
	m.gotReq = req
	if req.Name == "" {
		return nil, errors.ValidationErrorf("MISSING_PARAMETER", "report name is required")
	}
	report := &models.Report{
		Name:    req.Name,
		Metrics: req.Metrics,
		Users:   req.Users,
		PerUser: map[string]models.ReportEntry{},
	}
	if m.reports == nil {
		m.reports = map[string]*models.Report{}
	}
	m.reports[req.Name] = report
	return report, nil
}

func (m *mockReportService) Get(name string) (*models.Report, error) {
	if report, ok := m.reports[name]; ok {
		return report, nil
	}
	return nil, errors.NotFoundErrorf("REPORT_NOT_FOUND", "report %q not found", name)
}

func (m *mockReportService) ListAll() []*models.Report {
	out := make([]*models.Report, 0, len(m.reports))
	for _, report := range m.reports {
		out = append(out, report)
	}
	return out
}

func (m *mockReportService) ClearAll() {
	m.reports = map[string]*models.Report{}
}
