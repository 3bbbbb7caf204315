package analyticsService

import (
	"context"
	"testing"
	"time"

	analyticsRepository "MortgageIntake/internal/api/analytics/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	from, interval, dateFormat := parseRange("7d")
	require.NotNil(t, from)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -7), *from, time.Minute)
	assert.Equal(t, "day", interval)
	assert.Equal(t, "YYYY-MM-DD", dateFormat)

	from, interval, _ = parseRange("90d")
	require.NotNil(t, from)
	assert.Equal(t, "week", interval)

	from, interval, dateFormat = parseRange("all")
	assert.Nil(t, from)
	assert.Equal(t, "week", interval)
	assert.Equal(t, `YYYY-"W"WW`, dateFormat)
}

func TestParseRange_UnknownFallsBackTo30Days(t *testing.T) {
	from, interval, _ := parseRange("6 months")
	require.NotNil(t, from)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -30), *from, time.Minute)
	assert.Equal(t, "day", interval)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, percentage(5, 0))
	assert.Equal(t, 50.0, percentage(1, 2))
	assert.Equal(t, 33.3, percentage(1, 3))
	assert.Equal(t, 66.7, percentage(2, 3))
	assert.Equal(t, 100.0, percentage(3, 3))
}

// failingMetrics errors on every aggregation.
type failingMetrics struct{}

func (failingMetrics) GetTotalApplications(context.Context, *time.Time) (int, error) {
	return 0, assert.AnError
}

func (failingMetrics) GetCompletionCounts(context.Context, *time.Time) (int, int, error) {
	return 0, 0, assert.AnError
}

func (failingMetrics) GetAverageCallDurationSeconds(context.Context, *time.Time) (float64, error) {
	return 0, assert.AnError
}

func (failingMetrics) GetConversionCounts(context.Context, *time.Time) (int, int, error) {
	return 0, 0, assert.AnError
}

func (failingMetrics) GetApplicationsOverTime(context.Context, *time.Time, string, string) ([]analyticsRepository.TimeBucketDB, error) {
	return nil, assert.AnError
}

func (failingMetrics) GetCallStatusCounts(context.Context, *time.Time) ([]analyticsRepository.StatusCountDB, error) {
	return nil, assert.AnError
}

func (failingMetrics) GetRecentActivity(context.Context, int) ([]analyticsRepository.ActivityDB, error) {
	return nil, assert.AnError
}

func (failingMetrics) GetSourceBreakdown(context.Context, *time.Time) ([]analyticsRepository.SourceBreakdownDB, error) {
	return nil, assert.AnError
}

func (failingMetrics) GetStatusBreakdown(context.Context, *time.Time) ([]analyticsRepository.StatusCountDB, error) {
	return nil, assert.AnError
}

type failingAnalyticsRepo struct{}

func (failingAnalyticsRepo) NewClient() analyticsRepository.Client {
	return analyticsRepository.Client{Metrics: failingMetrics{}}
}

func TestGetDashboardMetrics_FaultIsolation(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := New(logger, failingAnalyticsRepo{}, nil, nil)

	metrics := svc.GetDashboardMetrics(context.Background(), "30d")

	assert.Equal(t, "30d", metrics.TimeRange)
	assert.Zero(t, metrics.TotalApplications)
	assert.Zero(t, metrics.CompletionRate)
	assert.Zero(t, metrics.AverageCallDuration)
	assert.Zero(t, metrics.ConversionRate)

	// Chart slots stay renderable as empty lists, never null.
	assert.NotNil(t, metrics.ApplicationsOverTime)
	assert.Empty(t, metrics.ApplicationsOverTime)
	assert.NotNil(t, metrics.RecentActivity)
	assert.NotNil(t, metrics.SourceBreakdown)
	assert.NotNil(t, metrics.StatusBreakdown)
	assert.NotNil(t, metrics.CallSuccessRate)
}
