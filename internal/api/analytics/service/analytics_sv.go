package analyticsService

import (
	"context"
	"math"
	"time"

	"MortgageIntake/internal/api/analytics"

	"github.com/sirupsen/logrus"
)

var rangeDays = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

// parseRange converts a dashboard range string to a cutoff plus the
// chart bucketing. "all" means no cutoff; unknown ranges fall back to
// 30 days.
func parseRange(timeRange string) (from *time.Time, interval, dateFormat string) {
	interval = "day"
	dateFormat = "YYYY-MM-DD"

	if timeRange == "all" {
		return nil, "week", `YYYY-"W"WW`
	}

	days, ok := rangeDays[timeRange]
	if !ok {
		days = 30
	}
	if days > 30 {
		interval = "week"
		dateFormat = `YYYY-"W"WW`
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	return &cutoff, interval, dateFormat
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// GetDashboardMetrics is fault isolated per metric: a failing
// aggregation leaves its slot at the zero value so the dashboard still
// renders everything else.
func (s *analyticsService) GetDashboardMetrics(ctx context.Context, timeRange string) analytics.DashboardMetrics {
	from, interval, dateFormat := parseRange(timeRange)
	client := s.analyticsRepo.NewClient()

	metrics := analytics.DashboardMetrics{
		TimeRange:            timeRange,
		ApplicationsOverTime: []analytics.TimeBucket{},
		CallSuccessRate:      []analytics.StatusCount{},
		RecentActivity:       []analytics.ActivityItem{},
		SourceBreakdown:      []analytics.SourceBreakdown{},
		StatusBreakdown:      []analytics.StatusCount{},
	}

	if total, err := client.Metrics.GetTotalApplications(ctx, from); err == nil {
		metrics.TotalApplications = total
	} else {
		s.warn("total_applications", err)
	}

	if total, completed, err := client.Metrics.GetCompletionCounts(ctx, from); err == nil {
		metrics.CompletionRate = percentage(completed, total)
	} else {
		s.warn("completion_rate", err)
	}

	if avgSeconds, err := client.Metrics.GetAverageCallDurationSeconds(ctx, from); err == nil {
		metrics.AverageCallDuration = math.Round(avgSeconds/60*10) / 10
	} else {
		s.warn("average_call_duration", err)
	}

	if total, completed, err := client.Metrics.GetConversionCounts(ctx, from); err == nil {
		metrics.ConversionRate = percentage(completed, total)
	} else {
		s.warn("conversion_rate", err)
	}

	if buckets, err := client.Metrics.GetApplicationsOverTime(ctx, from, interval, dateFormat); err == nil {
		for _, bucket := range buckets {
			metrics.ApplicationsOverTime = append(metrics.ApplicationsOverTime, analytics.TimeBucket{
				Label:        bucket.Label,
				Applications: bucket.Applications,
				Completed:    bucket.Completed,
			})
		}
	} else {
		s.warn("applications_over_time", err)
	}

	if counts, err := client.Metrics.GetCallStatusCounts(ctx, from); err == nil {
		for _, count := range counts {
			metrics.CallSuccessRate = append(metrics.CallSuccessRate, analytics.StatusCount{
				Status: count.Status,
				Count:  count.Count,
			})
		}
	} else {
		s.warn("call_success_rate", err)
	}

	if activity, err := client.Metrics.GetRecentActivity(ctx, 10); err == nil {
		for _, item := range activity {
			metrics.RecentActivity = append(metrics.RecentActivity, analytics.ActivityItem{
				Type:        item.Type,
				ID:          item.ID,
				Name:        item.Name,
				Email:       item.Email,
				Timestamp:   item.Timestamp,
				Description: item.Description,
			})
		}
	} else {
		s.warn("recent_activity", err)
	}

	if sources, err := client.Metrics.GetSourceBreakdown(ctx, from); err == nil {
		for _, source := range sources {
			metrics.SourceBreakdown = append(metrics.SourceBreakdown, analytics.SourceBreakdown{
				Source:    source.Source,
				Count:     source.Count,
				Completed: source.Completed,
			})
		}
	} else {
		s.warn("source_breakdown", err)
	}

	if statuses, err := client.Metrics.GetStatusBreakdown(ctx, from); err == nil {
		for _, status := range statuses {
			metrics.StatusBreakdown = append(metrics.StatusBreakdown, analytics.StatusCount{
				Status: status.Status,
				Count:  status.Count,
			})
		}
	} else {
		s.warn("status_breakdown", err)
	}

	return metrics
}

func (s *analyticsService) GetApplicationDetail(ctx context.Context, applicationID string) (analytics.ApplicationDetailResponse, error) {
	app, err := s.appService.GetApplication(ctx, applicationID)
	if err != nil {
		return analytics.ApplicationDetailResponse{}, err
	}

	callLogs, err := s.callService.GetCallLogsByApplicationID(ctx, applicationID)
	if err != nil {
		s.warn("application_call_logs", err)
		callLogs = nil
	}

	return analytics.ApplicationDetailResponse{
		Success: true,
		Data: map[string]interface{}{
			"application": app,
			"call_logs":   callLogs,
		},
	}, nil
}

func (s *analyticsService) warn(metric string, err error) {
	s.log.WithFields(logrus.Fields{
		"metric": metric,
		"error":  err.Error(),
	}).Warn("Analytics metric failed")
}
