package analyticsRepository

import (
	contextPkg "MortgageIntake/pkg/context"
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sirupsen/logrus"
)

type TimeBucketDB struct {
	Label        string `db:"label"`
	Applications int    `db:"applications"`
	Completed    int    `db:"completed"`
}

type StatusCountDB struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

type SourceBreakdownDB struct {
	Source    string `db:"source"`
	Count     int    `db:"count"`
	Completed int    `db:"completed"`
}

type ActivityDB struct {
	Type        string    `db:"type"`
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	Timestamp   time.Time `db:"timestamp"`
	Description string    `db:"description"`
}

var validIntervals = map[string]bool{"day": true, "week": true}

func (r *metricsRepository) selectWithFrom(ctx context.Context, dest interface{}, rawQuery string, from *time.Time) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(rawQuery, map[string]interface{}{"from_date": from})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Analytics named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, dest, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error in analytics query")
		return err
	}

	return nil
}

func (r *metricsRepository) GetTotalApplications(ctx context.Context, from *time.Time) (int, error) {
	var rows []struct {
		Total int `db:"total"`
	}
	if err := r.selectWithFrom(ctx, &rows, queryTotalApplications, from); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (r *metricsRepository) GetCompletionCounts(ctx context.Context, from *time.Time) (int, int, error) {
	var rows []struct {
		Total     int `db:"total"`
		Completed int `db:"completed"`
	}
	if err := r.selectWithFrom(ctx, &rows, queryCompletionCounts, from); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Total, rows[0].Completed, nil
}

func (r *metricsRepository) GetAverageCallDurationSeconds(ctx context.Context, from *time.Time) (float64, error) {
	var rows []struct {
		AvgDuration float64 `db:"avg_duration"`
	}
	if err := r.selectWithFrom(ctx, &rows, queryAverageCallDuration, from); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].AvgDuration, nil
}

func (r *metricsRepository) GetConversionCounts(ctx context.Context, from *time.Time) (int, int, error) {
	var rows []struct {
		TotalWithCalls     int `db:"total_with_calls"`
		CompletedWithCalls int `db:"completed_with_calls"`
	}
	if err := r.selectWithFrom(ctx, &rows, queryConversionCounts, from); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].TotalWithCalls, rows[0].CompletedWithCalls, nil
}

func (r *metricsRepository) GetApplicationsOverTime(ctx context.Context, from *time.Time, interval, dateFormat string) ([]TimeBucketDB, error) {
	if !validIntervals[interval] {
		return nil, fmt.Errorf("invalid interval %q", interval)
	}

	rawQuery := fmt.Sprintf(queryApplicationsOverTime, interval, dateFormat, interval, interval)

	var rows []TimeBucketDB
	if err := r.selectWithFrom(ctx, &rows, rawQuery, from); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *metricsRepository) GetCallStatusCounts(ctx context.Context, from *time.Time) ([]StatusCountDB, error) {
	var rows []StatusCountDB
	if err := r.selectWithFrom(ctx, &rows, queryCallStatusCounts, from); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *metricsRepository) GetRecentActivity(ctx context.Context, limit int) ([]ActivityDB, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryRecentActivity, map[string]interface{}{"limit": limit})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecentActivity named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	var rows []ActivityDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when loading recent activity")
		return nil, err
	}
	return rows, nil
}

func (r *metricsRepository) GetSourceBreakdown(ctx context.Context, from *time.Time) ([]SourceBreakdownDB, error) {
	var rows []SourceBreakdownDB
	if err := r.selectWithFrom(ctx, &rows, querySourceBreakdown, from); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *metricsRepository) GetStatusBreakdown(ctx context.Context, from *time.Time) ([]StatusCountDB, error) {
	var rows []StatusCountDB
	if err := r.selectWithFrom(ctx, &rows, queryStatusBreakdown, from); err != nil {
		return nil, err
	}
	return rows, nil
}
