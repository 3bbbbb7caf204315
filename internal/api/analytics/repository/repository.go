package analyticsRepository

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient() Client
}

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

// Analytics reads are aggregate-only, so the client never opens a
// transaction.
type Client struct {
	Metrics interface {
		GetTotalApplications(ctx context.Context, from *time.Time) (int, error)
		GetCompletionCounts(ctx context.Context, from *time.Time) (total int, completed int, err error)
		GetAverageCallDurationSeconds(ctx context.Context, from *time.Time) (float64, error)
		GetConversionCounts(ctx context.Context, from *time.Time) (totalWithCalls int, completedWithCalls int, err error)
		GetApplicationsOverTime(ctx context.Context, from *time.Time, interval, dateFormat string) ([]TimeBucketDB, error)
		GetCallStatusCounts(ctx context.Context, from *time.Time) ([]StatusCountDB, error)
		GetRecentActivity(ctx context.Context, limit int) ([]ActivityDB, error)
		GetSourceBreakdown(ctx context.Context, from *time.Time) ([]SourceBreakdownDB, error)
		GetStatusBreakdown(ctx context.Context, from *time.Time) ([]StatusCountDB, error)
	}
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

func (r *repository) NewClient() Client {
	return Client{
		Metrics: &metricsRepository{
			q:   r.DB,
			log: r.log,
		},
	}
}

type metricsRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
