package applicationRepository

import (
	"MortgageIntake/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Applications: &applicationRepository{q: sqlExecutor, log: r.log},
		Commit:       commitFunc,
		Rollback:     rollbackFunc,
	}, nil
}

type Client struct {
	Applications interface {
		CreateApplication(ctx context.Context, app entity.ApplicationRecord) error
		GetApplicationByID(ctx context.Context, id string) (entity.ApplicationRecord, error)
		GetLatestApplicationByPhone(ctx context.Context, phone string) (entity.ApplicationRecord, error)
		UpdateApplicationFields(ctx context.Context, id string, fields map[string]interface{}) error
		DeleteApplication(ctx context.Context, id string) error
		ListApplications(ctx context.Context, limit, offset int) ([]entity.ApplicationRecord, error)
		SearchApplications(ctx context.Context, params map[string]interface{}) ([]entity.ApplicationRecord, error)
		GetApplicationsByCompleted(ctx context.Context, completed bool) ([]entity.ApplicationRecord, error)
	}

	Commit   func() error
	Rollback func() error
}

type applicationRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
