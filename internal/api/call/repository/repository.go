package callRepository

import (
	"database/sql"

	"MortgageIntake/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

type Client struct {
	CallLogs interface {
		CreateCallLog(ctx context.Context, callLog entity.CallLog) error
		GetCallLogByCallID(ctx context.Context, callID string) (entity.CallLog, error)
		UpdateCallLogFields(ctx context.Context, callID string, fields map[string]interface{}) error
		LinkApplication(ctx context.Context, callID, applicationID string) (bool, error)
		GetCallLogsByApplicationID(ctx context.Context, applicationID string) ([]entity.CallLog, error)
		ListCallLogs(ctx context.Context, limit int) ([]entity.CallLog, error)
		DeleteCallLog(ctx context.Context, callID string) error
	}
	Commit   func() error
	Rollback func() error
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlTx *sqlx.Tx
	var err error

	var executor SQLExecutor = r.DB
	if tx {
		sqlTx, err = r.DB.Beginx()
		executor = sqlTx
		if err != nil {
			return Client{}, err
		}
	}

	commitFunc := func() error { return nil }
	rollbackFunc := func() error { return nil }

	if tx {
		commitFunc = sqlTx.Commit
		rollbackFunc = func() error {
			err := sqlTx.Rollback()
			if err != nil && err != sql.ErrTxDone {
				return err
			}
			return nil
		}
	}

	return Client{
		CallLogs: &callLogRepository{
			q:   executor,
			log: r.log,
		},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type callLogRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
