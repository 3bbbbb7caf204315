package smsRepository

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
	Messages interface {
		CreateSMSMessage(ctx context.Context, message entity.SMSMessage) error
		GetSMSMessagesByPhone(ctx context.Context, phone string, limit int) ([]entity.SMSMessage, error)
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
		Messages: &smsMessageRepository{
			q:   executor,
			log: r.log,
		},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type smsMessageRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
