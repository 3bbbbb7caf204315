package smsRepository

import (
	"MortgageIntake/internal/entity"
	contextPkg "MortgageIntake/pkg/context"
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sirupsen/logrus"
)

type SMSMessageDB struct {
	ID            sql.NullString `db:"id"`
	PhoneNumber   sql.NullString `db:"phone_number"`
	Direction     sql.NullString `db:"direction"`
	Body          sql.NullString `db:"body"`
	MessageSID    sql.NullString `db:"message_sid"`
	ApplicationID sql.NullString `db:"application_id"`
	CreatedAt     time.Time      `db:"created_at"`
}

func (m SMSMessageDB) toEntity() entity.SMSMessage {
	return entity.SMSMessage{
		ID:            m.ID.String,
		PhoneNumber:   m.PhoneNumber.String,
		Direction:     entity.SMSDirection(m.Direction.String),
		Body:          m.Body.String,
		MessageSID:    m.MessageSID.String,
		ApplicationID: m.ApplicationID.String,
		CreatedAt:     m.CreatedAt,
	}
}

func (r *smsMessageRepository) CreateSMSMessage(ctx context.Context, message entity.SMSMessage) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":             message.ID,
		"phone_number":   message.PhoneNumber,
		"direction":      string(message.Direction),
		"body":           message.Body,
		"message_sid":    message.MessageSID,
		"application_id": nullIfEmpty(message.ApplicationID),
		"created_at":     message.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateSMSMessage, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateSMSMessage")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating sms message")
		return err
	}

	return nil
}

func (r *smsMessageRepository) GetSMSMessagesByPhone(ctx context.Context, phone string, limit int) ([]entity.SMSMessage, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []SMSMessageDB

	query, args, err := sqlx.Named(queryGetSMSMessagesByPhone, map[string]interface{}{
		"phone_number": phone,
		"limit":        limit,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetSMSMessagesByPhone named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when listing sms messages")
		return nil, err
	}

	messages := make([]entity.SMSMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, row.toEntity())
	}

	return messages, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
