package callRepository

import (
	"MortgageIntake/internal/entity"
	contextPkg "MortgageIntake/pkg/context"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sirupsen/logrus"
)

type CallLogDB struct {
	ID              sql.NullString  `db:"id"`
	CallID          sql.NullString  `db:"call_id"`
	ApplicationID   sql.NullString  `db:"application_id"`
	PhoneNumber     sql.NullString  `db:"phone_number"`
	Status          sql.NullString  `db:"status"`
	StartedAt       sql.NullTime    `db:"started_at"`
	EndedAt         sql.NullTime    `db:"ended_at"`
	DurationSeconds sql.NullFloat64 `db:"duration_seconds"`
	CostTotal       sql.NullFloat64 `db:"cost_total"`
	CostBreakdown   sql.NullString  `db:"cost_breakdown"`
	Transcript      sql.NullString  `db:"transcript"`
	Summary         sql.NullString  `db:"summary"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// updatableCallLogColumns whitelists the columns touched by sparse
// webhook updates.
var updatableCallLogColumns = map[string]bool{
	"status":           true,
	"ended_at":         true,
	"duration_seconds": true,
	"cost_total":       true,
	"cost_breakdown":   true,
	"transcript":       true,
	"summary":          true,
	"phone_number":     true,
}

func (c CallLogDB) toEntity() entity.CallLog {
	callLog := entity.CallLog{
		ID:              c.ID.String,
		CallID:          c.CallID.String,
		ApplicationID:   c.ApplicationID.String,
		PhoneNumber:     c.PhoneNumber.String,
		Status:          entity.CallStatus(c.Status.String),
		StartedAt:       c.StartedAt.Time,
		EndedAt:         c.EndedAt.Time,
		DurationSeconds: c.DurationSeconds.Float64,
		CostTotal:       c.CostTotal.Float64,
		Summary:         c.Summary.String,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}

	if c.Transcript.Valid && c.Transcript.String != "" {
		var turns []entity.TranscriptTurn
		if err := json.Unmarshal([]byte(c.Transcript.String), &turns); err == nil {
			callLog.Transcript = turns
		}
	}

	if c.CostBreakdown.Valid && c.CostBreakdown.String != "" {
		var breakdown map[string]interface{}
		if err := json.Unmarshal([]byte(c.CostBreakdown.String), &breakdown); err == nil {
			callLog.CostBreakdown = breakdown
		}
	}

	return callLog
}

func (r *callLogRepository) CreateCallLog(ctx context.Context, callLog entity.CallLog) error {
	requestID := contextPkg.GetRequestID(ctx)

	transcriptJSON, err := json.Marshal(callLog.Transcript)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to marshal transcript")
		return err
	}

	argsKV := map[string]interface{}{
		"id":             callLog.ID,
		"call_id":        callLog.CallID,
		"application_id": nullIfEmpty(callLog.ApplicationID),
		"phone_number":   callLog.PhoneNumber,
		"status":         string(callLog.Status),
		"started_at":     callLog.StartedAt,
		"transcript":     string(transcriptJSON),
		"created_at":     callLog.CreatedAt,
		"updated_at":     callLog.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateCallLog, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateCallLog")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"call_id":    callLog.CallID,
			"error":      err.Error(),
		}).Error("Database error when creating call log")
		return err
	}

	return nil
}

func (r *callLogRepository) GetCallLogByCallID(ctx context.Context, callID string) (entity.CallLog, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var callLogDB CallLogDB

	query, args, err := sqlx.Named(queryGetCallLogByCallID, map[string]interface{}{"call_id": callID})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCallLogByCallID named query preparation err")
		return entity.CallLog{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&callLogDB); err != nil {
		return entity.CallLog{}, err
	}

	return callLogDB.toEntity(), nil
}

// UpdateCallLogFields applies a sparse update keyed by call_id. Column
// names are validated against the whitelist before SQL is built.
func (r *callLogRepository) UpdateCallLogFields(ctx context.Context, callID string, fields map[string]interface{}) error {
	requestID := contextPkg.GetRequestID(ctx)

	if len(fields) == 0 {
		return nil
	}

	columns := make([]string, 0, len(fields))
	for column := range fields {
		if !updatableCallLogColumns[column] {
			return fmt.Errorf("column %q is not updatable", column)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	setClauses := make([]string, 0, len(columns)+1)
	argsKV := make(map[string]interface{}, len(columns)+2)
	for _, column := range columns {
		setClauses = append(setClauses, fmt.Sprintf("%s = :%s", column, column))
		argsKV[column] = fields[column]
	}
	setClauses = append(setClauses, "updated_at = :updated_at")
	argsKV["updated_at"] = time.Now().UTC()
	argsKV["call_id"] = callID

	queryUpdate := fmt.Sprintf("UPDATE call_logs SET %s WHERE call_id = :call_id", strings.Join(setClauses, ", "))

	query, args, err := sqlx.Named(queryUpdate, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateCallLogFields named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"call_id":    callID,
			"error":      err.Error(),
		}).Error("Database error when updating call log")
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// LinkApplication sets application_id on a call log only when it is
// still unset. It reports whether the link was written.
func (r *callLogRepository) LinkApplication(ctx context.Context, callID, applicationID string) (bool, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryLinkApplication, map[string]interface{}{
		"call_id":        callID,
		"application_id": applicationID,
		"updated_at":     time.Now().UTC(),
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("LinkApplication named query preparation err")
		return false, err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"call_id":    callID,
			"error":      err.Error(),
		}).Error("Database error when linking application to call log")
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *callLogRepository) GetCallLogsByApplicationID(ctx context.Context, applicationID string) ([]entity.CallLog, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []CallLogDB

	query, args, err := sqlx.Named(queryGetCallLogsByApplicationID, map[string]interface{}{"application_id": applicationID})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCallLogsByApplicationID named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when listing call logs by application")
		return nil, err
	}

	callLogs := make([]entity.CallLog, 0, len(rows))
	for _, row := range rows {
		callLogs = append(callLogs, row.toEntity())
	}

	return callLogs, nil
}

func (r *callLogRepository) ListCallLogs(ctx context.Context, limit int) ([]entity.CallLog, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []CallLogDB

	query, args, err := sqlx.Named(queryListCallLogs, map[string]interface{}{"limit": limit})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListCallLogs named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when listing call logs")
		return nil, err
	}

	callLogs := make([]entity.CallLog, 0, len(rows))
	for _, row := range rows {
		callLogs = append(callLogs, row.toEntity())
	}

	return callLogs, nil
}

func (r *callLogRepository) DeleteCallLog(ctx context.Context, callID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeleteCallLog, map[string]interface{}{"call_id": callID})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteCallLog named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"call_id":    callID,
			"error":      err.Error(),
		}).Error("Database error when deleting call log")
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
