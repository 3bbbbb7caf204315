package applicationRepository

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

type ApplicationDB struct {
	ID                 sql.NullString `db:"id"`
	UserID             sql.NullString `db:"user_id"`
	FirstName          sql.NullString `db:"first_name"`
	LastName           sql.NullString `db:"last_name"`
	FullLegalName      sql.NullString `db:"full_legal_name"`
	Email              sql.NullString `db:"email"`
	Phone              sql.NullString `db:"phone"`
	DateOfBirth        sql.NullString `db:"date_of_birth"`
	MaritalStatus      sql.NullString `db:"marital_status"`
	WhatLookingToDo    sql.NullString `db:"what_looking_to_do"`
	PropertyAddress    sql.NullString `db:"property_address"`
	PropertyType       sql.NullString `db:"property_type"`
	PropertyValue      sql.NullString `db:"property_value"`
	MortgageBalance    sql.NullString `db:"mortgage_balance"`
	PropertyUse        sql.NullString `db:"property_use"`
	LoanAmountRequested sql.NullString `db:"loan_amount_requested"`
	LoanPurpose        sql.NullString `db:"loan_purpose"`
	EmploymentType     sql.NullString `db:"employment_type"`
	AnnualIncome       sql.NullString `db:"annual_income"`
	OtherIncomeSources sql.NullString `db:"other_income_sources"`
	CurrentBank        sql.NullString `db:"current_bank"`
	CurrentStep        sql.NullInt64  `db:"current_step"`
	Completed          sql.NullBool   `db:"completed"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

// updatableColumns is the whitelist for dynamic updates. Anything not
// listed here is rejected before it reaches SQL.
var updatableColumns = map[string]bool{
	"user_id":               true,
	"first_name":            true,
	"last_name":             true,
	"full_legal_name":       true,
	"email":                 true,
	"phone":                 true,
	"date_of_birth":         true,
	"marital_status":        true,
	"what_looking_to_do":    true,
	"property_address":      true,
	"property_type":         true,
	"property_value":        true,
	"mortgage_balance":      true,
	"property_use":          true,
	"loan_amount_requested": true,
	"loan_purpose":          true,
	"employment_type":       true,
	"annual_income":         true,
	"other_income_sources":  true,
	"current_bank":          true,
	"current_step":          true,
	"completed":             true,
}

func IsUpdatableColumn(name string) bool {
	return updatableColumns[name]
}

func (a ApplicationDB) toEntity() entity.ApplicationRecord {
	rec := entity.ApplicationRecord{
		ID:                 a.ID.String,
		UserID:             a.UserID.String,
		FirstName:          a.FirstName.String,
		LastName:           a.LastName.String,
		FullLegalName:      a.FullLegalName.String,
		Email:              a.Email.String,
		Phone:              a.Phone.String,
		DateOfBirth:        a.DateOfBirth.String,
		MaritalStatus:      a.MaritalStatus.String,
		WhatLookingToDo:    a.WhatLookingToDo.String,
		PropertyAddress:    a.PropertyAddress.String,
		PropertyType:       a.PropertyType.String,
		PropertyValue:      a.PropertyValue.String,
		MortgageBalance:    a.MortgageBalance.String,
		PropertyUse:        a.PropertyUse.String,
		LoanAmountRequested: a.LoanAmountRequested.String,
		LoanPurpose:        a.LoanPurpose.String,
		EmploymentType:     a.EmploymentType.String,
		AnnualIncome:       a.AnnualIncome.String,
		CurrentBank:        a.CurrentBank.String,
		CurrentStep:        int(a.CurrentStep.Int64),
		Completed:          a.Completed.Bool,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.OtherIncomeSources.Valid && a.OtherIncomeSources.String != "" {
		var sources []map[string]interface{}
		if err := json.Unmarshal([]byte(a.OtherIncomeSources.String), &sources); err == nil {
			rec.OtherIncomeSources = sources
		}
	}

	return rec
}

func (r *applicationRepository) CreateApplication(ctx context.Context, app entity.ApplicationRecord) error {
	requestID := contextPkg.GetRequestID(ctx)

	sourcesJSON, err := json.Marshal(app.OtherIncomeSources)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to marshal other income sources")
		return err
	}

	argsKV := map[string]interface{}{
		"id":                    app.ID,
		"user_id":               app.UserID,
		"first_name":            app.FirstName,
		"last_name":             app.LastName,
		"full_legal_name":       app.FullLegalName,
		"email":                 app.Email,
		"phone":                 app.Phone,
		"date_of_birth":         nullIfEmpty(app.DateOfBirth),
		"marital_status":        app.MaritalStatus,
		"what_looking_to_do":    app.WhatLookingToDo,
		"property_address":      app.PropertyAddress,
		"property_type":         app.PropertyType,
		"property_value":        app.PropertyValue,
		"mortgage_balance":      app.MortgageBalance,
		"property_use":          app.PropertyUse,
		"loan_amount_requested": app.LoanAmountRequested,
		"loan_purpose":          app.LoanPurpose,
		"employment_type":       app.EmploymentType,
		"annual_income":         app.AnnualIncome,
		"other_income_sources":  string(sourcesJSON),
		"current_bank":          app.CurrentBank,
		"current_step":          app.CurrentStep,
		"completed":             app.Completed,
		"created_at":            app.CreatedAt,
		"updated_at":            app.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateApplication, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateApplication")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating application")
		return err
	}

	return nil
}

func (r *applicationRepository) GetApplicationByID(ctx context.Context, id string) (entity.ApplicationRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var appDB ApplicationDB

	query, args, err := sqlx.Named(queryGetApplicationByID, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetApplicationByID named query preparation err")
		return entity.ApplicationRecord{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&appDB); err != nil {
		return entity.ApplicationRecord{}, err
	}

	return appDB.toEntity(), nil
}

func (r *applicationRepository) GetLatestApplicationByPhone(ctx context.Context, phone string) (entity.ApplicationRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var appDB ApplicationDB

	query, args, err := sqlx.Named(queryGetLatestApplicationByPhone, map[string]interface{}{"phone": phone})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetLatestApplicationByPhone named query preparation err")
		return entity.ApplicationRecord{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&appDB); err != nil {
		return entity.ApplicationRecord{}, err
	}

	return appDB.toEntity(), nil
}

// UpdateApplicationFields applies a sparse update. Column names are
// validated against the whitelist so the caller can pass extractor
// output without further checks.
func (r *applicationRepository) UpdateApplicationFields(ctx context.Context, id string, fields map[string]interface{}) error {
	requestID := contextPkg.GetRequestID(ctx)

	if len(fields) == 0 {
		return nil
	}

	columns := make([]string, 0, len(fields))
	for col := range fields {
		if !updatableColumns[col] {
			return fmt.Errorf("column %q is not updatable", col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	setClauses := make([]string, 0, len(columns)+1)
	argsKV := make(map[string]interface{}, len(columns)+2)
	for _, col := range columns {
		setClauses = append(setClauses, fmt.Sprintf("%s = :%s", col, col))
		argsKV[col] = fields[col]
	}
	setClauses = append(setClauses, "updated_at = :updated_at")
	argsKV["updated_at"] = time.Now().UTC()
	argsKV["id"] = id

	queryUpdate := fmt.Sprintf(
		"UPDATE applications SET %s WHERE id = :id",
		strings.Join(setClauses, ", "),
	)

	query, args, err := sqlx.Named(queryUpdate, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for UpdateApplicationFields")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when updating application")
		return err
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *applicationRepository) DeleteApplication(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeleteApplication, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteApplication named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when deleting application")
		return err
	}

	return nil
}

func (r *applicationRepository) ListApplications(ctx context.Context, limit, offset int) ([]entity.ApplicationRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []ApplicationDB

	query, args, err := sqlx.Named(queryListApplications, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListApplications named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	apps := make([]entity.ApplicationRecord, 0, len(rows))
	for _, row := range rows {
		apps = append(apps, row.toEntity())
	}

	return apps, nil
}

// SearchApplications matches name/email/address fields with ILIKE and
// everything else with equality.
func (r *applicationRepository) SearchApplications(ctx context.Context, params map[string]interface{}) ([]entity.ApplicationRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)

	fuzzyColumns := map[string]bool{
		"first_name":       true,
		"last_name":        true,
		"email":            true,
		"property_address": true,
	}

	columns := make([]string, 0, len(params))
	for col := range params {
		if !updatableColumns[col] {
			return nil, fmt.Errorf("column %q is not searchable", col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	whereClauses := make([]string, 0, len(columns))
	argsKV := make(map[string]interface{}, len(columns))
	for _, col := range columns {
		if fuzzyColumns[col] {
			whereClauses = append(whereClauses, fmt.Sprintf("%s ILIKE :%s", col, col))
			argsKV[col] = fmt.Sprintf("%%%v%%", params[col])
		} else {
			whereClauses = append(whereClauses, fmt.Sprintf("%s = :%s", col, col))
			argsKV[col] = params[col]
		}
	}

	querySearch := "SELECT " + applicationColumns + " FROM applications"
	if len(whereClauses) > 0 {
		querySearch += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	querySearch += " ORDER BY created_at DESC"

	query, args, err := sqlx.Named(querySearch, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("SearchApplications named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	var rows []ApplicationDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	apps := make([]entity.ApplicationRecord, 0, len(rows))
	for _, row := range rows {
		apps = append(apps, row.toEntity())
	}

	return apps, nil
}

func (r *applicationRepository) GetApplicationsByCompleted(ctx context.Context, completed bool) ([]entity.ApplicationRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []ApplicationDB

	query, args, err := sqlx.Named(queryGetApplicationsByCompleted, map[string]interface{}{"completed": completed})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetApplicationsByCompleted named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	apps := make([]entity.ApplicationRecord, 0, len(rows))
	for _, row := range rows {
		apps = append(apps, row.toEntity())
	}

	return apps, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
