package applicationService

import (
	"MortgageIntake/internal/api/application"
	applicationRepository "MortgageIntake/internal/api/application/repository"
	"MortgageIntake/internal/entity"
	"MortgageIntake/pkg/log"
	"MortgageIntake/pkg/phone"
	"context"
	"database/sql"
	"errors"
	"time"
)

func (s *applicationService) CreateApplication(ctx context.Context, req application.CreateApplicationRequest) (entity.ApplicationRecord, error) {
	if req.Phone == "" {
		return entity.ApplicationRecord{}, application.ErrPhoneRequired
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return entity.ApplicationRecord{}, err
	}

	now := time.Now().UTC()
	app := entity.ApplicationRecord{
		ID:                  id,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		FullLegalName:       req.FullLegalName,
		Email:               req.Email,
		Phone:               phone.Normalize(req.Phone),
		DateOfBirth:         req.DateOfBirth,
		MaritalStatus:       req.MaritalStatus,
		WhatLookingToDo:     req.WhatLookingToDo,
		PropertyAddress:     req.PropertyAddress,
		PropertyType:        req.PropertyType,
		PropertyValue:       req.PropertyValue,
		MortgageBalance:     req.MortgageBalance,
		PropertyUse:         req.PropertyUse,
		LoanAmountRequested: req.LoanAmountRequested,
		LoanPurpose:         req.LoanPurpose,
		EmploymentType:      req.EmploymentType,
		AnnualIncome:        req.AnnualIncome,
		CurrentBank:         req.CurrentBank,
		CurrentStep:         req.CurrentStep,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	client, err := s.appRepo.NewClient(false)
	if err != nil {
		return entity.ApplicationRecord{}, err
	}

	if err := client.Applications.CreateApplication(ctx, app); err != nil {
		return entity.ApplicationRecord{}, err
	}

	s.log.WithFields(log.Fields{
		"application_id": app.ID,
		"phone":          app.Phone,
	}).Info("Application created")

	return app, nil
}

func (s *applicationService) GetApplication(ctx context.Context, id string) (entity.ApplicationRecord, error) {
	client, err := s.appRepo.NewClient(false)
	if err != nil {
		return entity.ApplicationRecord{}, err
	}

	app, err := client.Applications.GetApplicationByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ApplicationRecord{}, application.ErrApplicationNotFound
		}
		return entity.ApplicationRecord{}, err
	}

	return app, nil
}

func (s *applicationService) UpdateApplication(ctx context.Context, id string, fields map[string]interface{}) error {
	for col := range fields {
		if !applicationRepository.IsUpdatableColumn(col) {
			return application.ErrInvalidField
		}
	}

	client, err := s.appRepo.NewClient(false)
	if err != nil {
		return err
	}

	if err := client.Applications.UpdateApplicationFields(ctx, id, fields); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return application.ErrApplicationNotFound
		}
		return err
	}

	return nil
}

func (s *applicationService) UpdateApplicationField(ctx context.Context, id string, field string, value interface{}) error {
	return s.UpdateApplication(ctx, id, map[string]interface{}{field: value})
}

func (s *applicationService) DeleteApplication(ctx context.Context, id string) error {
	client, err := s.appRepo.NewClient(false)
	if err != nil {
		return err
	}

	if err := client.Applications.DeleteApplication(ctx, id); err != nil {
		return err
	}

	s.log.WithFields(log.Fields{
		"application_id": id,
	}).Info("Application deleted")

	return nil
}

func (s *applicationService) ListApplications(ctx context.Context, limit, offset int) ([]entity.ApplicationRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	client, err := s.appRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	return client.Applications.ListApplications(ctx, limit, offset)
}

func (s *applicationService) SearchApplications(ctx context.Context, req application.SearchApplicationsRequest) ([]entity.ApplicationRecord, error) {
	params := map[string]interface{}{}
	if req.FirstName != "" {
		params["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		params["last_name"] = req.LastName
	}
	if req.Email != "" {
		params["email"] = req.Email
	}
	if req.Phone != "" {
		params["phone"] = phone.Normalize(req.Phone)
	}
	if req.PropertyAddress != "" {
		params["property_address"] = req.PropertyAddress
	}
	if req.Completed != nil {
		params["completed"] = *req.Completed
	}

	client, err := s.appRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	return client.Applications.SearchApplications(ctx, params)
}

func (s *applicationService) GetMissingFields(ctx context.Context, id string) (application.MissingFieldsResponse, error) {
	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return application.MissingFieldsResponse{}, err
	}

	values := applicationFieldValues(app)

	missing := make([]string, 0)
	for _, field := range entity.RequiredFields {
		if values[field] == "" {
			missing = append(missing, field)
		}
	}

	return application.MissingFieldsResponse{
		MissingFields: missing,
		TotalMissing:  len(missing),
	}, nil
}

func (s *applicationService) FindLatestByPhone(ctx context.Context, normalizedPhone string) (entity.ApplicationRecord, error) {
	client, err := s.appRepo.NewClient(false)
	if err != nil {
		return entity.ApplicationRecord{}, err
	}

	app, err := client.Applications.GetLatestApplicationByPhone(ctx, normalizedPhone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ApplicationRecord{}, application.ErrApplicationNotFound
		}
		return entity.ApplicationRecord{}, err
	}

	return app, nil
}

// applicationFieldValues maps column names onto the record's current
// values for blank checks.
func applicationFieldValues(app entity.ApplicationRecord) map[string]string {
	return map[string]string{
		"first_name":            app.FirstName,
		"last_name":             app.LastName,
		"full_legal_name":       app.FullLegalName,
		"email":                 app.Email,
		"phone":                 app.Phone,
		"date_of_birth":         app.DateOfBirth,
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
		"current_bank":          app.CurrentBank,
	}
}
