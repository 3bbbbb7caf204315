package applicationService

import (
	"MortgageIntake/internal/api/application"
	"MortgageIntake/internal/entity"
	"MortgageIntake/pkg/log"
	"context"
	"strings"
	"time"
)

// candidateColumnMapping fixes how extracted field names land on
// storage columns. date_of_birth is handled separately because it
// needs parsing.
var candidateColumnMapping = []struct {
	column string
	value  func(entity.CandidateRecord) string
}{
	{"loan_amount_requested", func(c entity.CandidateRecord) string { return c.LoanAmount }},
	{"property_address", func(c entity.CandidateRecord) string { return c.PropertyAddress }},
	{"property_value", func(c entity.CandidateRecord) string { return c.PropertyValue }},
	{"mortgage_balance", func(c entity.CandidateRecord) string { return c.MortgageBalance }},
	{"property_use", func(c entity.CandidateRecord) string { return c.PropertyUsage }},
	{"employment_type", func(c entity.CandidateRecord) string { return c.EmploymentType }},
	{"annual_income", func(c entity.CandidateRecord) string { return c.AnnualIncome }},
	{"what_looking_to_do", func(c entity.CandidateRecord) string { return c.WhatLookingToDo }},
}

// ReconcileExtracted merges a transcript-extracted candidate into the
// application record. Blank candidate fields are never written, and a
// storage field that already holds a non-blank value is never
// overwritten; a follow-up call cannot clobber what an earlier call or
// a human operator recorded.
func (s *applicationService) ReconcileExtracted(ctx context.Context, applicationID string, candidate entity.CandidateRecord) error {
	if applicationID == "" {
		return application.ErrNoLinkedApplication
	}

	updates := map[string]interface{}{}

	if candidate.DateOfBirth != "" {
		parsed, err := time.Parse("01/02/2006", candidate.DateOfBirth)
		if err != nil {
			s.log.WithFields(log.Fields{
				"application_id": applicationID,
				"date_of_birth":  candidate.DateOfBirth,
				"error":          err.Error(),
			}).Warn("Dropping malformed date of birth from extracted candidate")
		} else {
			updates["date_of_birth"] = parsed.Format("2006-01-02")
		}
	}

	for _, mapping := range candidateColumnMapping {
		if v := mapping.value(candidate); v != "" {
			updates[mapping.column] = v
		}
	}

	if len(updates) == 0 {
		return application.ErrNothingToReconcile
	}

	client, err := s.appRepo.NewClient(true)
	if err != nil {
		return err
	}
	defer client.Rollback()

	app, err := client.Applications.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return application.ErrApplicationNotFound
	}

	current := applicationFieldValues(app)
	applied := make([]string, 0, len(updates))
	for col := range updates {
		if strings.TrimSpace(current[col]) != "" {
			delete(updates, col)
			continue
		}
		applied = append(applied, col)
	}

	if len(updates) == 0 {
		s.log.WithFields(log.Fields{
			"application_id": applicationID,
		}).Info("All extracted fields already populated, nothing to reconcile")
		return nil
	}

	if err := client.Applications.UpdateApplicationFields(ctx, applicationID, updates); err != nil {
		return err
	}

	if err := client.Commit(); err != nil {
		return err
	}

	s.log.WithFields(log.Fields{
		"application_id": applicationID,
		"fields":         applied,
	}).Info("Extracted fields reconciled into application")

	return nil
}
