package entity

import "time"

type ApplicationRecord struct {
	ID                 string    `json:"id" db:"id"`
	UserID             string    `json:"user_id,omitempty" db:"user_id"`
	FirstName          string    `json:"first_name,omitempty" db:"first_name"`
	LastName           string    `json:"last_name,omitempty" db:"last_name"`
	FullLegalName      string    `json:"full_legal_name,omitempty" db:"full_legal_name"`
	Email              string    `json:"email,omitempty" db:"email"`
	Phone              string    `json:"phone,omitempty" db:"phone"`
	DateOfBirth        string    `json:"date_of_birth,omitempty" db:"date_of_birth"`
	MaritalStatus      string    `json:"marital_status,omitempty" db:"marital_status"`
	WhatLookingToDo    string    `json:"what_looking_to_do,omitempty" db:"what_looking_to_do"`
	PropertyAddress    string    `json:"property_address,omitempty" db:"property_address"`
	PropertyType       string    `json:"property_type,omitempty" db:"property_type"`
	PropertyValue      string    `json:"property_value,omitempty" db:"property_value"`
	MortgageBalance    string    `json:"mortgage_balance,omitempty" db:"mortgage_balance"`
	PropertyUse        string    `json:"property_use,omitempty" db:"property_use"`
	LoanAmountRequested string   `json:"loan_amount_requested,omitempty" db:"loan_amount_requested"`
	LoanPurpose        string    `json:"loan_purpose,omitempty" db:"loan_purpose"`
	EmploymentType     string    `json:"employment_type,omitempty" db:"employment_type"`
	AnnualIncome       string    `json:"annual_income,omitempty" db:"annual_income"`
	OtherIncomeSources []map[string]interface{} `json:"other_income_sources,omitempty" db:"-"`
	CurrentBank        string    `json:"current_bank,omitempty" db:"current_bank"`
	CurrentStep        int       `json:"current_step" db:"current_step"`
	Completed          bool      `json:"completed" db:"completed"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// RequiredFields is the set of columns an application needs before it
// counts as complete. Order matches the intake form steps.
var RequiredFields = []string{
	"first_name",
	"last_name",
	"email",
	"phone",
	"date_of_birth",
	"marital_status",
	"what_looking_to_do",
	"property_address",
	"property_type",
	"property_value",
	"property_use",
	"loan_amount_requested",
	"loan_purpose",
	"employment_type",
	"annual_income",
	"current_bank",
}

// CandidateRecord holds field values freshly extracted from a call
// transcript, pending a non-destructive merge into an application.
// Every field is either a populated string or blank; blank means the
// extractor could not find that item.
type CandidateRecord struct {
	DateOfBirth     string `json:"date_of_birth"`
	LoanAmount      string `json:"loan_amount"`
	PropertyAddress string `json:"property_address"`
	PropertyValue   string `json:"property_value"`
	MortgageBalance string `json:"mortgage_balance"`
	PropertyUsage   string `json:"property_usage"`
	EmploymentType  string `json:"employment_type"`
	AnnualIncome    string `json:"annual_income"`
	WhatLookingToDo string `json:"what_looking_to_do"`
}

func (c CandidateRecord) IsBlank() bool {
	return c.DateOfBirth == "" &&
		c.LoanAmount == "" &&
		c.PropertyAddress == "" &&
		c.PropertyValue == "" &&
		c.MortgageBalance == "" &&
		c.PropertyUsage == "" &&
		c.EmploymentType == "" &&
		c.AnnualIncome == "" &&
		c.WhatLookingToDo == ""
}
