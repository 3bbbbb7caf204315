package application

type CreateApplicationRequest struct {
	FirstName          string `json:"first_name" validate:"required"`
	LastName           string `json:"last_name" validate:"required"`
	FullLegalName      string `json:"full_legal_name,omitempty"`
	Email              string `json:"email,omitempty" validate:"omitempty,email"`
	Phone              string `json:"phone" validate:"required"`
	DateOfBirth        string `json:"date_of_birth,omitempty"`
	MaritalStatus      string `json:"marital_status,omitempty"`
	WhatLookingToDo    string `json:"what_looking_to_do,omitempty"`
	PropertyAddress    string `json:"property_address,omitempty"`
	PropertyType       string `json:"property_type,omitempty"`
	PropertyValue      string `json:"property_value,omitempty"`
	MortgageBalance    string `json:"mortgage_balance,omitempty"`
	PropertyUse        string `json:"property_use,omitempty"`
	LoanAmountRequested string `json:"loan_amount_requested,omitempty"`
	LoanPurpose        string `json:"loan_purpose,omitempty"`
	EmploymentType     string `json:"employment_type,omitempty"`
	AnnualIncome       string `json:"annual_income,omitempty"`
	CurrentBank        string `json:"current_bank,omitempty"`
	CurrentStep        int    `json:"current_step,omitempty"`
}

type UpdateApplicationRequest struct {
	Fields map[string]interface{} `json:"fields" validate:"required,min=1"`
}

type UpdateFieldRequest struct {
	Field string      `json:"field" validate:"required"`
	Value interface{} `json:"value"`
}

type SearchApplicationsRequest struct {
	FirstName       string `query:"first_name"`
	LastName        string `query:"last_name"`
	Email           string `query:"email"`
	Phone           string `query:"phone"`
	PropertyAddress string `query:"property_address"`
	Completed       *bool  `query:"completed"`
}

type MissingFieldsResponse struct {
	MissingFields []string `json:"missing_fields"`
	TotalMissing  int      `json:"total_missing"`
}

type ListApplicationsResponse struct {
	Applications interface{} `json:"applications"`
	Count        int         `json:"count"`
}
