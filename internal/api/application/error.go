package application

import "MortgageIntake/pkg/response"

var (
	ErrApplicationNotFound = response.NewError(404, "application not found")
	ErrInvalidField        = response.NewError(400, "field is not an updatable application column")
	ErrNoLinkedApplication = response.NewError(409, "call has no linked application")
	ErrNothingToReconcile  = response.NewError(422, "no extracted fields to apply")
	ErrPhoneRequired       = response.NewError(400, "phone number is required")
)
