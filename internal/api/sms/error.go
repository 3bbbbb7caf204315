package sms

import "MortgageIntake/pkg/response"

var (
	ErrMissingSender = response.NewError(400, "inbound message has no sender")
	ErrSendFailed    = response.NewError(502, "failed to send sms")
)
