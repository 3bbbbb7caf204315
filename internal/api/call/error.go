package call

import "MortgageIntake/pkg/response"

var (
	ErrInvalidSignature  = response.NewError(401, "invalid webhook signature")
	ErrInvalidPayload    = response.NewError(400, "request body is not valid json")
	ErrCallNotFound      = response.NewError(404, "call not found")
	ErrCallDispatch      = response.NewError(502, "failed to place outbound call")
	ErrScheduleInPast    = response.NewError(400, "earliest_at must be in the future")
	ErrTranscriptMissing = response.NewError(404, "no transcript recorded for call")
)
