package entity

import "time"

type CallStatus string

const (
	CallStatusUnknown   CallStatus = ""
	CallStatusStarted   CallStatus = "started"
	CallStatusActive    CallStatus = "active"
	CallStatusCompleted CallStatus = "completed"
)

var callStatusRank = map[CallStatus]int{
	CallStatusUnknown:   0,
	CallStatusStarted:   1,
	CallStatusActive:    2,
	CallStatusCompleted: 3,
}

// Rank orders statuses along the call lifecycle. Unrecognized provider
// statuses rank below started so they can never regress a known state.
func (s CallStatus) Rank() int {
	return callStatusRank[s]
}

// CanTransition reports whether moving to next is a forward step.
// Re-observing the current status is not a transition.
func (s CallStatus) CanTransition(next CallStatus) bool {
	return next.Rank() > s.Rank()
}

type TurnRole string

const (
	TurnRoleBot  TurnRole = "bot"
	TurnRoleUser TurnRole = "user"
)

// NormalizeTurnRole folds provider role synonyms onto the two
// conversational roles. ok is false for system/tool roles, which are
// never part of a persisted transcript.
func NormalizeTurnRole(raw string) (TurnRole, bool) {
	switch raw {
	case "bot", "assistant":
		return TurnRoleBot, true
	case "user", "customer":
		return TurnRoleUser, true
	default:
		return "", false
	}
}

type TranscriptTurn struct {
	Role TurnRole `json:"role"`
	Text string   `json:"message"`
}

type CallLog struct {
	ID              string           `json:"id" db:"id"`
	CallID          string           `json:"call_id" db:"call_id"`
	ApplicationID   string           `json:"application_id,omitempty" db:"application_id"`
	PhoneNumber     string           `json:"phone_number,omitempty" db:"phone_number"`
	Status          CallStatus       `json:"status" db:"status"`
	StartedAt       time.Time        `json:"started_at" db:"started_at"`
	EndedAt         time.Time        `json:"ended_at,omitempty" db:"ended_at"`
	DurationSeconds float64          `json:"duration_seconds" db:"duration_seconds"`
	CostTotal       float64          `json:"cost_total" db:"cost_total"`
	CostBreakdown   map[string]interface{} `json:"cost_breakdown,omitempty" db:"-"`
	Transcript      []TranscriptTurn `json:"transcript" db:"-"`
	Summary         string           `json:"summary,omitempty" db:"summary"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}
