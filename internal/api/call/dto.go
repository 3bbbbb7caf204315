package call

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	EventCallStart       = "call-start"
	EventStatusUpdate    = "status-update"
	EventTranscript      = "transcript"
	EventEndOfCallReport = "end-of-call-report"
)

// WebhookEnvelope mirrors the provider's event body. Providers echo the
// same objects at several nesting levels, so every lookup on this type
// goes through an ordered strategy list instead of ad hoc nil chains.
type WebhookEnvelope struct {
	Message *WebhookMessage `json:"message"`
	Call    *CallPayload    `json:"call"`
}

type WebhookMessage struct {
	Type            string                 `json:"type"`
	Status          string                 `json:"status"`
	Call            *CallPayload           `json:"call"`
	CallID          string                 `json:"callId"`
	Artifact        *ArtifactPayload       `json:"artifact"`
	Transcript      json.RawMessage        `json:"transcript"`
	Role            string                 `json:"role"`
	Messages        []TurnFragment         `json:"messages"`
	Summary         string                 `json:"summary"`
	Cost            float64                `json:"cost"`
	CostBreakdown   map[string]interface{} `json:"costBreakdown"`
	DurationSeconds float64                `json:"durationSeconds"`
	EndedAt         string                 `json:"endedAt"`
	VariableValues  map[string]string      `json:"variableValues"`
}

type CallPayload struct {
	ID                 string              `json:"id"`
	Status             string              `json:"status"`
	CreatedAt          string              `json:"createdAt"`
	Cost               float64             `json:"cost"`
	Customer           *CustomerPayload    `json:"customer"`
	AssistantOverrides *AssistantOverrides `json:"assistantOverrides"`
}

type CustomerPayload struct {
	Number string `json:"number"`
}

type AssistantOverrides struct {
	VariableValues map[string]string `json:"variableValues"`
}

type ArtifactPayload struct {
	Messages        []TurnFragment `json:"messages"`
	Transcript      string         `json:"transcript"`
	Call            *CallPayload   `json:"call"`
	DurationSeconds float64        `json:"durationSeconds"`
}

type TurnFragment struct {
	Role             string  `json:"role"`
	Message          string  `json:"message"`
	Content          string  `json:"content"`
	SecondsFromStart float64 `json:"secondsFromStart"`
}

func (f TurnFragment) Text() string {
	if f.Message != "" {
		return f.Message
	}
	return f.Content
}

func (e *WebhookEnvelope) Type() string {
	if e.Message == nil {
		return ""
	}
	return e.Message.Type
}

// callIDStrategies is the declared order for locating the call
// identifier. First match wins.
var callIDStrategies = []struct {
	name   string
	lookup func(*WebhookEnvelope) string
}{
	{"message.call.id", func(e *WebhookEnvelope) string {
		if e.Message != nil && e.Message.Call != nil {
			return e.Message.Call.ID
		}
		return ""
	}},
	{"call.id", func(e *WebhookEnvelope) string {
		if e.Call != nil {
			return e.Call.ID
		}
		return ""
	}},
	{"message.artifact.call.id", func(e *WebhookEnvelope) string {
		if e.Message != nil && e.Message.Artifact != nil && e.Message.Artifact.Call != nil {
			return e.Message.Artifact.Call.ID
		}
		return ""
	}},
	{"message.callId", func(e *WebhookEnvelope) string {
		if e.Message != nil {
			return e.Message.CallID
		}
		return ""
	}},
}

func (e *WebhookEnvelope) ResolveCallID() (string, string) {
	for _, strategy := range callIDStrategies {
		if id := strategy.lookup(e); id != "" {
			return id, strategy.name
		}
	}
	return "", ""
}

// variableValueStrategies is ordered deepest-first: providers echo the
// call-placement variables at several levels and the deepest echo is
// authoritative.
var variableValueStrategies = []struct {
	name   string
	lookup func(*WebhookEnvelope) map[string]string
}{
	{"message.artifact.call.assistantOverrides.variableValues", func(e *WebhookEnvelope) map[string]string {
		if e.Message != nil && e.Message.Artifact != nil && e.Message.Artifact.Call != nil && e.Message.Artifact.Call.AssistantOverrides != nil {
			return e.Message.Artifact.Call.AssistantOverrides.VariableValues
		}
		return nil
	}},
	{"message.call.assistantOverrides.variableValues", func(e *WebhookEnvelope) map[string]string {
		if e.Message != nil && e.Message.Call != nil && e.Message.Call.AssistantOverrides != nil {
			return e.Message.Call.AssistantOverrides.VariableValues
		}
		return nil
	}},
	{"call.assistantOverrides.variableValues", func(e *WebhookEnvelope) map[string]string {
		if e.Call != nil && e.Call.AssistantOverrides != nil {
			return e.Call.AssistantOverrides.VariableValues
		}
		return nil
	}},
	{"message.variableValues", func(e *WebhookEnvelope) map[string]string {
		if e.Message != nil {
			return e.Message.VariableValues
		}
		return nil
	}},
}

func (e *WebhookEnvelope) ResolveVariableValues() map[string]string {
	for _, strategy := range variableValueStrategies {
		if values := strategy.lookup(e); len(values) > 0 {
			return values
		}
	}
	return nil
}

func (e *WebhookEnvelope) CustomerNumber() string {
	if e.Message != nil && e.Message.Call != nil && e.Message.Call.Customer != nil {
		return e.Message.Call.Customer.Number
	}
	if e.Call != nil && e.Call.Customer != nil {
		return e.Call.Customer.Number
	}
	return ""
}

// ProviderStatus picks the status field relevant to the event type:
// status-update events carry it at message level, everything else on
// the call object.
func (e *WebhookEnvelope) ProviderStatus() string {
	if e.Message == nil {
		return ""
	}
	if e.Message.Type == EventStatusUpdate && e.Message.Status != "" {
		return e.Message.Status
	}
	if e.Message.Call != nil {
		return e.Message.Call.Status
	}
	return e.Message.Status
}

// TranscriptFragments extracts turn fragments from a transcript event.
// The provider sends message.transcript either as a fragment list or as
// a plain string paired with message.role.
func (e *WebhookEnvelope) TranscriptFragments() []TurnFragment {
	if e.Message == nil || len(e.Message.Transcript) == 0 {
		return nil
	}

	var fragments []TurnFragment
	if err := json.Unmarshal(e.Message.Transcript, &fragments); err == nil {
		return fragments
	}

	var text string
	if err := json.Unmarshal(e.Message.Transcript, &text); err == nil && text != "" && e.Message.Role != "" {
		return []TurnFragment{{Role: e.Message.Role, Message: text}}
	}

	return nil
}

func (e *WebhookEnvelope) ArtifactFragments() []TurnFragment {
	if e.Message == nil || e.Message.Artifact == nil {
		return nil
	}
	return e.Message.Artifact.Messages
}

// FinalTranscriptText returns the text handed to the field extractor on
// call end: the provider's flattened transcript when present, otherwise
// blank so the caller can fall back to the merged turns.
func (e *WebhookEnvelope) FinalTranscriptText() string {
	if e.Message != nil && e.Message.Artifact != nil && e.Message.Artifact.Transcript != "" {
		return e.Message.Artifact.Transcript
	}
	if e.Message != nil && len(e.Message.Transcript) > 0 {
		var text string
		if err := json.Unmarshal(e.Message.Transcript, &text); err == nil {
			return text
		}
	}
	return ""
}

func (e *WebhookEnvelope) EndedAt() time.Time {
	if e.Message == nil || e.Message.EndedAt == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, e.Message.EndedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (e *WebhookEnvelope) Duration() float64 {
	if e.Message == nil {
		return 0
	}
	if e.Message.DurationSeconds > 0 {
		return e.Message.DurationSeconds
	}
	if e.Message.Artifact != nil {
		return e.Message.Artifact.DurationSeconds
	}
	return 0
}

func (e *WebhookEnvelope) Cost() float64 {
	if e.Message == nil {
		return 0
	}
	if e.Message.Cost > 0 {
		return e.Message.Cost
	}
	if e.Message.Call != nil {
		return e.Message.Call.Cost
	}
	return 0
}

type TriggerCallRequest struct {
	ApplicationID string `json:"application_id" validate:"required"`
	FirstName     string `json:"first_name" validate:"required"`
	LastName      string `json:"last_name" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
}

type ScheduleCallRequest struct {
	TriggerCallRequest
	EarliestAt time.Time `json:"earliest_at" validate:"required"`
}

type TriggerCallResponse struct {
	Success bool   `json:"success"`
	CallID  string `json:"call_id,omitempty"`
	Message string `json:"message"`
}

type CallSummary struct {
	CallID       string    `json:"call_id"`
	Status       string    `json:"status"`
	MessageCount int       `json:"message_count"`
	StartedAt    time.Time `json:"started_at,omitempty"`
	EndedAt      time.Time `json:"ended_at,omitempty"`
}

type TranscriptResponse struct {
	CallID       string      `json:"call_id"`
	MessageCount int         `json:"message_count"`
	Transcript   interface{} `json:"transcript"`
}

type StatsResponse struct {
	WebhooksReceived uint64  `json:"webhooks_received"`
	UptimeSeconds    float64 `json:"server_uptime"`
	Status           string  `json:"status"`
}

// TranscriptUpdate is what live-dashboard websocket subscribers get on
// every merge.
type TranscriptUpdate struct {
	CallID       string      `json:"call_id"`
	Status       string      `json:"status"`
	MessageCount int         `json:"message_count"`
	Transcript   interface{} `json:"transcript"`
}

// StageOutcomes aggregates per-stage results of one webhook dispatch so
// a single log record shows what succeeded and what was skipped.
type StageOutcomes map[string]string

func (o StageOutcomes) Record(stage string, err error) {
	if err != nil {
		o[stage] = err.Error()
		return
	}
	o[stage] = "ok"
}

func (o StageOutcomes) Fields() map[string]interface{} {
	fields := make(map[string]interface{}, len(o))
	for stage, outcome := range o {
		fields["stage_"+strings.ReplaceAll(stage, " ", "_")] = outcome
	}
	return fields
}
