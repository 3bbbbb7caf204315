package call

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCallID_StrategyOrder(t *testing.T) {
	env := &WebhookEnvelope{
		Message: &WebhookMessage{
			Call:   &CallPayload{ID: "from-message-call"},
			CallID: "from-message-callid",
		},
		Call: &CallPayload{ID: "from-root-call"},
	}

	id, source := env.ResolveCallID()
	assert.Equal(t, "from-message-call", id)
	assert.Equal(t, "message.call.id", source)

	env.Message.Call = nil
	id, source = env.ResolveCallID()
	assert.Equal(t, "from-root-call", id)
	assert.Equal(t, "call.id", source)

	env.Call = nil
	id, source = env.ResolveCallID()
	assert.Equal(t, "from-message-callid", id)
	assert.Equal(t, "message.callId", source)
}

func TestResolveCallID_Missing(t *testing.T) {
	id, _ := (&WebhookEnvelope{Message: &WebhookMessage{Type: EventTranscript}}).ResolveCallID()
	assert.Equal(t, "", id)

	id, _ = (&WebhookEnvelope{}).ResolveCallID()
	assert.Equal(t, "", id)
}

func TestResolveVariableValues_DeepestWins(t *testing.T) {
	env := &WebhookEnvelope{
		Message: &WebhookMessage{
			VariableValues: map[string]string{"application_id": "shallow"},
			Call: &CallPayload{
				AssistantOverrides: &AssistantOverrides{
					VariableValues: map[string]string{"application_id": "mid"},
				},
			},
			Artifact: &ArtifactPayload{
				Call: &CallPayload{
					AssistantOverrides: &AssistantOverrides{
						VariableValues: map[string]string{"application_id": "deep"},
					},
				},
			},
		},
	}

	values := env.ResolveVariableValues()
	require.NotNil(t, values)
	assert.Equal(t, "deep", values["application_id"])

	env.Message.Artifact = nil
	assert.Equal(t, "mid", env.ResolveVariableValues()["application_id"])

	env.Message.Call = nil
	assert.Equal(t, "shallow", env.ResolveVariableValues()["application_id"])
}

func TestTranscriptFragments_ListShape(t *testing.T) {
	var env WebhookEnvelope
	payload := `{"message":{"type":"transcript","transcript":[{"role":"assistant","message":"Hello"}]}}`
	require.NoError(t, json.Unmarshal([]byte(payload), &env))

	fragments := env.TranscriptFragments()
	require.Len(t, fragments, 1)
	assert.Equal(t, "assistant", fragments[0].Role)
	assert.Equal(t, "Hello", fragments[0].Text())
}

func TestTranscriptFragments_StringShape(t *testing.T) {
	var env WebhookEnvelope
	payload := `{"message":{"type":"transcript","role":"user","transcript":"I want to refinance"}}`
	require.NoError(t, json.Unmarshal([]byte(payload), &env))

	fragments := env.TranscriptFragments()
	require.Len(t, fragments, 1)
	assert.Equal(t, "user", fragments[0].Role)
	assert.Equal(t, "I want to refinance", fragments[0].Text())
}

func TestProviderStatus_StatusUpdateUsesMessageLevel(t *testing.T) {
	env := &WebhookEnvelope{
		Message: &WebhookMessage{
			Type:   EventStatusUpdate,
			Status: "in-progress",
			Call:   &CallPayload{Status: "queued"},
		},
	}
	assert.Equal(t, "in-progress", env.ProviderStatus())

	env.Message.Type = EventCallStart
	assert.Equal(t, "queued", env.ProviderStatus())
}

func TestStageOutcomes(t *testing.T) {
	outcomes := StageOutcomes{}
	outcomes.Record("persist create", nil)
	outcomes.Record("cache", assert.AnError)

	fields := outcomes.Fields()
	assert.Equal(t, "ok", fields["stage_persist_create"])
	assert.Equal(t, assert.AnError.Error(), fields["stage_cache"])
}
