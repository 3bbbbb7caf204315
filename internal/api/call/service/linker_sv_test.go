package callService

import (
	"context"
	"testing"

	"MortgageIntake/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveApplicationID_AlreadyLinkedWins(t *testing.T) {
	store := newFakeCallLogStore()
	appSvc := newFakeAppService()
	appSvc.byPhone["+14167009468"] = entity.ApplicationRecord{ID: "phone-app"}
	svc := newTestService(t, store, appSvc, nil, nil)

	env := envelopeFromJSON(t, `{
		"message": {
			"call": {
				"id": "c-1",
				"assistantOverrides": {"variableValues": {"application_id": "var-app"}}
			}
		}
	}`)

	id, strategy := svc.resolveApplicationID(context.Background(), "c-1", "linked-app", "+14167009468", env)
	assert.Equal(t, "linked-app", id)
	assert.Equal(t, "already-linked", strategy)
}

func TestResolveApplicationID_PersistedLinkBeatsVariables(t *testing.T) {
	store := newFakeCallLogStore()
	require.NoError(t, store.CreateCallLog(context.Background(), entity.CallLog{
		CallID:        "c-2",
		ApplicationID: "persisted-app",
	}))
	svc := newTestService(t, store, newFakeAppService(), nil, nil)

	env := envelopeFromJSON(t, `{
		"message": {
			"call": {
				"id": "c-2",
				"assistantOverrides": {"variableValues": {"application_id": "var-app"}}
			}
		}
	}`)

	id, strategy := svc.resolveApplicationID(context.Background(), "c-2", "", "", env)
	assert.Equal(t, "persisted-app", id)
	assert.Equal(t, "persisted-call-log", strategy)
}

func TestResolveApplicationID_VariablesBeatPhoneFallback(t *testing.T) {
	store := newFakeCallLogStore()
	appSvc := newFakeAppService()
	appSvc.byPhone["+14167009468"] = entity.ApplicationRecord{ID: "phone-app"}
	svc := newTestService(t, store, appSvc, nil, nil)

	env := envelopeFromJSON(t, `{
		"message": {
			"call": {
				"id": "c-3",
				"assistantOverrides": {"variableValues": {"application_id": "var-app"}}
			}
		}
	}`)

	id, strategy := svc.resolveApplicationID(context.Background(), "c-3", "", "4167009468", env)
	assert.Equal(t, "var-app", id)
	assert.Equal(t, "variable-values", strategy)
}

func TestResolveApplicationID_PhoneFallback(t *testing.T) {
	store := newFakeCallLogStore()
	appSvc := newFakeAppService()
	appSvc.byPhone["+14167009468"] = entity.ApplicationRecord{ID: "phone-app"}
	svc := newTestService(t, store, appSvc, nil, nil)

	id, strategy := svc.resolveApplicationID(context.Background(), "c-4", "", "(416) 700-9468", nil)
	assert.Equal(t, "phone-app", id)
	assert.Equal(t, "phone-fallback", strategy)
}

func TestResolveApplicationID_NoStrategyMatches(t *testing.T) {
	svc := newTestService(t, newFakeCallLogStore(), newFakeAppService(), nil, nil)

	id, strategy := svc.resolveApplicationID(context.Background(), "c-5", "", "", nil)
	assert.Empty(t, id)
	assert.Empty(t, strategy)
}

func TestAttemptLink_SetsLinkOnce(t *testing.T) {
	store := newFakeCallLogStore()
	svc := newTestService(t, store, newFakeAppService(), nil, nil)

	ctx := context.Background()
	require.NoError(t, store.CreateCallLog(ctx, entity.CallLog{CallID: "c-6"}))

	state, _ := svc.registry.getOrCreate("c-6")
	state.mu.Lock()
	state.callLog.CallID = "c-6"
	state.mu.Unlock()

	first := envelopeFromJSON(t, `{
		"message": {
			"call": {
				"id": "c-6",
				"assistantOverrides": {"variableValues": {"application_id": "app-first"}}
			}
		}
	}`)
	assert.Equal(t, "app-first", svc.attemptLink(ctx, state, first))

	second := envelopeFromJSON(t, `{
		"message": {
			"call": {
				"id": "c-6",
				"assistantOverrides": {"variableValues": {"application_id": "app-second"}}
			}
		}
	}`)
	assert.Equal(t, "app-first", svc.attemptLink(ctx, state, second))

	row, err := store.GetCallLogByCallID(ctx, "c-6")
	require.NoError(t, err)
	assert.Equal(t, "app-first", row.ApplicationID)
}
