package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallStatus_CanTransition(t *testing.T) {
	assert.True(t, CallStatusUnknown.CanTransition(CallStatusStarted))
	assert.True(t, CallStatusStarted.CanTransition(CallStatusActive))
	assert.True(t, CallStatusStarted.CanTransition(CallStatusCompleted))
	assert.True(t, CallStatusActive.CanTransition(CallStatusCompleted))
}

func TestCallStatus_NeverRegresses(t *testing.T) {
	assert.False(t, CallStatusCompleted.CanTransition(CallStatusActive))
	assert.False(t, CallStatusCompleted.CanTransition(CallStatusStarted))
	assert.False(t, CallStatusActive.CanTransition(CallStatusStarted))
	assert.False(t, CallStatusStarted.CanTransition(CallStatusUnknown))
}

func TestCallStatus_SelfTransitionIsNoop(t *testing.T) {
	for _, status := range []CallStatus{CallStatusStarted, CallStatusActive, CallStatusCompleted} {
		assert.False(t, status.CanTransition(status))
	}
}

func TestNormalizeTurnRole(t *testing.T) {
	role, ok := NormalizeTurnRole("assistant")
	assert.True(t, ok)
	assert.Equal(t, TurnRoleBot, role)

	role, ok = NormalizeTurnRole("customer")
	assert.True(t, ok)
	assert.Equal(t, TurnRoleUser, role)

	role, ok = NormalizeTurnRole("bot")
	assert.True(t, ok)
	assert.Equal(t, TurnRoleBot, role)

	role, ok = NormalizeTurnRole("user")
	assert.True(t, ok)
	assert.Equal(t, TurnRoleUser, role)
}

func TestNormalizeTurnRole_RejectsSystemRoles(t *testing.T) {
	for _, raw := range []string{"system", "tool", "function", ""} {
		_, ok := NormalizeTurnRole(raw)
		assert.False(t, ok, "role %q", raw)
	}
}
