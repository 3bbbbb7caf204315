package callService

import (
	"testing"
	"time"

	"MortgageIntake/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallRegistry_GetOrCreate(t *testing.T) {
	registry := newCallRegistry(completedCallRetention)

	first, created := registry.getOrCreate("c-1")
	assert.True(t, created)

	second, created := registry.getOrCreate("c-1")
	assert.False(t, created)
	assert.Same(t, first, second)
}

func TestCallRegistry_SweepEvictsFinalizedPastRetention(t *testing.T) {
	registry := newCallRegistry(30 * time.Minute)
	now := time.Now()

	// Active call, never finalized.
	active, _ := registry.getOrCreate("active")
	active.callLog.CallID = "active"

	// Finalized recently, inside the retention window.
	recent, _ := registry.getOrCreate("recent")
	recent.finalizedAt = now.Add(-10 * time.Minute)

	// Finalized long ago.
	stale, _ := registry.getOrCreate("stale")
	stale.finalizedAt = now.Add(-45 * time.Minute)

	evicted := registry.sweep(now)
	assert.Equal(t, 1, evicted)

	_, ok := registry.get("active")
	assert.True(t, ok)
	_, ok = registry.get("recent")
	assert.True(t, ok)
	_, ok = registry.get("stale")
	assert.False(t, ok)
}

func TestCallRegistry_Evict(t *testing.T) {
	registry := newCallRegistry(completedCallRetention)
	registry.getOrCreate("c-1")

	registry.evict("c-1")
	_, ok := registry.get("c-1")
	assert.False(t, ok)
}

func TestCallRegistry_SnapshotCopiesTranscript(t *testing.T) {
	registry := newCallRegistry(completedCallRetention)

	state, _ := registry.getOrCreate("c-1")
	state.callLog = entity.CallLog{
		CallID: "c-1",
		Transcript: []entity.TranscriptTurn{
			{Role: entity.TurnRoleUser, Text: "hello"},
		},
	}

	snapshot := registry.snapshot()
	require.Len(t, snapshot, 1)

	snapshot[0].Transcript[0].Text = "mutated"
	assert.Equal(t, "hello", state.callLog.Transcript[0].Text)
}
