package callService

import (
	"sync"
	"time"

	"MortgageIntake/internal/entity"
)

// completedCallRetention is how long a finished call stays visible to
// the live dashboard before the registry evicts it.
const completedCallRetention = 30 * time.Minute

// callState is the in-memory record for one call. All reads and writes
// of callLog go through mu, so concurrent webhooks for the same call
// are applied one at a time.
type callState struct {
	mu          sync.Mutex
	callLog     entity.CallLog
	finalizedAt time.Time
}

type callRegistry struct {
	mu        sync.RWMutex
	calls     map[string]*callState
	retention time.Duration
}

func newCallRegistry(retention time.Duration) *callRegistry {
	return &callRegistry{
		calls:     make(map[string]*callState),
		retention: retention,
	}
}

func (r *callRegistry) getOrCreate(callID string) (*callState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state, ok := r.calls[callID]; ok {
		return state, false
	}

	state := &callState{}
	r.calls[callID] = state
	return state, true
}

func (r *callRegistry) get(callID string) (*callState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.calls[callID]
	return state, ok
}

func (r *callRegistry) evict(callID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.calls, callID)
}

// sweep drops finalized calls older than the retention window. It runs
// lazily on webhook receipt rather than on a timer.
func (r *callRegistry) sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for callID, state := range r.calls {
		state.mu.Lock()
		expired := !state.finalizedAt.IsZero() && now.Sub(state.finalizedAt) > r.retention
		state.mu.Unlock()
		if expired {
			delete(r.calls, callID)
			evicted++
		}
	}
	return evicted
}

// snapshot returns locked copies of every tracked call.
func (r *callRegistry) snapshot() []entity.CallLog {
	r.mu.RLock()
	states := make([]*callState, 0, len(r.calls))
	for _, state := range r.calls {
		states = append(states, state)
	}
	r.mu.RUnlock()

	callLogs := make([]entity.CallLog, 0, len(states))
	for _, state := range states {
		state.mu.Lock()
		callLog := state.callLog
		callLog.Transcript = append([]entity.TranscriptTurn(nil), state.callLog.Transcript...)
		state.mu.Unlock()
		callLogs = append(callLogs, callLog)
	}
	return callLogs
}
