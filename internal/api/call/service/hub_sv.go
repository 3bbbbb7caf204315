package callService

import (
	"sync"

	"MortgageIntake/internal/api/call"
)

// transcriptHub fans merged transcript updates out to websocket
// subscribers. Sends never block: a subscriber that stops draining its
// channel misses updates instead of stalling the webhook pipeline.
type transcriptHub struct {
	mu   sync.Mutex
	subs map[chan call.TranscriptUpdate]struct{}
}

func newTranscriptHub() *transcriptHub {
	return &transcriptHub{
		subs: make(map[chan call.TranscriptUpdate]struct{}),
	}
}

func (h *transcriptHub) subscribe() (<-chan call.TranscriptUpdate, func()) {
	ch := make(chan call.TranscriptUpdate, 16)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}

	return ch, cancel
}

func (h *transcriptHub) broadcast(update call.TranscriptUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- update:
		default:
		}
	}
}

func (s *callService) Subscribe() (<-chan call.TranscriptUpdate, func()) {
	return s.hub.subscribe()
}
