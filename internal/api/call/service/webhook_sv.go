package callService

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"MortgageIntake/internal/api/call"
	"MortgageIntake/internal/entity"
	"MortgageIntake/pkg/phone"

	"github.com/sirupsen/logrus"
)

const (
	activeStatusTTL    = 2 * time.Hour
	postCompletionWait = 60 * time.Second
)

// VerifySignature checks the provider's HMAC-SHA256 hex signature over
// the raw request body. Some provider versions prefix the header value
// with "sha256=". When no secret is configured verification is
// skipped, and a request that carries no signature at all is accepted
// with a log line; only a present-but-wrong signature is rejected.
func (s *callService) VerifySignature(payload []byte, signature string) bool {
	if s.webhookSecret == "" {
		return true
	}

	if signature == "" {
		s.log.Warn("Webhook arrived without signature header")
		return true
	}

	signature = strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// providerStatusMap folds the provider's status vocabulary onto the
// lifecycle states.
var providerStatusMap = map[string]entity.CallStatus{
	"queued":      entity.CallStatusStarted,
	"ringing":     entity.CallStatusStarted,
	"started":     entity.CallStatusStarted,
	"in-progress": entity.CallStatusActive,
	"active":      entity.CallStatusActive,
	"answered":    entity.CallStatusActive,
	"ended":       entity.CallStatusCompleted,
	"completed":   entity.CallStatusCompleted,
}

func normalizeProviderStatus(raw string) entity.CallStatus {
	return providerStatusMap[strings.ToLower(strings.TrimSpace(raw))]
}

// HandleWebhook routes one provider event. Every stage is fault
// isolated: a failing stage is recorded in the outcome log and the rest
// of the pipeline still runs, so the provider always gets its 200.
func (s *callService) HandleWebhook(ctx context.Context, envelope *call.WebhookEnvelope) {
	s.mu.Lock()
	s.webhookCount++
	s.mu.Unlock()

	s.registry.sweep(time.Now())

	callID, idSource := envelope.ResolveCallID()
	if callID == "" {
		s.log.WithFields(logrus.Fields{
			"event_type": envelope.Type(),
		}).Warn("Webhook carried no call id, skipping")
		return
	}

	outcomes := call.StageOutcomes{}
	eventType := envelope.Type()

	state, created := s.registry.getOrCreate(callID)
	if created {
		s.initializeCall(ctx, state, callID, envelope, outcomes)
	}

	switch eventType {
	case call.EventCallStart:
		s.applyStatus(ctx, state, entity.CallStatusActive, outcomes)
	case call.EventStatusUpdate:
		s.applyStatus(ctx, state, normalizeProviderStatus(envelope.ProviderStatus()), outcomes)
	case call.EventTranscript:
		s.applyFragments(ctx, state, envelope.TranscriptFragments(), outcomes)
	case call.EventEndOfCallReport:
		s.finalizeCall(ctx, state, envelope, outcomes)
	default:
		outcomes["classify"] = "unknown event type, acknowledged"
	}

	// Artifact messages ride along on any event type.
	if eventType != call.EventEndOfCallReport {
		s.applyFragments(ctx, state, envelope.ArtifactFragments(), outcomes)
	}

	fields := outcomes.Fields()
	fields["call_id"] = callID
	fields["call_id_source"] = idSource
	fields["event_type"] = eventType
	s.log.WithFields(fields).Info("Webhook processed")
}

func (s *callService) initializeCall(ctx context.Context, state *callState, callID string, envelope *call.WebhookEnvelope, outcomes call.StageOutcomes) {
	now := time.Now().UTC()
	id, _ := s.utils.NewULIDFromTimestamp(now)

	phoneNumber := envelope.CustomerNumber()
	if phoneNumber != "" {
		phoneNumber = phone.Normalize(phoneNumber)
	}

	state.mu.Lock()
	state.callLog = entity.CallLog{
		ID:          id,
		CallID:      callID,
		PhoneNumber: phoneNumber,
		Status:      entity.CallStatusStarted,
		StartedAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	callLog := state.callLog
	state.mu.Unlock()

	if client, err := s.callRepo.NewClient(false); err == nil {
		outcomes.Record("persist_create", client.CallLogs.CreateCallLog(ctx, callLog))
	} else {
		outcomes.Record("persist_create", err)
	}

	if s.redis != nil {
		outcomes.Record("cache_status", s.redis.SetCallStatus(ctx, callID, string(entity.CallStatusStarted), activeStatusTTL))
	}

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		linkCtx, cancel := context.WithTimeout(context.Background(), postCompletionWait)
		defer cancel()
		s.attemptLink(linkCtx, state, envelope)
	}()
}

// applyStatus advances the lifecycle state. Transitions only move
// forward, so a late status-update can never regress a completed call.
func (s *callService) applyStatus(ctx context.Context, state *callState, next entity.CallStatus, outcomes call.StageOutcomes) {
	if next == entity.CallStatusUnknown {
		outcomes["status"] = "unrecognized provider status, ignored"
		return
	}

	state.mu.Lock()
	callID := state.callLog.CallID
	if !state.callLog.Status.CanTransition(next) {
		state.mu.Unlock()
		outcomes["status"] = "no forward transition"
		return
	}
	state.callLog.Status = next
	state.callLog.UpdatedAt = time.Now().UTC()
	state.mu.Unlock()

	if client, err := s.callRepo.NewClient(false); err == nil {
		outcomes.Record("persist_status", client.CallLogs.UpdateCallLogFields(ctx, callID, map[string]interface{}{
			"status": string(next),
		}))
	}

	if s.redis != nil {
		outcomes.Record("cache_status", s.redis.SetCallStatus(ctx, callID, string(next), activeStatusTTL))
	}
}

func (s *callService) applyFragments(ctx context.Context, state *callState, fragments []call.TurnFragment, outcomes call.StageOutcomes) {
	if len(fragments) == 0 {
		return
	}

	state.mu.Lock()
	merged, changed := mergeTranscript(state.callLog.Transcript, fragments)
	if changed {
		state.callLog.Transcript = merged
		state.callLog.UpdatedAt = time.Now().UTC()
	}
	callLog := state.callLog
	callLog.Transcript = append([]entity.TranscriptTurn(nil), merged...)
	state.mu.Unlock()

	if !changed {
		return
	}

	transcriptJSON, err := json.Marshal(callLog.Transcript)
	if err == nil {
		if client, err := s.callRepo.NewClient(false); err == nil {
			outcomes.Record("persist_transcript", client.CallLogs.UpdateCallLogFields(ctx, callLog.CallID, map[string]interface{}{
				"transcript": string(transcriptJSON),
			}))
		}
	}

	s.hub.broadcast(call.TranscriptUpdate{
		CallID:       callLog.CallID,
		Status:       string(callLog.Status),
		MessageCount: len(callLog.Transcript),
		Transcript:   callLog.Transcript,
	})
}

// finalizeCall applies the end-of-call report under the call lock, then
// hands the snapshot to post-completion work so extraction never runs
// while the lock is held.
func (s *callService) finalizeCall(ctx context.Context, state *callState, envelope *call.WebhookEnvelope, outcomes call.StageOutcomes) {
	now := time.Now().UTC()

	endedAt := envelope.EndedAt()
	if endedAt.IsZero() {
		endedAt = now
	}

	state.mu.Lock()
	merged, _ := mergeTranscript(state.callLog.Transcript, envelope.ArtifactFragments())
	state.callLog.Transcript = merged
	if state.callLog.Status.CanTransition(entity.CallStatusCompleted) {
		state.callLog.Status = entity.CallStatusCompleted
	}
	state.callLog.EndedAt = endedAt
	if duration := envelope.Duration(); duration > 0 {
		state.callLog.DurationSeconds = duration
	} else if !state.callLog.StartedAt.IsZero() {
		state.callLog.DurationSeconds = endedAt.Sub(state.callLog.StartedAt).Seconds()
	}
	if cost := envelope.Cost(); cost > 0 {
		state.callLog.CostTotal = cost
	}
	if envelope.Message != nil {
		if envelope.Message.Summary != "" {
			state.callLog.Summary = envelope.Message.Summary
		}
		if len(envelope.Message.CostBreakdown) > 0 {
			state.callLog.CostBreakdown = envelope.Message.CostBreakdown
		}
	}
	state.callLog.UpdatedAt = now
	state.finalizedAt = now

	callLog := state.callLog
	callLog.Transcript = append([]entity.TranscriptTurn(nil), state.callLog.Transcript...)
	state.mu.Unlock()

	finalText := envelope.FinalTranscriptText()
	if finalText == "" {
		finalText = transcriptText(callLog.Transcript)
	}

	outcomes.Record("persist_final", s.persistFinalCallLog(ctx, callLog))

	if s.redis != nil {
		outcomes.Record("cache_status", s.redis.SetCallStatus(ctx, callLog.CallID, string(entity.CallStatusCompleted), completedCallRetention))
	}

	s.hub.broadcast(call.TranscriptUpdate{
		CallID:       callLog.CallID,
		Status:       string(callLog.Status),
		MessageCount: len(callLog.Transcript),
		Transcript:   callLog.Transcript,
	})

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		postCtx, cancel := context.WithTimeout(context.Background(), postCompletionWait)
		defer cancel()
		s.postCompletion(postCtx, state, envelope, callLog, finalText)
	}()
}

func (s *callService) persistFinalCallLog(ctx context.Context, callLog entity.CallLog) error {
	transcriptJSON, err := json.Marshal(callLog.Transcript)
	if err != nil {
		return err
	}
	breakdownJSON, err := json.Marshal(callLog.CostBreakdown)
	if err != nil {
		return err
	}

	client, err := s.callRepo.NewClient(false)
	if err != nil {
		return err
	}

	return client.CallLogs.UpdateCallLogFields(ctx, callLog.CallID, map[string]interface{}{
		"status":           string(callLog.Status),
		"ended_at":         callLog.EndedAt,
		"duration_seconds": callLog.DurationSeconds,
		"cost_total":       callLog.CostTotal,
		"cost_breakdown":   string(breakdownJSON),
		"transcript":       string(transcriptJSON),
		"summary":          callLog.Summary,
	})
}

// postCompletion links, extracts and reconciles after a call ends. Each
// step is best effort: a failed extraction leaves the application
// untouched rather than failing the pipeline.
func (s *callService) postCompletion(ctx context.Context, state *callState, envelope *call.WebhookEnvelope, callLog entity.CallLog, finalText string) {
	applicationID := s.attemptLink(ctx, state, envelope)

	if s.s3Client != nil && len(callLog.Transcript) > 0 {
		if transcriptJSON, err := json.Marshal(callLog.Transcript); err == nil {
			if _, err := s.s3Client.UploadTranscript(callLog.CallID, transcriptJSON); err != nil {
				s.log.WithFields(logrus.Fields{
					"call_id": callLog.CallID,
					"error":   err.Error(),
				}).Warn("Failed to archive transcript")
			}
		}
	}

	if applicationID == "" {
		s.log.WithFields(logrus.Fields{
			"call_id": callLog.CallID,
		}).Info("Skipping extraction, call has no linked application")
		return
	}
	if strings.TrimSpace(finalText) == "" {
		s.log.WithFields(logrus.Fields{
			"call_id": callLog.CallID,
		}).Info("Skipping extraction, call has no transcript")
		return
	}

	candidate := s.extractFields(ctx, callLog.CallID, finalText)
	if candidate.IsBlank() {
		s.log.WithFields(logrus.Fields{
			"call_id":        callLog.CallID,
			"application_id": applicationID,
		}).Info("Extraction produced no fields")
		return
	}

	if err := s.appService.ReconcileExtracted(ctx, applicationID, candidate); err != nil {
		s.log.WithFields(logrus.Fields{
			"call_id":        callLog.CallID,
			"application_id": applicationID,
			"error":          err.Error(),
		}).Error("Failed to reconcile extracted fields")
	}
}

// extractFields tries the primary extractor and falls back to the
// secondary. Extraction is fail open: any error yields a blank
// candidate and the call data stays persisted regardless.
func (s *callService) extractFields(ctx context.Context, callID, transcript string) entity.CandidateRecord {
	if s.extractor != nil {
		candidate, err := s.extractor.ExtractApplicationFields(ctx, transcript)
		if err == nil {
			return candidate
		}
		s.log.WithFields(logrus.Fields{
			"call_id": callID,
			"error":   err.Error(),
		}).Warn("Primary extractor failed")
	}

	if s.fallback != nil {
		candidate, err := s.fallback.ExtractApplicationFields(ctx, transcript)
		if err == nil {
			return candidate
		}
		s.log.WithFields(logrus.Fields{
			"call_id": callID,
			"error":   err.Error(),
		}).Warn("Fallback extractor failed")
	}

	return entity.CandidateRecord{}
}
