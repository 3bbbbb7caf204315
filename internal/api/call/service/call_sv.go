package callService

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"time"

	"MortgageIntake/internal/api/call"
	"MortgageIntake/internal/entity"
	"MortgageIntake/pkg/phone"
	"MortgageIntake/pkg/vapi"

	"github.com/sirupsen/logrus"
)

func (s *callService) GetTranscript(ctx context.Context, callID string) (call.TranscriptResponse, error) {
	if state, ok := s.registry.get(callID); ok {
		state.mu.Lock()
		turns := append([]entity.TranscriptTurn(nil), state.callLog.Transcript...)
		state.mu.Unlock()

		return call.TranscriptResponse{
			CallID:       callID,
			MessageCount: len(turns),
			Transcript:   turns,
		}, nil
	}

	client, err := s.callRepo.NewClient(false)
	if err != nil {
		return call.TranscriptResponse{}, err
	}

	callLog, err := client.CallLogs.GetCallLogByCallID(ctx, callID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return call.TranscriptResponse{}, call.ErrCallNotFound
		}
		return call.TranscriptResponse{}, err
	}

	return call.TranscriptResponse{
		CallID:       callID,
		MessageCount: len(callLog.Transcript),
		Transcript:   callLog.Transcript,
	}, nil
}

func (s *callService) ListActiveCalls() []call.CallSummary {
	summaries := make([]call.CallSummary, 0)
	for _, callLog := range s.registry.snapshot() {
		if callLog.Status == entity.CallStatusCompleted {
			continue
		}
		summaries = append(summaries, call.CallSummary{
			CallID:       callLog.CallID,
			Status:       string(callLog.Status),
			MessageCount: len(callLog.Transcript),
			StartedAt:    callLog.StartedAt,
		})
	}
	return summaries
}

func (s *callService) ListCompletedCalls(ctx context.Context) ([]call.CallSummary, error) {
	client, err := s.callRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	callLogs, err := client.CallLogs.ListCallLogs(ctx, 100)
	if err != nil {
		return nil, err
	}

	summaries := make([]call.CallSummary, 0, len(callLogs))
	for _, callLog := range callLogs {
		if callLog.Status != entity.CallStatusCompleted {
			continue
		}
		summaries = append(summaries, call.CallSummary{
			CallID:       callLog.CallID,
			Status:       string(callLog.Status),
			MessageCount: len(callLog.Transcript),
			StartedAt:    callLog.StartedAt,
			EndedAt:      callLog.EndedAt,
		})
	}

	return summaries, nil
}

func (s *callService) ClearTranscript(ctx context.Context, callID string) error {
	_, tracked := s.registry.get(callID)
	s.registry.evict(callID)

	client, err := s.callRepo.NewClient(false)
	if err != nil {
		return err
	}

	if err := client.CallLogs.DeleteCallLog(ctx, callID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if tracked {
				return nil
			}
			return call.ErrCallNotFound
		}
		return err
	}

	return nil
}

func (s *callService) GetCallLogsByApplicationID(ctx context.Context, applicationID string) ([]entity.CallLog, error) {
	client, err := s.callRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	return client.CallLogs.GetCallLogsByApplicationID(ctx, applicationID)
}

func (s *callService) TriggerCall(ctx context.Context, req call.TriggerCallRequest) (string, error) {
	return s.placeCall(ctx, req, time.Time{})
}

func (s *callService) ScheduleCall(ctx context.Context, req call.ScheduleCallRequest) (string, error) {
	if req.EarliestAt.Before(time.Now()) {
		return "", call.ErrScheduleInPast
	}
	return s.placeCall(ctx, req.TriggerCallRequest, req.EarliestAt)
}

func (s *callService) placeCall(ctx context.Context, req call.TriggerCallRequest, earliestAt time.Time) (string, error) {
	app, err := s.appService.GetApplication(ctx, req.ApplicationID)
	if err != nil {
		return "", err
	}

	interest := app.WhatLookingToDo
	if interest == "" {
		interest = "a mortgage"
	}

	callID, err := s.vapiClient.PlaceCall(ctx, vapi.PlaceCallRequest{
		ApplicationID: req.ApplicationID,
		AgentName:     envOrDefault("MORTGAGE_AGENT_NAME", "Alex"),
		BrokerageName: envOrDefault("BROKERAGE_NAME", "the brokerage"),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		PhoneNumber:   phone.Normalize(req.Phone),
		Interest:      interest,
		EarliestAt:    earliestAt,
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"application_id": req.ApplicationID,
			"error":          err.Error(),
		}).Error("Failed to place outbound call")
		return "", call.ErrCallDispatch
	}

	s.log.WithFields(logrus.Fields{
		"application_id": req.ApplicationID,
		"call_id":        callID,
		"scheduled":      !earliestAt.IsZero(),
	}).Info("Outbound call dispatched")

	return callID, nil
}

func (s *callService) Stats() call.StatsResponse {
	s.mu.Lock()
	count := s.webhookCount
	s.mu.Unlock()

	return call.StatsResponse{
		WebhooksReceived: count,
		UptimeSeconds:    time.Since(s.startedAt).Seconds(),
		Status:           "running",
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
