package callService

import (
	"context"
	"database/sql"
	"errors"

	"MortgageIntake/internal/api/call"
	"MortgageIntake/pkg/phone"

	"github.com/sirupsen/logrus"
)

// resolveApplicationID walks the linkage strategies in declared order
// and returns the first hit plus the strategy name. An empty result
// means no strategy could place this call.
func (s *callService) resolveApplicationID(ctx context.Context, callID, currentAppID, phoneNumber string, env *call.WebhookEnvelope) (string, string) {
	if currentAppID != "" {
		return currentAppID, "already-linked"
	}

	if applicationID := s.lookupPersistedLink(ctx, callID); applicationID != "" {
		return applicationID, "persisted-call-log"
	}

	if env != nil {
		if values := env.ResolveVariableValues(); values != nil {
			if applicationID := values["application_id"]; applicationID != "" {
				return applicationID, "variable-values"
			}
		}
	}

	if applicationID := s.lookupByPhone(ctx, phoneNumber); applicationID != "" {
		return applicationID, "phone-fallback"
	}

	return "", ""
}

func (s *callService) lookupPersistedLink(ctx context.Context, callID string) string {
	client, err := s.callRepo.NewClient(false)
	if err != nil {
		return ""
	}

	callLog, err := client.CallLogs.GetCallLogByCallID(ctx, callID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.WithFields(logrus.Fields{
				"call_id": callID,
				"error":   err.Error(),
			}).Warn("Persisted link lookup failed")
		}
		return ""
	}

	return callLog.ApplicationID
}

func (s *callService) lookupByPhone(ctx context.Context, phoneNumber string) string {
	if phoneNumber == "" {
		return ""
	}

	app, err := s.appService.FindLatestByPhone(ctx, phone.Normalize(phoneNumber))
	if err != nil {
		return ""
	}

	return app.ID
}

// attemptLink resolves and records the application for a call. The
// in-memory link is set at most once; the database write is guarded by
// an application_id IS NULL predicate so a concurrent linker cannot
// overwrite it either.
func (s *callService) attemptLink(ctx context.Context, state *callState, env *call.WebhookEnvelope) string {
	state.mu.Lock()
	callID := state.callLog.CallID
	currentAppID := state.callLog.ApplicationID
	phoneNumber := state.callLog.PhoneNumber
	state.mu.Unlock()

	applicationID, strategy := s.resolveApplicationID(ctx, callID, currentAppID, phoneNumber, env)
	if applicationID == "" {
		s.log.WithFields(logrus.Fields{
			"call_id": callID,
		}).Info("No application could be linked to call")
		return ""
	}

	if strategy != "already-linked" {
		state.mu.Lock()
		if state.callLog.ApplicationID == "" {
			state.callLog.ApplicationID = applicationID
		} else {
			applicationID = state.callLog.ApplicationID
		}
		state.mu.Unlock()

		if client, err := s.callRepo.NewClient(false); err == nil {
			if _, err := client.CallLogs.LinkApplication(ctx, callID, applicationID); err != nil {
				s.log.WithFields(logrus.Fields{
					"call_id":        callID,
					"application_id": applicationID,
					"error":          err.Error(),
				}).Warn("Failed to persist call to application link")
			}
		}

		s.log.WithFields(logrus.Fields{
			"call_id":        callID,
			"application_id": applicationID,
			"strategy":       strategy,
		}).Info("Linked call to application")
	}

	return applicationID
}
