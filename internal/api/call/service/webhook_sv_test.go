package callService

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"sync"
	"testing"

	"MortgageIntake/internal/api/application"
	"MortgageIntake/internal/api/call"
	callRepository "MortgageIntake/internal/api/call/repository"
	"MortgageIntake/internal/entity"
	"MortgageIntake/pkg/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCallLogStore is an in-memory stand-in for the call_logs table.
type fakeCallLogStore struct {
	mu   sync.Mutex
	rows map[string]entity.CallLog
}

func newFakeCallLogStore() *fakeCallLogStore {
	return &fakeCallLogStore{rows: make(map[string]entity.CallLog)}
}

func (f *fakeCallLogStore) CreateCallLog(_ context.Context, callLog entity.CallLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[callLog.CallID] = callLog
	return nil
}

func (f *fakeCallLogStore) GetCallLogByCallID(_ context.Context, callID string) (entity.CallLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[callID]
	if !ok {
		return entity.CallLog{}, sql.ErrNoRows
	}
	return row, nil
}

func (f *fakeCallLogStore) UpdateCallLogFields(_ context.Context, callID string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[callID]
	if !ok {
		return sql.ErrNoRows
	}
	if status, ok := fields["status"].(string); ok {
		row.Status = entity.CallStatus(status)
	}
	if transcriptJSON, ok := fields["transcript"].(string); ok {
		var turns []entity.TranscriptTurn
		if err := json.Unmarshal([]byte(transcriptJSON), &turns); err == nil {
			row.Transcript = turns
		}
	}
	if summary, ok := fields["summary"].(string); ok {
		row.Summary = summary
	}
	f.rows[callID] = row
	return nil
}

func (f *fakeCallLogStore) LinkApplication(_ context.Context, callID, applicationID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[callID]
	if !ok || row.ApplicationID != "" {
		return false, nil
	}
	row.ApplicationID = applicationID
	f.rows[callID] = row
	return true, nil
}

func (f *fakeCallLogStore) GetCallLogsByApplicationID(_ context.Context, applicationID string) ([]entity.CallLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.CallLog
	for _, row := range f.rows {
		if row.ApplicationID == applicationID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeCallLogStore) ListCallLogs(_ context.Context, _ int) ([]entity.CallLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.CallLog, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeCallLogStore) DeleteCallLog(_ context.Context, callID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[callID]; !ok {
		return sql.ErrNoRows
	}
	delete(f.rows, callID)
	return nil
}

type fakeCallRepo struct {
	store *fakeCallLogStore
}

func (f *fakeCallRepo) NewClient(bool) (callRepository.Client, error) {
	return callRepository.Client{
		CallLogs: f.store,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

// fakeAppService records reconciliations and answers phone lookups.
type fakeAppService struct {
	mu         sync.Mutex
	byPhone    map[string]entity.ApplicationRecord
	byID       map[string]entity.ApplicationRecord
	reconciled map[string]entity.CandidateRecord
}

func newFakeAppService() *fakeAppService {
	return &fakeAppService{
		byPhone:    make(map[string]entity.ApplicationRecord),
		byID:       make(map[string]entity.ApplicationRecord),
		reconciled: make(map[string]entity.CandidateRecord),
	}
}

func (f *fakeAppService) CreateApplication(context.Context, application.CreateApplicationRequest) (entity.ApplicationRecord, error) {
	return entity.ApplicationRecord{}, nil
}

func (f *fakeAppService) GetApplication(_ context.Context, id string) (entity.ApplicationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.byID[id]
	if !ok {
		return entity.ApplicationRecord{}, application.ErrApplicationNotFound
	}
	return app, nil
}

func (f *fakeAppService) UpdateApplication(context.Context, string, map[string]interface{}) error {
	return nil
}

func (f *fakeAppService) UpdateApplicationField(context.Context, string, string, interface{}) error {
	return nil
}

func (f *fakeAppService) DeleteApplication(context.Context, string) error { return nil }

func (f *fakeAppService) ListApplications(context.Context, int, int) ([]entity.ApplicationRecord, error) {
	return nil, nil
}

func (f *fakeAppService) SearchApplications(context.Context, application.SearchApplicationsRequest) ([]entity.ApplicationRecord, error) {
	return nil, nil
}

func (f *fakeAppService) GetMissingFields(context.Context, string) (application.MissingFieldsResponse, error) {
	return application.MissingFieldsResponse{}, nil
}

func (f *fakeAppService) FindLatestByPhone(_ context.Context, normalizedPhone string) (entity.ApplicationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.byPhone[normalizedPhone]
	if !ok {
		return entity.ApplicationRecord{}, application.ErrApplicationNotFound
	}
	return app, nil
}

func (f *fakeAppService) ReconcileExtracted(_ context.Context, applicationID string, candidate entity.CandidateRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reconciled[applicationID] = candidate
	return nil
}

type fakeExtractor struct {
	candidate entity.CandidateRecord
	err       error

	mu          sync.Mutex
	transcripts []string
}

func (f *fakeExtractor) ExtractApplicationFields(_ context.Context, transcript string) (entity.CandidateRecord, error) {
	f.mu.Lock()
	f.transcripts = append(f.transcripts, transcript)
	f.mu.Unlock()
	return f.candidate, f.err
}

func newTestService(t *testing.T, store *fakeCallLogStore, appSvc *fakeAppService, extractor FieldExtractor, fallback FieldExtractor) *callService {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := New(logger, &fakeCallRepo{store: store}, appSvc, extractor, fallback, nil, nil, nil, utils.New())
	return svc.(*callService)
}

func envelopeFromJSON(t *testing.T, payload string) *call.WebhookEnvelope {
	t.Helper()
	var env call.WebhookEnvelope
	require.NoError(t, json.Unmarshal([]byte(payload), &env))
	return &env
}

func TestVerifySignature(t *testing.T) {
	t.Setenv("VAPI_WEBHOOK_SECRET", "test-secret")

	svc := newTestService(t, newFakeCallLogStore(), newFakeAppService(), nil, nil)

	payload := []byte(`{"message":{"type":"status-update"}}`)
	mac := hmac.New(sha256.New, []byte("test-secret"))
	mac.Write(payload)
	signature := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, svc.VerifySignature(payload, signature))
	assert.True(t, svc.VerifySignature(payload, "sha256="+signature))
	assert.False(t, svc.VerifySignature(payload, "deadbeef"))
	assert.False(t, svc.VerifySignature([]byte("tampered"), signature))
}

func TestVerifySignature_MissingHeaderIsAccepted(t *testing.T) {
	t.Setenv("VAPI_WEBHOOK_SECRET", "test-secret")

	svc := newTestService(t, newFakeCallLogStore(), newFakeAppService(), nil, nil)
	assert.True(t, svc.VerifySignature([]byte(`{"message":{}}`), ""))
}

func TestVerifySignature_NoSecretConfigured(t *testing.T) {
	t.Setenv("VAPI_WEBHOOK_SECRET", "")

	svc := newTestService(t, newFakeCallLogStore(), newFakeAppService(), nil, nil)
	assert.True(t, svc.VerifySignature([]byte("anything"), ""))
}

func TestHandleWebhook_FullCallLifecycle(t *testing.T) {
	store := newFakeCallLogStore()
	appSvc := newFakeAppService()
	extractor := &fakeExtractor{candidate: entity.CandidateRecord{AnnualIncome: "75000"}}
	svc := newTestService(t, store, appSvc, extractor, nil)

	ctx := context.Background()

	svc.HandleWebhook(ctx, envelopeFromJSON(t, `{
		"message": {
			"type": "call-start",
			"call": {"id": "abc-123", "customer": {"number": "4167009468"}}
		}
	}`))

	svc.HandleWebhook(ctx, envelopeFromJSON(t, `{
		"message": {
			"type": "transcript",
			"call": {"id": "abc-123"},
			"transcript": [
				{"role": "assistant", "message": "What is your annual income?"},
				{"role": "customer", "message": "It's 75000"}
			]
		}
	}`))

	svc.HandleWebhook(ctx, envelopeFromJSON(t, `{
		"message": {
			"type": "end-of-call-report",
			"call": {
				"id": "abc-123",
				"assistantOverrides": {"variableValues": {"application_id": "app-42"}}
			},
			"durationSeconds": 180,
			"cost": 0.42,
			"summary": "Customer shared income details.",
			"artifact": {
				"transcript": "bot: What is your annual income?\nuser: It's 75000",
				"messages": [
					{"role": "assistant", "message": "What is your annual income?"},
					{"role": "customer", "message": "It's 75000"}
				]
			}
		}
	}`))

	svc.Flush()

	row, err := store.GetCallLogByCallID(ctx, "abc-123")
	require.NoError(t, err)
	assert.Equal(t, entity.CallStatusCompleted, row.Status)
	assert.Equal(t, "app-42", row.ApplicationID)
	assert.Equal(t, "+14167009468", row.PhoneNumber)
	assert.Len(t, row.Transcript, 2)

	candidate, ok := appSvc.reconciled["app-42"]
	require.True(t, ok, "extraction result should be reconciled into app-42")
	assert.Equal(t, "75000", candidate.AnnualIncome)
}

func TestHandleWebhook_MissingCallIDIsAcknowledged(t *testing.T) {
	store := newFakeCallLogStore()
	svc := newTestService(t, store, newFakeAppService(), nil, nil)

	svc.HandleWebhook(context.Background(), envelopeFromJSON(t, `{"message":{"type":"transcript"}}`))
	svc.Flush()

	assert.Empty(t, store.rows)
}

func TestHandleWebhook_UnknownEventTypeStillTracksCall(t *testing.T) {
	store := newFakeCallLogStore()
	svc := newTestService(t, store, newFakeAppService(), nil, nil)

	svc.HandleWebhook(context.Background(), envelopeFromJSON(t, `{
		"message": {"type": "speech-update", "call": {"id": "xyz-9"}}
	}`))
	svc.Flush()

	_, err := store.GetCallLogByCallID(context.Background(), "xyz-9")
	assert.NoError(t, err)
}

func TestHandleWebhook_LateStatusUpdateNeverRegresses(t *testing.T) {
	store := newFakeCallLogStore()
	svc := newTestService(t, store, newFakeAppService(), &fakeExtractor{}, nil)

	ctx := context.Background()

	svc.HandleWebhook(ctx, envelopeFromJSON(t, `{
		"message": {"type": "end-of-call-report", "call": {"id": "late-1"}}
	}`))
	svc.HandleWebhook(ctx, envelopeFromJSON(t, `{
		"message": {"type": "status-update", "status": "in-progress", "call": {"id": "late-1"}}
	}`))
	svc.Flush()

	row, err := store.GetCallLogByCallID(ctx, "late-1")
	require.NoError(t, err)
	assert.Equal(t, entity.CallStatusCompleted, row.Status)
}

func TestHandleWebhook_ExtractionFailureLeavesCallPersisted(t *testing.T) {
	store := newFakeCallLogStore()
	appSvc := newFakeAppService()
	extractor := &fakeExtractor{err: assert.AnError}
	svc := newTestService(t, store, appSvc, extractor, nil)

	ctx := context.Background()
	svc.HandleWebhook(ctx, envelopeFromJSON(t, `{
		"message": {
			"type": "end-of-call-report",
			"call": {
				"id": "fail-1",
				"assistantOverrides": {"variableValues": {"application_id": "app-7"}}
			},
			"artifact": {
				"transcript": "user: hello",
				"messages": [{"role": "customer", "message": "hello"}]
			}
		}
	}`))
	svc.Flush()

	row, err := store.GetCallLogByCallID(ctx, "fail-1")
	require.NoError(t, err)
	assert.Equal(t, entity.CallStatusCompleted, row.Status)
	assert.Empty(t, appSvc.reconciled)
}

func TestHandleWebhook_FallbackExtractorIsUsed(t *testing.T) {
	store := newFakeCallLogStore()
	appSvc := newFakeAppService()
	primary := &fakeExtractor{err: assert.AnError}
	fallback := &fakeExtractor{candidate: entity.CandidateRecord{PropertyValue: "650000"}}
	svc := newTestService(t, store, appSvc, primary, fallback)

	svc.HandleWebhook(context.Background(), envelopeFromJSON(t, `{
		"message": {
			"type": "end-of-call-report",
			"call": {
				"id": "fb-1",
				"assistantOverrides": {"variableValues": {"application_id": "app-9"}}
			},
			"artifact": {
				"transcript": "user: the house is worth 650000",
				"messages": [{"role": "customer", "message": "the house is worth 650000"}]
			}
		}
	}`))
	svc.Flush()

	candidate, ok := appSvc.reconciled["app-9"]
	require.True(t, ok)
	assert.Equal(t, "650000", candidate.PropertyValue)
}
