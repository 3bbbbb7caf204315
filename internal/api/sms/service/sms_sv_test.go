package smsService

import (
	"context"
	"strings"
	"sync"
	"testing"

	"MortgageIntake/internal/api/application"
	applicationService "MortgageIntake/internal/api/application/service"
	"MortgageIntake/internal/api/sms"
	smsRepository "MortgageIntake/internal/api/sms/repository"
	"MortgageIntake/internal/entity"
	"MortgageIntake/pkg/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessageStore struct {
	mu       sync.Mutex
	messages []entity.SMSMessage
}

func (f *fakeMessageStore) CreateSMSMessage(_ context.Context, message entity.SMSMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessageStore) GetSMSMessagesByPhone(_ context.Context, phone string, _ int) ([]entity.SMSMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.SMSMessage
	for _, message := range f.messages {
		if message.PhoneNumber == phone {
			out = append(out, message)
		}
	}
	return out, nil
}

type fakeSMSRepo struct {
	store *fakeMessageStore
}

func (f *fakeSMSRepo) NewClient(bool) (smsRepository.Client, error) {
	return smsRepository.Client{
		Messages: f.store,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

// phoneOnlyAppService answers FindLatestByPhone and nothing else.
type phoneOnlyAppService struct {
	applicationService.IApplicationService
	byPhone map[string]entity.ApplicationRecord
}

func (f *phoneOnlyAppService) FindLatestByPhone(_ context.Context, normalizedPhone string) (entity.ApplicationRecord, error) {
	app, ok := f.byPhone[normalizedPhone]
	if !ok {
		return entity.ApplicationRecord{}, application.ErrApplicationNotFound
	}
	return app, nil
}

type fakeSender struct {
	sid  string
	err  error
	sent []string
}

func (f *fakeSender) SendSMS(_ context.Context, phoneNumber, message string) (string, error) {
	f.sent = append(f.sent, phoneNumber+": "+message)
	return f.sid, f.err
}

func newSMSService(t *testing.T, store *fakeMessageStore, appSvc applicationService.IApplicationService, sender *fakeSender) ISMSService {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return New(logger, &fakeSMSRepo{store: store}, appSvc, sender, utils.New())
}

func TestReplyFor(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"Hello there", "Hello! How can I assist you today?"},
		{"HELP", "I'm here to help! You can ask me questions or type 'menu' to see available options."},
		{"bye for now", "Thank you for chatting with us! Have a great day!"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, replyFor(tt.body), "body %q", tt.body)
	}

	assert.Contains(t, replyFor("menu"), "1. Get information")
	assert.Contains(t, replyFor("1"), "helpful information")
	assert.Contains(t, replyFor("2"), "support team")
	assert.Contains(t, replyFor("3"), "schedule an appointment")
}

func TestReplyFor_DefaultEchoes(t *testing.T) {
	reply := replyFor("my rate is too low")
	assert.True(t, strings.Contains(reply, "my rate is too low"))
	assert.Contains(t, reply, "Type 'help' for more options.")
}

func TestReplyFor_SubstringKeywordsMatchInsideWords(t *testing.T) {
	// "high" contains "hi", so it greets rather than echoing.
	assert.Equal(t, "Hello! How can I assist you today?", replyFor("my rate is too high"))
}

func TestHandleInbound_RecordsBothDirections(t *testing.T) {
	store := &fakeMessageStore{}
	appSvc := &phoneOnlyAppService{byPhone: map[string]entity.ApplicationRecord{
		"+14167009468": {ID: "app-1"},
	}}
	svc := newSMSService(t, store, appSvc, &fakeSender{})

	reply, err := svc.HandleInbound(context.Background(), sms.InboundSMSRequest{
		From:       "4167009468",
		Body:       "hello",
		MessageSid: "SM123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I assist you today?", reply)

	require.Len(t, store.messages, 2)

	inbound := store.messages[0]
	assert.Equal(t, entity.SMSDirectionInbound, inbound.Direction)
	assert.Equal(t, "+14167009468", inbound.PhoneNumber)
	assert.Equal(t, "SM123", inbound.MessageSID)
	assert.Equal(t, "app-1", inbound.ApplicationID)
	assert.NotEmpty(t, inbound.ID)

	outbound := store.messages[1]
	assert.Equal(t, entity.SMSDirectionOutbound, outbound.Direction)
	assert.Equal(t, reply, outbound.Body)
	assert.Equal(t, "app-1", outbound.ApplicationID)
}

func TestHandleInbound_MissingSender(t *testing.T) {
	svc := newSMSService(t, &fakeMessageStore{}, &phoneOnlyAppService{}, &fakeSender{})

	_, err := svc.HandleInbound(context.Background(), sms.InboundSMSRequest{Body: "hello"})
	assert.ErrorIs(t, err, sms.ErrMissingSender)
}

func TestSendFirstMessage_UsesDefaultBody(t *testing.T) {
	store := &fakeMessageStore{}
	sender := &fakeSender{sid: "SM900"}
	svc := newSMSService(t, store, &phoneOnlyAppService{}, sender)

	sid, err := svc.SendFirstMessage(context.Background(), sms.SendFirstSMSRequest{Phone: "4167009468"})
	require.NoError(t, err)
	assert.Equal(t, "SM900", sid)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], defaultFirstMessage)

	require.Len(t, store.messages, 1)
	assert.Equal(t, entity.SMSDirectionOutbound, store.messages[0].Direction)
	assert.Equal(t, "SM900", store.messages[0].MessageSID)
}

func TestSendFirstMessage_SenderFailure(t *testing.T) {
	store := &fakeMessageStore{}
	sender := &fakeSender{err: assert.AnError}
	svc := newSMSService(t, store, &phoneOnlyAppService{}, sender)

	_, err := svc.SendFirstMessage(context.Background(), sms.SendFirstSMSRequest{Phone: "4167009468"})
	assert.ErrorIs(t, err, sms.ErrSendFailed)
	assert.Empty(t, store.messages)
}

func TestGetConversation_NormalizesPhone(t *testing.T) {
	store := &fakeMessageStore{messages: []entity.SMSMessage{
		{PhoneNumber: "+14167009468", Body: "hi"},
		{PhoneNumber: "+15550001111", Body: "other"},
	}}
	svc := newSMSService(t, store, &phoneOnlyAppService{}, &fakeSender{})

	messages, err := svc.GetConversation(context.Background(), "(416) 700-9468")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hi", messages[0].Body)
}
