package smsService

import (
	"context"
	"strings"
	"time"

	"MortgageIntake/internal/api/sms"
	"MortgageIntake/internal/entity"
	"MortgageIntake/pkg/phone"

	"github.com/sirupsen/logrus"
)

const defaultFirstMessage = "Hello! Welcome to our SMS chatbot. How can I help you today?"

func (s *smsService) HandleInbound(ctx context.Context, req sms.InboundSMSRequest) (string, error) {
	if req.From == "" {
		return "", sms.ErrMissingSender
	}

	normalized := phone.Normalize(req.From)
	applicationID := s.findLinkedApplication(ctx, normalized)

	s.recordMessage(ctx, entity.SMSMessage{
		PhoneNumber:   normalized,
		Direction:     entity.SMSDirectionInbound,
		Body:          req.Body,
		MessageSID:    req.MessageSid,
		ApplicationID: applicationID,
	})

	reply := replyFor(req.Body)

	s.recordMessage(ctx, entity.SMSMessage{
		PhoneNumber:   normalized,
		Direction:     entity.SMSDirectionOutbound,
		Body:          reply,
		ApplicationID: applicationID,
	})

	s.log.WithFields(logrus.Fields{
		"phone":          normalized,
		"application_id": applicationID,
	}).Info("Inbound sms handled")

	return reply, nil
}

func (s *smsService) SendFirstMessage(ctx context.Context, req sms.SendFirstSMSRequest) (string, error) {
	normalized := phone.Normalize(req.Phone)

	message := req.Message
	if message == "" {
		message = defaultFirstMessage
	}

	sid, err := s.sender.SendSMS(ctx, normalized, message)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"phone": normalized,
			"error": err.Error(),
		}).Error("Failed to send first sms")
		return "", sms.ErrSendFailed
	}

	s.recordMessage(ctx, entity.SMSMessage{
		PhoneNumber:   normalized,
		Direction:     entity.SMSDirectionOutbound,
		Body:          message,
		MessageSID:    sid,
		ApplicationID: s.findLinkedApplication(ctx, normalized),
	})

	return sid, nil
}

func (s *smsService) GetConversation(ctx context.Context, rawPhone string) ([]entity.SMSMessage, error) {
	client, err := s.smsRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	return client.Messages.GetSMSMessagesByPhone(ctx, phone.Normalize(rawPhone), 200)
}

// recordMessage persists best effort: losing a chat log row must not
// break the conversation.
func (s *smsService) recordMessage(ctx context.Context, message entity.SMSMessage) {
	now := time.Now().UTC()
	id, _ := s.utils.NewULIDFromTimestamp(now)
	message.ID = id
	message.CreatedAt = now

	client, err := s.smsRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{"error": err.Error()}).Warn("Failed to open sms repository client")
		return
	}

	if err := client.Messages.CreateSMSMessage(ctx, message); err != nil {
		s.log.WithFields(logrus.Fields{
			"phone": message.PhoneNumber,
			"error": err.Error(),
		}).Warn("Failed to persist sms message")
	}
}

func (s *smsService) findLinkedApplication(ctx context.Context, normalizedPhone string) string {
	app, err := s.appService.FindLatestByPhone(ctx, normalizedPhone)
	if err != nil {
		return ""
	}
	return app.ID
}

// replyFor is a keyword bot. Matching is case insensitive and the
// first rule wins.
func replyFor(body string) string {
	message := strings.ToLower(strings.TrimSpace(body))

	switch {
	case strings.Contains(message, "hello"), strings.Contains(message, "hi"):
		return "Hello! How can I assist you today?"
	case strings.Contains(message, "help"):
		return "I'm here to help! You can ask me questions or type 'menu' to see available options."
	case strings.Contains(message, "menu"):
		return "Here are your options:\n1. Get information\n2. Contact support\n3. Schedule appointment\n\nJust type the number or option name!"
	case strings.Contains(message, "information"), message == "1":
		return "Here's some helpful information about our services. What specific information are you looking for?"
	case strings.Contains(message, "support"), message == "2":
		return "I'll connect you with our support team. Please describe your issue and we'll get back to you shortly."
	case strings.Contains(message, "schedule"), strings.Contains(message, "appointment"), message == "3":
		return "I'd be happy to help you schedule an appointment. What day and time works best for you?"
	case strings.Contains(message, "bye"), strings.Contains(message, "goodbye"):
		return "Thank you for chatting with us! Have a great day!"
	default:
		return "I understand you said: '" + strings.TrimSpace(body) + "'. How can I help you with that? Type 'help' for more options."
	}
}
