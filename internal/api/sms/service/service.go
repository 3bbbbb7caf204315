package smsService

import (
	"context"

	applicationService "MortgageIntake/internal/api/application/service"
	"MortgageIntake/internal/api/sms"
	smsRepository "MortgageIntake/internal/api/sms/repository"
	"MortgageIntake/internal/entity"
	"MortgageIntake/pkg/twilio"
	"MortgageIntake/pkg/utils"

	"github.com/sirupsen/logrus"
)

type ISMSService interface {
	// HandleInbound records an incoming message and returns the reply
	// body to embed in the TwiML response.
	HandleInbound(ctx context.Context, req sms.InboundSMSRequest) (string, error)
	SendFirstMessage(ctx context.Context, req sms.SendFirstSMSRequest) (string, error)
	GetConversation(ctx context.Context, phone string) ([]entity.SMSMessage, error)
}

type smsService struct {
	log        *logrus.Logger
	smsRepo    smsRepository.Repository
	appService applicationService.IApplicationService
	sender     twilio.ITwilioSender
	utils      utils.IUtils
}

func New(
	log *logrus.Logger,
	smsRepo smsRepository.Repository,
	appService applicationService.IApplicationService,
	sender twilio.ITwilioSender,
	utils utils.IUtils,
) ISMSService {
	return &smsService{
		log:        log,
		smsRepo:    smsRepo,
		appService: appService,
		sender:     sender,
		utils:      utils,
	}
}
