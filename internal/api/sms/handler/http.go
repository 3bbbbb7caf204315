package smsHandler

import (
	smsService "MortgageIntake/internal/api/sms/service"
	"MortgageIntake/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type SMSHandler struct {
	log        *logrus.Logger
	validator  *validator.Validate
	middleware middleware.Middleware
	smsService smsService.ISMSService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ss smsService.ISMSService,
) *SMSHandler {
	return &SMSHandler{
		log:        log,
		validator:  validate,
		middleware: middleware,
		smsService: ss,
	}
}

func (h *SMSHandler) Start(srv fiber.Router) {
	smsGroup := srv.Group("/sms")

	smsGroup.Post("/webhook", h.HandleInbound)
	smsGroup.Post("/send-first", h.SendFirstMessage)
	smsGroup.Get("/conversation/:phone", h.GetConversation)
}
