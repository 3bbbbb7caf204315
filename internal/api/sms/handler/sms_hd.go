package smsHandler

import (
	"MortgageIntake/internal/api/sms"
	contextPkg "MortgageIntake/pkg/context"
	"MortgageIntake/pkg/handlerUtil"
	"encoding/xml"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// twimlResponse is the XML body the SMS provider expects back from the
// webhook.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

func (h *SMSHandler) HandleInbound(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req sms.InboundSMSRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	reply, err := h.smsService.HandleInbound(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "handle_inbound_sms")
	}

	body, err := xml.Marshal(twimlResponse{Message: reply})
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "encode_twiml")
	}

	ctx.Set(fiber.HeaderContentType, "application/xml")
	return ctx.Status(fiber.StatusOK).Send(append([]byte(xml.Header), body...))
}

func (h *SMSHandler) SendFirstMessage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req sms.SendFirstSMSRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	sid, err := h.smsService.SendFirstMessage(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "send_first_sms")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, sms.SendFirstSMSResponse{
			Success:    true,
			MessageSID: sid,
		})
	}
}

func (h *SMSHandler) GetConversation(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	phoneParam := ctx.Params("phone")
	messages, err := h.smsService.GetConversation(c, phoneParam)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_sms_conversation")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, sms.ConversationResponse{
			Phone:    phoneParam,
			Messages: messages,
			Count:    len(messages),
		})
	}
}
