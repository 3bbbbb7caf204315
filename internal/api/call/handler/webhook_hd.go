package callHandler

import (
	"MortgageIntake/internal/api/call"
	contextPkg "MortgageIntake/pkg/context"
	"MortgageIntake/pkg/handlerUtil"
	"MortgageIntake/pkg/log"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

const signatureHeader = "x-vapi-signature"

// HandleWebhook receives provider events. Signature and JSON failures
// are the only rejections; everything past parsing is fault isolated
// inside the service so the provider gets its 200 and does not retry.
func (h *CallHandler) HandleWebhook(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	body := ctx.Body()

	if !h.callService.VerifySignature(body, ctx.Get(signatureHeader)) {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
		}).Warn("Webhook signature verification failed")
		return errHandler.Handle(ctx, requestID, call.ErrInvalidSignature, ctx.Path(), "verify_signature")
	}

	var envelope call.WebhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errHandler.Handle(ctx, requestID, call.ErrInvalidPayload, ctx.Path(), "parse_webhook")
	}

	h.callService.HandleWebhook(c, &envelope)

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{"success": true})
}
