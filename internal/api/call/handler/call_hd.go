package callHandler

import (
	"MortgageIntake/internal/api/call"
	contextPkg "MortgageIntake/pkg/context"
	"MortgageIntake/pkg/handlerUtil"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *CallHandler) GetStats(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)
	return errHandler.HandleSuccess(ctx, fiber.StatusOK, h.callService.Stats())
}

func (h *CallHandler) GetTranscript(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	transcript, err := h.callService.GetTranscript(c, ctx.Params("call_id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_transcript")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, transcript)
	}
}

func (h *CallHandler) ClearTranscript(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	if err := h.callService.ClearTranscript(c, ctx.Params("call_id")); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "clear_transcript")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{"success": true})
	}
}

func (h *CallHandler) ListActiveCalls(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)

	active := h.callService.ListActiveCalls()
	return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
		"active_calls": active,
		"count":        len(active),
	})
}

func (h *CallHandler) ListCompletedCalls(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	completed, err := h.callService.ListCompletedCalls(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_completed_calls")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"completed_calls": completed,
			"count":           len(completed),
		})
	}
}

func (h *CallHandler) GetCallsByApplication(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	callLogs, err := h.callService.GetCallLogsByApplicationID(c, ctx.Params("id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_calls_by_application")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"calls": callLogs,
			"count": len(callLogs),
		})
	}
}

func (h *CallHandler) TriggerCall(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req call.TriggerCallRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	callID, err := h.callService.TriggerCall(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "trigger_call")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, call.TriggerCallResponse{
			Success: true,
			CallID:  callID,
			Message: "Call initiated",
		})
	}
}

func (h *CallHandler) ScheduleCall(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req call.ScheduleCallRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	callID, err := h.callService.ScheduleCall(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "schedule_call")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, call.TriggerCallResponse{
			Success: true,
			CallID:  callID,
			Message: "Call scheduled",
		})
	}
}
