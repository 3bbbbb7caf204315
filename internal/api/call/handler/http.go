package callHandler

import (
	callService "MortgageIntake/internal/api/call/service"
	"MortgageIntake/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type CallHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	callService callService.ICallService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs callService.ICallService,
) *CallHandler {
	return &CallHandler{
		log:         log,
		validator:   validate,
		middleware:  middleware,
		callService: cs,
	}
}

func (h *CallHandler) Start(srv fiber.Router) {
	srv.Post("/webhook", h.HandleWebhook)
	srv.Get("/stats", h.GetStats)

	srv.Get("/transcript/:call_id", h.GetTranscript)
	srv.Delete("/transcript/:call_id", h.ClearTranscript)
	srv.Get("/transcripts", h.ListActiveCalls)
	srv.Get("/completed-calls", h.ListCompletedCalls)

	calls := srv.Group("/calls")
	calls.Post("/trigger", h.TriggerCall)
	calls.Post("/schedule", h.ScheduleCall)
	calls.Get("/by-application/:id", h.GetCallsByApplication)

	ws := srv.Group("/ws")
	ws.Use("/transcripts", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	ws.Get("/transcripts", websocket.New(h.StreamTranscripts))
}
