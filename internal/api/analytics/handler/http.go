package analyticsHandler

import (
	analyticsService "MortgageIntake/internal/api/analytics/service"
	"MortgageIntake/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AnalyticsHandler struct {
	log              *logrus.Logger
	middleware       middleware.Middleware
	analyticsService analyticsService.IAnalyticsService
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	as analyticsService.IAnalyticsService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:              log,
		middleware:       middleware,
		analyticsService: as,
	}
}

func (h *AnalyticsHandler) Start(srv fiber.Router) {
	analyticsGroup := srv.Group("/analytics")

	analyticsGroup.Get("/dashboard", h.GetDashboard)
	analyticsGroup.Get("/applications/:id", h.GetApplicationDetail)
}
