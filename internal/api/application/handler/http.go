package applicationHandler

import (
	applicationService "MortgageIntake/internal/api/application/service"
	"MortgageIntake/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ApplicationHandler struct {
	log                *logrus.Logger
	validator          *validator.Validate
	middleware         middleware.Middleware
	applicationService applicationService.IApplicationService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as applicationService.IApplicationService,
) *ApplicationHandler {
	return &ApplicationHandler{
		log:                log,
		validator:          validate,
		middleware:         middleware,
		applicationService: as,
	}
}

func (h *ApplicationHandler) Start(srv fiber.Router) {
	applications := srv.Group("/applications")

	applications.Post("/", h.CreateApplication)
	applications.Get("/", h.ListApplications)
	applications.Get("/search", h.SearchApplications)
	applications.Get("/:id", h.GetApplication)
	applications.Patch("/:id", h.UpdateApplication)
	applications.Put("/:id/field", h.UpdateApplicationField)
	applications.Delete("/:id", h.DeleteApplication)
	applications.Get("/:id/missing-fields", h.GetMissingFields)
}
