package applicationService

import (
	"MortgageIntake/internal/api/application"
	applicationRepository "MortgageIntake/internal/api/application/repository"
	"MortgageIntake/internal/entity"
	"MortgageIntake/pkg/utils"
	"context"

	"github.com/sirupsen/logrus"
)

type IApplicationService interface {
	CreateApplication(ctx context.Context, req application.CreateApplicationRequest) (entity.ApplicationRecord, error)
	GetApplication(ctx context.Context, id string) (entity.ApplicationRecord, error)
	UpdateApplication(ctx context.Context, id string, fields map[string]interface{}) error
	UpdateApplicationField(ctx context.Context, id string, field string, value interface{}) error
	DeleteApplication(ctx context.Context, id string) error
	ListApplications(ctx context.Context, limit, offset int) ([]entity.ApplicationRecord, error)
	SearchApplications(ctx context.Context, req application.SearchApplicationsRequest) ([]entity.ApplicationRecord, error)
	GetMissingFields(ctx context.Context, id string) (application.MissingFieldsResponse, error)

	// FindLatestByPhone supports phone-fallback call linkage.
	FindLatestByPhone(ctx context.Context, normalizedPhone string) (entity.ApplicationRecord, error)

	// ReconcileExtracted merges a transcript-extracted candidate into a
	// stored application without overwriting populated fields.
	ReconcileExtracted(ctx context.Context, applicationID string, candidate entity.CandidateRecord) error
}

type applicationService struct {
	log     *logrus.Logger
	appRepo applicationRepository.Repository
	utils   utils.IUtils
}

func New(
	log *logrus.Logger,
	appRepo applicationRepository.Repository,
	utils utils.IUtils,
) IApplicationService {
	return &applicationService{
		log:     log,
		appRepo: appRepo,
		utils:   utils,
	}
}
