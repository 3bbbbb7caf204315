package analyticsService

import (
	"context"

	"MortgageIntake/internal/api/analytics"
	analyticsRepository "MortgageIntake/internal/api/analytics/repository"
	applicationService "MortgageIntake/internal/api/application/service"
	callService "MortgageIntake/internal/api/call/service"

	"github.com/sirupsen/logrus"
)

type IAnalyticsService interface {
	GetDashboardMetrics(ctx context.Context, timeRange string) analytics.DashboardMetrics
	GetApplicationDetail(ctx context.Context, applicationID string) (analytics.ApplicationDetailResponse, error)
}

type analyticsService struct {
	log           *logrus.Logger
	analyticsRepo analyticsRepository.Repository
	appService    applicationService.IApplicationService
	callService   callService.ICallService
}

func New(
	log *logrus.Logger,
	analyticsRepo analyticsRepository.Repository,
	appService applicationService.IApplicationService,
	cs callService.ICallService,
) IAnalyticsService {
	return &analyticsService{
		log:           log,
		analyticsRepo: analyticsRepo,
		appService:    appService,
		callService:   cs,
	}
}
