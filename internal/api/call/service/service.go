package callService

import (
	"context"
	"os"
	"sync"
	"time"

	"MortgageIntake/internal/api/call"
	callRepository "MortgageIntake/internal/api/call/repository"
	applicationService "MortgageIntake/internal/api/application/service"
	"MortgageIntake/internal/entity"
	"MortgageIntake/pkg/redis"
	"MortgageIntake/pkg/s3"
	"MortgageIntake/pkg/utils"
	"MortgageIntake/pkg/vapi"

	"github.com/sirupsen/logrus"
)

// FieldExtractor is satisfied by both the OpenAI and the Gemini
// clients so the service can fall back between them.
type FieldExtractor interface {
	ExtractApplicationFields(ctx context.Context, transcript string) (entity.CandidateRecord, error)
}

type ICallService interface {
	VerifySignature(payload []byte, signature string) bool
	HandleWebhook(ctx context.Context, envelope *call.WebhookEnvelope)

	GetTranscript(ctx context.Context, callID string) (call.TranscriptResponse, error)
	ListActiveCalls() []call.CallSummary
	ListCompletedCalls(ctx context.Context) ([]call.CallSummary, error)
	ClearTranscript(ctx context.Context, callID string) error
	GetCallLogsByApplicationID(ctx context.Context, applicationID string) ([]entity.CallLog, error)

	TriggerCall(ctx context.Context, req call.TriggerCallRequest) (string, error)
	ScheduleCall(ctx context.Context, req call.ScheduleCallRequest) (string, error)

	Stats() call.StatsResponse
	Subscribe() (<-chan call.TranscriptUpdate, func())

	// Flush blocks until in-flight post-call work has finished. Called
	// on shutdown so extractions are not lost.
	Flush()
}

type callService struct {
	log        *logrus.Logger
	callRepo   callRepository.Repository
	appService applicationService.IApplicationService
	extractor  FieldExtractor
	fallback   FieldExtractor
	vapiClient vapi.IVapi
	redis      redis.IRedis
	s3Client   s3.ItfS3
	utils      utils.IUtils

	registry *callRegistry
	hub      *transcriptHub

	webhookSecret string
	startedAt     time.Time

	mu           sync.Mutex
	webhookCount uint64
	background   sync.WaitGroup
}

func New(
	log *logrus.Logger,
	callRepo callRepository.Repository,
	appService applicationService.IApplicationService,
	extractor FieldExtractor,
	fallback FieldExtractor,
	vapiClient vapi.IVapi,
	redisClient redis.IRedis,
	s3Client s3.ItfS3,
	utils utils.IUtils,
) ICallService {
	return &callService{
		log:           log,
		callRepo:      callRepo,
		appService:    appService,
		extractor:     extractor,
		fallback:      fallback,
		vapiClient:    vapiClient,
		redis:         redisClient,
		s3Client:      s3Client,
		utils:         utils,
		registry:      newCallRegistry(completedCallRetention),
		hub:           newTranscriptHub(),
		webhookSecret: os.Getenv("VAPI_WEBHOOK_SECRET"),
		startedAt:     time.Now(),
	}
}

func (s *callService) Flush() {
	s.background.Wait()
}
