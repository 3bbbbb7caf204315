package config

import (
	"MortgageIntake/database/postgres"
	analyticsHandler "MortgageIntake/internal/api/analytics/handler"
	analyticsRepository "MortgageIntake/internal/api/analytics/repository"
	analyticsService "MortgageIntake/internal/api/analytics/service"
	applicationHandler "MortgageIntake/internal/api/application/handler"
	applicationRepository "MortgageIntake/internal/api/application/repository"
	applicationService "MortgageIntake/internal/api/application/service"
	callHandler "MortgageIntake/internal/api/call/handler"
	callRepository "MortgageIntake/internal/api/call/repository"
	callService "MortgageIntake/internal/api/call/service"
	smsHandler "MortgageIntake/internal/api/sms/handler"
	smsRepository "MortgageIntake/internal/api/sms/repository"
	smsService "MortgageIntake/internal/api/sms/service"
	"MortgageIntake/internal/middleware"
	"MortgageIntake/pkg/gemini"
	"MortgageIntake/pkg/openai"
	"MortgageIntake/pkg/redis"
	"MortgageIntake/pkg/s3"
	"MortgageIntake/pkg/twilio"
	"MortgageIntake/pkg/utils"
	"MortgageIntake/pkg/vapi"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine       *fiber.App
	db           *sqlx.DB
	log          *logrus.Logger
	middleware   middleware.Middleware
	validator    *validator.Validate
	utils        utils.IUtils
	handlers     []handler
	redisServer  redis.IRedis
	s3Client     s3.ItfS3
	vapiClient   vapi.IVapi
	twilioClient twilio.ITwilioSender
	extractor    openai.IExtractor
	geminiClient gemini.IGemini

	callServices callService.ICallService
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

// WithS3Client is optional: without AWS credentials transcripts simply
// are not archived.
func WithS3Client() ServerOption {
	return func(s *Server) error {
		if os.Getenv("AWS_ACCESS_KEY_ID") == "" {
			if s.log != nil {
				s.log.Warn("AWS credentials not set, transcript archiving disabled")
			}
			return nil
		}
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithVapiClient() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before the voice client")
		}
		s.vapiClient = vapi.New(s.log)
		return nil
	}
}

func WithTwilioClient() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before the sms client")
		}
		s.twilioClient = twilio.New(s.log)
		return nil
	}
}

func WithExtractor() ServerOption {
	return func(s *Server) error {
		s.extractor = openai.NewExtractor()
		return nil
	}
}

// WithGeminiClient is optional: without a key the primary extractor
// runs with no fallback.
func WithGeminiClient() ServerOption {
	return func(s *Server) error {
		if os.Getenv("GEMINI_API_KEY") == "" {
			if s.log != nil {
				s.log.Warn("GEMINI_API_KEY not set, extraction fallback disabled")
			}
			return nil
		}
		client, err := gemini.NewGeminiClient()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create Gemini client: %v", err)
			}
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Application Domain
	appRepo := applicationRepository.New(s.db, s.log)
	appServices := applicationService.New(s.log, appRepo, s.utils)
	appHandlers := applicationHandler.New(s.log, s.validator, s.middleware, appServices)

	// Call Domain
	callRepo := callRepository.New(s.db, s.log)
	var fallback callService.FieldExtractor
	if s.geminiClient != nil {
		fallback = s.geminiClient
	}
	callServices := callService.New(s.log, callRepo, appServices, s.extractor, fallback, s.vapiClient, s.redisServer, s.s3Client, s.utils)
	callHandlers := callHandler.New(s.log, s.validator, s.middleware, callServices)
	s.callServices = callServices

	// SMS Domain
	smsRepo := smsRepository.New(s.db, s.log)
	smsServices := smsService.New(s.log, smsRepo, appServices, s.twilioClient, s.utils)
	smsHandlers := smsHandler.New(s.log, s.validator, s.middleware, smsServices)

	// Analytics Domain
	analyticsRepo := analyticsRepository.New(s.db, s.log)
	analyticsServices := analyticsService.New(s.log, analyticsRepo, appServices, callServices)
	analyticsHandlers := analyticsHandler.New(s.log, s.middleware, analyticsServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, appHandlers, callHandlers, smsHandlers, analyticsHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown drains in-flight extraction work before closing listeners.
func (s *Server) Shutdown() error {
	if s.callServices != nil {
		s.callServices.Flush()
	}
	return s.engine.Shutdown()
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
	s.engine.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"status": "healthy",
		})
	})
}
