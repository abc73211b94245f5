package bootstrap

import (
	"log"
	"time"

	"pillsee-be/internal/config"
	"pillsee-be/internal/controller"
	"pillsee-be/internal/pkg/logger"
	"pillsee-be/internal/repository/contract"
	"pillsee-be/internal/repository/implementation"
	"pillsee-be/internal/repository/memory"
	"pillsee-be/internal/service"
	"pillsee-be/pkg/embedding"
	"pillsee-be/pkg/pipeline"
	"pillsee-be/pkg/pipeline/assembly"
	"pillsee-be/pkg/pipeline/extraction"
	"pillsee-be/pkg/pipeline/retrieval"
	"pillsee-be/pkg/pipeline/validation"
	"pillsee-be/pkg/session"
	visionfactory "pillsee-be/pkg/vision/factory"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	QueryController   controller.IQueryController
	SessionController controller.ISessionController
	HealthController  controller.IHealthController

	// Exposed for CLIs and diagnostics
	MedicationRepository contract.MedicationRepository
	EmbeddingProvider    embedding.Provider
	Logger               logger.ILogger
}

// NewContainer wires the fixed pipeline and its HTTP surface. A nil db
// selects the in-memory corpus, which keeps local development and tests
// independent of Postgres.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Every stage decision for a submission lands in its own trace file so
	// the main application log stays readable.
	pipelineLogger := logger.NewIsolatedLogger("logs/pipeline.log")

	// Corpus store
	var medicationRepo contract.MedicationRepository
	if db != nil {
		medicationRepo = implementation.NewMedicationRepository(db)
	} else {
		medicationRepo = memory.NewMedicationRepository()
		log.Printf("[WARN] No database configured, using in-memory corpus")
	}

	// Embedding provider
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingDimensions)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}

	// Vision provider
	visionModel := cfg.Ai.VisionModel
	if cfg.Ai.VisionProvider == "ollama" {
		visionModel = cfg.Ai.OllamaVisionModel
	}
	visionProvider, err := visionfactory.NewVisionProvider(
		cfg.Ai.VisionProvider,
		visionModel,
		cfg.Keys.OpenAI,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Vision Provider: %v", err)
	}
	log.Printf("[INFO] Using Vision Provider: %s (%s)", cfg.Ai.VisionProvider, visionModel)

	// Pipeline stages
	executor := pipeline.NewExecutor(
		extraction.NewExtractor(visionProvider, pipelineLogger),
		retrieval.NewRetriever(embeddingProvider, medicationRepo, pipelineLogger),
		validation.NewValidator(embeddingProvider, medicationRepo, pipelineLogger, cfg.Pipeline.TopK, cfg.Pipeline.ConfirmThreshold, cfg.Pipeline.MinThreshold),
		assembly.NewAssembler(),
		pipelineLogger,
		pipeline.Options{
			TopK:             cfg.Pipeline.TopK,
			ConfirmThreshold: cfg.Pipeline.ConfirmThreshold,
			MinThreshold:     cfg.Pipeline.MinThreshold,
			TextTimeout:      cfg.Pipeline.TextTimeout,
			ImageTimeout:     cfg.Pipeline.ImageTimeout,
			MaxQueryLength:   cfg.Pipeline.MaxQueryLength,
			MaxImageBytes:    cfg.Pipeline.MaxImageSizeMB * 1024 * 1024,
		},
	)

	// Anonymous sessions, in-process only
	sessionRepo := memory.NewSessionRepository()
	sessionManager := session.NewManager(sessionRepo, sysLogger, cfg.Pipeline.SessionTimeout, time.Now)

	queryService := service.NewQueryService(executor, sessionManager, sysLogger)
	sessionService := service.NewSessionService(sessionManager)

	return &Container{
		QueryController:      controller.NewQueryController(queryService),
		SessionController:    controller.NewSessionController(sessionService),
		HealthController:     controller.NewHealthController(medicationRepo),
		MedicationRepository: medicationRepo,
		EmbeddingProvider:    embeddingProvider,
		Logger:               sysLogger,
	}
}
