package bootstrap

import (
	"context"
	"log"
	"time"

	"course-qa-be/internal/config"
	"course-qa-be/internal/controller"
	"course-qa-be/internal/pkg/logger"
	"course-qa-be/internal/repository/unitofwork"
	"course-qa-be/internal/service"
	"course-qa-be/pkg/coverage"
	"course-qa-be/pkg/embedding"
	"course-qa-be/pkg/embedding/factory"
	"course-qa-be/pkg/storage"
	"course-qa-be/pkg/textextract"

	pktNats "course-qa-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const deviationSweepTopic = "DEVIATION_SWEEP"

type Container struct {
	// Controllers
	WeeklyUploadController controller.IWeeklyUploadController
	ExecutionController    controller.IExecutionController
	WeeklyPlanController   controller.IWeeklyPlanController
	OpsController          controller.IOpsController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	embLogger := logger.NewIsolatedLogger(cfg.App.EmbeddingLogFilePath)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, embedding cache stays in-process: %v", err)
		rdb.Close()
		rdb = nil
	}

	// NATS
	c := &Container{}
	var eventPublisher service.EventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, cfg.App.ExecutionEventsTopic)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, cfg.App.ExecutionEventsTopic)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// 4. Embedding + Coverage
	rawProvider, err := factory.NewEmbeddingProvider(factory.Config{
		Provider:          cfg.Ai.EmbeddingProvider,
		Timeout:           cfg.Ai.Timeout,
		OpenRouterKey:     cfg.Keys.OpenRouter,
		OpenRouterModel:   cfg.Ai.OpenRouterModel,
		OpenRouterReferer: cfg.Ai.OpenRouterReferer,
		OpenRouterApp:     cfg.Ai.OpenRouterAppName,
		OllamaBaseURL:     cfg.Ai.OllamaBaseURL,
		OllamaModel:       cfg.Ai.OllamaModel,
		JinaKey:           cfg.Keys.Jina,
		GeminiKey:         cfg.Keys.GoogleGemini,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s", cfg.Ai.EmbeddingProvider)

	var embeddingProvider embedding.EmbeddingProvider = embedding.WithRetry(rawProvider, cfg.Ai.Retries, 2*time.Second)
	embeddingProvider = embedding.NewCachedProvider(
		embeddingProvider,
		cache.New(cfg.Cache.EmbeddingTTL, 10*time.Minute),
		rdb,
		cfg.Cache.EmbeddingTTL,
		"embedding:"+cfg.Ai.EmbeddingProvider,
	).WithModel(embedding.ModelOf(rawProvider))
	embeddingProvider = embedding.WithLogging(embeddingProvider, embLogger, cfg.Ai.EmbeddingProvider)

	semantic := coverage.NewSemanticComparator(embeddingProvider, coverage.SemanticOptions{
		Threshold:      cfg.Coverage.SemanticThreshold,
		MaxPlanPhrases: cfg.Coverage.MaxPlanPhrases,
		MaxChunks:      cfg.Coverage.MaxChunks,
		ChunkChars:     cfg.Coverage.ChunkChars,
	})
	engine := coverage.NewEngine(semantic, coverage.Weights{
		Lexical:  cfg.Coverage.LexicalWeight,
		Semantic: cfg.Coverage.SemanticWeight,
	})

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, deviationSweepTopic)
	executionService := service.NewExecutionService(uowFactory, sysLogger)
	weeklyPlanService := service.NewWeeklyPlanService(uowFactory, sysLogger)
	weeklyUploadService := service.NewWeeklyUploadService(
		uowFactory,
		storage.NewLocalStorage(cfg.Storage.Root),
		textextract.NewExtractor(0),
		engine,
		eventPublisher,
		publisherService,
		sysLogger,
		service.WeeklyUploadConfig{
			MaxFiles:       cfg.Storage.MaxFiles,
			MaxTextChars:   cfg.Storage.MaxTextChars,
			OnTrackPercent: cfg.Coverage.OnTrackPercent,
		},
	)
	consumerService := service.NewConsumerService(pubSub, deviationSweepTopic, executionService)

	// Start Service (Worker)
	if natsSub != nil {
		alertService := service.NewAlertService(natsSub, sysLogger)
		if err := alertService.Start(); err != nil {
			log.Printf("[WARN] Coverage alerts disabled: %v", err)
		}
		c.closers = append(c.closers, natsSub.Close)
	}
	if rdb != nil {
		c.closers = append(c.closers, func() { rdb.Close() })
	}
	c.closers = append(c.closers, func() { pubSub.Close() })

	// 6. Controllers
	c.WeeklyUploadController = controller.NewWeeklyUploadController(weeklyUploadService)
	c.ExecutionController = controller.NewExecutionController(executionService)
	c.WeeklyPlanController = controller.NewWeeklyPlanController(weeklyPlanService)
	c.OpsController = controller.NewOpsController(sysLogger)
	c.ConsumerService = consumerService
	return c
}

// Close releases broker and cache connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
