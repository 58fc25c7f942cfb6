package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/saudehub/backend/internal/adapters/cache"
	"github.com/saudehub/backend/internal/adapters/database"
	"github.com/saudehub/backend/internal/adapters/events"
	"github.com/saudehub/backend/internal/adapters/storage"
	"github.com/saudehub/backend/internal/api/handlers"
	"github.com/saudehub/backend/internal/api/middleware"
	"github.com/saudehub/backend/internal/api/routes"
	"github.com/saudehub/backend/internal/application/services"
	"github.com/saudehub/backend/internal/domain/providers"
	"github.com/saudehub/backend/internal/domain/scheduling"
	"github.com/saudehub/backend/internal/infrastructure/clients/postgres"
	"github.com/saudehub/backend/internal/infrastructure/clients/redis"
	"github.com/saudehub/backend/internal/infrastructure/observability"
	"github.com/saudehub/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Warn().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Initialize Redis client; the application works without it, at the
	// cost of caching and event fan-out
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache and event bus")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("Redis client initialized")
	}

	// Initialize file store
	fileStore, err := storage.NewLocalStore(cfg.Storage.BasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize file store")
	}

	// Initialize adapters
	eventAdapter := database.NewEventAdapter(pgClient)
	professionalAdapter := database.NewProfessionalAdapter(pgClient)
	documentAdapter := database.NewDocumentAdapter(pgClient)
	shareAdapter := database.NewShareAdapter(pgClient)
	auditAdapter := database.NewAuditAdapter(pgClient)
	userAdapter := database.NewUserAdapter(pgClient)
	notificationAdapter := database.NewNotificationAdapter(pgClient)

	// Initialize services
	detector := scheduling.NewDetector(cfg.Scheduling.TravelGapMinutes)
	eventService := services.NewEventService(
		eventAdapter,
		professionalAdapter,
		auditAdapter,
		eventBus,
		detector,
		cfg.Scheduling.TravelGapEnabled,
	)
	professionalService := services.NewProfessionalService(professionalAdapter)
	documentService := services.NewDocumentService(documentAdapter, eventAdapter, fileStore)
	shareService := services.NewShareService(shareAdapter, documentAdapter, cacheProvider)
	notificationService := services.NewNotificationService(notificationAdapter)
	authService := services.NewAuthService(
		userAdapter,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
	)

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(eventService)
	professionalHandler := handlers.NewProfessionalHandler(professionalService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	shareHandler := handlers.NewShareHandler(shareService, documentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	authHandler := handlers.NewAuthHandler(authService)

	rateLimiter := middleware.NewRateLimiter(20, 40)

	// Set up router
	router := routes.NewRouter(
		eventHandler,
		professionalHandler,
		documentHandler,
		shareHandler,
		notificationHandler,
		authHandler,
		rateLimiter,
		metrics,
		cfg.Auth.JWTSecret,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server stopped")
}
