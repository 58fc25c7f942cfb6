// The notifier worker consumes agenda lifecycle events from the bus and
// writes in-app notification rows.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/saudehub/backend/internal/adapters/database"
	"github.com/saudehub/backend/internal/adapters/events"
	"github.com/saudehub/backend/internal/application/services"
	"github.com/saudehub/backend/internal/domain/providers"
	"github.com/saudehub/backend/internal/infrastructure/clients/postgres"
	"github.com/saudehub/backend/internal/infrastructure/clients/redis"
	"github.com/saudehub/backend/internal/infrastructure/observability"
	"github.com/saudehub/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-notifier", cfg.Env)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Redis client")
	}
	defer redisClient.Close()

	eventBus := events.NewRedisEventBus(redisClient)
	defer eventBus.Close()

	notificationService := services.NewNotificationService(
		database.NewNotificationAdapter(pgClient),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	agendaEvents, err := eventBus.Subscribe(ctx, providers.EventChannelAgenda)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe to agenda events")
	}

	log.Info().Str("channel", providers.EventChannelAgenda).Msg("notifier started")

	go func() {
		for event := range agendaEvents {
			writeCtx, writeCancel := context.WithTimeout(ctx, 5*time.Second)
			if err := notificationService.RecordAgendaEvent(writeCtx, event); err != nil {
				log.Warn().Err(err).Str("event_id", event.EventID).Msg("failed to record notification")
			}
			writeCancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("notifier stopped")
}
