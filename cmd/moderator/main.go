package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ContentGuard/ModGate/pkg/app/analytics"
	"github.com/ContentGuard/ModGate/pkg/app/image"
	"github.com/ContentGuard/ModGate/pkg/app/moderation"
	"github.com/ContentGuard/ModGate/pkg/app/notification"
	"github.com/ContentGuard/ModGate/pkg/config"
	handlers "github.com/ContentGuard/ModGate/pkg/handlers/http"
	infraCache "github.com/ContentGuard/ModGate/pkg/infra/cache"
	"github.com/ContentGuard/ModGate/pkg/infra/database"
	"github.com/ContentGuard/ModGate/pkg/infra/httpx"
	infraLogger "github.com/ContentGuard/ModGate/pkg/infra/logger"
	_ "github.com/ContentGuard/ModGate/pkg/infra/migrations"
	"github.com/ContentGuard/ModGate/pkg/infra/providers"
	"github.com/ContentGuard/ModGate/pkg/infra/providers/factory"
	"github.com/ContentGuard/ModGate/pkg/infra/repository"
	"github.com/ContentGuard/ModGate/pkg/server"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	if err := config.Load("./config"); err != nil {
		logger.WithError(err).Warn("config file not loaded, falling back to environment variables")
	}
	cfg := config.GetConfig()

	db, err := database.NewDB(logger, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	cacheClient, err := infraCache.NewClient(infraCache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	}, logger)
	if err != nil {
		logger.Fatalf("failed to initialize cache: %v", err)
	}
	verdictCache := infraCache.NewVerdictCache(cacheClient, cfg.Moderation.CacheTTL)

	settings, err := factory.DecodeSettings(cfg.Moderation.Settings)
	if err != nil {
		logger.Fatalf("failed to decode provider settings: %v", err)
	}
	locator := factory.NewProviderLocator(settings)
	upstream, err := locator.Get(cfg.Moderation.Provider)
	if err != nil {
		logger.Fatalf("failed to initialize classification provider: %v", err)
	}
	upstreamConfig := &providers.Config{
		Credentials: providers.Credentials{ApiKey: settings.APIKeyFor(cfg.Moderation.Provider)},
		Model:       cfg.Moderation.Model,
		MaxTokens:   cfg.Moderation.MaxTokens,
		Temperature: cfg.Moderation.Temperature,
	}

	// repository
	moderationRepository := repository.NewModerationRepository(db.DB)
	analyticsRepository := repository.NewAnalyticsRepository(db.DB)

	// outbound http
	httpClient := httpx.NewFastHTTPClient(httpx.FastHTTPClientConfig{
		Timeout: cfg.Notifications.SendTimeout,
	})
	channels := buildChannels(cfg, httpClient)

	dispatcher := notification.NewDispatcher(logger, moderationRepository, channels, notification.DispatcherConfig{
		QueueSize:   cfg.Notifications.QueueSize,
		WorkerCount: cfg.Notifications.WorkerCount,
		SendTimeout: cfg.Notifications.SendTimeout,
	})
	dispatcher.Start()

	// service
	moderationService := moderation.NewService(
		logger,
		moderationRepository,
		upstream,
		upstreamConfig,
		verdictCache,
		dispatcher,
		moderation.Policy{
			MaxTextLength:   cfg.Moderation.MaxTextLength,
			UpstreamTimeout: cfg.Moderation.UpstreamTimeout,
			PreviewLength:   cfg.Moderation.PreviewLength,
		},
	)
	analyticsService := analytics.NewService(logger, analyticsRepository)
	imageService := image.NewService(httpx.NewFastHTTPClient(httpx.FastHTTPClientConfig{
		Timeout: 30 * time.Second,
	}), logger)

	handlerTransport := handlers.HandlerTransport{
		ModerateTextHandler:     handlers.NewModerateTextHandler(logger, moderationService),
		ModerateImageHandler:    handlers.NewModerateImageHandler(logger, moderationService, imageService),
		GetRequestHandler:       handlers.NewGetRequestHandler(logger, moderationRepository),
		AnalyticsSummaryHandler: handlers.NewAnalyticsSummaryHandler(logger, analyticsService),
		OverallStatsHandler:     handlers.NewOverallStatsHandler(logger, analyticsService),
		GetVersionHandler:       handlers.NewGetVersionHandler(logger),
	}

	srv := server.NewModerationServer(server.ModerationServerDI{
		HandlerTransport: handlerTransport,
		Config:           cfg,
		Logger:           logger,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("error shutting down server")
	}
	dispatcher.Stop()
	logger.Info("server gracefully stopped")
}

// buildChannels assembles the enabled notification channels. Webhook calls go
// through a circuit breaker so a dead endpoint stops consuming worker time.
func buildChannels(cfg *config.Config, client httpx.Client) []notification.Channel {
	var channels []notification.Channel

	if cfg.Notifications.Slack.Enabled && cfg.Notifications.Slack.WebhookURL != "" {
		slackClient := httpx.NewBreakerClient(client, httpx.BreakerConfig{
			Name:        "slack",
			Timeout:     30 * time.Second,
			MaxFailures: 5,
		})
		channels = append(channels, notification.NewSlackChannel(slackClient, cfg.Notifications.Slack.WebhookURL))
	}

	if cfg.Notifications.Email.Enabled && cfg.Notifications.Email.APIKey != "" {
		emailClient := httpx.NewBreakerClient(client, httpx.BreakerConfig{
			Name:        "email",
			Timeout:     30 * time.Second,
			MaxFailures: 5,
		})
		channels = append(channels, notification.NewEmailChannel(emailClient, notification.EmailConfig{
			APIKey:      cfg.Notifications.Email.APIKey,
			SenderName:  cfg.Notifications.Email.SenderName,
			SenderEmail: cfg.Notifications.Email.SenderEmail,
			Recipient:   cfg.Notifications.Email.Recipient,
		}))
	}

	return channels
}
