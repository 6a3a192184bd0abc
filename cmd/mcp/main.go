package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klifeguard/emergency-finder/internal/adapters/providers/directory"
	"github.com/klifeguard/emergency-finder/internal/adapters/providers/routing"
	"github.com/klifeguard/emergency-finder/internal/adapters/session"
	"github.com/klifeguard/emergency-finder/internal/application/services"
	"github.com/klifeguard/emergency-finder/internal/domain/providers"
	redisclient "github.com/klifeguard/emergency-finder/internal/infrastructure/clients/redis"
	"github.com/klifeguard/emergency-finder/internal/infrastructure/notifications"
	"github.com/klifeguard/emergency-finder/internal/infrastructure/observability"
	"github.com/klifeguard/emergency-finder/internal/mcp"
	"github.com/klifeguard/emergency-finder/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		observability.GetLogger().Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)
	logger := observability.GetLogger()

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
			logger.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	if cfg.NEMC.APIKey == "" {
		logger.Warn().Msg("DATA_GO_KR_API_KEY is not set, hospital searches will return no results")
	}
	if cfg.Kakao.RESTAPIKey == "" {
		logger.Warn().Msg("KAKAO_REST_API_KEY is not set, ETA estimates will be unavailable")
	}

	// Initialize upstream providers
	directoryProvider := directory.NewNEMCProvider(cfg.NEMC.BaseURL, cfg.NEMC.APIKey, metrics)
	routeProvider := routing.NewKakaoProvider(cfg.Kakao.NaviBaseURL, cfg.Kakao.RESTAPIKey, metrics)

	// Initialize session store
	var sessionStore providers.SessionStore
	if cfg.Sessions.Backend == "redis" {
		redisClient, err := redisclient.NewClient(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Redis client, falling back to in-memory sessions")
			sessionStore = session.NewMemoryStore()
		} else {
			defer redisClient.Close()
			sessionStore = session.NewRedisStore(redisClient)
			logger.Info().Msg("Redis session store initialized successfully")
		}
	} else {
		sessionStore = session.NewMemoryStore()
	}

	// Initialize guardian notifier
	var notifier providers.GuardianNotifier
	if cfg.Kakao.AccessToken != "" {
		sender, err := notifications.NewKakaoTalkSender(cfg.Kakao.AccessToken)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize KakaoTalk sender, guardian alerts will be simulated")
			notifier = notifications.NewSimulatedSender()
		} else {
			notifier = sender
			logger.Info().Msg("KakaoTalk guardian notifier initialized successfully")
		}
	} else {
		notifier = notifications.NewSimulatedSender()
	}

	// Initialize application services
	symptomService := services.NewSymptomService()
	scoringService := services.NewScoringService()
	recommendationService := services.NewRecommendationService(
		directoryProvider,
		routeProvider,
		symptomService,
		scoringService,
		metrics,
	)
	sessionService := services.NewSessionService(sessionStore, directoryProvider, routeProvider, notifier)
	pharmacyService := services.NewPharmacyService(directoryProvider)

	server := mcp.NewServer(recommendationService, sessionService, pharmacyService)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
		cancel()
	}()

	logger.Info().
		Str("transport", cfg.Server.Transport).
		Msg("Starting K-LifeGuard MCP server")

	if err := server.Run(ctx, cfg.Server.Transport, cfg.Server.ServerAddr()); err != nil {
		logger.Fatal().Err(err).Msg("MCP server error")
	}
}
