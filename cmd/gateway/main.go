package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adpulse/gateway/internal/app/httpapi"
	"github.com/adpulse/gateway/internal/audit"
	infra_config "github.com/adpulse/gateway/internal/infra/config"
	"github.com/adpulse/gateway/internal/infra/ratelimit"
	"github.com/adpulse/gateway/internal/service"
	"github.com/adpulse/gateway/internal/wiring"
	"github.com/adpulse/gateway/pkg/cache"
	app_errors "github.com/adpulse/gateway/pkg/errors"
	"github.com/adpulse/gateway/pkg/patterns/lifecycle"

	"github.com/adpulse/gateway/internal/domain"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg, err := infra_config.Load(os.Getenv("GATEWAY_CONFIG_PATH"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	tlsConfig, err := wiring.ConfigureTLS(cfg.Server.TLS)
	if err != nil {
		logger.Error("failed to configure TLS", "error", err)
		os.Exit(1)
	}

	container := wiring.NewContainer(cfg, logger)
	defer func() {
		if err := container.Close(); err != nil {
			logger.Error("failed to close container", "error", err)
		}
	}()

	deps, err := container.GetDependencies(ctx)
	if err != nil {
		logger.Error("failed to get dependencies", "error", err)
		os.Exit(1)
	}

	errorClassifier := app_errors.NewErrorClassifier(logger)
	auditLogger := audit.NewLogger(logger, deps.AuditRepo)
	defer auditLogger.Close()

	summaryCache := cache.New[string, *domain.UsageSummary]()
	defer summaryCache.Close()

	analyticsService := service.NewAnalyticsService(deps.Repo, summaryCache, logger)

	var authService service.AuthService
	if deps.ClientStore != nil && deps.TokenManager != nil {
		authService = service.NewAuthService(deps.ClientStore, deps.TokenManager, cfg.Auth.JWT.TokenTTL)
	}

	limiter := ratelimit.NewFixedWindowLimiter(deps.LimiterStore, cfg.RateLimit.Window, cfg.RateLimit.Ceiling)
	gate := httpapi.NewGate(deps.Verifier, limiter, logger)

	var exporter httpapi.ReportExporter
	if deps.Exporter != nil {
		exporter = deps.Exporter
	}

	handlers := httpapi.NewHandlers(analyticsService, authService, exporter, auditLogger, errorClassifier, deps.Repo, logger)
	router := httpapi.NewRouter(gate, cfg.Server.CORS.AllowedOrigins, httpapi.Routes(handlers))
	srv := httpapi.NewServer(cfg.Server, router, tlsConfig, logger)

	resourceManager := []lifecycle.ManagedResource{srv}

	go func() {
		logger.Info("starting application resources")
		for _, r := range resourceManager {
			if err := r.Start(ctx); err != nil {
				logger.Error("error starting resource", "error", err)
				cancel()
				return
			}
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-signalChan:
		logger.Info("received shutdown signal", "signal", s.String())
	case <-ctx.Done():
		logger.Info("context cancelled, initiating shutdown")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Info("shutting down application resources")
	for i := len(resourceManager) - 1; i >= 0; i-- {
		if err := resourceManager[i].Stop(shutdownCtx); err != nil {
			logger.Error("error stopping resource", "error", err)
		}
	}
	logger.Info("shutdown complete")
}
