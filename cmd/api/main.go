// Package main is the entry point for the API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/repguardian/dashboard-api/internal/config"
	"github.com/repguardian/dashboard-api/internal/handler"
	"github.com/repguardian/dashboard-api/internal/llm"
	"github.com/repguardian/dashboard-api/internal/realtime"
	"github.com/repguardian/dashboard-api/internal/relay"
	"github.com/repguardian/dashboard-api/internal/service"
	"github.com/repguardian/dashboard-api/internal/store"
	"github.com/repguardian/dashboard-api/pkg/logger"
	"github.com/repguardian/dashboard-api/pkg/tracing"
)

// feed is the realtime backend: JetStream when NATS is configured, the
// in-process fanout otherwise.
type feed interface {
	service.Feed
	handler.Readiness
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	logger.SetGlobal(log)

	log.Info("starting API server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize tracing if enabled
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "repguardian-dashboard-api", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer func() { _ = tracing.Shutdown(context.Background(), tp) }()
		}
	}

	// Error reporting
	reportErrors := false
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
		}); err != nil {
			log.Error("sentry init failed", zap.Error(err))
		} else {
			reportErrors = true
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Database
	repo, err := store.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	if err := repo.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Realtime feed
	var events feed
	if cfg.NATSURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		natsClient, err := realtime.Connect(connectCtx, realtime.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		cancel()
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer natsClient.Close()

		jsFeed := realtime.NewFeed(natsClient, log)
		if err := jsFeed.EnsureStream(ctx); err != nil {
			return fmt.Errorf("ensure stream: %w", err)
		}
		events = jsFeed
	} else {
		log.Warn("NATS_URL not set, realtime events stay in this process")
		events = realtime.NewLocal()
	}

	// Initialize LLM client
	llmClient, err := llm.NewClient(llm.Provider(cfg.DefaultLLM), llm.Keys{
		Anthropic: cfg.AnthropicAPIKey,
		OpenAI:    cfg.OpenAIAPIKey,
	})
	if err != nil {
		log.Warn("failed to create LLM client, drafts disabled", zap.Error(err))
		llmClient = nil
	}
	if llmClient == nil {
		log.Info("no LLM provider configured, drafts disabled")
	}

	// Initialize services
	conversationSvc := service.NewConversationService(repo, events, log)

	router := handler.NewRouter(handler.Deps{
		Repo:          repo,
		Feed:          events,
		Conversations: conversationSvc,
		Drafts:        service.NewDraftService(repo, conversationSvc, llmClient, log),
		Feedback:      service.NewFeedbackService(repo),
		Dashboard:     service.NewDashboardService(repo),
		Activity:      service.NewActivityService(repo),
		Onboarding:    service.NewOnboardingService(repo, log),
		Relay: relay.New(relay.Config{
			URL:     cfg.WebhookURL,
			Secret:  cfg.WebhookSecret,
			Timeout: cfg.WebhookTimeout,
		}, nil),
		Logger:            log,
		ReportErrors:      reportErrors,
		JWTSecret:         cfg.JWTSecret,
		AllowedOrigins:    cfg.AllowedOrigins,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
	return nil
}
