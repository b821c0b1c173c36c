package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/healthassist/triage-platform/internal/api/router"
	"github.com/healthassist/triage-platform/internal/appointments"
	appconfig "github.com/healthassist/triage-platform/internal/config"
	"github.com/healthassist/triage-platform/internal/observability/metrics"
	"github.com/healthassist/triage-platform/internal/triage"
	"github.com/healthassist/triage-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting triage-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// LLM clients: Gemini is the primary, OpenAI the optional fallback.
	gemini, err := triage.NewGeminiLLMClient(ctx, cfg.GoogleAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}
	defer func() { _ = gemini.Close() }()

	var llm triage.LLMClient = gemini
	if cfg.OpenAIAPIKey != "" {
		openai, err := triage.NewOpenAILLMClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			logger.Error("failed to create openai client", "error", err)
			os.Exit(1)
		}
		llm = triage.NewFallbackLLMClient(gemini, openai, logger)
	}

	// Session storage.
	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() { _ = redisClient.Close() }()
	sessionStore := triage.NewRedisSessionStore(redisClient)

	// Appointment persistence is optional; without it bookings degrade to
	// the manual-confirmation path.
	var saver triage.AppointmentSaver
	var appointmentsHandler *appointments.Handler
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		if err := db.PingContext(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		repo := appointments.NewRepository(db)
		saver = repo
		appointmentsHandler = appointments.NewHandler(repo, logger)
	} else {
		logger.Warn("DATABASE_URL not set; appointment persistence disabled")
	}

	registry := prometheus.NewRegistry()
	triageMetrics := metrics.NewTriageMetrics(registry)

	engine := triage.NewEngine(llm, sessionStore, saver, logger,
		triage.WithWindowConfig(triage.WindowConfig{
			MaxMessageChars: cfg.MaxMessageChars,
			MaxHistory:      cfg.MaxHistory,
			HistoryWindow:   cfg.HistoryWindow,
			MaxTurns:        cfg.MaxTurns,
		}),
		triage.WithLLMTimeout(cfg.LLMTimeout),
		triage.WithSampling(float32(cfg.LLMTemperature), float32(cfg.LLMTopP), int32(cfg.LLMMaxTokens)),
		triage.WithModel(cfg.GeminiModel),
		triage.WithMetrics(triageMetrics),
	)

	r := router.New(&router.Config{
		Logger:               logger,
		TriageHandler:        triage.NewHandler(engine, logger),
		AppointmentsHandler:  appointmentsHandler,
		MetricsHandler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AdminAuthSecret:      cfg.AdminJWTSecret,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		MessageRatePerSecond: 5,
		MessageBurst:         10,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
