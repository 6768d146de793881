package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/spectramedia/bettybot/internal/api/router"
	"github.com/spectramedia/bettybot/internal/bots"
	appconfig "github.com/spectramedia/bettybot/internal/config"
	"github.com/spectramedia/bettybot/internal/conversation"
	"github.com/spectramedia/bettybot/internal/http/handlers"
	"github.com/spectramedia/bettybot/internal/llm"
	"github.com/spectramedia/bettybot/internal/notify"
	"github.com/spectramedia/bettybot/internal/observability/metrics"
	"github.com/spectramedia/bettybot/internal/prompt"
	"github.com/spectramedia/bettybot/pkg/logging"
)

func main() {
	// Load .env if present; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting bettybot API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	chatMetrics := metrics.NewChatMetrics(registry)

	// Bot record store
	var botRepo bots.Repository
	sqliteRepo, err := bots.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open bot database, falling back to in-memory store", "error", err, "path", cfg.DBPath)
		botRepo = bots.NewMemoryRepository()
	} else {
		defer sqliteRepo.Close()
		botRepo = sqliteRepo
	}

	// Conversation store
	var convStore conversation.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		convStore = conversation.NewRedisStore(redisClient)
		logger.Info("conversation store: redis", "addr", cfg.RedisAddr)
	} else {
		convStore = conversation.NewMemoryStore()
		logger.Info("conversation store: in-memory")
	}

	// LLM generator
	generator := llm.NewTogetherClient(llm.Config{
		APIKey:      cfg.TogetherAPIKey,
		BaseURL:     cfg.TogetherBaseURL,
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
		Timeout:     cfg.LLMTimeout,
	}, chatMetrics, logger)

	// Lead dispatch
	var emailSender notify.EmailSender
	mailjet := notify.NewMailjetSender(notify.MailjetConfig{
		APIKey:    cfg.MailjetAPIKey,
		APISecret: cfg.MailjetAPISecret,
		FromEmail: cfg.MailjetFromEmail,
		FromName:  cfg.MailjetFromName,
	}, logger)
	if mailjet != nil {
		emailSender = mailjet
	} else {
		emailSender = notify.NewStubEmailSender(logger)
	}
	notifier := notify.NewService(emailSender, chatMetrics, logger)

	// Conversation engine
	engine := conversation.NewEngine(conversation.Config{
		Store:            convStore,
		Bots:             botRepo,
		Prompts:          prompt.NewBuilder(cfg.PacksDir, logger),
		Generator:        generator,
		Notifier:         notifier,
		DefaultLeadEmail: cfg.DefaultLeadEmail,
		Metrics:          chatMetrics,
		Logger:           logger,
	})

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		Chat:               handlers.NewChatHandler(engine, logger),
		Meta:               handlers.NewMetaHandler(botRepo, logger),
		Onboarding:         handlers.NewOnboardingHandler(botRepo, cfg.PublicBaseURL, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
