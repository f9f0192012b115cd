package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/exeai/internal/anthropic"
	"github.com/MikeSquared-Agency/exeai/internal/api"
	"github.com/MikeSquared-Agency/exeai/internal/blob"
	"github.com/MikeSquared-Agency/exeai/internal/config"
	"github.com/MikeSquared-Agency/exeai/internal/extractor"
	"github.com/MikeSquared-Agency/exeai/internal/gemini"
	"github.com/MikeSquared-Agency/exeai/internal/hermes"
	"github.com/MikeSquared-Agency/exeai/internal/openai"
	"github.com/MikeSquared-Agency/exeai/internal/processor"
	"github.com/MikeSquared-Agency/exeai/internal/store"
	"github.com/MikeSquared-Agency/exeai/internal/transcribe"
	"github.com/MikeSquared-Agency/exeai/internal/weather"
)

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("exeai starting", "port", cfg.Port, "ai_provider", cfg.AIProvider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database connected")

	// OpenAI always backs transcription, and completions unless another provider is chosen.
	oa := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.AITimeout)
	oa.SetBaseURL(cfg.OpenAIBaseURL)
	oa.SetWhisperModel(cfg.WhisperModel)

	var llm extractor.Completer
	switch cfg.AIProvider {
	case config.ProviderAnthropic:
		llm = anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AITimeout)
		slog.Info("anthropic client ready", "model", cfg.AnthropicModel)
	case config.ProviderGemini:
		gc, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AITimeout)
		if err != nil {
			slog.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		defer gc.Close()
		llm = gc
		slog.Info("gemini client ready", "model", cfg.GeminiModel)
	default:
		llm = oa
		slog.Info("openai client ready", "model", cfg.OpenAIModel)
	}

	ext := extractor.New(llm, slog.Default())
	tr := transcribe.NewStaged(oa, "", slog.Default())

	// Object storage (optional)
	var uploader processor.Uploader
	if cfg.S3Enabled() {
		up, err := blob.NewS3Uploader(blob.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			slog.Error("failed to create s3 uploader", "error", err)
			os.Exit(1)
		}
		uploader = up
		slog.Info("s3 audio storage ready", "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 not configured, audio is not stored")
	}

	// NATS/Hermes (optional)
	var publisher processor.Publisher
	if cfg.NatsURL != "" {
		hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer hermesClient.Close()
		publisher = hermesClient
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured, events disabled")
	}

	proc := processor.New(db, ext, tr, uploader, publisher, cfg.Language, slog.Default())
	wx := weather.NewClient(cfg.WeatherAPIKey, cfg.WeatherURL, cfg.AITimeout)

	// HTTP API
	srv := api.NewServer(cfg.Port, proc, db, wx, cfg.DefaultLocation, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	slog.Info("exeai ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown error", "error", err)
	}
	cancel()
	slog.Info("exeai stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
