package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/morgangallant/logs-old/internal/adapter/api"
	"github.com/morgangallant/logs-old/internal/adapter/api/middleware"
	"github.com/morgangallant/logs-old/internal/adapter/metrics"
	"github.com/morgangallant/logs-old/internal/adapter/nutritionix"
	"github.com/morgangallant/logs-old/internal/adapter/operand"
	"github.com/morgangallant/logs-old/internal/adapter/repository/postgres"
	redisrepo "github.com/morgangallant/logs-old/internal/adapter/repository/redis"
	"github.com/morgangallant/logs-old/internal/adapter/telegram"
	"github.com/morgangallant/logs-old/internal/domain"
	"github.com/morgangallant/logs-old/internal/pkg/config"
	"github.com/morgangallant/logs-old/internal/pkg/logger"
	"github.com/morgangallant/logs-old/internal/usecase"

	_ "github.com/lib/pq" // postgres driver
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	m := metrics.NewIngestMetrics()

	// --- Admin and Metrics Server ---
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())

	adminServer := &http.Server{
		Addr:    cfg.AdminAddr,
		Handler: adminMux,
	}

	go func() {
		log.Info("starting admin & metrics server", "addr", adminServer.Addr)
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("admin & metrics server failed", "error", err)
		}
	}()

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Error("postgres is not reachable", "error", err)
		os.Exit(1)
	}

	// --- Optional Redis (update dedupe) ---
	var deduper domain.UpdateDeduper
	if cfg.RedisAddr != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisAddr)
		if err != nil {
			log.Error("failed to parse redis url", "error", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("could not connect to redis, proceeding without update dedupe", "error", err)
		} else {
			deduper = redisrepo.NewDedupeRepository(redisClient, cfg.DedupeTTL, log)
		}
	}

	// --- Repositories ---
	logRepo := postgres.NewLogRepository(db, log)
	attachmentRepo := postgres.NewAttachmentRepository(db, log)
	eventRepo := postgres.NewEventRepository(db, log)

	// --- External Clients ---
	mediaClient := telegram.NewClient(cfg.TelegramBotToken, log, m)
	foodClient := nutritionix.NewClient(cfg.NutritionixAppID, cfg.NutritionixAppKey, log, m)

	var indexer domain.Indexer
	if cfg.IndexingEnabled() {
		indexer = operand.NewClient(cfg.OperandAPIKey, cfg.OperandParentID, log)
		log.Info("semantic search indexing enabled", "parent_id", cfg.OperandParentID)
	} else {
		log.Info("no index target configured, indexing disabled")
	}

	// --- Use Cases ---
	pipeline := usecase.DefaultPipeline(foodClient)
	ingestUseCase := usecase.NewIngestUpdateUseCase(
		logRepo, attachmentRepo, eventRepo,
		mediaClient, pipeline, indexer, deduper,
		cfg.AuthorizedUsername, cfg.PublicBaseURL,
		log, m,
	)
	searchUseCase := usecase.NewSearchLogsUseCase(logRepo, eventRepo, indexer, log)

	// --- HTTP Server ---
	router := api.NewRouter(cfg, log, ingestUseCase, searchUseCase, attachmentRepo)
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      middleware.Logging(log)(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	go func() {
		log.Info("starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			stop() // Trigger shutdown on server error
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	log.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		log.Error("admin server shutdown failed", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}

	log.Info("servers shut down gracefully")
}
