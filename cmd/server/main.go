// @title LEI Batch Search API
// @version 1.0
// @description API пакетного поиска записей LEI в реестре GLEIF: выборка по кодам, поиск по названиям с фолбэком, поиск по идентификаторам валидирующих органов.

// @host localhost:8080
// @BasePath /api
// @schemes http https

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"leiserver/batch"
	"leiserver/gleif"
	"leiserver/internal/config"
	"leiserver/server"
)

func main() {
	log.Println("Запуск LEI Batch Search Server...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	client := gleif.NewClient(gleif.ClientConfig{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		RateLimit: rate.Inf,
	})

	cache := gleif.NewRecordCache(&gleif.CacheConfig{
		Enabled:         cfg.CacheEnabled,
		TTL:             cfg.CacheTTL,
		CleanupInterval: cfg.CacheCleanupInterval,
	})

	orchestrator := batch.NewOrchestrator(client, batch.Config{
		PageSize:          cfg.PageSize,
		RequestsPerMinute: cfg.RequestsPerMinute,
		Pause:             cfg.Pause,
		SubstringTokens:   cfg.SubstringTokens,
		Cache:             cache,
		Logger:            logger.With("component", "batch_orchestrator"),
	})

	router := server.NewRouter(orchestrator, logger.With("component", "http_server"))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Сервер слушает порт %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Остановка сервера...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Ошибка при остановке: %v", err)
	}
	log.Println("Сервер остановлен")
}

// newLogger создает структурированный логгер с уровнем из конфигурации
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
