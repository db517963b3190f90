// Package server собирает HTTP API сервиса пакетного поиска LEI.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"leiserver/batch"
	"leiserver/server/handlers"
	"leiserver/server/middleware"
)

// NewRouter создает gin-роутер со всеми маршрутами и middleware
func NewRouter(orchestrator *batch.Orchestrator, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default().With("component", "http_server")
	}

	router := gin.New()
	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinLoggingMiddleware(logger))
	router.Use(middleware.GinRecoveryMiddleware(logger))

	batchHandler := handlers.NewBatchHandler(orchestrator, logger)

	api := router.Group("/api")
	{
		api.POST("/batch/lei", batchHandler.HandleBatchByLEI)
		api.POST("/batch/names", batchHandler.HandleBatchByNames)
		api.POST("/batch/validation-ids", batchHandler.HandleBatchByValidationIDs)

		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	return router
}
