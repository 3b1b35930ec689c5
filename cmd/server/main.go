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

	"github.com/gin-gonic/gin"
	"github.com/globetrotter/server/internal/api"
	"github.com/globetrotter/server/internal/config"
	"github.com/globetrotter/server/internal/repository"
	"github.com/globetrotter/server/internal/service"
	"github.com/globetrotter/server/internal/utils"
)

func main() {
	logger := utils.NewLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	// Set up database connection
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		logger.Error("Failed to set up database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	// Create repository
	repo := repository.NewSQLRepository(db)

	// Create service
	svc, err := service.NewDefaultService(repo, cfg.Auth)
	if err != nil {
		logger.Error("Failed to create service: %v", err)
		os.Exit(1)
	}

	// Create API handler
	handler := api.NewHandler(svc, logger, cfg.Auth)

	// Set up Gin router
	router := gin.Default()
	handler.SetupRoutes(router)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server on %s (driver %s)", server.Addr, cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("Server shutdown: %v", err)
	}
}
