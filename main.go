package main

import (
	"context"
	"embed"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"ndtdash/internal/api"
	"ndtdash/internal/config"
	"ndtdash/internal/container"
	"ndtdash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

//go:embed ui/templates/*.html ui/static/*
var embeddedFiles embed.FS

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	logger := appContainer.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the cache so the first page view is fast; failures are shown on
	// the dashboard and retried by the refresh button.
	if _, err := appContainer.Cache.Get(ctx); err != nil {
		logger.Warn("Initial data load failed: %v", err)
	}

	apiRouter := api.NewRouter(appContainer.APIHandler(), appConfig.Server.GinMode == gin.DebugMode)
	server, err := ui.NewServer(appContainer.Service, embeddedFiles, ui.Options{
		API:        apiRouter,
		Hub:        appContainer.EventHub(),
		RequestLog: appConfig.Server.GinMode != gin.ReleaseMode,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to create UI server: %v", err)
	}

	addr := net.JoinHostPort("", appConfig.Server.Port)
	if err := server.Run(ctx, addr, appConfig.Server.ReadTimeout, appConfig.Server.WriteTimeout); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
