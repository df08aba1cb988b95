package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/DocForm/internal/apiClient"
	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/data/store"
	"github.com/akolanti/DocForm/internal/handlers"
	"github.com/akolanti/DocForm/internal/middleware"
	"github.com/akolanti/DocForm/internal/render"
	"github.com/akolanti/DocForm/internal/scrollsync"
	"github.com/akolanti/DocForm/internal/server"
	"github.com/akolanti/DocForm/internal/shell"
	"github.com/akolanti/DocForm/internal/upload"
	"github.com/akolanti/DocForm/pkg/logger_i"
	"github.com/joho/godotenv"
)

var (
	listenAddr string
	spoolDir   string
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", "err", err)
	}

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.StringVar(&spoolDir, "spool-dir", config.TemporaryDataDir, "directory for uploaded documents")
	flag.Parse()

	cfg := config.Load()
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			logger.Error("Invalid configuration", "field", e.Field, "err", e.Message)
		}
		os.Exit(1)
	}

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	client, err := apiClient.New(apiClient.Options{BaseURL: cfg.ExtractionAPIURL})
	if err != nil {
		logger.Error("Could not create the extraction api client", "err", err)
		os.Exit(1)
	}
	spooler, err := upload.NewSpooler(spoolDir)
	if err != nil {
		logger.Error("Could not create the upload directory", "dir", spoolDir, "err", err)
		os.Exit(1)
	}
	templates, err := render.NewTemplates()
	if err != nil {
		logger.Error("Could not parse templates", "err", err)
		os.Exit(1)
	}

	logger.Info("Starting shell service", "extraction_api", client.BaseURL())
	service := shell.InitService(shell.ServiceConfig{
		Store:     store.NewSessionStore(serviceContext, cfg),
		Extractor: client,
		Spooler:   spooler,
	})
	handler := handlers.NewWebHandler(service, templates, scrollsync.NewHub())

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, server.WebRoutes(handler, middleware.UploadLimiter))

	<-stopExecution
	logger.Info("Server stopped")
}
