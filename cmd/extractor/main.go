// @title           DocForm Extraction API
// @version         1.0
// @description     Reference extraction backend: reads a document, asks the configured models for the fields of a document type and returns one record per model.

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/akolanti/DocForm/cmd/extractor/docs"
	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/data/store"
	"github.com/akolanti/DocForm/internal/extraction"
	"github.com/akolanti/DocForm/internal/extraction/llm"
	"github.com/akolanti/DocForm/internal/extraction/llm/gemini"
	"github.com/akolanti/DocForm/internal/extraction/llm/openaiLLM"
	"github.com/akolanti/DocForm/internal/handlers"
	"github.com/akolanti/DocForm/internal/server"
	"github.com/akolanti/DocForm/pkg/logger_i"
	"github.com/joho/godotenv"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", "err", err)
	}

	flag.StringVar(&listenAddr, "listen-addr", config.ExtractorListenAddr, "server listen address")
	flag.Parse()

	cfg := config.Load()
	if !cfg.HasProvider() {
		logger.Error("No model configured, set OPENAI_API_KEY or GEMINI_API_KEY")
		os.Exit(1)
	}

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	providers := []llm.Provider{
		openaiLLM.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel),
		gemini.NewGeminiClient(serviceContext, cfg.GeminiKey, cfg.GeminiModel),
	}
	service := extraction.NewService(providers, store.NewResultCache(serviceContext, cfg), extraction.DefaultTokenCounter())
	handler := handlers.NewExtractionHandler(service)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	go server.ShutDownHandler(server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	})
	go server.CreateServer(listenAddr, server.ExtractorRoutes(handler))

	<-stopExecution
	logger.Info("Extractor stopped")
}
