package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"billsplit/internal/config"
	"billsplit/internal/extraction"
	"billsplit/internal/server"
	"billsplit/internal/service"
	"billsplit/internal/storage/sqlite"
	"billsplit/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	extractor := extraction.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	slog.Info("Extraction client ready", "model", cfg.GeminiModel)

	svc := service.NewShareService(store, extractor)
	router := server.NewRouter(svc)

	addr := fmt.Sprintf(":%s", cfg.Port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
