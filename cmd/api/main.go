package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timonchiklol/console-rpg/internal/config"
	"github.com/timonchiklol/console-rpg/internal/game"
	"github.com/timonchiklol/console-rpg/internal/handlers"
	"github.com/timonchiklol/console-rpg/internal/logger"
	"github.com/timonchiklol/console-rpg/internal/middleware"
	"github.com/timonchiklol/console-rpg/internal/narrative"
	"github.com/timonchiklol/console-rpg/internal/rooms"
	"github.com/timonchiklol/console-rpg/internal/services"
	"github.com/timonchiklol/console-rpg/pkg/dice"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Console RPG API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"model", cfg.GeminiModel,
		"api_keys", len(cfg.GeminiAPIKeys))

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	llmService := services.NewGeminiService(
		cfg.GeminiAPIKeys,
		cfg.GeminiModel,
		cfg.LLMTimeout,
		cfg.LLMMaxRetries,
		cfg.LLMRetryWait,
		log,
	)

	saves, err := services.NewRedisSaveStore(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to configure save store", "error", err)
		os.Exit(1)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer pingCancel()
	if err := saves.Ping(pingCtx); err != nil {
		log.Error("Failed to connect to save store", "error", err)
		os.Exit(1)
	}
	log.Info("Save store connection established")

	store := rooms.NewStore(saves, log)
	bridge := narrative.NewBridge(llmService, cfg.HistoryWindow, log)
	orch := game.NewOrchestrator(store, bridge, dice.NewSource(), log)

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(saves, log))

	roomHandler := handlers.NewRoomHandler(store, log)
	mux.Handle("/v1/rooms", roomHandler)
	mux.Handle("/v1/rooms/", roomHandler)

	characterHandler := handlers.NewCharacterHandler(orch, log)
	mux.Handle("/v1/characters", characterHandler)
	mux.Handle("/v1/characters/", characterHandler)

	mux.Handle("/v1/action", handlers.NewActionHandler(orch, log))
	mux.Handle("/v1/roll", handlers.NewRollHandler(orch, log))

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     middleware.Logger(mux),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := saves.Close(); err != nil {
		log.Error("Error closing save store", "error", err)
	}

	log.Info("Server exited")
}
