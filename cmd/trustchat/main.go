package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"trustchat/internal/api"
	"trustchat/internal/config"
	"trustchat/internal/logger"
	"trustchat/internal/ollama"
	"trustchat/internal/repository"
	"trustchat/internal/review"
	"trustchat/internal/search"
	"trustchat/internal/service"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zlog := logger.New(cfg.Log.Path, cfg.Log.Production)
	defer zlog.Sync()

	// Initialize database (sessions and turn log)
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		zlog.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	sessionRepo := repository.NewSessionRepository(db)

	// Generation backend
	ollamaClient := ollama.NewClient(ollama.ClientConfig{
		BaseURL:   cfg.OllamaBaseURL(),
		Model:     cfg.Ollama.Model,
		KeepAlive: cfg.Ollama.KeepAlive,
	})

	// Answer reviewer (delegated review goes through the same backend)
	reviewer := review.NewReviewer(review.DefaultRules(), ollamaClient, review.Options{
		TrustThreshold:   cfg.Review.TrustThreshold,
		RecentYearWindow: cfg.Review.RecentYearWindow,
		DefaultScore:     cfg.Review.DefaultScore,
	}, zlog)

	// Search provider
	searcher := search.NewClient(search.Config{
		BaseURL:   cfg.Search.BaseURL,
		Format:    cfg.Search.Format,
		UserAgent: cfg.Search.UserAgent,
		Timeout:   cfg.Search.Timeout,
	}, zlog)

	chatService := service.NewChatService(cfg, sessionRepo, ollamaClient, reviewer, searcher, zlog)

	// Setup router
	router := api.SetupRouter(chatService, api.RouterConfig{
		APIKey:       cfg.Admin.APIKey,
		AllowOrigins: cfg.Server.AllowOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    cfg.Address(),
		Handler: router,
		// Generation plus review plus search can take a while; give the
		// whole pipeline room before the server cuts the response off.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		zlog.Info("Starting trustchat server",
			zap.String("address", cfg.Address()),
			zap.String("model", cfg.Ollama.Model),
			zap.String("ollama", cfg.OllamaBaseURL()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Warn early when the backend is down; requests will still re-check.
	if err := ollamaClient.CheckRunning(context.Background()); err != nil {
		zlog.Warn("Ollama not reachable at startup", zap.Error(err))
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zlog.Info("Server exited")
}
