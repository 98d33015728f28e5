package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"snapfeed.io/snapfeed-backend/internal/api"
	"snapfeed.io/snapfeed-backend/internal/auth"
	"snapfeed.io/snapfeed-backend/internal/config"
	"snapfeed.io/snapfeed-backend/internal/core"
	"snapfeed.io/snapfeed-backend/internal/media"
	"snapfeed.io/snapfeed-backend/internal/store"
)

func main() {
	cfg := config.Load()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	dbStore, err := store.NewStore(cfg.DatabasePath)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()

	mediaStore, err := media.NewStore(cfg.MediaRoot)
	if err != nil {
		logrus.Fatalf("Failed to initialize media storage: %v", err)
	}

	blacklist, err := auth.NewBlacklist(auth.BlacklistConfig{
		Enabled:  cfg.RedisEnabled,
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer blacklist.Close()

	genClient, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		logrus.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer genClient.Close()

	embedService := core.NewEmbedService(cfg.ClipServerURL, genClient)
	captionService := core.NewCaptionService(cfg.CaptionServerURL, genClient)

	tokens := auth.NewManager(cfg.JWTSecret)
	authService := core.NewAuthService(dbStore, tokens, blacklist)
	eventsService := core.NewEventsService(dbStore)
	photosService := core.NewPhotosService(dbStore, mediaStore, embedService)
	contextService := core.NewContextService(dbStore, mediaStore, embedService, cfg.ChunkSize, cfg.ChunkOverlap)
	postsService := core.NewPostsService(dbStore)
	feedbackService := core.NewFeedbackService(dbStore)
	searchService := core.NewSearchService(dbStore, embedService)
	generationService := core.NewGenerationService(dbStore, embedService, captionService)

	handler := api.NewHandler(
		authService,
		eventsService,
		photosService,
		contextService,
		postsService,
		feedbackService,
		searchService,
		generationService,
		cfg.BlurThreshold,
	)
	router := api.NewRouter(handler)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // inference calls can take time
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logrus.Infof("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Could not listen on %s: %v", srv.Addr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}
	logrus.Info("Server exiting gracefully")
}
