package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/linguavista/backend/internal/analysis/topic"
	"github.com/linguavista/backend/internal/config"
	"github.com/linguavista/backend/internal/handler"
	"github.com/linguavista/backend/internal/model/learning"
	"github.com/linguavista/backend/internal/service/ai"
	"github.com/linguavista/backend/internal/service/chat"
	"github.com/linguavista/backend/internal/service/speech"
	"github.com/linguavista/backend/internal/service/tutor"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	chatService := chat.NewService()
	learningStore := learning.NewMemoryStore(
		learning.SeedRecommendations(),
		learning.SeedResources(),
		learning.SeedProgress(),
	)

	// The language model is optional; without credentials the tutor runs
	// on its fixed pattern triggers.
	var generator tutor.Generator
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing with heuristic tutor responses")
			generator = tutor.NewHeuristicGenerator()
		} else {
			log.Println("AI service initialized successfully")
			generator = aiService
		}
	} else {
		log.Println("Ark credentials not configured, using heuristic tutor responses")
		generator = tutor.NewHeuristicGenerator()
	}

	transcriber := speech.NewMockTranscriber(cfg.Speech.MockPhrase)
	speaker := speech.LogSpeaker{}

	tutorService := tutor.NewService(chatService, topic.NewGate(), generator, speaker, cfg.Tutor.GenerationTimeout)

	router := handler.NewRouter(chatService, tutorService, learningStore, transcriber)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("LinguaVista backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
