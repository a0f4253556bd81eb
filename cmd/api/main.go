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

	"github.com/pharmahub/assistant-backend/internal/config"
	"github.com/pharmahub/assistant-backend/internal/handler"
	"github.com/pharmahub/assistant-backend/internal/service/ai"
	"github.com/pharmahub/assistant-backend/internal/service/assist"
	"github.com/pharmahub/assistant-backend/internal/service/history"
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

	store := history.NewMemoryStore()

	// The generative backend is optional: without a credential the assistant
	// runs on canned answers only for the lifetime of the process.
	var client ai.Client
	if cfg.AI.Enabled() {
		geminiClient, err := ai.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Timeout, ai.Options{
			Temperature:     float32(cfg.AI.Temperature),
			TopP:            float32(cfg.AI.TopP),
			MaxOutputTokens: int32(cfg.AI.MaxOutputTokens),
		})
		if err != nil {
			log.Printf("warning: failed to initialize gemini client: %v", err)
			log.Println("continuing with fallback answers only")
		} else {
			client = geminiClient
			log.Printf("gemini client initialized, model priority: %v", cfg.AI.Models)
		}
	} else {
		log.Println("GEMINI_API_KEY not set, generation disabled for this process")
	}

	assistSvc := assist.NewService(client, cfg.AI.Models, store)
	router := handler.NewRouter(assistSvc, cfg.RateLimit)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("assistant backend listening on %s", serverCfg.Addr)
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
