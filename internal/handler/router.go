package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	assisthandler "github.com/pharmahub/assistant-backend/internal/handler/assist"
	middlewarePkg "github.com/pharmahub/assistant-backend/internal/middleware"
	assistservice "github.com/pharmahub/assistant-backend/internal/service/assist"

	"github.com/pharmahub/assistant-backend/internal/config"
)

// NewRouter wires HTTP routes to the assistant service.
func NewRouter(assistSvc *assistservice.Service, rateLimit config.RateLimitConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	assistHandler := assisthandler.New(assistSvc)
	chatLimiter := middlewarePkg.RateLimit(rateLimit.Requests, rateLimit.Window)

	r.Route("/api/assistant", func(api chi.Router) {
		assistHandler.RegisterRoutes(api, chatLimiter)
	})

	return r
}
