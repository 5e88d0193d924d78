package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yegors/flightboard/internal/board"
	"github.com/yegors/flightboard/internal/config"
	"github.com/yegors/flightboard/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(boardService *board.Service, config *config.Config, logger *logger.Logger) *Router {
	return &Router{
		handler:    NewHandler(boardService, logger),
		middleware: NewMiddleware(logger),
		config:     config,
		logger:     logger.Named("api-router"),
	}
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))

	// API routes
	router.Route("/api/v1", func(router chi.Router) {
		router.Get("/health", r.handler.GetHealth)
		router.Get("/status", r.handler.GetStatus)
		router.Get("/board", r.handler.GetBoard)
	})

	return router
}
