// Package api exposes the practice engine over HTTP: session lifecycle
// control, scoring, the Morse audio stream, and the WebSocket event feed.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yegors/qso-trainer/internal/config"
	"github.com/yegors/qso-trainer/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(handler *Handler, cfg *config.Config, log *logger.Logger) *Router {
	return &Router{
		handler:    handler,
		middleware: NewMiddleware(log),
		config:     cfg,
		logger:     log.Named("api-router"),
	}
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSOrigins))

	// API routes
	router.Route("/api/v1", func(router chi.Router) {
		// Session lifecycle
		router.Post("/session/start", r.handler.StartSession)
		router.Post("/session/play", r.handler.PlayCurrentQSO)
		router.Post("/session/replay", r.handler.ReplayCurrentQSO)
		router.Post("/session/pause", r.handler.PausePlayback)
		router.Post("/session/resume", r.handler.ResumePlayback)
		router.Post("/session/stop", r.handler.StopPlayback)
		router.Post("/session/skip", r.handler.SkipCurrentQSO)
		router.Post("/session/next", r.handler.NextQSO)
		router.Post("/session/reset", r.handler.ResetSession)

		// Session inspection
		router.Get("/session", r.handler.GetSessionStatus)
		router.Get("/session/qso", r.handler.GetCurrentQSO)
		router.Get("/session/text", r.handler.GetCurrentText)
		router.Get("/session/elements", r.handler.GetCurrentElements)

		// Scoring
		router.Post("/score", r.handler.ScoreCurrentQSO)
		router.Get("/score/summary", r.handler.GetScoreSummary)
		router.Get("/score/{index}", r.handler.GetScoreByIndex)
		router.Post("/score/reset", r.handler.ResetScores)

		// Audio stream of the current QSO as a WAV file
		router.Get("/stream", r.handler.StreamCurrentQSO)
		router.Head("/stream", r.handler.StreamCurrentQSO)

		// WebSocket event feed
		router.Get("/ws", r.handler.HandleWebSocket)

		// Reference data
		router.Get("/glossary", r.handler.GetGlossary)

		// Health check
		router.Get("/health", r.handler.GetHealth)

		// Configuration
		router.Get("/config", r.handler.GetConfig)
	})

	return router
}
