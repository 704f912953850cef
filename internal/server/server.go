package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"

	"soundwatch/internal/config"
	"soundwatch/internal/domain/geo"
	"soundwatch/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	provider handlers.CorpusProvider,
	assets handlers.Assets,
	box geo.BoundingBox,
	natsConn *nats.Conn,
	eventsTopic string,
	log *slog.Logger,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	corpusHandler := handlers.NewCorpusHandler(provider, box)
	analysisHandler := handlers.NewAnalysisHandler(provider, assets, box)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Corpus API
			r.Route("/corpus", func(r chi.Router) {
				r.Get("/", corpusHandler.GetSummary)
				r.Get("/tweets", corpusHandler.ListTweets)
			})

			// Analysis API
			r.Route("/analysis", func(r chi.Router) {
				r.Get("/words", analysisHandler.GetWords)
				r.Get("/tfidf", analysisHandler.GetTFIDF)
				r.Get("/sentiment", analysisHandler.GetSentiment)
				r.Get("/dictionary", analysisHandler.GetDictionary)
				r.Get("/regression", analysisHandler.GetRegression)
			})

			// Map API
			r.Route("/map", func(r chi.Router) {
				r.Get("/points", analysisHandler.GetPoints)
			})
		})
	})

	// WebSocket endpoint for live acquisition progress
	router.Get("/ws/live", handlers.LiveFeedHandler(natsConn, eventsTopic, log))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
