// Package server exposes the document extraction and form filling pipeline
// over a small local HTTP API with an embedded single-page UI.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"autoform/internal/extraction"
	"autoform/internal/formfill"
	"autoform/internal/logger"
)

// MaxUploadBytes bounds the multipart request body for document uploads.
const MaxUploadBytes = 50 << 20

// Server is the HTTP front end.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	extractor  extraction.Extractor
	filler     formfill.FormFiller
	log        zerolog.Logger
}

// New creates a server wired to the given pipeline services.
func New(addr string, extractor extraction.Extractor, filler formfill.FormFiller) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		extractor: extractor,
		filler:    filler,
		log:       logger.WithComponent("server"),
	}
	s.routes()

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
		// Extraction and form filling each make several upstream API calls.
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  time.Minute,
	}
	return s
}

func (s *Server) routes() {
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/extract", s.handleExtract).Methods(http.MethodPost)
	api.HandleFunc("/fill", s.handleFill).Methods(http.MethodPost)
}

// Handler returns the routed handler (for testing).
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server until it fails or is shut down.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
