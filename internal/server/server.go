// Package server exposes the latest compliance report over HTTP and lets
// CI systems trigger fresh validation runs.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ShayCichocki/scenguard/internal/policy"
	scenguardmiddleware "github.com/ShayCichocki/scenguard/internal/server/middleware"
	"github.com/ShayCichocki/scenguard/pkg/models"
)

// ReportSource yields the most recent persisted report.
type ReportSource interface {
	LatestReport() (models.Report, error)
}

// Validator runs a fresh validation over the configured corpus.
type Validator interface {
	Validate(ctx context.Context, resources []string) (models.Report, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(ctx context.Context, resources []string) (models.Report, error)

// Validate calls f.
func (f ValidatorFunc) Validate(ctx context.Context, resources []string) (models.Report, error) {
	return f(ctx, resources)
}

// Dependencies carries the collaborators the handlers need.
type Dependencies struct {
	Reports   ReportSource
	Validator Validator
	Registry  *policy.Registry
	Logger    zerolog.Logger
}

// Config holds the server configuration.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

// WebAPI serves compliance reports over HTTP.
type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

// ConfigureRouter builds the HTTP routing table. Exposed separately so
// tests can mount it on httptest servers.
func ConfigureRouter(config Config) *chi.Mux {
	h := newHandler(config.Dependencies)
	logger := config.Dependencies.Logger

	router := chi.NewRouter()
	router.Use(scenguardmiddleware.Logger(&logger))
	router.Use(chimiddleware.Recoverer)

	router.Get("/healthz", h.Healthz)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/report", h.GetReport)
		r.Get("/summary", h.GetSummary)
		r.Get("/policies", h.ListPolicies)
		r.Post("/validate", h.Validate)
	})

	return router
}

// NewWebAPI creates the report server.
func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	timeout := config.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
		shutdownTimeout: timeout,
	}
}

// Start runs the server until it fails or receives an interrupt, then
// shuts down gracefully.
func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
