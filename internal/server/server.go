// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the pipeline over HTTP for the editor UI: upload,
// structuring, review edits, validation, layout preview, and export. One
// manuscript is live per process; a new upload replaces it.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/manuscript-press/internal/extraction"
	"github.com/pdiddy/manuscript-press/internal/ingest"
	"github.com/pdiddy/manuscript-press/internal/manuscript"
	"github.com/pdiddy/manuscript-press/internal/settings"
	"github.com/pdiddy/manuscript-press/pkg/types"
)

const defaultMaxUploadSize = 32 << 20

// Server wires the pipeline stages behind a chi router.
type Server struct {
	cfg      types.PipelineConfig
	logger   *slog.Logger
	store    *manuscript.Store
	settings *settings.Store
	ingest   *ingest.Pipeline
	extract  *extraction.Client

	mu      sync.Mutex
	pending *ingest.Source // uploaded but not yet structured
}

// New builds a Server. settingsStore may be nil, which disables the
// settings endpoints and stored overrides.
func New(cfg types.PipelineConfig, logger *slog.Logger, extract *extraction.Client, settingsStore *settings.Store) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8480"
	}
	if cfg.Server.MaxUploadSize <= 0 {
		cfg.Server.MaxUploadSize = defaultMaxUploadSize
	}
	return &Server{
		cfg:      cfg,
		logger:   logger,
		store:    manuscript.NewStore(),
		settings: settingsStore,
		ingest:   ingest.New(cfg.Ingest),
		extract:  extract,
	}
}

// Router assembles the HTTP routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/ingest", s.handleIngest)
		r.Post("/structure", s.handleStructure)

		r.Get("/manuscript", s.handleGetManuscript)
		r.Patch("/manuscript", s.handlePatchManuscript)
		r.Put("/sections/{index}", s.handleUpdateSection)
		r.Post("/figures/reorder", s.handleReorderFigure)

		r.Get("/validate", s.handleValidate)
		r.Get("/layout", s.handleLayout)

		r.Post("/export/pdf", s.handleExportPDF)
		r.Post("/export/docx", s.handleExportDOCX)
		r.Post("/export/letter", s.handleExportLetter)

		if s.settings != nil {
			r.Get("/settings", s.handleGetSettings)
			r.Put("/settings", s.handlePutSettings)
		}
	})

	return r
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// requestLogger logs one line per request through slog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
