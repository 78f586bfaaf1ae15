// Package server exposes the export over HTTP so a browser can download the
// backup directly.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/ukaji3/wikibackup-go/pkg/wikibackup"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/delivery"
	"github.com/ukaji3/wikibackup-go/pkg/wikibackup/notify"
)

// ExporterFunc builds an Exporter delivering to d and notifying n.
type ExporterFunc func(d delivery.Deliverer, n notify.Notifier) *wikibackup.Exporter

// Problem represents an RFC 7807 problem details object
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	RunID  string `json:"run_id,omitempty"`
}

// Render implements the chi render.Renderer interface
func (p Problem) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, p.Status)
	return nil
}

// Server serves backup downloads.
type Server struct {
	build  ExporterFunc
	logger *slog.Logger
}

// New creates a Server.
func New(build ExporterFunc, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{build: build, logger: logger}
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/export", s.handleExport)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	notices := &notify.Recorder{}
	res, err := s.build(delivery.NewHTTP(w), notices).Export(r.Context())

	if err == nil && !res.Empty {
		// The deliverer already wrote the attachment.
		return
	}

	notice, _ := notices.Last()
	problem := Problem{
		Type:   "about:blank",
		Title:  notice.Message,
		Status: statusFor(err),
	}
	if res != nil {
		problem.RunID = res.RunID
	}
	if err != nil {
		if errors.Is(err, wikibackup.ErrDeliver) {
			// Headers may already be on the wire.
			s.logger.Error("Backup download interrupted",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("error", err.Error()))
			return
		}
		problem.Detail = err.Error()
	}

	if err := render.Render(w, r, problem); err != nil {
		s.logger.Error("Failed to render problem", slog.String("error", err.Error()))
	}
}

// statusFor maps an export outcome to an HTTP status.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusNotFound
	case errors.Is(err, wikibackup.ErrStorageParse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, wikibackup.ErrDependencyLoad):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
