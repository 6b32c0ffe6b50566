// Package api exposes a TradeChecker over HTTP as JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"trade-checker-go/internal/journal"
	"trade-checker-go/internal/metrics"
	"trade-checker-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies, imports included.
const maxBodyBytes = 32 << 20

// Response is the envelope of every API reply.
type Response struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Status is returned by /api/status.
type Status struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	Uptime    string `json:"uptime"`
	Trades    int    `json:"trades"`
}

// ImportResult is returned by /api/import.
type ImportResult struct {
	Imported int `json:"imported"`
}

// Handler serves the API routes.
type Handler struct {
	svc       service.TradeChecker
	logger    *zap.Logger
	startTime time.Time
	now       func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(svc service.TradeChecker, logger *zap.Logger) *Handler {
	return &Handler{
		svc:       svc,
		logger:    logger.Named("api"),
		startTime: time.Now(),
		now:       time.Now,
	}
}

// Routes builds the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metrics.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", h.healthHandler)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", h.statusHandler)
		r.Get("/schema", h.schemaHandler)

		r.Get("/trades", h.listTradesHandler)
		r.Post("/trades", h.saveTradeHandler)
		r.Delete("/trades", h.clearTradesHandler)
		r.Delete("/trades/{id}", h.deleteTradeHandler)

		r.Post("/check", h.checkHandler)
		r.Get("/history", h.historyHandler)
		r.Get("/statistics", h.statisticsHandler)

		r.Get("/export", h.exportHandler)
		r.Post("/import", h.importHandler)
	})
	return r
}

func (h *Handler) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (h *Handler) statusHandler(w http.ResponseWriter, r *http.Request) {
	trades, err := h.svc.Trades(r.Context(), "")
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, Status{
		Name:      "trade-checker",
		StartTime: h.startTime.Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Trades:    len(trades),
	})
}

func (h *Handler) schemaHandler(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Schema(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, info)
}

func (h *Handler) listTradesHandler(w http.ResponseWriter, r *http.Request) {
	trades, err := h.svc.Trades(r.Context(), r.URL.Query().Get("strategy"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, trades)
}

func (h *Handler) saveTradeHandler(w http.ResponseWriter, r *http.Request) {
	var req service.SaveRequest
	if !h.decode(w, r, &req) {
		return
	}
	rec, err := h.svc.Save(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) clearTradesHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, nil)
}

func (h *Handler) deleteTradeHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, nil)
}

func (h *Handler) checkHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CheckRequest
	if !h.decode(w, r, &req) {
		return
	}
	report, err := h.svc.Check(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) historyHandler(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.History(r.Context(), r.URL.Query().Get("strategy"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, groups)
}

func (h *Handler) statisticsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Statistics(r.Context(), r.URL.Query().Get("strategy"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// exportHandler streams the bare record array as a download, not wrapped in
// the envelope, so the file can be imported again as is.
func (h *Handler) exportHandler(w http.ResponseWriter, r *http.Request) {
	trades, err := h.svc.Export(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", journal.ExportFilename(h.now())))
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(trades); err != nil {
		h.logger.Error("Failed to write export", zap.Error(err))
	}
}

func (h *Handler) importHandler(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "couldn't read request body")
		return
	}
	n, err := h.svc.Import(r.Context(), data)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ImportResult{Imported: n})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// fail maps a service error to its HTTP status.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, journal.ErrValidation), errors.Is(err, journal.ErrMalformedImport):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Request failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.write(w, status, Response{Success: false, Error: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	h.write(w, status, Response{Success: true, Data: data})
}

func (h *Handler) write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Server runs the API on a TCP port.
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// NewServer creates a Server listening on port.
func NewServer(port int, handler *Handler, logger *zap.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger.Named("api-server"),
	}
}

// Start runs the HTTP server in a new goroutine. Errors other than a clean
// shutdown are sent on the returned channel.
func (s *Server) Start() <-chan error {
	errc := make(chan error, 1)
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server failed", zap.Error(err))
			errc <- err
		}
		close(errc)
	}()
	return errc
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}
