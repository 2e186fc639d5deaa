// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/eventboard/internal/domain/dedupe"
	"github.com/okian/eventboard/pkg/logger"
)

// maxBodyBytes caps request bodies on admin and filter endpoints.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	AdminDependencies
	StatsProvider
}

// Server wires HTTP routes for the board API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	boardHandler  *BoardHandler
	filterHandler *FilterHandler
	adminHandler  *AdminHandler
}

// Option applies a configuration option to the Server.
type Option func(*serverOptions)

type serverOptions struct {
	logger logger.Logger
	keys   *dedupe.Store
}

// WithLogger sets the logger used by handlers.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithIdempotencyStore sets where idempotency keys for adds are remembered.
func WithIdempotencyStore(keys *dedupe.Store) Option {
	return func(o *serverOptions) {
		if keys != nil {
			o.keys = keys
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, filters FilterControls, view BoardView, opts ...Option) *Server {
	o := serverOptions{logger: logger.Nop(), keys: dedupe.NewStore()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler: NewHealthHandler(deps),
		statsHandler:  NewStatsHandler(deps),
		boardHandler:  NewBoardHandler(view),
		filterHandler: NewFilterHandler(filters),
		adminHandler:  NewAdminHandler(deps, o.keys, o.logger),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/readyz", MetricsMiddleware(s.healthHandler.HandleReady, "readyz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/board", MetricsMiddleware(s.boardHandler.HandleGetBoard, "board"))
	mux.HandleFunc("/filter", MetricsMiddleware(s.filterHandler.HandlePostFilter, "filter"))
	mux.HandleFunc("/admin/events/export", MetricsMiddleware(s.adminHandler.HandleExport, "admin_export"))
	mux.HandleFunc("/admin/events/import", MetricsMiddleware(s.adminHandler.HandleImport, "admin_import"))
	mux.HandleFunc("/admin/events", MetricsMiddleware(s.adminHandler.HandleAdd, "admin_add"))
	mux.HandleFunc("/admin/events/", MetricsMiddleware(s.adminHandler.HandleEvent, "admin_event"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
