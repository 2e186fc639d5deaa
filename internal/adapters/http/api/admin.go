// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/eventboard/internal/domain/dedupe"
	"github.com/okian/eventboard/internal/domain/model"
	"github.com/okian/eventboard/pkg/logger"
)

// AdminDependencies defines the board operations used for out-of-band data
// management.
type AdminDependencies interface {
	AddEvent(ctx context.Context, data model.Record) (model.Record, bool)
	UpdateEvent(ctx context.Context, id int, patch model.Patch) (model.Record, bool)
	DeleteEvent(ctx context.Context, id int) (model.Record, bool)
	ExportEvents(ctx context.Context) (string, error)
	ImportEvents(ctx context.Context, text string) bool
}

const eventPathPrefix = "/admin/events/"

// Idempotency headers for POST /admin/events.
const (
	IdempotencyKeyHeader = "Idempotency-Key"
	ReplayedHeader       = "Idempotent-Replayed"
)

// AdminHandler handles administrative event requests.
type AdminHandler struct {
	deps   AdminDependencies
	keys   *dedupe.Store
	logger logger.Logger
}

// NewAdminHandler creates a new admin handler. A nil keys store disables
// idempotent adds.
func NewAdminHandler(deps AdminDependencies, keys *dedupe.Store, l logger.Logger) *AdminHandler {
	if l == nil {
		l = logger.Nop()
	}
	return &AdminHandler{deps: deps, keys: keys, logger: l}
}

// HandleExport handles GET /admin/events/export requests.
func (h *AdminHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_events"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	text, err := h.deps.ExportEvents(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "export failed", logger.String("requestId", RequestID(r.Context())), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}

// HandleImport handles POST /admin/events/import requests. The body is the
// events document.
func (h *AdminHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	const op = "api.import_events"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if !h.deps.ImportEvents(r.Context(), string(body)) {
		writeError(w, http.StatusBadRequest, "import_failed", NewKind(op, ErrImportFailed))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAdd handles POST /admin/events requests. A request repeating an
// earlier Idempotency-Key gets the record stored the first time, with 200.
func (h *AdminHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_event"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var rec model.Record
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	add := func() (model.Record, bool) { return h.deps.AddEvent(r.Context(), rec) }
	var (
		stored   model.Record
		ok       bool
		replayed bool
	)
	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if key == "" || h.keys == nil {
		stored, ok = add()
	} else {
		stored, ok, replayed = h.keys.Do(r.Context(), key, add)
	}

	switch {
	case !ok:
		writeError(w, http.StatusConflict, "ids_exhausted", NewKind(op, ErrIDsExhausted))
	case replayed:
		h.logger.Debug(r.Context(), "replayed idempotent add",
			logger.String("requestId", RequestID(r.Context())),
			logger.Int("id", stored.ID),
		)
		w.Header().Set(ReplayedHeader, "true")
		writeJSON(w, http.StatusOK, stored)
	default:
		writeJSON(w, http.StatusCreated, stored)
	}
}

// HandleEvent handles PATCH and DELETE /admin/events/{id} requests.
func (h *AdminHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	id, err := parseEventID(r.URL.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind("api.event_id", ErrBadRequest, err))
		return
	}
	switch r.Method {
	case http.MethodPatch:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *AdminHandler) update(w http.ResponseWriter, r *http.Request, id int) {
	const op = "api.update_event"
	var patch model.Patch
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	updated, ok := h.deps.UpdateEvent(r.Context(), id, patch)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, model.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) delete(w http.ResponseWriter, r *http.Request, id int) {
	const op = "api.delete_event"
	removed, ok := h.deps.DeleteEvent(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, model.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, removed)
}

func parseEventID(path string) (int, error) {
	raw := strings.TrimPrefix(path, eventPathPrefix)
	if raw == "" || strings.Contains(raw, "/") {
		return 0, ErrBadRequest
	}
	return strconv.Atoi(raw)
}
