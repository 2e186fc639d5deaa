// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/eventboard/internal/domain/model"
)

// FilterControls is the filter button bar.
type FilterControls interface {
	Click(ctx context.Context, value model.Filter) bool
	Active() model.Filter
}

type filterRequest struct {
	Value string `json:"value"`
}

type filterResponse struct {
	Filter string `json:"filter"`
}

// FilterHandler handles filter selection.
type FilterHandler struct {
	controls FilterControls
}

// NewFilterHandler creates a new filter handler.
func NewFilterHandler(controls FilterControls) *FilterHandler {
	return &FilterHandler{controls: controls}
}

// HandlePostFilter handles POST /filter requests. Form posts are redirected
// back to the page; JSON posts get the active filter.
func (h *FilterHandler) HandlePostFilter(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_filter"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	asJSON := isJSON(r)
	var req filterRequest
	if asJSON {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		req.Value = r.PostForm.Get("value")
	}

	value := model.ParseFilter(req.Value)
	if !h.controls.Click(r.Context(), value) {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}

	if !asJSON {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, filterResponse{Filter: string(h.controls.Active())})
}
