// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"html/template"
	"net/http"

	"github.com/okian/eventboard/internal/adapters/surface"
)

// BoardView reads what is currently on the display surface.
type BoardView interface {
	// Snapshot returns the concatenated fragments. ok is false when the
	// surface is absent.
	Snapshot() (markup template.HTML, ok bool)
}

type markupReader interface {
	Markup() template.HTML
}

type pageView struct {
	page *surface.Page
	name string
}

// PageView exposes the surface mounted under name on page as a BoardView.
// Surfaces that cannot be read back report an empty snapshot.
func PageView(page *surface.Page, name string) BoardView {
	return pageView{page: page, name: name}
}

func (v pageView) Snapshot() (template.HTML, bool) {
	s, ok := v.page.Lookup(v.name)
	if !ok {
		return "", false
	}
	if mr, ok := s.(markupReader); ok {
		return mr.Markup(), true
	}
	return "", true
}

// BoardHandler serves the rendered board.
type BoardHandler struct {
	view BoardView
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(view BoardView) *BoardHandler {
	return &BoardHandler{view: view}
}

// HandleGetBoard handles GET /board requests. The body is empty when the
// surface is absent.
func (h *BoardHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	markup, _ := h.view.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(markup))
}
