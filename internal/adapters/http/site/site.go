// Package site serves the board page.
package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/okian/eventboard/internal/adapters/controls"
	"github.com/okian/eventboard/internal/adapters/surface"
	"github.com/okian/eventboard/internal/domain/labels"
	"github.com/okian/eventboard/pkg/logger"
)

// ControlSource lists the filter buttons to draw.
type ControlSource interface {
	Controls() []controls.Control
}

type itemReader interface {
	Items() []surface.Item
}

type slotView struct {
	Markup template.HTML
	Style  template.CSS
}

type pageView struct {
	Lang        string
	Title       string
	Empty       string
	Controls    []controls.Control
	Mounted     bool
	SurfaceName string
	Items       []slotView
}

// Handler renders the page hosting the display surface.
type Handler struct {
	tmpl        *template.Template
	catalog     *labels.Catalog
	controls    ControlSource
	page        *surface.Page
	surfaceName string
	logger      logger.Logger
}

// NewHandler parses the page template. A nil logger is replaced by a no-op.
func NewHandler(catalog *labels.Catalog, ctrls ControlSource, page *surface.Page, surfaceName string, l logger.Logger) (*Handler, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: nil catalog", ErrTemplate)
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	if l == nil {
		l = logger.Nop()
	}
	return &Handler{
		tmpl:        tmpl,
		catalog:     catalog,
		controls:    ctrls,
		page:        page,
		surfaceName: surfaceName,
		logger:      l,
	}, nil
}

// Register attaches the page and its static assets to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(FS())))
	mux.HandleFunc("/", h.HandleRoot)
}

// HandleRoot handles GET / requests.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "page", h.view()); err != nil {
		h.logger.Error(r.Context(), "page render failed", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) view() pageView {
	v := pageView{
		Lang:        h.catalog.Locale(),
		Title:       h.catalog.Message(labels.MsgBoardTitle),
		Empty:       h.catalog.Message(labels.MsgBoardEmpty),
		SurfaceName: h.surfaceName,
	}
	if h.controls != nil {
		v.Controls = h.controls.Controls()
	}
	s, ok := h.page.Lookup(h.surfaceName)
	if !ok {
		return v
	}
	v.Mounted = true
	if ir, ok := s.(itemReader); ok {
		for _, it := range ir.Items() {
			v.Items = append(v.Items, slotView{Markup: it.Markup, Style: it.Style.CSS()})
		}
	}
	return v
}
