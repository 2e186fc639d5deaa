// Package surface holds the display surfaces the board writes into.
//
// A Page is a registry of surfaces keyed by logical name. The board looks its
// surface up on every render, so unmounting a surface turns rendering into a
// no-op rather than an error.
package surface

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// DefaultName is the logical name of the board's container.
const DefaultName = "schedule-container"

// Style is the presentation state of one rendered item.
type Style struct {
	Opacity    float64
	OffsetY    int    // px, positive moves the item down
	Transition string // CSS transition shorthand, empty for none
}

// CSS renders the style as an inline declaration list.
func (s Style) CSS() template.CSS {
	var b strings.Builder
	if s.Transition != "" {
		fmt.Fprintf(&b, "transition:%s;", s.Transition)
	}
	fmt.Fprintf(&b, "opacity:%g;transform:translateY(%dpx)", s.Opacity, s.OffsetY)
	return template.CSS(b.String()) //nolint:gosec // built from numeric fields and configured transition
}

// Visible is the resting style with no offset.
var Visible = Style{Opacity: 1}

// Item is one rendered fragment and its current style.
type Item struct {
	Markup template.HTML
	Style  Style
}

// Surface receives rendered markup.
type Surface interface {
	// Replace discards existing content and writes items, each starting
	// in style initial.
	Replace(items []template.HTML, initial Style)
	// SetStyle updates the style of item i. It reports false when i is
	// out of range.
	SetStyle(i int, s Style) bool
}

// Memory is a Surface kept in memory and read back when a page is served.
type Memory struct {
	mu    sync.RWMutex
	items []Item
}

// NewMemory returns an empty surface.
func NewMemory() *Memory { return &Memory{} }

// Replace implements Surface.
func (m *Memory) Replace(items []template.HTML, initial Style) {
	next := make([]Item, len(items))
	for i, markup := range items {
		next[i] = Item{Markup: markup, Style: initial}
	}
	m.mu.Lock()
	m.items = next
	m.mu.Unlock()
}

// SetStyle implements Surface.
func (m *Memory) SetStyle(i int, s Style) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.items) {
		return false
	}
	m.items[i].Style = s
	return true
}

// Items returns a copy of the current content.
func (m *Memory) Items() []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out
}

// Len returns the number of items on the surface.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Markup concatenates every fragment.
func (m *Memory) Markup() template.HTML {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var b strings.Builder
	for _, it := range m.items {
		b.WriteString(string(it.Markup))
	}
	return template.HTML(b.String()) //nolint:gosec // fragments are already escaped
}

// Page is a registry of named surfaces.
type Page struct {
	mu       sync.RWMutex
	surfaces map[string]Surface
}

// NewPage returns an empty page.
func NewPage() *Page {
	return &Page{surfaces: make(map[string]Surface)}
}

// Mount registers s under name, replacing any previous surface.
func (p *Page) Mount(name string, s Surface) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.surfaces[name] = s
}

// Unmount removes the surface registered under name.
func (p *Page) Unmount(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.surfaces, name)
}

// Lookup returns the surface registered under name.
func (p *Page) Lookup(name string) (Surface, bool) {
	if p == nil {
		return nil, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.surfaces[name]
	return s, ok
}
