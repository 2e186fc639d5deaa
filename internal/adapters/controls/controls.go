// Package controls models the filter buttons shown above the board.
package controls

import (
	"context"
	"sync"

	"github.com/okian/eventboard/internal/domain/labels"
	"github.com/okian/eventboard/internal/domain/model"
)

// Selector receives filter selections.
type Selector interface {
	SetFilter(ctx context.Context, f model.Filter)
}

// Control is one filter button.
type Control struct {
	Value  model.Filter
	Label  string
	Active bool
}

// Bar is the set of filter controls. Exactly one control is active at a time.
type Bar struct {
	clickMu  sync.Mutex // orders activation and forwarding across clicks
	mu       sync.RWMutex
	controls []Control
	target   Selector
}

// NewBar builds one control per filter value, labelled from catalog, with
// initial active. An initial value that matches no control leaves the first
// control (all) active.
func NewBar(target Selector, catalog *labels.Catalog, initial model.Filter) *Bar {
	filters := model.Filters()
	b := &Bar{
		controls: make([]Control, len(filters)),
		target:   target,
	}
	activeIdx := 0
	for i, f := range filters {
		label := string(f)
		if catalog != nil {
			label = catalog.FilterLabel(f)
		}
		b.controls[i] = Control{Value: f, Label: label}
		if f == initial {
			activeIdx = i
		}
	}
	b.controls[activeIdx].Active = true
	return b
}

// Click activates the control tagged value and forwards the selection.
// It reports false when no control carries that tag. Clicks run one at a
// time, so the active control always matches the last forwarded value.
func (b *Bar) Click(ctx context.Context, value model.Filter) bool {
	b.clickMu.Lock()
	defer b.clickMu.Unlock()

	b.mu.Lock()
	found := -1
	for i := range b.controls {
		if b.controls[i].Value == value {
			found = i
			break
		}
	}
	if found < 0 {
		b.mu.Unlock()
		return false
	}
	for i := range b.controls {
		b.controls[i].Active = i == found
	}
	b.mu.Unlock()

	if b.target != nil {
		b.target.SetFilter(ctx, value)
	}
	return true
}

// Controls returns a snapshot of the controls in display order.
func (b *Bar) Controls() []Control {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Control, len(b.controls))
	copy(out, b.controls)
	return out
}

// Active returns the value of the active control.
func (b *Bar) Active() model.Filter {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, c := range b.controls {
		if c.Active {
			return c.Value
		}
	}
	return model.FilterAll
}
