// Package service provides the event board: the in-memory announcement
// collection, the active filter and the render pipeline that writes the
// filtered view onto a display surface.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/okian/eventboard/internal/adapters/animation"
	"github.com/okian/eventboard/internal/adapters/provider"
	"github.com/okian/eventboard/internal/adapters/render"
	"github.com/okian/eventboard/internal/adapters/surface"
	"github.com/okian/eventboard/internal/domain/labels"
	"github.com/okian/eventboard/internal/domain/model"
	"github.com/okian/eventboard/internal/domain/ordering"
	"github.com/okian/eventboard/pkg/logger"
	"github.com/okian/eventboard/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// Board owns the record collection and the filter, and renders on demand.
// All operations are serialized by a single mutex.
type Board struct {
	mu sync.Mutex

	events []model.Record
	filter model.Filter
	loaded bool

	// Collaborators
	provider    provider.Provider
	page        *surface.Page
	surfaceName string
	renderer    *render.Renderer
	scheduler   *animation.Scheduler
	entrance    animation.Entrance

	// Counters for stats
	renders int
	skipped int

	logger logger.Logger
}

// Option applies a configuration option to the Board.
type Option func(*Board)

// WithLogger sets a custom logger for the board.
func WithLogger(l logger.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithProvider sets where Load reads records from.
func WithProvider(p provider.Provider) Option {
	return func(b *Board) {
		if p != nil {
			b.provider = p
		}
	}
}

// WithPage sets the page holding the display surface. A nil page means no
// surface is ever found and every render is a no-op.
func WithPage(p *surface.Page) Option {
	return func(b *Board) {
		b.page = p
	}
}

// WithSurfaceName sets the logical name of the display surface.
func WithSurfaceName(name string) Option {
	return func(b *Board) {
		if name != "" {
			b.surfaceName = name
		}
	}
}

// WithRenderer sets the fragment renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(b *Board) {
		if r != nil {
			b.renderer = r
		}
	}
}

// WithScheduler sets the animation scheduler.
func WithScheduler(s *animation.Scheduler) Option {
	return func(b *Board) {
		if s != nil {
			b.scheduler = s
		}
	}
}

// WithEntrance sets the entrance animation timings.
func WithEntrance(e animation.Entrance) Option {
	return func(b *Board) {
		if e.Stagger >= 0 && e.Transition >= 0 {
			b.entrance = e
		}
	}
}

// WithInitialFilter sets the filter in effect before any selection.
func WithInitialFilter(f model.Filter) Option {
	return func(b *Board) {
		if f != "" {
			b.filter = f
		}
	}
}

// New constructs a Board. Without options it reads the bundled dataset and
// renders into the surface named surface.DefaultName on a fresh page.
func New(opts ...Option) *Board {
	b := &Board{
		filter:      model.FilterAll,
		provider:    provider.NewEmbedded(),
		page:        surface.NewPage(),
		surfaceName: surface.DefaultName,
		entrance:    animation.DefaultEntrance(),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = logger.Nop()
	}
	if b.scheduler == nil {
		b.scheduler = animation.NewScheduler()
	}
	if b.renderer == nil {
		r, err := render.New(labels.MustCatalog())
		if err != nil {
			// Templates are embedded; failing here is a build defect.
			panic(err)
		}
		b.renderer = r
	}
	return b
}

// Load replaces the collection with the provider's records, sorted, and
// renders. A provider failure leaves an empty board (still rendered) and is
// returned so the caller can decide whether to continue.
func (b *Board) Load(ctx context.Context) error {
	records, err := b.provider.FetchAll(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.logger.Error(ctx, "failed to load events",
			logger.String("provider", b.provider.Name()),
			logger.Error(err),
		)
		b.events = nil
		b.loaded = true
		metrics.UpdateRecords(0)
		b.renderLocked(ctx)
		return fmt.Errorf("load events from %s: %w", b.provider.Name(), err)
	}

	sortEvents(records)
	b.events = records
	b.loaded = true
	metrics.UpdateRecords(len(records))
	b.logger.Info(ctx, "loaded events",
		logger.String("provider", b.provider.Name()),
		logger.Int("count", len(records)),
	)
	b.renderLocked(ctx)
	return nil
}

// Render writes the filtered view onto the display surface and starts the
// entrance animation. It is a no-op when the surface is absent.
func (b *Board) Render(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renderLocked(ctx)
}

func (b *Board) renderLocked(ctx context.Context) {
	target, ok := b.page.Lookup(b.surfaceName)
	if !ok {
		b.skipped++
		metrics.RecordRenderSkipped()
		b.logger.Debug(ctx, "display surface absent; render skipped", logger.String("surface", b.surfaceName))
		return
	}

	start := time.Now()
	view := b.filter.Apply(b.events)
	fragments, err := b.renderer.Render(view)
	if err != nil {
		b.logger.Error(ctx, "render failed", logger.Error(err))
		return
	}

	// Drop the previous render's pending transitions before touching content.
	cancelled := b.scheduler.CancelAll()
	target.Replace(fragments, b.entrance.Initial())
	scheduled, _ := b.scheduler.Play(target, len(fragments), b.entrance)

	b.renders++
	metrics.RecordAnimationCancelled(cancelled)
	metrics.RecordAnimationScheduled(scheduled)
	latencyMs := float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond
	metrics.RecordRender(len(fragments), latencyMs)
	b.logger.Debug(ctx, "rendered board",
		logger.String("filter", string(b.filter)),
		logger.Int("items", len(fragments)),
		logger.Int("cancelledAnimations", cancelled),
		logger.Float64("latencyMs", latencyMs),
	)
}

// SetFilter changes the filter and renders. Unknown values are accepted and
// produce an empty view.
func (b *Board) SetFilter(ctx context.Context, f model.Filter) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.filter = f
	metrics.RecordFilterChange(string(f))
	b.renderLocked(ctx)
}

// Filter returns the active filter.
func (b *Board) Filter() model.Filter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

// Events returns a copy of the full collection in board order.
func (b *Board) Events() []model.Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneAll(b.events)
}

// View returns a copy of the records passing the active filter.
func (b *Board) View() []model.Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneAll(b.filter.Apply(b.events))
}

// AddEvent stores a copy of data under the next identifier, re-sorts and
// renders. ok is false, and nothing changes, when the collection already
// holds the largest representable id.
func (b *Board) AddEvent(ctx context.Context, data model.Record) (model.Record, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, ok := ordering.NextID(b.events)
	if !ok {
		metrics.RecordMutation("add", "ids_exhausted")
		b.logger.Warn(ctx, "no identifier left for new event", logger.String("title", data.Title))
		return model.Record{}, false
	}

	rec := data.Clone()
	rec.ID = id
	b.events = append(b.events, rec)
	sortEvents(b.events)
	b.renderLocked(ctx)

	metrics.RecordMutation("add", "ok")
	metrics.UpdateRecords(len(b.events))
	b.logger.Info(ctx, "event added", logger.Int("id", rec.ID), logger.String("title", rec.Title))
	return rec.Clone(), true
}

// UpdateEvent merges patch onto the record with id, re-sorts and renders.
// ok is false, and nothing changes, when no record has that id.
func (b *Board) UpdateEvent(ctx context.Context, id int, patch model.Patch) (model.Record, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.indexOf(id)
	if idx < 0 {
		metrics.RecordMutation("update", "not_found")
		b.logger.Debug(ctx, "update target not found", logger.Int("id", id))
		return model.Record{}, false
	}

	updated := patch.Apply(b.events[idx])
	b.events[idx] = updated
	sortEvents(b.events)
	b.renderLocked(ctx)

	metrics.RecordMutation("update", "ok")
	b.logger.Info(ctx, "event updated", logger.Int("id", id))
	return updated.Clone(), true
}

// DeleteEvent removes the record with id and renders. ok is false when no
// record has that id.
func (b *Board) DeleteEvent(ctx context.Context, id int) (model.Record, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.indexOf(id)
	if idx < 0 {
		metrics.RecordMutation("delete", "not_found")
		b.logger.Debug(ctx, "delete target not found", logger.Int("id", id))
		return model.Record{}, false
	}

	removed := b.events[idx]
	b.events = append(b.events[:idx], b.events[idx+1:]...)
	b.renderLocked(ctx)

	metrics.RecordMutation("delete", "ok")
	metrics.UpdateRecords(len(b.events))
	b.logger.Info(ctx, "event deleted", logger.Int("id", id))
	return removed, true
}

// ExportEvents serializes the collection as a pretty-printed document.
func (b *Board) ExportEvents(_ context.Context) (string, error) {
	b.mu.Lock()
	events := cloneAll(b.events)
	b.mu.Unlock()

	if events == nil {
		events = []model.Record{}
	}
	data, err := json.MarshalIndent(model.Document{Events: events}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export events: %w", err)
	}
	return string(data), nil
}

// ImportEvents replaces the collection with the records in text and renders.
// It reports false, leaving the collection untouched, when text is not a
// document with an events sequence; the reason is logged.
func (b *Board) ImportEvents(ctx context.Context, text string) bool {
	records, err := decodeDocument(text)
	if err != nil {
		metrics.RecordImportFailure()
		b.logger.Error(ctx, "failed to import events", logger.Error(err))
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	sortEvents(records)
	b.events = records
	b.renderLocked(ctx)

	metrics.RecordMutation("import", "ok")
	metrics.UpdateRecords(len(records))
	b.logger.Info(ctx, "events imported", logger.Int("count", len(records)))
	return true
}

// GetStats returns board statistics for monitoring.
func (b *Board) GetStats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, mounted := b.page.Lookup(b.surfaceName)
	return map[string]interface{}{
		"loaded":            b.loaded,
		"records":           len(b.events),
		"visible":           len(b.filter.Apply(b.events)),
		"filter":            string(b.filter),
		"provider":          b.provider.Name(),
		"surface":           b.surfaceName,
		"surfaceMounted":    mounted,
		"renders":           b.renders,
		"rendersSkipped":    b.skipped,
		"pendingAnimations": b.scheduler.Pending(),
	}
}

// Stop cancels pending animation tasks.
func (b *Board) Stop() {
	n := b.scheduler.CancelAll()
	b.logger.Info(context.Background(), "board stopped", logger.Int("cancelledAnimations", n))
}

// sortEvents puts records in board order. Exports re-imported unchanged are
// already ordered and skip the sort.
func sortEvents(records []model.Record) {
	if !ordering.IsSorted(records) {
		ordering.Sort(records)
	}
}

func (b *Board) indexOf(id int) int {
	for i := range b.events {
		if b.events[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(records []model.Record) []model.Record {
	if records == nil {
		return nil
	}
	out := make([]model.Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
