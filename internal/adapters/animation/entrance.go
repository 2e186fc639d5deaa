package animation

import (
	"strconv"
	"time"

	"github.com/okian/eventboard/internal/adapters/surface"
)

// Entrance defaults.
const (
	DefaultStagger    = 100 * time.Millisecond
	DefaultTransition = 500 * time.Millisecond
	DefaultOffsetPX   = 20
)

// Entrance describes the fade and slide-in applied after a render.
type Entrance struct {
	Stagger    time.Duration // delay between consecutive items
	Transition time.Duration // length of the CSS transition
	OffsetY    int           // starting offset in px
}

// DefaultEntrance mirrors the classic board animation.
func DefaultEntrance() Entrance {
	return Entrance{Stagger: DefaultStagger, Transition: DefaultTransition, OffsetY: DefaultOffsetPX}
}

// Initial is the hidden, offset style items start from.
func (e Entrance) Initial() surface.Style {
	return surface.Style{Opacity: 0, OffsetY: e.OffsetY}
}

// Final is the style items transition to.
func (e Entrance) Final() surface.Style {
	return surface.Style{
		Opacity:    1,
		OffsetY:    0,
		Transition: "all " + formatSeconds(e.Transition) + " ease-in-out",
	}
}

// Delay returns the delay for item i.
func (e Entrance) Delay(i int) time.Duration {
	return time.Duration(i) * e.Stagger
}

// Play cancels whatever the previous render scheduled, hides the first n
// items on target and schedules each to appear after its staggered delay.
// It returns the number of tasks scheduled and cancelled.
func (s *Scheduler) Play(target surface.Surface, n int, e Entrance) (scheduled, cancelled int) {
	cancelled = s.CancelAll()
	if target == nil {
		return 0, cancelled
	}
	initial, final := e.Initial(), e.Final()
	for i := 0; i < n; i++ {
		target.SetStyle(i, initial)
	}
	for i := 0; i < n; i++ {
		idx := i
		s.Schedule(e.Delay(idx), func() {
			target.SetStyle(idx, final)
		})
	}
	return n, cancelled
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'g', -1, 64) + "s"
}
