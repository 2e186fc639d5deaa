package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/eventboard/internal/adapters/animation"
	"github.com/okian/eventboard/internal/adapters/controls"
	"github.com/okian/eventboard/internal/adapters/provider"
	"github.com/okian/eventboard/internal/adapters/surface"
	service "github.com/okian/eventboard/internal/app"
	"github.com/okian/eventboard/internal/domain/labels"
	"github.com/okian/eventboard/internal/domain/model"
	"github.com/okian/eventboard/internal/domain/ordering"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBoardScenario(t *testing.T) {
	Convey("Given the bundled single-record dataset", t, func() {
		f := newFixture(favee())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(f.board.Load(ctx), ShouldBeNil)

		bar := controls.NewBar(f.board, labels.MustCatalog(), f.board.Filter())

		Convey("When selecting the event filter", func() {
			So(bar.Click(ctx, model.Filter("event")), ShouldBeTrue)

			Convey("Then the board should be empty", func() {
				So(f.board.Filter(), ShouldEqual, model.Filter("event"))
				So(f.target.Len(), ShouldEqual, 0)
			})

			Convey("And selecting all should show the record again", func() {
				So(bar.Click(ctx, model.FilterAll), ShouldBeTrue)
				So(f.target.Len(), ShouldEqual, 1)
				So(bar.Active(), ShouldEqual, model.FilterAll)
			})
		})

		Convey("When adding a June event", func() {
			added, ok := f.board.AddEvent(ctx, model.Record{
				Title:    "X",
				DateSort: "2025-06-01",
				Category: model.CategoryEvent,
				Status:   model.StatusUpcoming,
			})

			Convey("Then it should take id 2 and precede the July record", func() {
				So(ok, ShouldBeTrue)
				So(added.ID, ShouldEqual, 2)
				So(ids(f.board.Events()), ShouldResemble, []int{2, 1})
				items := f.target.Items()
				So(items, ShouldHaveLength, 2)
				So(string(items[0].Markup), ShouldContainSubstring, `data-id="2"`)
			})
		})
	})
}

func TestBoardFileProvider(t *testing.T) {
	Convey("Given a board reading a missing file", t, func() {
		target := surface.NewMemory()
		page := surface.NewPage()
		page.Mount(surface.DefaultName, target)
		b := service.New(
			service.WithProvider(provider.New("/nonexistent/events.json")),
			service.WithPage(page),
		)
		defer b.Stop()

		Convey("Then load should fail but leave a usable empty board", func() {
			So(b.Load(context.Background()), ShouldNotBeNil)
			added, ok := b.AddEvent(context.Background(), model.Record{Title: "first"})
			So(ok, ShouldBeTrue)
			So(added.ID, ShouldEqual, ordering.FirstID)
			So(target.Len(), ShouldEqual, 1)
		})
	})
}

func TestBoardConcurrency(t *testing.T) {
	Convey("Given a board under concurrent mutation", t, func() {
		clock := &heldClock{}
		target := surface.NewMemory()
		page := surface.NewPage()
		page.Mount(surface.DefaultName, target)
		b := service.New(
			service.WithProvider(provider.NewStatic()),
			service.WithPage(page),
			service.WithScheduler(animation.NewScheduler(animation.WithClock(clock))),
		)
		ctx := context.Background()
		So(b.Load(ctx), ShouldBeNil)

		const writers = 8
		const perWriter = 25

		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					b.AddEvent(ctx, model.Record{
						Title:    fmt.Sprintf("w%d-%d", w, i),
						Category: model.Categories()[i%len(model.Categories())],
						DateSort: fmt.Sprintf("2025-%02d-%02d", 1+i%12, 1+w),
					})
					if i%5 == 0 {
						b.SetFilter(ctx, model.Filters()[i%len(model.Filters())])
					}
				}
			}(w)
		}
		wg.Wait()

		Convey("Then every add should get a distinct id", func() {
			events := b.Events()
			So(events, ShouldHaveLength, writers*perWriter)
			seen := make(map[int]bool, len(events))
			for _, e := range events {
				So(seen[e.ID], ShouldBeFalse)
				seen[e.ID] = true
			}
		})

		Convey("Then the collection should be sorted", func() {
			So(ordering.IsSorted(b.Events()), ShouldBeTrue)
		})

		Convey("Then the surface should reflect the final filter", func() {
			So(target.Len(), ShouldEqual, len(b.View()))
		})
	})
}
