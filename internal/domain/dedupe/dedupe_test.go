package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/eventboard/internal/domain/dedupe"
	"github.com/okian/eventboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func counter() (func() (model.Record, bool), *int) {
	n := 0
	return func() (model.Record, bool) {
		n++
		return model.Record{ID: n, Title: fmt.Sprintf("call-%d", n)}, true
	}, &n
}

func TestStore(t *testing.T) {
	Convey("Given a new store", t, func() {
		ctx := context.Background()
		s := dedupe.NewStore()
		fn, calls := counter()

		Convey("Then it should start empty", func() {
			So(s.Size(), ShouldEqual, 0)
		})

		Convey("When a key is used for the first time", func() {
			rec, ok, replayed := s.Do(ctx, "k1", fn)

			Convey("Then fn should run and its result be returned", func() {
				So(ok, ShouldBeTrue)
				So(replayed, ShouldBeFalse)
				So(rec.ID, ShouldEqual, 1)
				So(*calls, ShouldEqual, 1)
				So(s.Size(), ShouldEqual, 1)
			})

			Convey("And a retry with the same key should replay it", func() {
				again, ok, replayed := s.Do(ctx, "k1", fn)
				So(ok, ShouldBeTrue)
				So(replayed, ShouldBeTrue)
				So(again.ID, ShouldEqual, 1)
				So(*calls, ShouldEqual, 1)
			})

			Convey("And a different key should run fn again", func() {
				other, _, replayed := s.Do(ctx, "k2", fn)
				So(replayed, ShouldBeFalse)
				So(other.ID, ShouldEqual, 2)
			})

		})

		Convey("When fn fails", func() {
			failing := func() (model.Record, bool) { return model.Record{}, false }
			_, ok, replayed := s.Do(ctx, "k1", failing)

			Convey("Then the failure should not be remembered", func() {
				So(ok, ShouldBeFalse)
				So(replayed, ShouldBeFalse)
				So(s.Size(), ShouldEqual, 0)

				rec, ok, replayed := s.Do(ctx, "k1", fn)
				So(ok, ShouldBeTrue)
				So(replayed, ShouldBeFalse)
				So(rec.ID, ShouldEqual, 1)
			})
		})
	})

	Convey("Given a bounded store", t, func() {
		ctx := context.Background()
		s := dedupe.NewStore(dedupe.WithMaxSize(2))
		fn, _ := counter()

		s.Do(ctx, "a", fn)
		s.Do(ctx, "b", fn)
		s.Do(ctx, "c", fn)

		Convey("Then the oldest key should be evicted", func() {
			So(s.Size(), ShouldEqual, 2)
			_, _, replayed := s.Do(ctx, "a", fn)
			So(replayed, ShouldBeFalse)
			_, _, replayed = s.Do(ctx, "c", fn)
			So(replayed, ShouldBeTrue)
		})
	})

	Convey("Given an unbounded store", t, func() {
		ctx := context.Background()
		s := dedupe.NewStore(dedupe.WithMaxSize(0))
		fn, _ := counter()

		for i := 0; i < 3000; i++ {
			s.Do(ctx, fmt.Sprintf("key-%d", i), fn)
		}

		Convey("Then nothing should be evicted", func() {
			So(s.Size(), ShouldEqual, 3000)
		})
	})

	Convey("Given concurrent retries of one key", t, func() {
		ctx := context.Background()
		s := dedupe.NewStore()
		var mu sync.Mutex
		calls := 0
		fn := func() (model.Record, bool) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			return model.Record{ID: calls}, true
		}

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.Do(ctx, "same", fn)
			}()
		}
		wg.Wait()

		Convey("Then fn should run exactly once", func() {
			So(calls, ShouldEqual, 1)
		})
	})
}
