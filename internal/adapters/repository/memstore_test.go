package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	repository "github.com/okian/mayday/internal/adapters/repository"
	"github.com/okian/mayday/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func makeEvent(id string) model.Event {
	return model.Event{
		ID:         id,
		Transcript: "transcript " + id,
		Category:   model.CategoryNormal,
		Severity:   2,
		ReplyText:  "reply " + id,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		store := repository.NewMemoryStore()
		ctx := context.Background()

		Convey("When reading recent events", func() {
			events, err := store.Recent(ctx, 10)

			Convey("Then it returns an empty slice, not an error", func() {
				So(err, ShouldBeNil)
				So(events, ShouldBeEmpty)
			})
		})

		Convey("When the limit is invalid", func() {
			_, err := store.Recent(ctx, 0)

			Convey("Then it returns ErrInvalidLimit", func() {
				So(err, ShouldEqual, repository.ErrInvalidLimit)
			})
		})

		Convey("When appending events", func() {
			So(store.Append(ctx, makeEvent("a")), ShouldBeNil)
			So(store.Append(ctx, makeEvent("b")), ShouldBeNil)
			So(store.Append(ctx, makeEvent("c")), ShouldBeNil)

			Convey("Then Recent returns newest first", func() {
				events, err := store.Recent(ctx, 2)
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 2)
				So(events[0].ID, ShouldEqual, "c")
				So(events[1].ID, ShouldEqual, "b")
			})

			Convey("Then Recent never exceeds the limit", func() {
				events, err := store.Recent(ctx, 100)
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 3)
			})

			Convey("Then Count reflects the log size", func() {
				So(store.Count(ctx), ShouldEqual, 3)
			})

			Convey("And purging empties the log", func() {
				So(store.Purge(ctx), ShouldBeNil)
				So(store.Count(ctx), ShouldEqual, 0)
				events, err := store.Recent(ctx, 5)
				So(err, ShouldBeNil)
				So(events, ShouldBeEmpty)
			})
		})

		Convey("When identical timestamps are appended", func() {
			ts := time.Now().UTC()
			for _, id := range []string{"x", "y", "z"} {
				e := makeEvent(id)
				e.CreatedAt = ts
				So(store.Append(ctx, e), ShouldBeNil)
			}

			Convey("Then ties resolve by insertion order", func() {
				events, err := store.Recent(ctx, 3)
				So(err, ShouldBeNil)
				So(events[0].ID, ShouldEqual, "z")
				So(events[1].ID, ShouldEqual, "y")
				So(events[2].ID, ShouldEqual, "x")
			})
		})
	})

	Convey("Given a bounded memory store", t, func() {
		store := repository.NewMemoryStore(repository.WithCapacity(2))
		ctx := context.Background()

		Convey("When appending beyond capacity", func() {
			So(store.Append(ctx, makeEvent("a")), ShouldBeNil)
			So(store.Append(ctx, makeEvent("b")), ShouldBeNil)
			So(store.Append(ctx, makeEvent("c")), ShouldBeNil)

			Convey("Then the oldest events are evicted", func() {
				So(store.Count(ctx), ShouldEqual, 2)
				events, err := store.Recent(ctx, 2)
				So(err, ShouldBeNil)
				So(events[0].ID, ShouldEqual, "c")
				So(events[1].ID, ShouldEqual, "b")
			})
		})
	})
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_ = store.Append(ctx, makeEvent(fmt.Sprintf("w%d-%d", w, i)))
				// Interleave reads to exercise the RWMutex.
				if _, err := store.Recent(ctx, 10); err != nil {
					t.Errorf("recent failed: %v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	if got := store.Count(ctx); got != writers*perWriter {
		t.Errorf("count = %d, want %d", got, writers*perWriter)
	}

	events, err := store.Recent(ctx, writers*perWriter)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	seen := make(map[string]bool, len(events))
	for _, e := range events {
		if seen[e.ID] {
			t.Errorf("duplicate event id %q in recent read", e.ID)
		}
		seen[e.ID] = true
	}
}
