package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/aocbot/aocbot/internal/adapters/scheduler"
)

type countingRefresher struct {
	calls atomic.Int32
	ran   chan struct{}
	err   error
}

func newRefresher() *countingRefresher {
	return &countingRefresher{ran: make(chan struct{}, 8)}
}

func (c *countingRefresher) RefreshSnapshot(context.Context) error {
	c.calls.Add(1)
	c.ran <- struct{}{}
	return c.err
}

func waitRun(c *countingRefresher) bool {
	select {
	case <-c.ran:
		return true
	case <-time.After(3 * time.Second):
		return false
	}
}

func TestScheduler(t *testing.T) {
	Convey("Given a refresh scheduler with a long interval", t, func() {
		ref := newRefresher()
		s, err := scheduler.New(ref, time.Hour)
		So(err, ShouldBeNil)

		Convey("When running before Start", func() {
			err := s.RunNow()

			Convey("Then ErrNotStarted should be returned", func() {
				So(errors.Is(err, scheduler.ErrNotStarted), ShouldBeTrue)
			})
		})

		Convey("When started", func() {
			So(s.Start(context.Background()), ShouldBeNil)
			Reset(func() { _ = s.Stop() })

			Convey("Then the snapshot should be refreshed right away", func() {
				So(waitRun(ref), ShouldBeTrue)
			})

			Convey("Then RunNow should trigger another refresh", func() {
				So(waitRun(ref), ShouldBeTrue)
				time.Sleep(100 * time.Millisecond) // let the first run finish
				So(s.RunNow(), ShouldBeNil)
				So(waitRun(ref), ShouldBeTrue)
				So(ref.calls.Load(), ShouldBeGreaterThanOrEqualTo, 2)
			})
		})

		Convey("When refreshes fail", func() {
			ref.err = errors.New("remote down")
			So(s.Start(context.Background()), ShouldBeNil)

			Convey("Then the scheduler should keep running", func() {
				So(waitRun(ref), ShouldBeTrue)
				So(s.Stop(), ShouldBeNil)
			})
		})

		Convey("When stopping twice", func() {
			So(s.Start(context.Background()), ShouldBeNil)
			So(s.Stop(), ShouldBeNil)

			Convey("Then the second stop should be a no-op", func() {
				So(s.Stop(), ShouldBeNil)
			})
		})
	})

	Convey("Given a zero interval", t, func() {
		_, err := scheduler.New(newRefresher(), 0)

		Convey("Then ErrInvalidInterval should be returned", func() {
			So(errors.Is(err, scheduler.ErrInvalidInterval), ShouldBeTrue)
		})
	})
}
