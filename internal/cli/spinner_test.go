package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinner("working")
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()

	// Stop is idempotent.
	s.Stop()
	s.Stop()
}

func TestSpinnerStopsOnContextEnd(t *testing.T) {
	t.Run("cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		s := newSpinnerWithContext(ctx, "working")
		s.Start()

		cancel()
		s.Stop()

		if !s.Cancelled() {
			t.Error("Cancelled() should be true after the parent context is cancelled")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		s := newSpinnerWithContext(ctx, "working")
		s.Start()
		time.Sleep(50 * time.Millisecond)
		s.Stop()

		if !s.Cancelled() {
			t.Error("Cancelled() should be true after the deadline passes")
		}
	})
}

func TestSpinnerStopMessages(t *testing.T) {
	s := newSpinner("fetching")
	s.Start()
	s.StopWithSuccess("fetched")

	s = newSpinner("fetching")
	s.Start()
	s.StopWithError("fetch failed")
}
