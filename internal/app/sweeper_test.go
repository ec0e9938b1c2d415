package app

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSweeper_ReleasesOnEachTick(t *testing.T) {
	t.Parallel()

	calls := make(chan struct{}, 16)
	releaser := &fakeReleaser{
		fn: func() (int, error) {
			calls <- struct{}{}
			return 1, nil
		},
	}

	sweeper := NewSweeper(releaser, 10*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	for i := 0; i < 3; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("sweeper never ticked (tick %d)", i)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("sweeper did not stop on cancel")
	}
}

func TestSweeper_SurvivesTickErrors(t *testing.T) {
	t.Parallel()

	calls := make(chan error, 16)
	first := true
	releaser := &fakeReleaser{
		fn: func() (int, error) {
			if first {
				first = false
				err := errors.New("storage unreachable")
				calls <- err
				return 0, err
			}
			calls <- nil
			return 0, nil
		},
	}

	sweeper := NewSweeper(releaser, 10*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Run(ctx)

	select {
	case err := <-calls:
		if err == nil {
			t.Fatalf("expected first tick to fail")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("sweeper never ticked")
	}

	// The loop must keep ticking after a failure.
	select {
	case err := <-calls:
		if err != nil {
			t.Fatalf("expected second tick to succeed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("sweeper stopped after an error")
	}
}

func TestNewSweeper_DefaultInterval(t *testing.T) {
	t.Parallel()

	s := NewSweeper(&fakeReleaser{}, 0, nil)
	if s.interval != defaultSweepInterval {
		t.Fatalf("expected default interval %v, got %v", defaultSweepInterval, s.interval)
	}
}

type fakeReleaser struct {
	fn func() (int, error)
}

func (f *fakeReleaser) ReleaseExpired(context.Context) (int, error) {
	if f.fn == nil {
		return 0, nil
	}
	return f.fn()
}
