package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weathercom-service/internal/models"
)

type fakeRefresher struct {
	calls atomic.Int64
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context) (models.Snapshot, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return models.Snapshot{"temperature": 20.0}, nil
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestScheduler_InvokesRefreshOnInterval(t *testing.T) {
	ref := &fakeRefresher{}
	var successes atomic.Int64
	s := New(ref, 100*time.Millisecond, zap.NewNop(), func(ctx context.Context, snap models.Snapshot) {
		if snap == nil {
			t.Error("onSuccess called with nil snapshot")
		}
		successes.Add(1)
	})

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	waitFor(t, 3*time.Second, func() bool { return ref.calls.Load() >= 2 })
	waitFor(t, 3*time.Second, func() bool { return successes.Load() >= 2 })
}

func TestScheduler_FailedRefreshSkipsOnSuccess(t *testing.T) {
	ref := &fakeRefresher{err: errors.New("upstream down")}
	var successes atomic.Int64
	s := New(ref, 100*time.Millisecond, zap.NewNop(), func(ctx context.Context, snap models.Snapshot) {
		successes.Add(1)
	})

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	waitFor(t, 3*time.Second, func() bool { return ref.calls.Load() >= 2 })
	if successes.Load() != 0 {
		t.Errorf("onSuccess ran %d times for failing refresher, want 0", successes.Load())
	}
}

func TestScheduler_StopIsSafe(t *testing.T) {
	s := New(&fakeRefresher{}, time.Minute, zap.NewNop(), nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Stop()
	s.Stop() // repeated stop must not panic
}
