package monitor_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/micro-nova/msiec-go/internal/models"
	"github.com/micro-nova/msiec-go/internal/monitor"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) Refresh(ctx context.Context) ([]models.Event, error) {
	c.calls.Add(1)
	return nil, c.err
}

func TestRunPollsUntilCancelled(t *testing.T) {
	r := &countingRefresher{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		monitor.Run(ctx, r, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for r.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if n := r.calls.Load(); n < 3 {
		t.Errorf("Refresh called %d times, want >= 3", n)
	}
}

func TestRunKeepsPollingOnError(t *testing.T) {
	r := &countingRefresher{err: errors.New("bus gone")}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	monitor.Run(ctx, r, 10*time.Millisecond)
	if n := r.calls.Load(); n < 2 {
		t.Errorf("Refresh called %d times, want >= 2", n)
	}
}

func TestRunRefreshesImmediately(t *testing.T) {
	r := &countingRefresher{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	monitor.Run(ctx, r, time.Hour)
	if n := r.calls.Load(); n != 1 {
		t.Errorf("Refresh called %d times, want 1", n)
	}
}
