// Package monitor polls the EC so that values changed by the firmware itself
// (temperatures, fan speeds, Fn hotkeys) reach event subscribers.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/micro-nova/msiec-go/internal/models"
)

// DefaultInterval is used when Run is given a non-positive interval.
const DefaultInterval = 5 * time.Second

// Refresher re-reads feature values and reports the ones that changed.
type Refresher interface {
	Refresh(ctx context.Context) ([]models.Event, error)
}

// Run refreshes once immediately and then every interval until ctx is
// cancelled. A failing refresh is logged once per failure streak.
func Run(ctx context.Context, r Refresher, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	failing := false
	poll := func() {
		changed, err := r.Refresh(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			return
		case err != nil:
			if !failing {
				slog.Warn("monitor: refresh failed", "err", err)
			}
			failing = true
		case failing:
			slog.Info("monitor: refresh recovered")
			failing = false
		}
		if len(changed) > 0 {
			slog.Debug("monitor: values changed", "count", len(changed))
		}
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}
