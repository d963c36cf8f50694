// Package controller serializes all feature access for the daemon. It owns
// the bus lock, persists written values, and publishes change events.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/micro-nova/msiec-go/internal/config"
	"github.com/micro-nova/msiec-go/internal/dump"
	"github.com/micro-nova/msiec-go/internal/events"
	"github.com/micro-nova/msiec-go/internal/features"
	"github.com/micro-nova/msiec-go/internal/hardware"
	"github.com/micro-nova/msiec-go/internal/identity"
	"github.com/micro-nova/msiec-go/internal/models"
	"github.com/micro-nova/msiec-go/internal/profile"
)

// Event sources.
const (
	SourceWrite   = "write"
	SourceRefresh = "refresh"
	SourceRestore = "restore"
)

// Controller is the single entry point to the EC for the daemon.
// Every feature operation runs inside hw.Exclusive, so a read-modify-write
// never interleaves with another caller.
type Controller struct {
	hw     *hardware.Serialized
	active profile.Active
	set    *features.Set
	store  config.Store
	bus    *events.Bus

	mu    sync.Mutex
	saved models.SavedState
	last  map[string]string // last value seen per feature, for change detection
}

// New creates a controller for the given active configuration. The saved
// state is loaded but not applied; call Restore for that.
func New(hw hardware.Driver, active profile.Active, store config.Store, bus *events.Bus) (*Controller, error) {
	saved, err := store.Load()
	if err != nil {
		return nil, err
	}
	s, ok := hw.(*hardware.Serialized)
	if !ok {
		s = hardware.NewSerialized(hw)
	}
	return &Controller{
		hw:     s,
		active: active,
		set:    features.New(active.Config),
		store:  store,
		bus:    bus,
		saved:  *saved,
		last:   make(map[string]string),
	}, nil
}

// Active returns the selected configuration.
func (c *Controller) Active() profile.Active { return c.active }

// Features returns the feature set.
func (c *Controller) Features() *features.Set { return c.set }

// Info returns system information.
func (c *Controller) Info() models.Info {
	return models.Info{
		Version:   identity.GetVersion(),
		Hostname:  identity.GetHostname(),
		Model:     c.active.Model,
		Firmware:  c.active.Firmware,
		Transport: c.hw.Name(),
		Simulated: !c.hw.IsReal(),
	}
}

// State returns system information and every visible feature with its
// current value.
func (c *Controller) State(ctx context.Context) models.State {
	return models.State{Info: c.Info(), Features: c.List(ctx, false)}
}

func describe(f features.Feature) models.FeatureInfo {
	return models.FeatureInfo{
		Name:     f.Name(),
		Group:    f.Group(),
		Status:   string(f.Status()),
		Readable: f.Readable(),
		Writable: f.Writable(),
	}
}

// List describes features in listing order, reading each visible readable
// one. Read errors are reported per feature rather than failing the list.
func (c *Controller) List(ctx context.Context, includeHidden bool) []models.FeatureInfo {
	fs := c.set.Visible()
	if includeHidden {
		fs = c.set.All()
	}
	out := make([]models.FeatureInfo, 0, len(fs))
	_ = c.hw.Exclusive(ctx, func(drv hardware.Driver) error {
		for _, f := range fs {
			info := describe(f)
			if f.Supported() && f.Readable() {
				if v, err := f.Read(ctx, drv); err != nil {
					info.Error = err.Error()
				} else {
					info.Value = v
				}
			}
			out = append(out, info)
		}
		return nil
	})
	return out
}

// Get reads one feature.
func (c *Controller) Get(ctx context.Context, name string) (models.FeatureInfo, error) {
	f, err := c.set.Get(name)
	if err != nil {
		return models.FeatureInfo{}, err
	}
	info := describe(f)
	err = c.hw.Exclusive(ctx, func(drv hardware.Driver) error {
		v, err := f.Read(ctx, drv)
		info.Value = v
		return err
	})
	if err != nil {
		return models.FeatureInfo{}, err
	}
	return info, nil
}

// Set writes one feature, reads it back when possible, persists the value
// and publishes an event. The bookkeeping happens while the EC is still held
// so saved state and events follow the order of the hardware writes.
func (c *Controller) Set(ctx context.Context, name, value, source string) (models.FeatureInfo, error) {
	f, err := c.set.Get(name)
	if err != nil {
		return models.FeatureInfo{}, err
	}
	info := describe(f)
	err = c.hw.Exclusive(ctx, func(drv hardware.Driver) error {
		if err := f.Write(ctx, drv, value); err != nil {
			return err
		}
		published := normalize(value)
		if f.Readable() {
			v, err := f.Read(ctx, drv)
			if err != nil {
				return fmt.Errorf("read back %s: %w", name, err)
			}
			info.Value = v
			published = v
		}
		slog.Debug("controller: feature set", "feature", name, "value", published, "source", source)
		c.record(f, info.Value, value, source)
		c.bus.Publish(models.Event{Feature: name, Value: published, Source: source})
		return nil
	})
	if err != nil {
		return models.FeatureInfo{}, err
	}
	return info, nil
}

// record persists a written value. It must run inside hw.Exclusive. Values
// written by restore or by power profiles are not saved again; siblings sharing the register are dropped
// so a later restore does not overwrite this write.
func (c *Controller) record(f features.Feature, readBack, value, source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f.Readable() {
		c.last[f.Name()] = readBack
	}
	if source != SourceWrite || !f.Readable() {
		return
	}
	if c.saved.Values == nil {
		c.saved.Values = map[string]string{}
	}
	for _, sib := range c.set.Siblings(f.Name()) {
		delete(c.saved.Values, sib)
	}
	c.saved.Firmware = c.active.Firmware
	c.saved.Values[f.Name()] = normalize(value)
	if err := c.store.Save(&c.saved); err != nil {
		slog.Warn("controller: failed to save state", "err", err)
	}
}

func normalize(v string) string {
	if n := len(v); n > 0 && v[n-1] == '\n' {
		return v[:n-1]
	}
	return v
}

// Apply sets several features in name order. Every entry is attempted; the
// failures are joined.
func (c *Controller) Apply(ctx context.Context, values map[string]string, source string) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if _, err := c.Set(ctx, name, values[name], source); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Saved returns a copy of the persisted state.
func (c *Controller) Saved() models.SavedState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saved.DeepCopy()
}

// Restore re-applies saved values. It does nothing when the state was saved
// on a different firmware, since the register map may differ.
func (c *Controller) Restore(ctx context.Context) error {
	saved := c.Saved()
	if len(saved.Values) == 0 {
		return nil
	}
	if saved.Firmware != c.active.Firmware {
		slog.Warn("controller: saved state is for another firmware, not restoring",
			"saved", saved.Firmware, "active", c.active.Firmware)
		return nil
	}
	slog.Info("controller: restoring saved settings", "count", len(saved.Values))
	return c.Apply(ctx, saved.Values, SourceRestore)
}

// Refresh reads every visible readable feature and publishes an event for
// each value that changed since the last refresh or write.
func (c *Controller) Refresh(ctx context.Context) ([]models.Event, error) {
	var changed []models.Event
	err := c.hw.Exclusive(ctx, func(drv hardware.Driver) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		for _, f := range c.set.Visible() {
			if !f.Readable() {
				continue
			}
			v, err := f.Read(ctx, drv)
			if err != nil {
				if errors.Is(err, models.ErrTransport) {
					return err
				}
				continue
			}
			if prev, ok := c.last[f.Name()]; ok && prev == v {
				continue
			}
			c.last[f.Name()] = v
			changed = append(changed, models.Event{Feature: f.Name(), Value: v, Source: SourceRefresh})
		}
		return nil
	})
	for _, ev := range changed {
		c.bus.Publish(ev)
	}
	return changed, err
}

// Dump captures the whole register file.
func (c *Controller) Dump(ctx context.Context) (dump.Image, error) {
	var img dump.Image
	err := c.hw.Exclusive(ctx, func(drv hardware.Driver) error {
		var err error
		img, err = dump.Capture(ctx, drv, c.active.Model)
		return err
	})
	return img, err
}

// Exclusive runs fn with exclusive access to the EC.
func (c *Controller) Exclusive(ctx context.Context, fn func(hardware.Driver) error) error {
	return c.hw.Exclusive(ctx, fn)
}

// Shutdown flushes pending state to disk.
func (c *Controller) Shutdown() error {
	return c.store.Flush()
}
