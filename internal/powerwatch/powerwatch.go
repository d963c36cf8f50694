// Package powerwatch applies per-power-source feature profiles when the
// machine switches between mains and battery, as reported by UPower.
package powerwatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/micro-nova/msiec-go/internal/config"
)

const (
	upowerName  = "org.freedesktop.UPower"
	upowerPath  = dbus.ObjectPath("/org/freedesktop/UPower")
	propsIface  = "org.freedesktop.DBus.Properties"
	propsSignal = propsIface + ".PropertiesChanged"
	onBattery   = "OnBattery"

	// SourcePower marks events caused by a power source change.
	SourcePower = "power"
)

// Applier sets several features at once.
type Applier interface {
	Apply(ctx context.Context, values map[string]string, source string) error
}

// Watcher tracks the power source and applies the matching profile on
// every change.
type Watcher struct {
	applier  Applier
	profiles config.PowerProfiles

	mu    sync.Mutex
	known bool
	state bool // on battery
}

// New creates a watcher applying profiles through a.
func New(a Applier, profiles config.PowerProfiles) *Watcher {
	return &Watcher{applier: a, profiles: profiles}
}

// Enabled reports whether any profile is configured.
func (w *Watcher) Enabled() bool {
	return len(w.profiles.AC) > 0 || len(w.profiles.Battery) > 0
}

// Update applies the profile for the power source if it changed since the
// last successful apply. The first call always applies. A failed apply leaves
// the source unrecorded, so the next update retries it.
func (w *Watcher) Update(ctx context.Context, battery bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.known && w.state == battery {
		return nil
	}

	values, name := w.profiles.AC, "ac"
	if battery {
		values, name = w.profiles.Battery, "battery"
	}
	if len(values) > 0 {
		slog.Info("powerwatch: applying profile", "profile", name, "features", len(values))
		if err := w.applier.Apply(ctx, values, SourcePower); err != nil {
			return err
		}
	}
	w.known, w.state = true, battery
	return nil
}

// ParseOnBattery extracts UPower's OnBattery value from a PropertiesChanged
// signal. ok is false for any other signal or property.
func ParseOnBattery(sig *dbus.Signal) (battery, ok bool) {
	if sig == nil || sig.Name != propsSignal || sig.Path != upowerPath || len(sig.Body) < 2 {
		return false, false
	}
	if iface, _ := sig.Body[0].(string); iface != upowerName {
		return false, false
	}
	changed, isMap := sig.Body[1].(map[string]dbus.Variant)
	if !isMap {
		return false, false
	}
	v, found := changed[onBattery]
	if !found {
		return false, false
	}
	battery, ok = v.Value().(bool)
	return battery, ok
}

// Run connects to the system bus, applies the profile for the current power
// source and then follows UPower until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("powerwatch: connect system bus: %w", err)
	}
	defer conn.Close()

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(upowerPath),
		dbus.WithMatchInterface(propsIface),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		return fmt.Errorf("powerwatch: add match: %w", err)
	}
	signals := make(chan *dbus.Signal, 10)
	conn.Signal(signals)
	defer conn.RemoveSignal(signals)

	v, err := conn.Object(upowerName, upowerPath).GetProperty(upowerName + "." + onBattery)
	if err != nil {
		return fmt.Errorf("powerwatch: read %s: %w", onBattery, err)
	}
	if battery, ok := v.Value().(bool); ok {
		if err := w.Update(ctx, battery); err != nil {
			slog.Warn("powerwatch: profile not fully applied", "err", err)
		}
	}
	slog.Info("powerwatch: following UPower")

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, open := <-signals:
			if !open {
				return nil
			}
			battery, ok := ParseOnBattery(sig)
			if !ok {
				continue
			}
			if err := w.Update(ctx, battery); err != nil {
				slog.Warn("powerwatch: profile not fully applied", "err", err)
			}
		}
	}
}
