package profile

import (
	"context"
	"log/slog"

	"github.com/micro-nova/msiec-go/internal/hardware"
	"github.com/micro-nova/msiec-go/internal/models"
)

// Match returns the first model in registry listing fw among its allowed
// firmware versions. Models are tried in order, and within a model its
// firmware list in order.
func Match(fw string, registry []Model) (Model, bool) {
	for _, m := range registry {
		for _, allowed := range m.AllowedFirmware {
			if allowed == fw {
				return m, true
			}
		}
	}
	return Model{}, false
}

// Load reads the firmware version from the EC and selects the matching model
// from the built-in registry.
func Load(ctx context.Context, drv hardware.Driver) (Active, error) {
	return LoadFrom(ctx, drv, registry)
}

// LoadFrom is Load against an explicit registry. An unmatched firmware is
// UnsupportedHardware; there is no fallback model.
func LoadFrom(ctx context.Context, drv hardware.Driver, reg []Model) (Active, error) {
	fw, err := hardware.ReadFirmwareVersion(ctx, drv)
	if err != nil {
		return Active{}, err
	}
	m, ok := Match(fw, reg)
	if !ok {
		slog.Error("profile: firmware version is not supported", "firmware", fw)
		return Active{}, models.UnsupportedHardware("firmware %q is not supported", fw)
	}
	slog.Info("profile: configuration selected", "model", m.Name, "firmware", fw)
	return Active{Model: m.Name, Firmware: fw, Config: m.Config}, nil
}

// Lookup returns the registry model with the given name.
func Lookup(name string) (Model, bool) {
	for _, m := range registry {
		if m.Name == name {
			return m, true
		}
	}
	return Model{}, false
}
