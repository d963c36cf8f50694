// Package transport opens the EC driver selected in the daemon settings.
package transport

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/micro-nova/msiec-go/internal/config"
	"github.com/micro-nova/msiec-go/internal/dump"
	"github.com/micro-nova/msiec-go/internal/hardware"
)

// New creates the driver named by s.Transport without initializing it.
func New(s config.Settings) (hardware.Driver, error) {
	switch s.Transport {
	case config.TransportECSys:
		return hardware.NewECSys(s.Device, s.RateLimit), nil
	case config.TransportPort:
		return hardware.NewPortIO(hardware.OpenDevPort, s.RateLimit), nil
	case config.TransportDump:
		img, err := dump.ReadFile(s.DumpFile)
		if err != nil {
			return nil, err
		}
		slog.Info("transport: replaying register dump", "file", s.DumpFile, "firmware", img.Firmware)
		return img.Mock(), nil
	case config.TransportMock:
		return hardware.NewMockWithFirmware(s.MockFirmware), nil
	default:
		return nil, fmt.Errorf("transport: unknown transport %q", s.Transport)
	}
}

// Open creates the configured driver and initializes it.
func Open(ctx context.Context, s config.Settings) (hardware.Driver, error) {
	drv, err := New(s)
	if err != nil {
		return nil, err
	}
	if err := drv.Init(ctx); err != nil {
		return nil, fmt.Errorf("transport %s: %w", s.Transport, err)
	}
	return drv, nil
}
