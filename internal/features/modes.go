package features

import (
	"context"
	"strings"

	"github.com/micro-nova/msiec-go/internal/hardware"
	"github.com/micro-nova/msiec-go/internal/models"
	"github.com/micro-nova/msiec-go/internal/profile"
)

// ShiftUnspecified is reported before any shift mode has been selected.
const ShiftUnspecified = "unspecified"

func modeRead(c profile.ModeFeature, special func(byte) (string, bool)) readFunc {
	return func(ctx context.Context, drv hardware.Driver) (string, error) {
		raw, err := hardware.ReadByte(ctx, drv, c.Address)
		if err != nil {
			return "", err
		}
		if special != nil {
			if s, ok := special(raw); ok {
				return s, nil
			}
		}
		if name, ok := c.Modes.NameOf(raw); ok {
			return name, nil
		}
		return unknownValue(raw), nil
	}
}

func modeWrite(name string, c profile.ModeFeature) writeFunc {
	return func(ctx context.Context, drv hardware.Driver, in string) error {
		if len(in) <= hardware.ModeNameLimit {
			if m, ok := c.Modes.Lookup(in); ok {
				return hardware.WriteByte(ctx, drv, c.Address, m.Value)
			}
		}
		return models.InvalidArgument("%s: %q is not one of %s", name, in,
			strings.Join(c.Modes.Names(), ", "))
	}
}

func shiftMode(c profile.ModeFeature) *attr {
	unspecified := func(raw byte) (string, bool) {
		return ShiftUnspecified, raw == hardware.RegShiftModeUnspecified
	}
	return newAttr("", "shift_mode", c.Address, modeRead(c, unspecified), modeWrite("shift_mode", c))
}

func fanMode(c profile.ModeFeature) *attr {
	return newAttr("", "fan_mode", c.Address, modeRead(c, nil), modeWrite("fan_mode", c))
}

// availableModes lists a table without touching the EC. It is visible
// whenever the mode register itself is.
func availableModes(name string, c profile.ModeFeature) *attr {
	read := func(context.Context, hardware.Driver) (string, error) {
		return strings.Join(c.Modes.Names(), "\n"), nil
	}
	return newAttr("", name, c.Address, read, nil)
}
