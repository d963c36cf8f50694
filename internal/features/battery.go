package features

import (
	"context"
	"strconv"

	"github.com/micro-nova/msiec-go/internal/hardware"
	"github.com/micro-nova/msiec-go/internal/models"
	"github.com/micro-nova/msiec-go/internal/profile"
)

// Battery health modes. Each one stores a fixed end threshold in the charge
// control register.
const (
	BatteryMax    = "max"
	BatteryMedium = "medium" // charge up to 80%
	BatteryMin    = "min"    // charge up to 60%
)

// threshold exposes the charge control register as a percentage offset by
// offset. Start and end thresholds share the register.
func threshold(name string, c profile.ChargeControl, offset byte) *attr {
	read := func(ctx context.Context, drv hardware.Driver) (string, error) {
		raw, err := hardware.ReadByte(ctx, drv, c.Address)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(int(raw) - int(offset)), nil
	}
	write := func(ctx context.Context, drv hardware.Driver, in string) error {
		v, err := parseU8(name, in)
		if err != nil {
			return err
		}
		raw := v + int(offset)
		if raw < int(c.RangeMin) || raw > int(c.RangeMax) {
			return models.InvalidArgument("%s: %d is outside %d..%d", name, v,
				int(c.RangeMin)-int(offset), int(c.RangeMax)-int(offset))
		}
		return hardware.WriteByte(ctx, drv, c.Address, byte(raw))
	}
	return newAttr("battery", name, c.Address, read, write)
}

func batteryModes(c profile.ChargeControl) []profile.Mode {
	return []profile.Mode{
		{Name: BatteryMax, Value: c.RangeMax},
		{Name: BatteryMedium, Value: c.OffsetEnd + 80},
		{Name: BatteryMin, Value: c.OffsetEnd + 60},
	}
}

func batteryMode(c profile.ChargeControl) *attr {
	modes := batteryModes(c)
	read := func(ctx context.Context, drv hardware.Driver) (string, error) {
		raw, err := hardware.ReadByte(ctx, drv, c.Address)
		if err != nil {
			return "", err
		}
		for _, m := range modes {
			if raw == m.Value {
				return m.Name, nil
			}
		}
		return unknownValue(raw), nil
	}
	write := func(ctx context.Context, drv hardware.Driver, in string) error {
		for _, m := range modes {
			if in == m.Name {
				return hardware.WriteByte(ctx, drv, c.Address, m.Value)
			}
		}
		return invalidLabel("battery_mode", in, BatteryMax, BatteryMedium, BatteryMin)
	}
	return newAttr("", "battery_mode", c.Address, read, write)
}
