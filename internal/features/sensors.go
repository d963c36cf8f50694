package features

import (
	"context"
	"strconv"

	"github.com/micro-nova/msiec-go/internal/hardware"
	"github.com/micro-nova/msiec-go/internal/models"
	"github.com/micro-nova/msiec-go/internal/profile"
)

// rawValue reports the register verbatim in decimal.
func rawValue(group, name string, addr hardware.Address) *attr {
	read := func(ctx context.Context, drv hardware.Driver) (string, error) {
		raw, err := hardware.ReadByte(ctx, drv, addr)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(int(raw)), nil
	}
	return newAttr(group, name, addr, read, nil)
}

func scaledRead(name string, r profile.ScaledRange) readFunc {
	return func(ctx context.Context, drv hardware.Driver) (string, error) {
		raw, err := hardware.ReadByte(ctx, drv, r.Address)
		if err != nil {
			return "", err
		}
		pct, ok := hardware.ScaleToPercent(raw, r.BaseMin, r.BaseMax)
		if !ok {
			return "", models.InvalidState("%s: raw value 0x%02x outside [0x%02x, 0x%02x]",
				name, raw, r.BaseMin, r.BaseMax)
		}
		return strconv.Itoa(pct), nil
	}
}

func cpuRealtimeFanSpeed(r profile.ScaledRange) *attr {
	return newAttr("cpu", "realtime_fan_speed", r.Address, scaledRead("cpu/realtime_fan_speed", r), nil)
}

func cpuBasicFanSpeed(r profile.ScaledRange) *attr {
	const name = "cpu/basic_fan_speed"
	write := func(ctx context.Context, drv hardware.Driver, in string) error {
		v, err := parseU8(name, in)
		if err != nil {
			return err
		}
		if v > 100 {
			return models.InvalidArgument("%s: %d is above 100", name, v)
		}
		return hardware.WriteByte(ctx, drv, r.Address, hardware.PercentToScale(v, r.BaseMin, r.BaseMax))
	}
	return newAttr("cpu", "basic_fan_speed", r.Address, scaledRead(name, r), write)
}
