package features

import (
	"context"
	"strconv"

	"github.com/micro-nova/msiec-go/internal/hardware"
	"github.com/micro-nova/msiec-go/internal/models"
	"github.com/micro-nova/msiec-go/internal/profile"
)

// indicatorLED is a write-only LED: any non-zero brightness lights it.
func indicatorLED(name string, addr hardware.Address, bit uint8) *attr {
	write := func(ctx context.Context, drv hardware.Driver, in string) error {
		v, err := strconv.ParseUint(in, 10, 32)
		if err != nil {
			return models.InvalidArgument("leds/%s: %q is not a brightness", name, in)
		}
		if v != 0 {
			return hardware.SetBit(ctx, drv, addr, bit)
		}
		return hardware.UnsetBit(ctx, drv, addr, bit)
	}
	return newAttr("leds", name, addr, nil, write)
}

func kbdBacklight(c profile.KbdBacklight) *attr {
	const name = "leds/kbd_backlight"
	read := func(ctx context.Context, drv hardware.Driver) (string, error) {
		raw, err := hardware.ReadByte(ctx, drv, c.StateAddress)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(int(raw & hardware.KbdBacklightStateMask)), nil
	}
	write := func(ctx context.Context, drv hardware.Driver, in string) error {
		v, err := parseU8(name, in)
		if err != nil {
			return err
		}
		if v > int(c.MaxState) {
			return models.InvalidArgument("%s: level %d is outside 0..%d", name, v, c.MaxState)
		}
		return hardware.WriteByte(ctx, drv, c.StateAddress, c.StateBaseValue|byte(v))
	}
	return newAttr("leds", "kbd_backlight", c.StateAddress, read, write)
}
