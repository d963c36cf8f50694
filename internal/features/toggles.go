package features

import (
	"context"

	"github.com/micro-nova/msiec-go/internal/hardware"
	"github.com/micro-nova/msiec-go/internal/profile"
)

// bitToggle is a feature backed by one bit: clear reads as off, set as on.
// The labels are per feature, so "off" may well be "on" for an inverted bit.
func bitToggle(group, name string, addr hardware.Address, bit uint8, off, on string) *attr {
	read := func(ctx context.Context, drv hardware.Driver) (string, error) {
		set, err := hardware.CheckBit(ctx, drv, addr, bit)
		if err != nil {
			return "", err
		}
		if set {
			return on, nil
		}
		return off, nil
	}
	write := func(ctx context.Context, drv hardware.Driver, in string) error {
		switch in {
		case on:
			return hardware.SetBit(ctx, drv, addr, bit)
		case off:
			return hardware.UnsetBit(ctx, drv, addr, bit)
		}
		return invalidLabel(name, in, on, off)
	}
	return newAttr(group, name, addr, read, write)
}

func webcam(c profile.Webcam) *attr {
	return bitToggle("", "webcam", c.Address, c.Bit, "off", "on")
}

// The block register keeps its bit set while the camera is not blocked.
func webcamBlock(c profile.Webcam) *attr {
	return bitToggle("", "webcam_block", c.BlockAddress, c.Bit, "on", "off")
}

func fnKey(c profile.BitFeature) *attr {
	return bitToggle("", "fn_key", c.Address, c.Bit, "left", "right")
}

// win_key shares the fn_key bit with the opposite polarity.
func winKey(c profile.BitFeature) *attr {
	return bitToggle("", "win_key", c.Address, c.Bit, "right", "left")
}

func coolerBoost(c profile.BitFeature) *attr {
	return bitToggle("", "cooler_boost", c.Address, c.Bit, "off", "on")
}

func superBattery(c profile.MaskFeature) *attr {
	read := func(ctx context.Context, drv hardware.Driver) (string, error) {
		on, err := hardware.CheckByMask(ctx, drv, c.Address, c.Mask)
		if err != nil {
			return "", err
		}
		if on {
			return "on", nil
		}
		return "off", nil
	}
	write := func(ctx context.Context, drv hardware.Driver, in string) error {
		switch in {
		case "on":
			return hardware.SetByMask(ctx, drv, c.Address, c.Mask)
		case "off":
			return hardware.UnsetByMask(ctx, drv, c.Address, c.Mask)
		}
		return invalidLabel("super_battery", in, "on", "off")
	}
	return newAttr("", "super_battery", c.Address, read, write)
}
