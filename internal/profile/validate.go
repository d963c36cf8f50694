package profile

import (
	"errors"
	"fmt"

	"github.com/micro-nova/msiec-go/internal/hardware"
)

// Validate checks a single model configuration for internal consistency.
func Validate(c Config) error {
	var errs []error
	bit := func(field string, b uint8) {
		if b > 7 {
			errs = append(errs, fmt.Errorf("%s: bit %d out of range", field, b))
		}
	}
	bit("webcam", c.Webcam.Bit)
	bit("fn_win_swap", c.FnWinSwap.Bit)
	bit("cooler_boost", c.CoolerBoost.Bit)
	bit("leds", c.LEDs.Bit)

	if err := validateModes("shift_mode", c.ShiftMode.Modes); err != nil {
		errs = append(errs, err)
	}
	if err := validateModes("fan_mode", c.FanMode.Modes); err != nil {
		errs = append(errs, err)
	}

	cc := c.ChargeControl
	if cc.RangeMin > cc.RangeMax {
		errs = append(errs, fmt.Errorf("charge_control: range_min 0x%02x > range_max 0x%02x", cc.RangeMin, cc.RangeMax))
	}
	if c.SuperBattery.Address.IsConfigured() && c.SuperBattery.Mask == 0 {
		errs = append(errs, errors.New("super_battery: empty mask"))
	}
	for name, r := range map[string]ScaledRange{
		"cpu.rt_fan_speed": c.CPU.RealtimeFanSpeed,
		"cpu.bs_fan_speed": c.CPU.BasicFanSpeed,
	} {
		if r.Address.IsConfigured() && r.BaseMin >= r.BaseMax {
			errs = append(errs, fmt.Errorf("%s: empty window [0x%02x, 0x%02x]", name, r.BaseMin, r.BaseMax))
		}
	}
	kb := c.KbdBacklight
	if kb.StateAddress.IsConfigured() && kb.MaxState > hardware.KbdBacklightStateMask {
		errs = append(errs, fmt.Errorf("kbd_bl: max_state %d exceeds state mask", kb.MaxState))
	}
	return errors.Join(errs...)
}

func validateModes(field string, t ModeTable) error {
	seen := make(map[string]bool, len(t))
	for i, m := range t {
		if m == (Mode{}) {
			break
		}
		switch {
		case m.Name == "":
			return fmt.Errorf("%s[%d]: empty name", field, i)
		case len(m.Name) > hardware.ModeNameLimit:
			return fmt.Errorf("%s[%d]: name %q longer than %d", field, i, m.Name, hardware.ModeNameLimit)
		case seen[m.Name]:
			return fmt.Errorf("%s[%d]: duplicate name %q", field, i, m.Name)
		}
		seen[m.Name] = true
	}
	return nil
}

// ValidateRegistry validates every model and rejects firmware versions or
// model names that appear more than once.
func ValidateRegistry(reg []Model) error {
	var errs []error
	names := make(map[string]bool)
	owners := make(map[string]string)
	for _, m := range reg {
		if names[m.Name] {
			errs = append(errs, fmt.Errorf("model %s: duplicate name", m.Name))
		}
		names[m.Name] = true
		if len(m.AllowedFirmware) == 0 {
			errs = append(errs, fmt.Errorf("model %s: no allowed firmware", m.Name))
		}
		for _, fw := range m.AllowedFirmware {
			if prev, ok := owners[fw]; ok {
				errs = append(errs, fmt.Errorf("firmware %s listed by %s and %s", fw, prev, m.Name))
			}
			owners[fw] = m.Name
		}
		if err := Validate(m.Config); err != nil {
			errs = append(errs, fmt.Errorf("model %s: %w", m.Name, err))
		}
	}
	return errors.Join(errs...)
}
