// Package profile holds the per-model EC register maps and selects the one
// matching the running firmware.
//
// Every model is a compiled-in constant. Load reads the firmware version once
// and returns an Active value; nothing in this package keeps global mutable
// state, so callers pass the Active configuration to whatever needs it.
package profile

import "github.com/micro-nova/msiec-go/internal/hardware"

// Mode is one named raw value of a multi-state feature.
type Mode struct {
	Name  string `json:"name"`
	Value byte   `json:"value"`
}

// ModeTable is an ordered name/value table. Lookups scan from the start and
// the first exact match wins; a zero Mode ends the table early.
type ModeTable []Mode

// Lookup returns the first mode whose name equals name.
func (t ModeTable) Lookup(name string) (Mode, bool) {
	for _, m := range t {
		if m == (Mode{}) {
			break
		}
		if m.Name == name {
			return m, true
		}
	}
	return Mode{}, false
}

// NameOf returns the first mode whose raw value equals v.
func (t ModeTable) NameOf(v byte) (string, bool) {
	for _, m := range t {
		if m == (Mode{}) {
			break
		}
		if m.Value == v {
			return m.Name, true
		}
	}
	return "", false
}

// Names lists the table's mode names in declaration order.
func (t ModeTable) Names() []string {
	names := make([]string, 0, len(t))
	for _, m := range t {
		if m == (Mode{}) {
			break
		}
		names = append(names, m.Name)
	}
	return names
}

// ChargeControl is the battery charge threshold register. The stored byte is
// the threshold percentage plus an offset; the same register also encodes the
// battery health mode.
type ChargeControl struct {
	Address     hardware.Address `json:"address"`
	OffsetStart byte             `json:"offset_start"`
	OffsetEnd   byte             `json:"offset_end"`
	RangeMin    byte             `json:"range_min"`
	RangeMax    byte             `json:"range_max"`
}

type Webcam struct {
	Address      hardware.Address `json:"address"`
	BlockAddress hardware.Address `json:"block_address"`
	Bit          uint8            `json:"bit"`
}

// BitFeature is a single on/off bit.
type BitFeature struct {
	Address hardware.Address `json:"address"`
	Bit     uint8            `json:"bit"`
}

// MaskFeature is a multi-bit flag; it is enabled only when every mask bit is
// set.
type MaskFeature struct {
	Address hardware.Address `json:"address"`
	Mask    byte             `json:"mask"`
}

type ModeFeature struct {
	Address hardware.Address `json:"address"`
	Modes   ModeTable        `json:"modes"`
}

// ScaledRange maps the raw window [BaseMin, BaseMax] onto 0..100 percent.
type ScaledRange struct {
	Address hardware.Address `json:"address"`
	BaseMin byte             `json:"base_min"`
	BaseMax byte             `json:"base_max"`
}

type CPU struct {
	RealtimeTemp     hardware.Address `json:"rt_temp_address"`
	RealtimeFanSpeed ScaledRange      `json:"rt_fan_speed"`
	BasicFanSpeed    ScaledRange      `json:"bs_fan_speed"`
}

type GPU struct {
	RealtimeTemp     hardware.Address `json:"rt_temp_address"`
	RealtimeFanSpeed hardware.Address `json:"rt_fan_speed_address"`
}

type LEDs struct {
	MicMute hardware.Address `json:"micmute_led_address"`
	Mute    hardware.Address `json:"mute_led_address"`
	Bit     uint8            `json:"bit"`
}

// KbdBacklight describes the keyboard backlight. Only the state register is
// used for brightness; the mode fields are recorded for completeness.
type KbdBacklight struct {
	ModeAddress    hardware.Address `json:"bl_mode_address"`
	Modes          []byte           `json:"bl_modes"`
	MaxMode        byte             `json:"max_mode"`
	StateAddress   hardware.Address `json:"bl_state_address"`
	StateBaseValue byte             `json:"state_base_value"`
	MaxState       byte             `json:"max_state"`
}

// Config is the register map of one model.
type Config struct {
	ChargeControl ChargeControl `json:"charge_control"`
	Webcam        Webcam        `json:"webcam"`
	FnWinSwap     BitFeature    `json:"fn_win_swap"`
	CoolerBoost   BitFeature    `json:"cooler_boost"`
	ShiftMode     ModeFeature   `json:"shift_mode"`
	SuperBattery  MaskFeature   `json:"super_battery"`
	FanMode       ModeFeature   `json:"fan_mode"`
	CPU           CPU           `json:"cpu"`
	GPU           GPU           `json:"gpu"`
	LEDs          LEDs          `json:"leds"`
	KbdBacklight  KbdBacklight  `json:"kbd_bl"`
}

// Model is a Config together with the firmware versions it applies to.
type Model struct {
	Name            string
	AllowedFirmware []string
	Config          Config
}

// Active is the configuration selected for this process. It is a copy and
// is never modified after Load returns it.
type Active struct {
	Model    string `json:"model"`
	Firmware string `json:"firmware"`
	Config   Config `json:"config"`
}
