package features

import (
	"github.com/micro-nova/msiec-go/internal/models"
	"github.com/micro-nova/msiec-go/internal/profile"
)

// Groups in listing order. The root group is "".
var Groups = []string{"", "cpu", "gpu", "battery", "leds"}

// Set is the fixed collection of features for one configuration. It is
// immutable and safe for concurrent use.
type Set struct {
	all    []Feature
	byName map[string]Feature
}

// New builds every feature for cfg and decides its visibility.
func New(cfg profile.Config) *Set {
	cc := cfg.ChargeControl
	all := []Feature{
		webcam(cfg.Webcam),
		webcamBlock(cfg.Webcam),
		fnKey(cfg.FnWinSwap),
		winKey(cfg.FnWinSwap),
		batteryMode(cc),
		coolerBoost(cfg.CoolerBoost),
		availableModes("available_shift_modes", cfg.ShiftMode),
		shiftMode(cfg.ShiftMode),
		superBattery(cfg.SuperBattery),
		availableModes("available_fan_modes", cfg.FanMode),
		fanMode(cfg.FanMode),
		fwVersion(),
		fwReleaseDate(),

		rawValue("cpu", "realtime_temperature", cfg.CPU.RealtimeTemp),
		cpuRealtimeFanSpeed(cfg.CPU.RealtimeFanSpeed),
		cpuBasicFanSpeed(cfg.CPU.BasicFanSpeed),

		rawValue("gpu", "realtime_temperature", cfg.GPU.RealtimeTemp),
		rawValue("gpu", "realtime_fan_speed", cfg.GPU.RealtimeFanSpeed),

		threshold("charge_control_start_threshold", cc, cc.OffsetStart),
		threshold("charge_control_end_threshold", cc, cc.OffsetEnd),

		indicatorLED("mute", cfg.LEDs.Mute, cfg.LEDs.Bit),
		indicatorLED("micmute", cfg.LEDs.MicMute, cfg.LEDs.Bit),
		kbdBacklight(cfg.KbdBacklight),
	}

	s := &Set{all: all, byName: make(map[string]Feature, len(all))}
	for _, f := range all {
		s.byName[f.Name()] = f
	}
	return s
}

// All returns every feature, hidden ones included, in listing order.
func (s *Set) All() []Feature {
	out := make([]Feature, len(s.all))
	copy(out, s.all)
	return out
}

// Visible returns the supported features in listing order.
func (s *Set) Visible() []Feature {
	var out []Feature
	for _, f := range s.all {
		if f.Supported() {
			out = append(out, f)
		}
	}
	return out
}

// Get returns the named feature, which may be hidden. Unknown names are
// NotFound.
func (s *Set) Get(name string) (Feature, error) {
	f, ok := s.byName[name]
	if !ok {
		return nil, models.NotFound("no feature named %q", name)
	}
	return f, nil
}

// Status reports the visibility of the named feature.
func (s *Set) Status(name string) (Status, error) {
	f, err := s.Get(name)
	if err != nil {
		return "", err
	}
	return f.Status(), nil
}

// Siblings returns the other writable, visible features stored in the same
// register as name. Writing any of them changes what the others read.
func (s *Set) Siblings(name string) []string {
	f, ok := s.byName[name]
	if !ok || !f.Supported() {
		return nil
	}
	var out []string
	for _, g := range s.all {
		if g.Name() != name && g.Supported() && g.Writable() && g.Address() == f.Address() {
			out = append(out, g.Name())
		}
	}
	return out
}
