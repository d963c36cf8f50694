package hardware

// Firmware identification registers. These are the same on every supported
// model, so they live here rather than in a model configuration.
const (
	RegFWVersion Register = 0xA0 // 12 ASCII bytes, e.g. "14C1EMS1.012"
	RegFWDate    Register = 0xAC // 8 ASCII digits, MMDDYYYY
	RegFWTime    Register = 0xB4 // 8 ASCII bytes, HH:MM:SS

	FWVersionLen = 12
	FWDateLen    = 8
	FWTimeLen    = 8
)

// RegShiftModeUnspecified is the raw shift-mode value the firmware reports
// before any mode has been selected.
const RegShiftModeUnspecified byte = 0x80

// ModeNameLimit is the longest accepted mode or label name, in bytes.
const ModeNameLimit = 20

// KbdBacklightStateMask selects the brightness level bits of the keyboard
// backlight state register.
const KbdBacklightStateMask byte = 0x03

// RegisterCount is the size of the EC address space.
const RegisterCount = 256

// WithBit returns v with bit b set.
func WithBit(v byte, b uint8) byte {
	return v | 1<<b
}

// WithoutBit returns v with bit b cleared.
func WithoutBit(v byte, b uint8) byte {
	return v &^ (1 << b)
}

// BitSet reports whether bit b of v is set.
func BitSet(v byte, b uint8) bool {
	return (v>>b)&1 == 1
}

// WithMask returns v with every bit of mask set.
func WithMask(v, mask byte) byte {
	return v | mask
}

// WithoutMask returns v with every bit of mask cleared.
func WithoutMask(v, mask byte) byte {
	return v &^ mask
}

// MaskSet reports whether all bits of mask are set in v. A partial match is
// false.
func MaskSet(v, mask byte) bool {
	return v&mask == mask
}

// ScaleToPercent maps raw from the window [lo, hi] onto 0..100 with integer
// truncation. ok is false when raw lies outside the window or the window is
// empty.
func ScaleToPercent(raw, lo, hi byte) (pct int, ok bool) {
	if hi <= lo || raw < lo || raw > hi {
		return 0, false
	}
	return 100 * int(raw-lo) / int(hi-lo), true
}

// PercentToScale maps pct in 0..100 back into the raw window [lo, hi],
// truncating. Callers validate pct first.
func PercentToScale(pct int, lo, hi byte) byte {
	return byte((pct*(int(hi)-int(lo)) + 100*int(lo)) / 100)
}
