package hardware_test

import (
	"testing"

	"github.com/micro-nova/msiec-go/internal/hardware"
)

func TestBitHelpers(t *testing.T) {
	tests := []struct {
		in   byte
		bit  uint8
		set  byte
		cler byte
	}{
		{0x00, 0, 0x01, 0x00},
		{0x00, 7, 0x80, 0x00},
		{0xff, 3, 0xff, 0xf7},
		{0x42, 1, 0x42, 0x40},
		{0x42, 2, 0x46, 0x42},
	}
	for _, tc := range tests {
		if got := hardware.WithBit(tc.in, tc.bit); got != tc.set {
			t.Errorf("WithBit(0x%02X, %d) = 0x%02X, want 0x%02X", tc.in, tc.bit, got, tc.set)
		}
		if got := hardware.WithoutBit(tc.in, tc.bit); got != tc.cler {
			t.Errorf("WithoutBit(0x%02X, %d) = 0x%02X, want 0x%02X", tc.in, tc.bit, got, tc.cler)
		}
		if !hardware.BitSet(hardware.WithBit(tc.in, tc.bit), tc.bit) {
			t.Errorf("BitSet after WithBit(0x%02X, %d) = false", tc.in, tc.bit)
		}
		if hardware.BitSet(hardware.WithoutBit(tc.in, tc.bit), tc.bit) {
			t.Errorf("BitSet after WithoutBit(0x%02X, %d) = true", tc.in, tc.bit)
		}
	}
}

func TestMaskSet(t *testing.T) {
	tests := []struct {
		v, mask byte
		want    bool
	}{
		{0x0f, 0x0f, true},
		{0xff, 0x0f, true},
		{0x07, 0x0f, false}, // subset of mask bits
		{0x00, 0x0f, false},
		{0x00, 0x00, true},
	}
	for _, tc := range tests {
		if got := hardware.MaskSet(tc.v, tc.mask); got != tc.want {
			t.Errorf("MaskSet(0x%02X, 0x%02X) = %v, want %v", tc.v, tc.mask, got, tc.want)
		}
	}
	if got := hardware.WithMask(0x30, 0x0f); got != 0x3f {
		t.Errorf("WithMask = 0x%02X, want 0x3F", got)
	}
	if got := hardware.WithoutMask(0x3f, 0x0f); got != 0x30 {
		t.Errorf("WithoutMask = 0x%02X, want 0x30", got)
	}
}

func TestScaleToPercent(t *testing.T) {
	tests := []struct {
		raw, lo, hi byte
		pct         int
		ok          bool
	}{
		{0x00, 0x00, 0x96, 0, true},
		{0x96, 0x00, 0x96, 100, true},
		{0x4b, 0x00, 0x96, 50, true},
		{0x19, 0x19, 0x37, 0, true},
		{0x37, 0x19, 0x37, 100, true},
		{0x18, 0x19, 0x37, 0, false}, // below window
		{0x38, 0x19, 0x37, 0, false}, // above window
		{0x10, 0x20, 0x20, 0, false}, // empty window
	}
	for _, tc := range tests {
		pct, ok := hardware.ScaleToPercent(tc.raw, tc.lo, tc.hi)
		if pct != tc.pct || ok != tc.ok {
			t.Errorf("ScaleToPercent(0x%02X, [0x%02X,0x%02X]) = (%d, %v), want (%d, %v)",
				tc.raw, tc.lo, tc.hi, pct, ok, tc.pct, tc.ok)
		}
	}
}

func TestPercentToScale(t *testing.T) {
	tests := []struct {
		pct    int
		lo, hi byte
		raw    byte
	}{
		{0, 0x00, 0x0f, 0x00},
		{100, 0x00, 0x0f, 0x0f},
		{50, 0x00, 0x0f, 0x07}, // truncates 7.5
		{0, 0x19, 0x37, 0x19},
		{100, 0x19, 0x37, 0x37},
		{100, 0x00, 0xff, 0xff},
	}
	for _, tc := range tests {
		if got := hardware.PercentToScale(tc.pct, tc.lo, tc.hi); got != tc.raw {
			t.Errorf("PercentToScale(%d, [0x%02X,0x%02X]) = 0x%02X, want 0x%02X",
				tc.pct, tc.lo, tc.hi, got, tc.raw)
		}
	}
}
