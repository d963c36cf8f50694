package hardware_test

import (
	"context"
	"errors"
	"testing"

	"github.com/micro-nova/msiec-go/internal/hardware"
	"github.com/micro-nova/msiec-go/internal/models"
)

func TestReadFirmwareVersion(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"14C1EMS1.012", "14C1EMS1.012"},
		{"1552EMS1.118", "1552EMS1.118"},
		{"ABC", "ABC"}, // NUL padded by the mock
	}
	for _, tc := range tests {
		m := hardware.NewMockWithFirmware(tc.raw)
		got, err := hardware.ReadFirmwareVersion(context.Background(), m)
		if err != nil {
			t.Fatalf("ReadFirmwareVersion: %v", err)
		}
		if got != tc.want {
			t.Errorf("ReadFirmwareVersion = %q, want %q", got, tc.want)
		}
	}
}

func TestTrimFirmwareString(t *testing.T) {
	tests := []struct {
		raw  []byte
		want string
	}{
		{[]byte("17F2EMS1.106"), "17F2EMS1.106"},
		{[]byte("ABC\x00\x00\x00xyz"), "ABC"},
		{[]byte("ABC   "), "ABC"},
		{[]byte{0, 'A'}, ""},
	}
	for _, tc := range tests {
		if got := hardware.TrimFirmwareString(tc.raw); got != tc.want {
			t.Errorf("TrimFirmwareString(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestReadFirmwareReleaseDate(t *testing.T) {
	m := hardware.NewMock()
	m.SetReleaseDate("07082022", "13:45:09")

	d, err := hardware.ReadFirmwareReleaseDate(context.Background(), m)
	if err != nil {
		t.Fatalf("ReadFirmwareReleaseDate: %v", err)
	}
	if got, want := d.String(), "2022/07/08 13:45:09"; got != want {
		t.Errorf("release date = %q, want %q", got, want)
	}
}

func TestParseReleaseDateMalformed(t *testing.T) {
	tests := []struct {
		date, tm string
	}{
		{"07O82022", "13:45:09"}, // letter O
		{"0708202", "13:45:09"},  // short
		{"07082022", "13-45-09"}, // separators
		{"07082022", "1a:45:09"},
		{"+7082022", "13:45:09"}, // sign
		{"\x00\x00\x00\x00\x00\x00\x00\x00", "13:45:09"},
	}
	for _, tc := range tests {
		_, err := hardware.ParseReleaseDate([]byte(tc.date), []byte(tc.tm))
		if !errors.Is(err, models.ErrInvalidState) {
			t.Errorf("ParseReleaseDate(%q, %q) error = %v, want InvalidState", tc.date, tc.tm, err)
		}
	}
}
