package hardware

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/micro-nova/msiec-go/internal/models"
)

// ReleaseDate is the firmware build timestamp stored in the EC.
type ReleaseDate struct {
	Year, Month, Day     int
	Hour, Minute, Second int
}

func (d ReleaseDate) String() string {
	return fmt.Sprintf("%04d/%02d/%02d %02d:%02d:%02d",
		d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second)
}

// ReadFirmwareVersion reads the firmware version string used to pick a model
// configuration. Padding after the first NUL, and trailing spaces, are
// dropped.
func ReadFirmwareVersion(ctx context.Context, drv Driver) (string, error) {
	raw, err := ReadSequence(ctx, drv, At(RegFWVersion), FWVersionLen)
	if err != nil {
		return "", err
	}
	return TrimFirmwareString(raw), nil
}

// TrimFirmwareString converts a raw firmware version block to a string.
func TrimFirmwareString(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(bytes.TrimRight(raw, " "))
}

// ReadFirmwareReleaseDate reads and decodes the firmware build date and time.
func ReadFirmwareReleaseDate(ctx context.Context, drv Driver) (ReleaseDate, error) {
	date, err := ReadSequence(ctx, drv, At(RegFWDate), FWDateLen)
	if err != nil {
		return ReleaseDate{}, err
	}
	tm, err := ReadSequence(ctx, drv, At(RegFWTime), FWTimeLen)
	if err != nil {
		return ReleaseDate{}, err
	}
	return ParseReleaseDate(date, tm)
}

// ParseReleaseDate decodes the two firmware timestamp blocks.
//
// Layout:
//
//	date block: "MMDDYYYY" (8 decimal digits)
//	time block: "HH:MM:SS"
func ParseReleaseDate(date, tm []byte) (ReleaseDate, error) {
	if len(date) != FWDateLen {
		return ReleaseDate{}, models.InvalidState("firmware date: %d bytes, want %d", len(date), FWDateLen)
	}
	if len(tm) != FWTimeLen || tm[2] != ':' || tm[5] != ':' {
		return ReleaseDate{}, models.InvalidState("firmware time: malformed block %q", tm)
	}

	var d ReleaseDate
	fields := []struct {
		dst  *int
		src  []byte
		name string
	}{
		{&d.Month, date[0:2], "month"},
		{&d.Day, date[2:4], "day"},
		{&d.Year, date[4:8], "year"},
		{&d.Hour, tm[0:2], "hour"},
		{&d.Minute, tm[3:5], "minute"},
		{&d.Second, tm[6:8], "second"},
	}
	for _, f := range fields {
		n, err := parseDecimal(f.src)
		if err != nil {
			return ReleaseDate{}, models.InvalidState("firmware %s: malformed field %q", f.name, f.src)
		}
		*f.dst = n
	}
	return d, nil
}

// parseDecimal accepts only ASCII digits; signs and spaces are malformed.
func parseDecimal(b []byte) (int, error) {
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(string(b))
}
