// Package features exposes the active model's EC registers as named,
// text-valued features.
//
// Each feature reads and writes short textual tokens ("on", "eco", "80") and
// translates them to register values through the hardware codec. Visibility
// is decided once, when the Set is built, from the feature's governing
// address: Unsupported and Unknown addresses are both hidden, and a hidden
// feature never reaches the driver.
package features

import (
	"context"
	"strconv"
	"strings"

	"github.com/micro-nova/msiec-go/internal/hardware"
	"github.com/micro-nova/msiec-go/internal/models"
)

// Status tells why a feature is or is not exposed.
type Status string

const (
	StatusSupported   Status = "supported"
	StatusUnsupported Status = "unsupported"
	StatusUnknown     Status = "unknown"
)

func statusOf(addr hardware.Address) Status {
	switch {
	case addr.IsConfigured():
		return StatusSupported
	case addr.IsUnknown():
		return StatusUnknown
	default:
		return StatusUnsupported
	}
}

// Feature is one named EC setting or sensor.
type Feature interface {
	// Name is the full path, e.g. "shift_mode" or "cpu/realtime_temperature".
	Name() string
	Group() string
	// Address is the governing register; features sharing one overwrite
	// each other.
	Address() hardware.Address
	Status() Status
	Supported() bool
	Readable() bool
	Writable() bool
	Read(ctx context.Context, drv hardware.Driver) (string, error)
	// Write applies a textual token. A single trailing newline is ignored and
	// matching is case-sensitive.
	Write(ctx context.Context, drv hardware.Driver, input string) error
}

type readFunc func(ctx context.Context, drv hardware.Driver) (string, error)

type writeFunc func(ctx context.Context, drv hardware.Driver, in string) error

type attr struct {
	group  string
	name   string
	addr   hardware.Address
	status Status
	read   readFunc
	write  writeFunc
}

func newAttr(group, name string, addr hardware.Address, r readFunc, w writeFunc) *attr {
	return &attr{group: group, name: name, addr: addr, status: statusOf(addr), read: r, write: w}
}

func (a *attr) Name() string {
	if a.group == "" {
		return a.name
	}
	return a.group + "/" + a.name
}

func (a *attr) Group() string             { return a.group }
func (a *attr) Address() hardware.Address { return a.addr }
func (a *attr) Status() Status            { return a.status }
func (a *attr) Supported() bool           { return a.status == StatusSupported }
func (a *attr) Readable() bool            { return a.read != nil }
func (a *attr) Writable() bool            { return a.write != nil }

func (a *attr) Read(ctx context.Context, drv hardware.Driver) (string, error) {
	if !a.Supported() {
		return "", models.NotSupported("%s is %s on this model", a.Name(), a.status)
	}
	if a.read == nil {
		return "", models.NotSupported("%s is write-only", a.Name())
	}
	return a.read(ctx, drv)
}

func (a *attr) Write(ctx context.Context, drv hardware.Driver, input string) error {
	if !a.Supported() {
		return models.NotSupported("%s is %s on this model", a.Name(), a.status)
	}
	if a.write == nil {
		return models.NotSupported("%s is read-only", a.Name())
	}
	return a.write(ctx, drv, normalize(input))
}

// normalize drops one trailing newline, as left by `echo value > file`.
func normalize(in string) string {
	return strings.TrimSuffix(in, "\n")
}

func unknownValue(raw byte) string {
	return "unknown (" + strconv.Itoa(int(raw)) + ")"
}

// parseU8 accepts a decimal 0..255.
func parseU8(name, in string) (int, error) {
	v, err := strconv.ParseUint(in, 10, 8)
	if err != nil {
		return 0, models.InvalidArgument("%s: %q is not a number in 0..255", name, in)
	}
	return int(v), nil
}

func invalidLabel(name, in string, accepted ...string) error {
	return models.InvalidArgument("%s: %q is not one of %s", name, in, strings.Join(accepted, ", "))
}
