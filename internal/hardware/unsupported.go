//go:build !linux

package hardware

import (
	"context"
	"errors"
)

const (
	ECSysPath    = "/sys/kernel/debug/ec/ec0/io"
	maxOpsPerSec = 500
)

var errNoECAccess = errors.New("ec: direct EC access is only available on linux")

// ECSys is unavailable on this platform; Init always fails.
type ECSys struct{}

func NewECSys(path string, opsPerSec int) *ECSys { return &ECSys{} }

func (d *ECSys) Init(ctx context.Context) error { return errNoECAccess }

func (d *ECSys) Read(ctx context.Context, reg Register) (byte, error) { return 0, errNoECAccess }

func (d *ECSys) Write(ctx context.Context, reg Register, val byte) error { return errNoECAccess }

func (d *ECSys) Close() error { return nil }

func (d *ECSys) Name() string { return "ec_sys" }

func (d *ECSys) IsReal() bool { return true }

// OpenDevPort is unavailable on this platform.
func OpenDevPort() (PortBus, error) { return nil, errNoECAccess }
