//go:build linux

package hardware

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/time/rate"
)

const (
	// ECSysPath is the register file exposed by the ec_sys kernel module.
	// Writes require loading it with write_support=1.
	ECSysPath    = "/sys/kernel/debug/ec/ec0/io"
	maxOpsPerSec = 500
)

// ECSys is the EC driver backed by the ec_sys debugfs register file. Each
// register is one byte at its own offset, so a read or write is a single
// pread/pwrite.
type ECSys struct {
	mu       sync.Mutex
	path     string
	fd       int
	readOnly bool
	limiter  *rate.Limiter
}

// NewECSys creates a driver for the ec_sys file at path (ECSysPath if empty).
// opsPerSec bounds bus traffic; zero selects the default.
func NewECSys(path string, opsPerSec int) *ECSys {
	if path == "" {
		path = ECSysPath
	}
	if opsPerSec <= 0 {
		opsPerSec = maxOpsPerSec
	}
	return &ECSys{
		path:    path,
		fd:      -1,
		limiter: rate.NewLimiter(rate.Limit(opsPerSec), 10),
	}
}

func (d *ECSys) Init(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	fd, err := unix.Open(d.path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		// ec_sys without write_support only allows reading.
		rfd, rerr := unix.Open(d.path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
		if rerr != nil {
			return fmt.Errorf("ec: open %s: %w", d.path, err)
		}
		slog.Warn("ec: register file is read-only; load ec_sys with write_support=1 to change settings",
			"path", d.path)
		fd = rfd
		d.readOnly = true
	}
	d.fd = fd

	// Probe: the first firmware version byte must be readable.
	var buf [1]byte
	if _, err := unix.Pread(fd, buf[:], int64(RegFWVersion)); err != nil {
		unix.Close(fd)
		d.fd = -1
		return fmt.Errorf("ec: probe %s: %w", d.path, err)
	}
	slog.Info("ec: register file opened", "path", d.path, "read_only", d.readOnly)
	return nil
}

func (d *ECSys) Read(ctx context.Context, reg Register) (byte, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return 0, fmt.Errorf("ec: driver not initialized")
	}
	var buf [1]byte
	n, err := unix.Pread(d.fd, buf[:], int64(reg))
	if err != nil {
		return 0, fmt.Errorf("ec: pread 0x%02x: %w", reg, err)
	}
	if n != 1 {
		return 0, fmt.Errorf("ec: pread 0x%02x: short read", reg)
	}
	return buf[0], nil
}

func (d *ECSys) Write(ctx context.Context, reg Register, val byte) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return fmt.Errorf("ec: driver not initialized")
	}
	if d.readOnly {
		return fmt.Errorf("ec: write 0x%02x: %s is read-only", reg, d.path)
	}
	buf := [1]byte{val}
	n, err := unix.Pwrite(d.fd, buf[:], int64(reg))
	if err != nil {
		return fmt.Errorf("ec: pwrite 0x%02x: %w", reg, err)
	}
	if n != 1 {
		return fmt.Errorf("ec: pwrite 0x%02x: short write", reg)
	}
	return nil
}

// Close releases the register file descriptor.
func (d *ECSys) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd >= 0 {
		err := unix.Close(d.fd)
		d.fd = -1
		return err
	}
	return nil
}

func (d *ECSys) Name() string { return "ec_sys" }

func (d *ECSys) IsReal() bool { return true }

var _ Driver = (*ECSys)(nil)
