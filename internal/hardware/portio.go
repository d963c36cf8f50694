package hardware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ACPI embedded controller I/O ports and commands.
const (
	ECDataPort    = 0x62
	ECCommandPort = 0x66

	ecCmdRead  = 0x80
	ecCmdWrite = 0x81

	ecStatusOBF = 1 << 0 // output buffer full: data ready for the host
	ecStatusIBF = 1 << 1 // input buffer full: EC busy with the last byte

	ecPollTries    = 100
	ecPollInterval = time.Millisecond
)

// PortBus is raw byte access to the x86 I/O port space.
type PortBus interface {
	InB(port uint16) (byte, error)
	OutB(port uint16, val byte) error
	Close() error
}

// PortIO talks to the EC through the ACPI command/data port pair, using the
// IBF/OBF handshake for every byte.
type PortIO struct {
	mu      sync.Mutex
	open    func() (PortBus, error)
	bus     PortBus
	limiter *rate.Limiter
}

// NewPortIO creates a port I/O driver. open is called by Init to obtain the
// underlying port bus.
func NewPortIO(open func() (PortBus, error), opsPerSec int) *PortIO {
	if opsPerSec <= 0 {
		opsPerSec = maxOpsPerSec
	}
	return &PortIO{
		open:    open,
		limiter: rate.NewLimiter(rate.Limit(opsPerSec), 10),
	}
}

func (d *PortIO) Init(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	bus, err := d.open()
	if err != nil {
		return fmt.Errorf("ec: open port bus: %w", err)
	}
	d.bus = bus
	if _, err := d.read(ctx, RegFWVersion); err != nil {
		bus.Close()
		d.bus = nil
		return fmt.Errorf("ec: probe: %w", err)
	}
	return nil
}

func (d *PortIO) Read(ctx context.Context, reg Register) (byte, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bus == nil {
		return 0, fmt.Errorf("ec: driver not initialized")
	}
	return d.read(ctx, reg)
}

func (d *PortIO) read(ctx context.Context, reg Register) (byte, error) {
	if err := d.waitIBF(ctx); err != nil {
		return 0, fmt.Errorf("ec: read 0x%02x: command wait: %w", reg, err)
	}
	if err := d.bus.OutB(ECCommandPort, ecCmdRead); err != nil {
		return 0, fmt.Errorf("ec: read 0x%02x: %w", reg, err)
	}
	if err := d.waitIBF(ctx); err != nil {
		return 0, fmt.Errorf("ec: read 0x%02x: address wait: %w", reg, err)
	}
	if err := d.bus.OutB(ECDataPort, reg); err != nil {
		return 0, fmt.Errorf("ec: read 0x%02x: %w", reg, err)
	}
	if err := d.waitOBF(ctx); err != nil {
		return 0, fmt.Errorf("ec: read 0x%02x: data wait: %w", reg, err)
	}
	v, err := d.bus.InB(ECDataPort)
	if err != nil {
		return 0, fmt.Errorf("ec: read 0x%02x: %w", reg, err)
	}
	return v, nil
}

func (d *PortIO) Write(ctx context.Context, reg Register, val byte) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bus == nil {
		return fmt.Errorf("ec: driver not initialized")
	}

	steps := []struct {
		port uint16
		val  byte
		what string
	}{
		{ECCommandPort, ecCmdWrite, "command"},
		{ECDataPort, reg, "address"},
		{ECDataPort, val, "value"},
	}
	for _, s := range steps {
		if err := d.waitIBF(ctx); err != nil {
			return fmt.Errorf("ec: write 0x%02x: %s wait: %w", reg, s.what, err)
		}
		if err := d.bus.OutB(s.port, s.val); err != nil {
			return fmt.Errorf("ec: write 0x%02x: %w", reg, err)
		}
	}
	return nil
}

// waitIBF waits for the EC to accept the next byte.
func (d *PortIO) waitIBF(ctx context.Context) error {
	return d.poll(ctx, func(st byte) bool { return st&ecStatusIBF == 0 }, "input buffer to clear")
}

// waitOBF waits for the EC to produce a data byte.
func (d *PortIO) waitOBF(ctx context.Context) error {
	return d.poll(ctx, func(st byte) bool { return st&ecStatusOBF != 0 }, "output buffer to fill")
}

func (d *PortIO) poll(ctx context.Context, ready func(byte) bool, what string) error {
	for i := 0; i < ecPollTries; i++ {
		st, err := d.bus.InB(ECCommandPort)
		if err != nil {
			return err
		}
		if ready(st) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ecPollInterval):
		}
	}
	return fmt.Errorf("timeout waiting for EC %s", what)
}

func (d *PortIO) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bus == nil {
		return nil
	}
	err := d.bus.Close()
	d.bus = nil
	return err
}

func (d *PortIO) Name() string { return "port" }

func (d *PortIO) IsReal() bool { return true }

var _ Driver = (*PortIO)(nil)
