package hardware

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// DevPortPath is the kernel's byte-per-offset view of the I/O port space.
const DevPortPath = "/dev/port"

type devPort struct {
	fd int
}

// OpenDevPort opens /dev/port for use with NewPortIO. It needs CAP_SYS_RAWIO.
func OpenDevPort() (PortBus, error) {
	fd, err := unix.Open(DevPortPath, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", DevPortPath, err)
	}
	return &devPort{fd: fd}, nil
}

func (p *devPort) InB(port uint16) (byte, error) {
	var buf [1]byte
	if _, err := unix.Pread(p.fd, buf[:], int64(port)); err != nil {
		return 0, fmt.Errorf("inb 0x%x: %w", port, err)
	}
	return buf[0], nil
}

func (p *devPort) OutB(port uint16, val byte) error {
	if _, err := unix.Pwrite(p.fd, []byte{val}, int64(port)); err != nil {
		return fmt.Errorf("outb 0x%x: %w", port, err)
	}
	return nil
}

func (p *devPort) Close() error { return unix.Close(p.fd) }
