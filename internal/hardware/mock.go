package hardware

import (
	"context"
	"errors"
	"sync"
)

// ErrMockFailure is returned by the mock when failure injection is enabled.
var ErrMockFailure = errors.New("mock: failure configured")

// Mock is a thread-safe in-memory EC for tests and development. It stores
// the last byte written to each register and counts every access.
type Mock struct {
	mu        sync.Mutex
	regs      [RegisterCount]byte
	reads     [RegisterCount]int
	writes    [RegisterCount]int
	failRead  bool
	failWrite bool
	failAt    map[Register]bool
}

// NewMock creates a mock EC with all registers zeroed.
func NewMock() *Mock {
	return &Mock{failAt: make(map[Register]bool)}
}

// NewMockWithFirmware creates a mock EC whose version block holds fw, so the
// profile loader can match it.
func NewMockWithFirmware(fw string) *Mock {
	m := NewMock()
	m.SetFirmware(fw)
	return m
}

// NewMockFromImage creates a mock EC preloaded with a full register image,
// e.g. from a captured dump.
func NewMockFromImage(image [RegisterCount]byte) *Mock {
	m := NewMock()
	m.regs = image
	return m
}

// SetFirmware writes fw into the firmware version block, NUL padded.
func (m *Mock) SetFirmware(fw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < FWVersionLen; i++ {
		var c byte
		if i < len(fw) {
			c = fw[i]
		}
		m.regs[int(RegFWVersion)+i] = c
	}
}

// SetReleaseDate writes raw date ("MMDDYYYY") and time ("HH:MM:SS") blocks.
func (m *Mock) SetReleaseDate(date, tm string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.regs[RegFWDate:int(RegFWDate)+FWDateLen], date)
	copy(m.regs[RegFWTime:int(RegFWTime)+FWTimeLen], tm)
}

// SetFailWrite configures the mock to fail all write operations.
func (m *Mock) SetFailWrite(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrite = fail
}

// SetFailRead configures the mock to fail all read operations.
func (m *Mock) SetFailRead(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRead = fail
}

// SetFailAt makes every access to reg fail.
func (m *Mock) SetFailAt(reg Register, fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAt[reg] = fail
}

func (m *Mock) Init(ctx context.Context) error { return nil }

func (m *Mock) Read(ctx context.Context, reg Register) (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads[reg]++
	if m.failRead || m.failAt[reg] {
		return 0, ErrMockFailure
	}
	return m.regs[reg], nil
}

func (m *Mock) Write(ctx context.Context, reg Register, val byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes[reg]++
	if m.failWrite || m.failAt[reg] {
		return ErrMockFailure
	}
	m.regs[reg] = val
	return nil
}

func (m *Mock) Close() error { return nil }

func (m *Mock) Name() string { return "mock" }

func (m *Mock) IsReal() bool { return false }

// GetReg returns a register value for testing purposes.
func (m *Mock) GetReg(reg Register) byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs[reg]
}

// SetReg sets a register value without counting it as a write.
func (m *Mock) SetReg(reg Register, val byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regs[reg] = val
}

// Image returns a copy of the full register file.
func (m *Mock) Image() [RegisterCount]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs
}

// Reads returns how many times reg has been read.
func (m *Mock) Reads(reg Register) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[reg]
}

// Writes returns how many times reg has been written.
func (m *Mock) Writes(reg Register) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[reg]
}

// Accesses returns the total number of reads and writes on any register.
func (m *Mock) Accesses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for i := range m.reads {
		n += m.reads[i] + m.writes[i]
	}
	return n
}

// ResetCounters zeroes the access counters.
func (m *Mock) ResetCounters() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads = [RegisterCount]int{}
	m.writes = [RegisterCount]int{}
}

var _ Driver = (*Mock)(nil)
