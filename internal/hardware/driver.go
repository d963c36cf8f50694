// Package hardware provides the embedded controller (EC) access layer for
// msiec. It defines the byte Driver interface implemented by the real EC
// transports and the in-memory mock, the Address type with its sentinel
// values, and the register codec built on top of single-byte reads and
// writes.
//
// Nothing in this package serializes access across calls. Read-modify-write
// helpers such as SetBit are not atomic: wrap the driver in Serialized and
// run compound operations inside Exclusive when more than one goroutine can
// reach the EC.
package hardware

import "context"

// Register is an EC register offset.
type Register = byte

// Driver is the single-byte EC transport.
type Driver interface {
	// Init opens the underlying device. Must be called before Read or Write.
	Init(ctx context.Context) error

	// Read reads a single byte from an EC register.
	Read(ctx context.Context, reg Register) (byte, error)

	// Write writes a single byte to an EC register.
	Write(ctx context.Context, reg Register, val byte) error

	// Close releases the underlying device.
	Close() error

	// Name identifies the transport in logs, e.g. "ec_sys" or "mock".
	Name() string

	// IsReal returns true for a driver backed by physical hardware.
	IsReal() bool
}
