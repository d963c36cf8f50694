package hardware

import (
	"context"
	"errors"

	"github.com/micro-nova/msiec-go/internal/models"
)

// resolve returns the register behind addr, or NotSupported for a sentinel.
// Every codec entry point calls it before touching the driver.
func resolve(addr Address) (Register, error) {
	reg, ok := addr.Reg()
	if !ok {
		return 0, models.NotSupported("EC address is %s", addr)
	}
	return reg, nil
}

func checkBitIndex(bit uint8) error {
	if bit > 7 {
		return models.InvalidArgument("bit index %d out of range [0,7]", bit)
	}
	return nil
}

func transportErr(err error, op string, reg Register) error {
	if errors.Is(err, models.ErrTransport) {
		return err
	}
	return models.Transport(err, "ec: %s 0x%02x", op, reg)
}

func readReg(ctx context.Context, drv Driver, reg Register) (byte, error) {
	v, err := drv.Read(ctx, reg)
	if err != nil {
		return 0, transportErr(err, "read", reg)
	}
	return v, nil
}

func writeReg(ctx context.Context, drv Driver, reg Register, val byte) error {
	if err := drv.Write(ctx, reg, val); err != nil {
		return transportErr(err, "write", reg)
	}
	return nil
}

// ReadByte reads the raw register behind addr.
func ReadByte(ctx context.Context, drv Driver, addr Address) (byte, error) {
	reg, err := resolve(addr)
	if err != nil {
		return 0, err
	}
	return readReg(ctx, drv, reg)
}

// WriteByte writes val to the register behind addr.
func WriteByte(ctx context.Context, drv Driver, addr Address, val byte) error {
	reg, err := resolve(addr)
	if err != nil {
		return err
	}
	return writeReg(ctx, drv, reg, val)
}

// modify is the read-modify-write primitive. If the read fails nothing is
// written back.
func modify(ctx context.Context, drv Driver, addr Address, fn func(byte) byte) error {
	reg, err := resolve(addr)
	if err != nil {
		return err
	}
	stored, err := readReg(ctx, drv, reg)
	if err != nil {
		return err
	}
	return writeReg(ctx, drv, reg, fn(stored))
}

// SetBit sets one bit of the register behind addr.
func SetBit(ctx context.Context, drv Driver, addr Address, bit uint8) error {
	if err := checkBitIndex(bit); err != nil {
		return err
	}
	return modify(ctx, drv, addr, func(v byte) byte { return WithBit(v, bit) })
}

// UnsetBit clears one bit of the register behind addr.
func UnsetBit(ctx context.Context, drv Driver, addr Address, bit uint8) error {
	if err := checkBitIndex(bit); err != nil {
		return err
	}
	return modify(ctx, drv, addr, func(v byte) byte { return WithoutBit(v, bit) })
}

// CheckBit reads the register behind addr and reports one bit.
func CheckBit(ctx context.Context, drv Driver, addr Address, bit uint8) (bool, error) {
	if err := checkBitIndex(bit); err != nil {
		return false, err
	}
	v, err := ReadByte(ctx, drv, addr)
	if err != nil {
		return false, err
	}
	return BitSet(v, bit), nil
}

// SetByMask sets every bit of mask in the register behind addr.
func SetByMask(ctx context.Context, drv Driver, addr Address, mask byte) error {
	return modify(ctx, drv, addr, func(v byte) byte { return WithMask(v, mask) })
}

// UnsetByMask clears every bit of mask in the register behind addr.
func UnsetByMask(ctx context.Context, drv Driver, addr Address, mask byte) error {
	return modify(ctx, drv, addr, func(v byte) byte { return WithoutMask(v, mask) })
}

// CheckByMask reports whether all bits of mask are set.
func CheckByMask(ctx context.Context, drv Driver, addr Address, mask byte) (bool, error) {
	v, err := ReadByte(ctx, drv, addr)
	if err != nil {
		return false, err
	}
	return MaskSet(v, mask), nil
}

// ReadSequence reads n consecutive registers starting at addr, one byte at a
// time. The first failure aborts the read and no partial buffer is returned.
func ReadSequence(ctx context.Context, drv Driver, addr Address, n int) ([]byte, error) {
	reg, err := resolve(addr)
	if err != nil {
		return nil, err
	}
	if n < 0 || int(reg)+n > RegisterCount {
		return nil, models.InvalidArgument("sequence 0x%02x+%d exceeds EC address space", reg, n)
	}
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		r := Register(int(reg) + i)
		v, err := readReg(ctx, drv, r)
		if err != nil {
			return nil, err
		}
		buf[i] = v
	}
	return buf, nil
}
