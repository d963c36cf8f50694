package dump

import (
	"fmt"
	"io"
	"strings"
)

// Hexdump writes the image as a 16x16 table, one row per high nibble, with
// an ASCII column.
func Hexdump(w io.Writer, img Image) error {
	var b strings.Builder
	b.WriteString("     |")
	for c := 0; c < 16; c++ {
		fmt.Fprintf(&b, " %x ", c)
	}
	b.WriteString("\n-----+")
	b.WriteString(strings.Repeat("-", 48))
	b.WriteString("\n")
	for row := 0; row < len(img.Registers); row += 16 {
		end := row + 16
		if end > len(img.Registers) {
			end = len(img.Registers)
		}
		line := img.Registers[row:end]
		fmt.Fprintf(&b, "0x%02x |", row)
		for _, v := range line {
			fmt.Fprintf(&b, " %02x", v)
		}
		b.WriteString("  ")
		for _, v := range line {
			if v >= 0x20 && v < 0x7f {
				b.WriteByte(v)
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Change is one register that differs between two images.
type Change struct {
	Register byte `json:"register"`
	Before   byte `json:"before"`
	After    byte `json:"after"`
}

func (c Change) String() string {
	return fmt.Sprintf("0x%02x: 0x%02x -> 0x%02x", c.Register, c.Before, c.After)
}

// Diff lists registers whose value differs between before and after.
func Diff(before, after Image) []Change {
	var out []Change
	n := len(before.Registers)
	if len(after.Registers) < n {
		n = len(after.Registers)
	}
	for i := 0; i < n; i++ {
		if before.Registers[i] != after.Registers[i] {
			out = append(out, Change{Register: byte(i), Before: before.Registers[i], After: after.Registers[i]})
		}
	}
	return out
}
