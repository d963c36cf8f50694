package hardware

import (
	"fmt"
	"strconv"
	"strings"
)

type addrKind uint8

const (
	addrUnsupported addrKind = iota // zero value: never touch hardware
	addrUnknown
	addrConfigured
)

// Address is an EC register location or one of two sentinels.
//
// Unsupported marks a feature confirmed absent on a model. Unknown marks a
// feature that may exist but whose register has not been verified; it is
// treated exactly like Unsupported by every codec and only kept apart so it
// can be promoted once confirmed. The zero Address is Unsupported.
type Address struct {
	kind addrKind
	reg  Register
}

var (
	Unsupported = Address{kind: addrUnsupported}
	Unknown     = Address{kind: addrUnknown}
)

// At returns a configured address for reg.
func At(reg Register) Address {
	return Address{kind: addrConfigured, reg: reg}
}

// Reg returns the register and true only when the address is configured.
func (a Address) Reg() (Register, bool) {
	return a.reg, a.kind == addrConfigured
}

func (a Address) IsConfigured() bool  { return a.kind == addrConfigured }
func (a Address) IsUnsupported() bool { return a.kind == addrUnsupported }
func (a Address) IsUnknown() bool     { return a.kind == addrUnknown }

func (a Address) String() string {
	switch a.kind {
	case addrConfigured:
		return fmt.Sprintf("0x%02x", a.reg)
	case addrUnknown:
		return "unknown"
	default:
		return "unsupported"
	}
}

// MarshalText encodes the address as "0x2e", "unknown" or "unsupported".
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses the form produced by MarshalText.
func (a *Address) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch s {
	case "unknown":
		*a = Unknown
		return nil
	case "unsupported", "":
		*a = Unsupported
		return nil
	}
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return fmt.Errorf("invalid EC address %q: %w", s, err)
	}
	*a = At(Register(v))
	return nil
}
