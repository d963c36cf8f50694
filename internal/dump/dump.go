// Package dump captures, stores and replays complete EC register images.
//
// Images are written as CBOR with integer keys. A captured image can be
// loaded into a hardware.Mock so every feature can be exercised offline
// against a real machine's register state.
package dump

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/micro-nova/msiec-go/internal/hardware"
	"github.com/micro-nova/msiec-go/internal/models"
)

// Image is a snapshot of the whole EC address space.
type Image struct {
	Firmware  string    `cbor:"1,keyasint" json:"firmware"`
	Model     string    `cbor:"2,keyasint,omitempty" json:"model,omitempty"`
	Captured  time.Time `cbor:"3,keyasint" json:"captured"`
	Registers []byte    `cbor:"4,keyasint" json:"registers"`
	// Unreadable lists registers whose read failed; they hold zero.
	Unreadable []byte `cbor:"5,keyasint,omitempty" json:"unreadable,omitempty"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create dump CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create dump CBOR decoder mode: %v", err))
	}
}

// Capture reads every register once. Individual read failures are recorded
// in Unreadable; the capture fails only if no register could be read.
// The caller must hold exclusive access to drv.
func Capture(ctx context.Context, drv hardware.Driver, model string) (Image, error) {
	img := Image{
		Model:     model,
		Captured:  time.Now().UTC(),
		Registers: make([]byte, hardware.RegisterCount),
	}
	var lastErr error
	for r := 0; r < hardware.RegisterCount; r++ {
		if err := ctx.Err(); err != nil {
			return Image{}, err
		}
		v, err := hardware.ReadByte(ctx, drv, hardware.At(hardware.Register(r)))
		if err != nil {
			img.Unreadable = append(img.Unreadable, byte(r))
			lastErr = err
			continue
		}
		img.Registers[r] = v
	}
	if len(img.Unreadable) == hardware.RegisterCount {
		return Image{}, lastErr
	}
	img.Firmware = hardware.TrimFirmwareString(img.Block(hardware.RegFWVersion, hardware.FWVersionLen))
	return img, nil
}

// Block returns n registers starting at reg.
func (img Image) Block(reg hardware.Register, n int) []byte {
	end := int(reg) + n
	if end > len(img.Registers) {
		end = len(img.Registers)
	}
	return img.Registers[reg:end]
}

// Array returns the registers as a fixed-size array.
func (img Image) Array() [hardware.RegisterCount]byte {
	var a [hardware.RegisterCount]byte
	copy(a[:], img.Registers)
	return a
}

// Mock returns an in-memory EC preloaded with the image.
func (img Image) Mock() *hardware.Mock {
	return hardware.NewMockFromImage(img.Array())
}

// Encode serializes an image to CBOR.
func Encode(img Image) ([]byte, error) {
	return encMode.Marshal(img)
}

// Decode parses a CBOR image and checks that it covers the address space.
func Decode(data []byte) (Image, error) {
	var img Image
	if err := decMode.Unmarshal(data, &img); err != nil {
		return Image{}, models.InvalidArgument("dump: decode: %v", err)
	}
	if len(img.Registers) != hardware.RegisterCount {
		return Image{}, models.InvalidArgument("dump: image has %d registers, want %d",
			len(img.Registers), hardware.RegisterCount)
	}
	return img, nil
}

// NewEncoder streams images to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// WriteFile stores an image at path.
func WriteFile(path string, img Image) error {
	data, err := Encode(img)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile loads an image from path.
func ReadFile(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("dump: %w", err)
	}
	return Decode(data)
}
