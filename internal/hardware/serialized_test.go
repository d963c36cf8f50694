package hardware_test

import (
	"context"
	"sync"
	"testing"

	"github.com/micro-nova/msiec-go/internal/hardware"
)

func TestSerializedExclusiveRMW(t *testing.T) {
	m := hardware.NewMock()
	s := hardware.NewSerialized(m)
	ctx := context.Background()
	addr := hardware.At(0x10)

	// Eight goroutines each set their own bit; with the lock held across the
	// read-modify-write no update may be lost.
	var wg sync.WaitGroup
	for bit := uint8(0); bit < 8; bit++ {
		wg.Add(1)
		go func(b uint8) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				err := s.Exclusive(ctx, func(d hardware.Driver) error {
					if err := hardware.SetBit(ctx, d, addr, b); err != nil {
						return err
					}
					return hardware.UnsetBit(ctx, d, addr, b)
				})
				if err != nil {
					t.Errorf("Exclusive: %v", err)
					return
				}
			}
			_ = s.Exclusive(ctx, func(d hardware.Driver) error {
				return hardware.SetBit(ctx, d, addr, b)
			})
		}(bit)
	}
	wg.Wait()

	if got := m.GetReg(0x10); got != 0xff {
		t.Errorf("reg = 0x%02X, want 0xFF", got)
	}
}

func TestSerializedExclusiveCancelled(t *testing.T) {
	s := hardware.NewSerialized(hardware.NewMock())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Exclusive(ctx, func(hardware.Driver) error { called = true; return nil })
	if err == nil {
		t.Error("Exclusive on cancelled context should fail")
	}
	if called {
		t.Error("fn ran on cancelled context")
	}
}

func TestSerializedDelegates(t *testing.T) {
	m := hardware.NewMock()
	s := hardware.NewSerialized(m)
	ctx := context.Background()

	if err := s.Write(ctx, 0x33, 0xaa); err != nil {
		t.Fatalf("Write: %v", err)
	}
	v, err := s.Read(ctx, 0x33)
	if err != nil || v != 0xaa {
		t.Errorf("Read = (0x%02X, %v), want (0xAA, nil)", v, err)
	}
	if s.Name() != "mock" || s.IsReal() {
		t.Errorf("Name/IsReal = %q/%v", s.Name(), s.IsReal())
	}
}
