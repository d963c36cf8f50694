package hardware

import (
	"context"
	"sync"
)

// Serialized wraps a Driver with a single mutex.
//
// Each Read and Write is individually locked, which keeps concurrent single
// accesses from interleaving on the bus. That alone does not make a
// read-modify-write safe: run compound operations inside Exclusive so that no
// other caller can write between the read and the write.
type Serialized struct {
	mu  sync.Mutex
	drv Driver
}

// NewSerialized wraps drv. drv must not be used directly afterwards.
func NewSerialized(drv Driver) *Serialized {
	return &Serialized{drv: drv}
}

// Exclusive runs fn while holding the bus lock. fn receives the wrapped
// driver and must not call back into s.
func (s *Serialized) Exclusive(ctx context.Context, fn func(Driver) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(s.drv)
}

func (s *Serialized) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drv.Init(ctx)
}

func (s *Serialized) Read(ctx context.Context, reg Register) (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drv.Read(ctx, reg)
}

func (s *Serialized) Write(ctx context.Context, reg Register, val byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drv.Write(ctx, reg, val)
}

func (s *Serialized) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drv.Close()
}

func (s *Serialized) Name() string { return s.drv.Name() }

func (s *Serialized) IsReal() bool { return s.drv.IsReal() }

var _ Driver = (*Serialized)(nil)
