package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/micro-nova/msiec-go/internal/models"
)

// saveDelay coalesces bursts of writes (a batch PATCH, a restore) into a
// single file write.
const saveDelay = 500 * time.Millisecond

// JSONStore keeps the saved feature values in <stateDir>/state.json. Writes
// are delayed by saveDelay and skipped when nothing changed since the last
// load or save. An unreadable file is moved aside to state.json.bad so the values in
// it can still be recovered by hand.
type JSONStore struct {
	path    string
	writing sync.Mutex // serializes file writes

	mu      sync.Mutex
	latest  models.SavedState // last state loaded or queued
	next    *models.SavedState
	pending *time.Timer
}

// NewJSONStore returns a store for the given state directory.
func NewJSONStore(stateDir string) *JSONStore {
	return &JSONStore{path: filepath.Join(stateDir, models.DefaultStateFile)}
}

func (s *JSONStore) Path() string { return s.path }

// Load reads the saved state. A missing or corrupt file yields an empty
// state bound to no firmware.
func (s *JSONStore) Load() (*models.SavedState, error) {
	state, err := s.read()
	if err != nil {
		return nil, err
	}
	if state.Firmware == "" && len(state.Values) > 0 {
		slog.Warn("config: saved values carry no firmware and will not be restored",
			"path", s.path, "count", len(state.Values))
	}
	s.mu.Lock()
	s.latest = state.DeepCopy()
	s.mu.Unlock()
	return &state, nil
}

func (s *JSONStore) read() (models.SavedState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.DefaultSavedState(), nil
	}
	if err != nil {
		return models.SavedState{}, fmt.Errorf("config: read state: %w", err)
	}
	var state models.SavedState
	if err := json.Unmarshal(data, &state); err != nil {
		bad := s.path + ".bad"
		slog.Warn("config: state file unreadable, starting empty", "path", s.path, "moved_to", bad, "err", err)
		if rerr := os.Rename(s.path, bad); rerr != nil {
			slog.Warn("config: could not move state file aside", "err", rerr)
		}
		return models.DefaultSavedState(), nil
	}
	migrateState(&state)
	return state, nil
}

// Save queues state for writing. The state is copied, so the caller may keep
// mutating it.
func (s *JSONStore) Save(state *models.SavedState) error {
	cp := state.DeepCopy()

	s.mu.Lock()
	defer s.mu.Unlock()
	if sameState(cp, s.latest) {
		return nil
	}
	s.latest = cp.DeepCopy()
	s.next = &cp
	if s.pending == nil {
		s.pending = time.AfterFunc(saveDelay, s.writePending)
	} else {
		s.pending.Reset(saveDelay)
	}
	return nil
}

func (s *JSONStore) writePending() {
	if err := s.Flush(); err != nil {
		slog.Error("config: failed to write state", "path", s.path, "err", err)
	}
}

// Flush writes any queued state now. The file is written outside mu so Save
// never waits on the disk.
func (s *JSONStore) Flush() error {
	s.writing.Lock()
	defer s.writing.Unlock()

	s.mu.Lock()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	st := s.next
	s.next = nil
	s.mu.Unlock()
	if st == nil {
		return nil
	}

	if err := writeStateFile(s.path, st); err != nil {
		s.mu.Lock()
		if s.next == nil {
			s.next = st
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// writeStateFile replaces path through a synced temp file in the same
// directory, so a crash leaves either the old or the new state.
func writeStateFile(path string, state *models.SavedState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func sameState(a, b models.SavedState) bool {
	if a.Firmware != b.Firmware || len(a.Values) != len(b.Values) {
		return false
	}
	for k, v := range a.Values {
		if w, ok := b.Values[k]; !ok || w != v {
			return false
		}
	}
	return true
}

var _ Store = (*JSONStore)(nil)
