// Package auth guards mutating API routes with access keys read from a JSON
// file that is reloaded whenever it changes on disk.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/micro-nova/msiec-go/internal/models"
)

// Key is one named access key in keys.json.
type Key struct {
	Key     string `json:"key"`
	Created string `json:"created,omitempty"`
}

// Service holds the current access keys.
type Service struct {
	mu      sync.RWMutex
	dir     string
	keys    map[string]Key
	watcher *fsnotify.Watcher
}

// NewService loads keys.json from dir and watches it for changes. A missing
// file leaves the service in open mode.
func NewService(dir string) (*Service, error) {
	s := &Service{
		dir:  dir,
		keys: make(map[string]Key),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("auth: could not create fsnotify watcher", "err", err)
		return s, nil
	}
	s.watcher = watcher

	// Watch the directory so that editors replacing the file are noticed.
	if err := watcher.Add(dir); err != nil {
		slog.Warn("auth: could not watch key dir", "dir", dir, "err", err)
	}
	go s.watchLoop(s.Path())
	return s, nil
}

// Path returns the key file location.
func (s *Service) Path() string {
	return filepath.Join(s.dir, models.DefaultKeysFile)
}

// Reload re-reads the key file. A missing file clears all keys.
func (s *Service) Reload() error {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.mu.Lock()
			s.keys = make(map[string]Key)
			s.mu.Unlock()
			return nil
		}
		return err
	}

	var keys map[string]Key
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	if keys == nil {
		keys = make(map[string]Key)
	}

	s.mu.Lock()
	s.keys = keys
	s.mu.Unlock()
	slog.Debug("auth: reloaded keys", "count", len(keys))
	return nil
}

// IsOpenMode reports whether no usable key is configured. In open mode every
// request is allowed.
func (s *Service) IsOpenMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, k := range s.keys {
		if k.Key != "" {
			return false
		}
	}
	return true
}

// VerifyKey reports whether key matches a configured key. The empty key never
// matches.
func (s *Service) VerifyKey(key string) bool {
	if key == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, k := range s.keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(k.Key)) == 1 {
			return true
		}
	}
	return false
}

// Close stops the file watcher.
func (s *Service) Close() {
	if s.watcher != nil {
		s.watcher.Close()
	}
}

func (s *Service) watchLoop(path string) {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Name != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				if err := s.Reload(); err != nil {
					slog.Warn("auth: failed to reload keys", "err", err)
				}
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("auth: watcher error", "err", err)
		}
	}
}
