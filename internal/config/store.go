// Package config handles the daemon settings file and the persisted feature
// state.
package config

import "github.com/micro-nova/msiec-go/internal/models"

// Store is the interface for persisting feature state.
type Store interface {
	// Load loads the saved state. Returns DefaultSavedState if no file exists.
	Load() (*models.SavedState, error)

	// Save persists the state. Implementations may debounce rapid saves.
	Save(state *models.SavedState) error

	// Path returns the file path used by this store.
	Path() string

	// Flush forces an immediate write of any pending state.
	Flush() error
}
