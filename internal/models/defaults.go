package models

// Daemon defaults.
const (
	DefaultListen    = ":5070"
	DefaultStateDir  = "/var/lib/msiecd"
	DefaultStateFile = "state.json"
	DefaultKeysFile  = "keys.json"
)

// DefaultSavedState returns an empty saved state bound to no firmware.
func DefaultSavedState() SavedState {
	return SavedState{Values: map[string]string{}}
}
