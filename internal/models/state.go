// Package models defines the data structures shared by the msiec API,
// controller and persistence layers.
package models

// FeatureInfo describes one feature and, when it was read, its value.
type FeatureInfo struct {
	Name     string `json:"name"`
	Group    string `json:"group"`
	Status   string `json:"status"` // "supported" | "unsupported" | "unknown"
	Readable bool   `json:"readable"`
	Writable bool   `json:"writable"`
	Value    string `json:"value,omitempty"`
	Error    string `json:"error,omitempty"` // read failure, value omitted
}

// Info is the system information response.
type Info struct {
	Version   string `json:"version"`
	Hostname  string `json:"hostname,omitempty"`
	Model     string `json:"model"`
	Firmware  string `json:"firmware"`
	Transport string `json:"transport"`
	Simulated bool   `json:"simulated"`
}

// State is the complete system state returned by GET /api.
type State struct {
	Info     Info          `json:"info"`
	Features []FeatureInfo `json:"features"`
}

// DeepCopy returns a deep copy of the state.
func (s State) DeepCopy() State {
	next := State{Info: s.Info}
	if s.Features != nil {
		next.Features = make([]FeatureInfo, len(s.Features))
		copy(next.Features, s.Features)
	}
	return next
}

// Event is published whenever a feature value changes, whether by a write or
// by a periodic refresh.
type Event struct {
	Feature string `json:"feature"`
	Value   string `json:"value"`
	Source  string `json:"source"` // "write" | "refresh" | "restore" | "power"
}

// SavedState is the persisted record of values written through the daemon.
// Values are only restored on a machine reporting the same Firmware.
type SavedState struct {
	Firmware string            `json:"firmware"`
	Values   map[string]string `json:"values"`
}

// DeepCopy returns a deep copy of the saved state.
func (s SavedState) DeepCopy() SavedState {
	next := SavedState{Firmware: s.Firmware, Values: make(map[string]string, len(s.Values))}
	for k, v := range s.Values {
		next.Values[k] = v
	}
	return next
}
