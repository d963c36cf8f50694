package config

import (
	"log/slog"
	"strings"

	"github.com/micro-nova/msiec-go/internal/models"
)

// migrateState repairs state files written by hand or by older versions:
// a missing values map, blank feature names, and values saved with the
// trailing newline of a shell redirect.
func migrateState(state *models.SavedState) {
	if state.Values == nil {
		state.Values = map[string]string{}
		return
	}
	for name, v := range state.Values {
		clean := strings.TrimSpace(name)
		if clean == "" {
			slog.Warn("config: dropping saved value with empty feature name")
			delete(state.Values, name)
			continue
		}
		v = strings.TrimSuffix(v, "\n")
		if clean != name {
			delete(state.Values, name)
		}
		state.Values[clean] = v
	}
}
