// Package api implements the HTTP API of the msiec daemon.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/micro-nova/msiec-go/internal/dump"
	"github.com/micro-nova/msiec-go/internal/models"
	"github.com/micro-nova/msiec-go/internal/profile"
)

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	ctrl   Controller
	events EventBus
}

// Controller is the interface the handlers use to reach the EC.
type Controller interface {
	Info() models.Info
	State(ctx context.Context) models.State
	Active() profile.Active
	List(ctx context.Context, includeHidden bool) []models.FeatureInfo
	Get(ctx context.Context, name string) (models.FeatureInfo, error)
	Set(ctx context.Context, name, value, source string) (models.FeatureInfo, error)
	Apply(ctx context.Context, values map[string]string, source string) error
	Dump(ctx context.Context) (dump.Image, error)
}

// EventBus is the interface for subscribing to feature change events.
type EventBus interface {
	Subscribe(id, prefix string) <-chan models.Event
	Unsubscribe(id string)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes err as JSON. The first AppError in the chain decides the
// status; anything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, &models.AppError{
			Code:    appErr.Code,
			Message: err.Error(),
			Field:   appErr.Field,
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, &models.AppError{
		Code:    "INTERNAL",
		Message: err.Error(),
	})
}
