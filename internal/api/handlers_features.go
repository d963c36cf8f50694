package api

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/micro-nova/msiec-go/internal/models"
)

// maxValueBody bounds a feature write body. Values are short tokens.
const maxValueBody = 4 << 10

const sourceWrite = "write"

func (h *Handlers) listFeatures(w http.ResponseWriter, r *http.Request) {
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))
	writeJSON(w, http.StatusOK, h.ctrl.List(r.Context(), all))
}

func (h *Handlers) getFeature(w http.ResponseWriter, r *http.Request) {
	info, err := h.ctrl.Get(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// setFeature accepts either a JSON {"value": ...} body or the bare value as
// text, the way it would be echoed into an attribute file.
func (h *Handlers) setFeature(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxValueBody+1))
	if err != nil {
		writeError(w, models.InvalidArgument("read body: %v", err))
		return
	}
	if len(body) > maxValueBody {
		writeError(w, models.InvalidArgument("value longer than %d bytes", maxValueBody))
		return
	}

	value := string(body)
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "application/json" {
		var upd models.FeatureUpdate
		if err := json.Unmarshal(body, &upd); err != nil {
			writeError(w, models.InvalidArgument("invalid JSON: %v", err))
			return
		}
		value = upd.Value
	}

	info, err := h.ctrl.Set(r.Context(), chi.URLParam(r, "*"), value, sourceWrite)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// applyFeatures sets several features. Every entry is attempted; on any
// failure the response carries the first error's status.
func (h *Handlers) applyFeatures(w http.ResponseWriter, r *http.Request) {
	var batch models.FeatureBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeError(w, models.InvalidArgument("invalid JSON: %v", err))
		return
	}
	if err := h.ctrl.Apply(r.Context(), batch, sourceWrite); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.State(r.Context()))
}
