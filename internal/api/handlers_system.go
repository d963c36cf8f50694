package api

import (
	"net/http"
	"strings"

	"github.com/micro-nova/msiec-go/internal/dump"
)

const cborMediaType = "application/cbor"

func (h *Handlers) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.State(r.Context()))
}

func (h *Handlers) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Info())
}

// getConfig returns the register map selected for this firmware.
func (h *Handlers) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Active())
}

// getDump captures all registers. CBOR is returned when the client asks for
// it, JSON otherwise.
func (h *Handlers) getDump(w http.ResponseWriter, r *http.Request) {
	img, err := h.ctrl.Dump(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if strings.Contains(r.Header.Get("Accept"), cborMediaType) {
		w.Header().Set("Content-Type", cborMediaType)
		w.WriteHeader(http.StatusOK)
		_ = dump.NewEncoder(w).Encode(img)
		return
	}
	writeJSON(w, http.StatusOK, img)
}
