package server

import (
	"fmt"
	"net/http"

	"github.com/scatterbrainlabs/scatterbrain/models"
	"github.com/scatterbrainlabs/scatterbrain/types"
)

// handleEvents streams one "update" record per change-bus notification for
// the requested plan. Lag markers emit the same record: the client re-reads
// state either way, so a missed intermediate event is harmless.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParsePlanID(r.PathValue("id"))
	if err != nil {
		s.writeEngineError(w, types.NewInvalidInput(err.Error()))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, cancel := s.registry.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			if ev.Plan != id && !ev.Lagged {
				continue
			}
			if _, err := fmt.Fprint(w, "event: update\ndata: change\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
