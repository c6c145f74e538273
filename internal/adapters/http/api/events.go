// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"time"

	"github.com/seojun/eventory/internal/app"
)

// EventsHandler serves the evaluated event timeline.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandleGetEvents handles GET /events?tz=reference|local|utc requests.
// Instances outside their visibility window are omitted unless
// include_hidden=true.
func (h *EventsHandler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_events"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	tz := r.URL.Query().Get("tz")
	switch tz {
	case "", "reference", "local", "utc":
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	includeHidden := r.URL.Query().Get("include_hidden") == "true"

	instances, err := h.deps.Evaluate(r.Context(), time.Now(), app.ParseDisplayZone(tz))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	out := make([]instanceResponse, 0, len(instances))
	for _, inst := range instances {
		if !inst.Visible && !includeHidden {
			continue
		}
		out = append(out, toInstanceResponse(inst))
	}
	writeJSON(w, http.StatusOK, out)
}
