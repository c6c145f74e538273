// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/seojun/eventory/internal/app"
)

// SchedulesHandler serves schedule reads and applies schedule writes.
type SchedulesHandler struct {
	deps Dependencies
}

// NewSchedulesHandler creates a new schedules handler.
func NewSchedulesHandler(deps Dependencies) *SchedulesHandler {
	return &SchedulesHandler{deps: deps}
}

// Handle dispatches GET and PUT /schedules.
func (h *SchedulesHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPut:
		h.handleUpsert(w, r)
	case http.MethodDelete:
		h.handleDelete(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *SchedulesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_schedules"
	records, err := h.deps.Schedules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	out := make([]scheduleResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toScheduleResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *SchedulesHandler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_schedule"
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	stored, err := h.deps.UpdateSchedule(r.Context(), app.ScheduleUpdate{
		EventID:          req.EventID,
		Day:              req.Day,
		Time:             req.Time,
		Strategy:         req.Strategy,
		IsRecurring:      req.IsRecurring,
		RecurrenceValue:  req.RecurrenceValue,
		RecurrenceUnit:   req.RecurrenceUnit,
		StartDate:        req.StartDate,
		IsRecurring2:     req.IsRecurring2,
		RecurrenceValue2: req.RecurrenceValue2,
		RecurrenceUnit2:  req.RecurrenceUnit2,
		StartDate2:       req.StartDate2,
	})
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, toScheduleResponse(stored))
}

func (h *SchedulesHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_schedule"
	eventID := r.URL.Query().Get("event_id")
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.DeleteSchedule(r.Context(), eventID); err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "event_id": eventID})
}
