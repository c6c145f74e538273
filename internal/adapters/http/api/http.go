// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/seojun/eventory/internal/adapters/repository"
	"github.com/seojun/eventory/internal/app"
	"github.com/seojun/eventory/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Evaluate runs one evaluation pass and returns timeline-ordered
	// instances rendered in the requested display zone.
	Evaluate(ctx context.Context, now time.Time, zone app.DisplayZone) ([]model.EventInstance, error)

	// Schedules returns a snapshot of persisted schedule records.
	Schedules(ctx context.Context) ([]model.ScheduleRecord, error)

	// UpdateSchedule applies the write contract for one event.
	UpdateSchedule(ctx context.Context, upd app.ScheduleUpdate) (model.ScheduleRecord, error)

	// DeleteSchedule removes the persisted record for one event.
	DeleteSchedule(ctx context.Context, eventID string) error

	// Stats returns service statistics for monitoring.
	Stats(ctx context.Context) map[string]any
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	eventsHandler    *EventsHandler
	schedulesHandler *SchedulesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		eventsHandler:    NewEventsHandler(deps),
		schedulesHandler: NewSchedulesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(RequestIDMiddleware(s.eventsHandler.HandleGetEvents), "events"))
	mux.HandleFunc("/schedules", MetricsMiddleware(RequestIDMiddleware(s.schedulesHandler.Handle), "schedules"))
}

// instanceResponse mirrors the OpenAPI schema for one timeline entry.
type instanceResponse struct {
	ID               string `json:"id"`
	CanonicalID      string `json:"canonical_id"`
	Title            string `json:"title"`
	Category         string `json:"category"`
	Day              string `json:"day,omitempty"`
	Time             string `json:"time,omitempty"`
	TeamIndex        int    `json:"team_index,omitempty"`
	Structure        string `json:"structure,omitempty"`
	Active           bool   `json:"active"`
	Expired          bool   `json:"expired"`
	UpcomingSoon     bool   `json:"upcoming_soon"`
	RemainingSeconds *int64 `json:"remaining_seconds,omitempty"`
	Visible          bool   `json:"visible"`
}

func toInstanceResponse(inst model.EventInstance) instanceResponse {
	resp := instanceResponse{
		ID:           inst.ID,
		CanonicalID:  inst.CanonicalID,
		Title:        inst.Title,
		Category:     inst.Category.String(),
		Day:          inst.Day,
		Time:         inst.Time,
		TeamIndex:    inst.TeamIndex,
		Active:       inst.Active,
		Expired:      inst.Expired,
		UpcomingSoon: inst.UpcomingSoon,
		Visible:      inst.Visible,
	}
	switch inst.Structure {
	case model.StructureFortress:
		resp.Structure = "fortress"
	case model.StructureCitadel:
		resp.Structure = "citadel"
	}
	if remaining, ok := inst.RemainingSeconds.Get(); ok {
		resp.RemainingSeconds = &remaining
	}
	return resp
}

// scheduleRequest mirrors the OpenAPI schema for PUT /schedules.
type scheduleRequest struct {
	EventID  string `json:"event_id"`
	Day      string `json:"day"`
	Time     string `json:"time"`
	Strategy string `json:"strategy,omitempty"`

	IsRecurring     bool   `json:"is_recurring,omitempty"`
	RecurrenceValue int    `json:"recurrence_value,omitempty"`
	RecurrenceUnit  string `json:"recurrence_unit,omitempty"`
	StartDate       string `json:"start_date,omitempty"`

	IsRecurring2     bool   `json:"is_recurring_2,omitempty"`
	RecurrenceValue2 int    `json:"recurrence_value_2,omitempty"`
	RecurrenceUnit2  string `json:"recurrence_unit_2,omitempty"`
	StartDate2       string `json:"start_date_2,omitempty"`
}

func (s scheduleRequest) validate() error {
	if s.EventID == "" {
		return errors.New("missing event_id")
	}
	switch s.RecurrenceUnit {
	case "", "day", "week":
	default:
		return errors.New("recurrence_unit must be day or week")
	}
	switch s.RecurrenceUnit2 {
	case "", "day", "week":
	default:
		return errors.New("recurrence_unit_2 must be day or week")
	}
	return nil
}

// scheduleResponse mirrors a persisted record.
type scheduleResponse struct {
	EventID  string `json:"event_id"`
	Day      string `json:"day,omitempty"`
	Time     string `json:"time,omitempty"`
	Strategy string `json:"strategy,omitempty"`

	IsRecurring     bool   `json:"is_recurring,omitempty"`
	RecurrenceValue int    `json:"recurrence_value,omitempty"`
	RecurrenceUnit  string `json:"recurrence_unit,omitempty"`
	StartDate       string `json:"start_date,omitempty"`

	IsRecurring2     bool   `json:"is_recurring_2,omitempty"`
	RecurrenceValue2 int    `json:"recurrence_value_2,omitempty"`
	RecurrenceUnit2  string `json:"recurrence_unit_2,omitempty"`
	StartDate2       string `json:"start_date_2,omitempty"`

	UpdatedAt int64 `json:"updated_at"`
}

func toScheduleResponse(rec model.ScheduleRecord) scheduleResponse {
	return scheduleResponse{
		EventID:          rec.EventID,
		Day:              rec.Day,
		Time:             rec.Time,
		Strategy:         rec.Strategy,
		IsRecurring:      rec.IsRecurring,
		RecurrenceValue:  rec.RecurrenceValue,
		RecurrenceUnit:   rec.RecurrenceUnit,
		StartDate:        rec.StartDate,
		IsRecurring2:     rec.IsRecurring2,
		RecurrenceValue2: rec.RecurrenceValue2,
		RecurrenceUnit2:  rec.RecurrenceUnit2,
		StartDate2:       rec.StartDate2,
		UpdatedAt:        rec.UpdatedAt,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
