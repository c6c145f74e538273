// Package app provides the evaluation service that joins the event catalog
// with persisted schedules and drives the domain engine.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/seojun/eventory/internal/adapters/repository"
	"github.com/seojun/eventory/internal/domain/catalog"
	"github.com/seojun/eventory/internal/domain/identity"
	"github.com/seojun/eventory/internal/domain/model"
	"github.com/seojun/eventory/internal/domain/rotation"
	"github.com/seojun/eventory/internal/domain/status"
	"github.com/seojun/eventory/internal/domain/timeline"
	"github.com/seojun/eventory/internal/domain/tzshift"
	"github.com/seojun/eventory/pkg/logger"
	"github.com/seojun/eventory/pkg/metrics"
)

// DisplayZone selects the timezone schedule text is rendered in.
type DisplayZone int

const (
	ZoneReference DisplayZone = iota
	ZoneLocal
	ZoneUTC
)

// ParseDisplayZone maps the API's tz parameter to a DisplayZone.
func ParseDisplayZone(s string) DisplayZone {
	switch s {
	case "local":
		return ZoneLocal
	case "utc":
		return ZoneUTC
	default:
		return ZoneReference
	}
}

// ScheduleUpdate is the externally facing write contract. Day or Time set
// to "." means explicitly cleared.
type ScheduleUpdate struct {
	EventID  string
	Day      string
	Time     string
	Strategy string

	IsRecurring     bool
	RecurrenceValue int
	RecurrenceUnit  string
	StartDate       string

	IsRecurring2     bool
	RecurrenceValue2 int
	RecurrenceUnit2  string
	StartDate2       string
}

// Service implements the API dependencies for the event tracker.
type Service struct {
	mu sync.RWMutex

	store repository.Store
	eval  *status.Evaluator
	rot   *rotation.Calculator

	refreshSpec string
	cron        *cron.Cron

	started      bool
	lastPassID   string
	lastPassAt   time.Time
	lastPassSize int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the schedule store backend.
func WithStore(s repository.Store) Option {
	return func(svc *Service) {
		if s != nil {
			svc.store = s
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// WithEvaluator sets a configured status evaluator.
func WithEvaluator(e *status.Evaluator) Option {
	return func(svc *Service) {
		if e != nil {
			svc.eval = e
		}
	}
}

// WithRotation sets a configured rotation calculator.
func WithRotation(c *rotation.Calculator) Option {
	return func(svc *Service) {
		if c != nil {
			svc.rot = c
		}
	}
}

// WithRefreshSpec sets the cron spec for the periodic re-evaluation tick.
func WithRefreshSpec(spec string) Option {
	return func(svc *Service) {
		if spec != "" {
			svc.refreshSpec = spec
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	svc := &Service{
		refreshSpec: "@every 1m",
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Start initializes components and begins the periodic refresh tick.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory schedule store")
	}
	if s.rot == nil {
		s.rot = rotation.New()
	}
	if s.eval == nil {
		s.eval = status.New(status.WithRotation(s.rot))
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.refreshSpec, func() {
		s.refresh(context.Background())
	}); err != nil {
		return err
	}
	s.cron.Start()

	s.started = true
	s.logger.Info(ctx, "event tracker service started",
		logger.String("refresh", s.refreshSpec),
		logger.Int("catalog_events", len(catalog.All())),
	)
	return nil
}

// Stop halts the refresh tick.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	if s.cron != nil {
		s.cron.Stop()
	}
	s.started = false
	s.logger.Info(context.Background(), "event tracker service stopped")
}

// refresh runs one evaluation pass on the external tick and publishes the
// per-state gauges.
func (s *Service) refresh(ctx context.Context) {
	now := time.Now()
	passID := uuid.NewString()
	start := time.Now()

	instances, err := s.Evaluate(ctx, now, ZoneReference)
	if err != nil {
		s.logger.Warn(ctx, "refresh pass failed", logger.String("pass_id", passID), logger.Error(err))
		return
	}

	var active, expired, upcoming, unscheduled int
	for _, inst := range instances {
		switch {
		case inst.Active:
			active++
		case inst.Expired:
			expired++
		case inst.UpcomingSoon:
			upcoming++
		}
		if inst.Day == "" && inst.Time == "" && inst.Recurrence.StartDate == "" {
			unscheduled++
		}
	}
	metrics.UpdateInstanceStates(active, expired, upcoming, unscheduled)
	metrics.RecordEvaluationPass(time.Since(start).Seconds())
	metrics.UpdateScheduleRecords(s.store.Count(ctx))

	s.mu.Lock()
	s.lastPassID = passID
	s.lastPassAt = now
	s.lastPassSize = len(instances)
	s.mu.Unlock()

	s.logger.Debug(ctx, "refresh pass complete",
		logger.String("pass_id", passID),
		logger.Int("instances", len(instances)),
		logger.Int("active", active),
	)
}

// Evaluate runs one full evaluation pass: join catalog and schedules,
// explode split events, classify every instance at now, and order the
// result for the timeline. Inputs are treated as immutable snapshots.
func (s *Service) Evaluate(ctx context.Context, now time.Time, zone DisplayZone) ([]model.EventInstance, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.ScheduleRecord, len(records))
	for _, rec := range records {
		byID[identity.Resolve(rec.EventID)] = rec
	}

	delta := displayDelta(zone, now)
	refYear := now.In(s.eval.ReferenceLocation()).Year()

	var instances []model.EventInstance
	for _, def := range catalog.All() {
		rec := byID[def.ID]
		for _, seed := range explode(def, rec) {
			in := status.Input{
				CanonicalID: def.ID,
				Title:       seed.title,
				Day:         seed.day,
				Time:        seed.timeText,
				Team:        seed.team,
				UpdatedAt:   rec.UpdatedAt,
			}
			res := s.eval.Evaluate(in, now)

			day, timeText := seed.day, seed.timeText
			if zone != ZoneReference || delta != 0 {
				day = tzshift.Convert(day, delta, refYear)
				timeText = tzshift.Convert(timeText, delta, refYear)
			}

			instances = append(instances, model.EventInstance{
				ID:               seed.id,
				CanonicalID:      def.ID,
				Title:            seed.title,
				Category:         def.Category,
				Day:              day,
				Time:             timeText,
				TeamIndex:        seed.teamIndex,
				Structure:        seed.structure,
				Recurrence:       seed.team,
				UpdatedAt:        rec.UpdatedAt,
				Active:           res.Active,
				Expired:          res.Expired,
				UpcomingSoon:     res.UpcomingSoon,
				RemainingSeconds: res.Remaining,
				Visible:          res.Visible,
			})
		}
	}
	return timeline.Sort(instances, now), nil
}

// UpdateSchedule applies the write contract: the ID is canonicalized, the
// record is upserted whole, and "." clears day/time without deleting it.
func (s *Service) UpdateSchedule(ctx context.Context, upd ScheduleUpdate) (model.ScheduleRecord, error) {
	rec := model.ScheduleRecord{
		EventID:          identity.Resolve(upd.EventID),
		Day:              upd.Day,
		Time:             upd.Time,
		Strategy:         upd.Strategy,
		StartDate:        upd.StartDate,
		IsRecurring:      upd.IsRecurring,
		RecurrenceValue:  upd.RecurrenceValue,
		RecurrenceUnit:   upd.RecurrenceUnit,
		IsRecurring2:     upd.IsRecurring2,
		RecurrenceValue2: upd.RecurrenceValue2,
		RecurrenceUnit2:  upd.RecurrenceUnit2,
		StartDate2:       upd.StartDate2,
	}
	stored, err := s.store.Upsert(ctx, rec)
	if err != nil {
		return model.ScheduleRecord{}, err
	}
	if upd.Day == "." && upd.Time == "." {
		metrics.RecordScheduleClear()
	}
	s.logger.Info(ctx, "schedule updated",
		logger.String("event_id", stored.EventID),
		logger.Bool("cleared", upd.Day == "." && upd.Time == "."),
	)
	return stored, nil
}

// DeleteSchedule removes the persisted record for an event. The ID is
// canonicalized first, so derived IDs delete their parent record.
func (s *Service) DeleteSchedule(ctx context.Context, eventID string) error {
	canonical := identity.Resolve(eventID)
	if err := s.store.Delete(ctx, canonical); err != nil {
		return err
	}
	s.logger.Info(ctx, "schedule deleted", logger.String("event_id", canonical))
	return nil
}

// Schedules returns a snapshot of persisted records.
func (s *Service) Schedules(ctx context.Context) ([]model.ScheduleRecord, error) {
	return s.store.List(ctx)
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := map[string]any{
		"started":        s.started,
		"catalog_events": len(catalog.All()),
		"records":        s.store.Count(ctx),
	}
	if s.lastPassID != "" {
		stats["last_pass_id"] = s.lastPassID
		stats["last_pass_at"] = s.lastPassAt.Format(time.RFC3339)
		stats["last_pass_instances"] = s.lastPassSize
	}
	return stats
}

func displayDelta(zone DisplayZone, now time.Time) int {
	switch zone {
	case ZoneLocal:
		return tzshift.LocalDelta(now)
	case ZoneUTC:
		return tzshift.UTCDelta
	default:
		return 0
	}
}
