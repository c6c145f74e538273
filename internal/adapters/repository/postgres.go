package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seojun/eventory/internal/domain/model"
	"github.com/seojun/eventory/pkg/metrics"
)

// PostgresStore persists schedule records in a schedules table, one row per
// canonical event ID.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

const schedulesSchema = `
CREATE TABLE IF NOT EXISTS schedules (
    event_id          TEXT PRIMARY KEY,
    day               TEXT NOT NULL DEFAULT '',
    time              TEXT NOT NULL DEFAULT '',
    strategy          TEXT NOT NULL DEFAULT '',
    start_date        TEXT NOT NULL DEFAULT '',
    is_recurring      BOOLEAN NOT NULL DEFAULT FALSE,
    recurrence_value  INTEGER NOT NULL DEFAULT 0,
    recurrence_unit   TEXT NOT NULL DEFAULT '',
    is_recurring2     BOOLEAN NOT NULL DEFAULT FALSE,
    recurrence_value2 INTEGER NOT NULL DEFAULT 0,
    recurrence_unit2  TEXT NOT NULL DEFAULT '',
    start_date2       TEXT NOT NULL DEFAULT '',
    updated_at        BIGINT NOT NULL DEFAULT 0
)`

// NewPostgresStore connects to the database and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if _, err := pool.Exec(ctx, schedulesSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{pool: pool, now: time.Now}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready verifies database connectivity.
func (s *PostgresStore) Ready(ctx context.Context) error {
	var one int
	return s.pool.QueryRow(ctx, "SELECT 1").Scan(&one)
}

// Upsert writes the record with ON CONFLICT replace semantics.
func (s *PostgresStore) Upsert(ctx context.Context, rec model.ScheduleRecord) (model.ScheduleRecord, error) {
	if rec.EventID == "" {
		return model.ScheduleRecord{}, ErrMissingEventID
	}
	rec.UpdatedAt = s.now().UnixMilli()

	const q = `
INSERT INTO schedules (
    event_id, day, time, strategy, start_date,
    is_recurring, recurrence_value, recurrence_unit,
    is_recurring2, recurrence_value2, recurrence_unit2, start_date2,
    updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (event_id) DO UPDATE SET
    day = EXCLUDED.day,
    time = EXCLUDED.time,
    strategy = EXCLUDED.strategy,
    start_date = EXCLUDED.start_date,
    is_recurring = EXCLUDED.is_recurring,
    recurrence_value = EXCLUDED.recurrence_value,
    recurrence_unit = EXCLUDED.recurrence_unit,
    is_recurring2 = EXCLUDED.is_recurring2,
    recurrence_value2 = EXCLUDED.recurrence_value2,
    recurrence_unit2 = EXCLUDED.recurrence_unit2,
    start_date2 = EXCLUDED.start_date2,
    updated_at = EXCLUDED.updated_at`

	_, err := s.pool.Exec(ctx, q,
		rec.EventID, rec.Day, rec.Time, rec.Strategy, rec.StartDate,
		rec.IsRecurring, rec.RecurrenceValue, rec.RecurrenceUnit,
		rec.IsRecurring2, rec.RecurrenceValue2, rec.RecurrenceUnit2, rec.StartDate2,
		rec.UpdatedAt,
	)
	if err != nil {
		return model.ScheduleRecord{}, fmt.Errorf("upsert schedule: %w", err)
	}
	metrics.RecordScheduleUpsert()
	metrics.UpdateScheduleRecords(s.Count(ctx))
	return rec, nil
}

const selectColumns = `
SELECT event_id, day, time, strategy, start_date,
       is_recurring, recurrence_value, recurrence_unit,
       is_recurring2, recurrence_value2, recurrence_unit2, start_date2,
       updated_at
FROM schedules`

// Get returns the record for an event ID, or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, eventID string) (model.ScheduleRecord, error) {
	row := s.pool.QueryRow(ctx, selectColumns+" WHERE event_id = $1", eventID)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ScheduleRecord{}, ErrNotFound
	}
	if err != nil {
		return model.ScheduleRecord{}, fmt.Errorf("get schedule: %w", err)
	}
	return rec, nil
}

// List returns all persisted records.
func (s *PostgresStore) List(ctx context.Context) ([]model.ScheduleRecord, error) {
	rows, err := s.pool.Query(ctx, selectColumns+" ORDER BY event_id")
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var out []model.ScheduleRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return out, nil
}

// Delete removes the record for an event ID, or returns ErrNotFound.
func (s *PostgresStore) Delete(ctx context.Context, eventID string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM schedules WHERE event_id = $1", eventID)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	metrics.UpdateScheduleRecords(s.Count(ctx))
	return nil
}

// Count returns the number of persisted records, or 0 on error.
func (s *PostgresStore) Count(ctx context.Context) int {
	var n int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM schedules").Scan(&n); err != nil {
		return 0
	}
	return n
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (model.ScheduleRecord, error) {
	var rec model.ScheduleRecord
	err := row.Scan(
		&rec.EventID, &rec.Day, &rec.Time, &rec.Strategy, &rec.StartDate,
		&rec.IsRecurring, &rec.RecurrenceValue, &rec.RecurrenceUnit,
		&rec.IsRecurring2, &rec.RecurrenceValue2, &rec.RecurrenceUnit2, &rec.StartDate2,
		&rec.UpdatedAt,
	)
	return rec, err
}
