// Package repository defines the schedule store interface and errors.
package repository

import (
	"context"

	"github.com/seojun/eventory/internal/domain/model"
)

// Store provides read/write access to persisted schedule records. At most
// one record exists per canonical event ID; Upsert replaces in place.
type Store interface {
	// Upsert writes the record keyed by its event ID, stamping UpdatedAt.
	Upsert(ctx context.Context, rec model.ScheduleRecord) (model.ScheduleRecord, error)

	// Get returns the record for an event ID, or ErrNotFound.
	Get(ctx context.Context, eventID string) (model.ScheduleRecord, error)

	// List returns a snapshot of all records.
	List(ctx context.Context) ([]model.ScheduleRecord, error)

	// Delete removes the record for an event ID, or returns ErrNotFound.
	Delete(ctx context.Context, eventID string) error

	// Count returns the number of persisted records.
	Count(ctx context.Context) int
}
