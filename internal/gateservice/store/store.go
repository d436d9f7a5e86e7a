// Package store persists delivery entries, vehicle registrations and the
// per-day queue sequence. Postgres implementations back the service in
// production; in-memory implementations back tests.
package store

import (
	"context"
	"time"

	"tanker-queue/pkg/models"
)

// EntryStore is the delivery log. Truck numbers are deliberately not
// unique: one truck makes many deliveries.
type EntryStore interface {
	// Insert persists a fully populated entry. A duplicate queue number
	// fails with core.ErrDuplicateQueueNumber.
	Insert(ctx context.Context, entry *models.Entry) error
	// FindByPlate returns the most recent entry whose truck number matches
	// plate case-insensitively, or nil when none exists.
	FindByPlate(ctx context.Context, plate string) (*models.Entry, error)
	// Search matches the term case-insensitively against truck numbers
	// only, newest first, capped at 10 results.
	Search(ctx context.Context, term string) ([]*models.Entry, error)
	ListAll(ctx context.Context) ([]*models.Entry, error)
}

// RegistrationPatch carries the fields of an administrative update. Nil
// fields are left untouched.
type RegistrationPatch struct {
	VehicleNumber *string
	DriverName    *string
	DriverPhone   *string
	TrailerNumber *string
	CustomerName  *string
	CompanyName   *string
}

// VehicleRegistry is the permanent vehicle record set, unique per
// case-insensitive vehicle number.
type VehicleRegistry interface {
	// FindByVehicleNumber returns the registration matching plate
	// case-insensitively, or nil when none exists.
	FindByVehicleNumber(ctx context.Context, plate string) (*models.Registration, error)
	// Create persists a new registration. An existing vehicle number fails
	// with core.ErrDuplicateVehicle and writes nothing.
	Create(ctx context.Context, reg *models.Registration) error
	// Search matches the term case-insensitively against vehicle number,
	// driver name, driver phone, customer name and company name, newest
	// first, unbounded.
	Search(ctx context.Context, term string) ([]*models.Registration, error)
	ListAll(ctx context.Context) ([]*models.Registration, error)
	// Update applies the patch by id. A missing id is a no-op success.
	Update(ctx context.Context, id string, patch RegistrationPatch) error
	// Delete removes the registration by id, a no-op when absent.
	Delete(ctx context.Context, id string) error
	ClearAll(ctx context.Context) error
}

// SequenceStore allocates daily queue sequence numbers. Next must be
// atomic: two concurrent calls for the same day never observe the same
// value.
type SequenceStore interface {
	Next(ctx context.Context, day time.Time) (int, error)
}
