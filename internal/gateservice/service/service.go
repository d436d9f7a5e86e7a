// Package service orchestrates the gate workflows: queue number generation,
// entry ingestion, plate checks, registry management and dashboard queries.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tanker-queue/internal/gateservice/core"
	"tanker-queue/internal/gateservice/query"
	"tanker-queue/internal/gateservice/queuenum"
	"tanker-queue/internal/gateservice/store"
	"tanker-queue/internal/gateservice/validation"
	"tanker-queue/pkg/logger"
	"tanker-queue/pkg/models"

	"github.com/google/uuid"
)

// Publisher delivers fire-and-forget entry-created notifications.
type Publisher interface {
	EntryCreated(ctx context.Context, entry *models.Entry) error
}

type GateService struct {
	entries   store.EntryStore
	registry  store.VehicleRegistry
	sequences store.SequenceStore
	publisher Publisher
	validator *validation.EntryValidator
	logger    *logger.Logger
	now       func() time.Time
}

// NewGateService wires the stores together. publisher may be nil when the
// broker is not configured. now is injectable so tests can simulate day
// rollover; nil means wall clock.
func NewGateService(entries store.EntryStore, registry store.VehicleRegistry,
	sequences store.SequenceStore, publisher Publisher, log *logger.Logger,
	now func() time.Time) *GateService {
	if now == nil {
		now = time.Now
	}
	return &GateService{
		entries:   entries,
		registry:  registry,
		sequences: sequences,
		publisher: publisher,
		validator: validation.NewEntryValidator(),
		logger:    log,
		now:       now,
	}
}

// GenerateQueueNumber allocates the next daily sequence and renders it as
// Qyymmddnn. Allocation is atomic per calendar day, so concurrent callers
// always receive distinct numbers.
func (s *GateService) GenerateQueueNumber(ctx context.Context) (string, error) {
	today := s.now()
	seq, err := s.sequences.Next(ctx, today)
	if err != nil {
		return "", fmt.Errorf("failed to generate queue number: %w", err)
	}
	return queuenum.Format(today, seq), nil
}

// AddEntry validates the form, assigns a queue number when the caller did
// not bring one, persists the entry and publishes a notification. Repeated
// truck numbers are accepted: every delivery is its own entry.
func (s *GateService) AddEntry(ctx context.Context, req *models.CreateEntryRequest, requestID string) (*models.Entry, error) {
	entry, err := s.validator.ValidateEntry(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry.ID = uuid.NewString()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if entry.QueueNumber == "" {
		seq, err := s.sequences.Next(ctx, now)
		if err != nil {
			s.logger.Error(requestID, "queue_number_generation_failed", "Failed to allocate daily sequence", err)
			return nil, fmt.Errorf("failed to generate queue number: %w", err)
		}
		entry.QueueNumber = queuenum.Format(now, seq)
	}

	if err := s.entries.Insert(ctx, entry); err != nil {
		s.logger.Error(requestID, "entry_creation_failed", "Failed to insert entry", err)
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	s.logger.Debug(requestID, "entry_created", fmt.Sprintf("Entry created with queue number %s", entry.QueueNumber))

	if s.publisher != nil {
		if err := s.publisher.EntryCreated(ctx, entry); err != nil {
			// Notification is fire-and-forget; the entry is already durable.
			s.logger.Error(requestID, "notification_publish_failed", "Failed to publish entry notification", err)
		}
	}

	return entry, nil
}

// CheckPlate reports whether the delivery log already has at least one
// entry for the plate. This checks the log, not the permanent registry.
func (s *GateService) CheckPlate(ctx context.Context, plate string) (*models.CheckPlateResponse, error) {
	entry, err := s.entries.FindByPlate(ctx, plate)
	if err != nil {
		return nil, fmt.Errorf("failed to check plate: %w", err)
	}
	return &models.CheckPlateResponse{
		Exists:  entry != nil,
		Vehicle: entry,
	}, nil
}

// ListEntries returns the delivery log filtered and sorted for the
// dashboard. Zero-valued params mean "everything, newest first".
func (s *GateService) ListEntries(ctx context.Context, params query.Params) ([]*models.Entry, error) {
	entries, err := s.entries.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return query.Apply(entries, params, s.now()), nil
}

// SearchEntries is the ingestion-time autocomplete: truck numbers only,
// capped at 10 by recency.
func (s *GateService) SearchEntries(ctx context.Context, term string) ([]*models.Entry, error) {
	entries, err := s.entries.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search entries: %w", err)
	}
	return entries, nil
}

// RegisterVehicle creates a permanent registration. The vehicle number is
// globally unique, compared case-insensitively.
func (s *GateService) RegisterVehicle(ctx context.Context, req *models.RegisterVehicleRequest, requestID string) (*models.Registration, error) {
	reg, err := s.validator.ValidateRegistration(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.registry.FindByVehicleNumber(ctx, reg.VehicleNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check registration: %w", err)
	}
	if existing != nil {
		return nil, core.ErrDuplicateVehicle
	}

	now := s.now()
	reg.ID = uuid.NewString()
	reg.CreatedAt = now
	reg.UpdatedAt = now

	if err := s.registry.Create(ctx, reg); err != nil {
		s.logger.Error(requestID, "registration_failed", "Failed to create registration", err)
		if errors.Is(err, core.ErrDuplicateVehicle) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	s.logger.Debug(requestID, "vehicle_registered", fmt.Sprintf("Vehicle %s registered", reg.VehicleNumber))
	return reg, nil
}

func (s *GateService) SearchRegistry(ctx context.Context, term string) ([]*models.Registration, error) {
	regs, err := s.registry.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search registry: %w", err)
	}
	return regs, nil
}

func (s *GateService) ListRegistry(ctx context.Context) ([]*models.Registration, error) {
	regs, err := s.registry.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list registry: %w", err)
	}
	return regs, nil
}

// UpdateRegistration applies an administrative patch. A missing id is a
// no-op success.
func (s *GateService) UpdateRegistration(ctx context.Context, id string, req *models.UpdateRegistrationRequest) error {
	patch := store.RegistrationPatch{
		VehicleNumber: req.VehicleNumber,
		DriverName:    req.DriverName,
		DriverPhone:   req.DriverPhone,
		TrailerNumber: req.TrailerNumber,
		CustomerName:  req.CustomerName,
		CompanyName:   req.CompanyName,
	}
	if err := s.registry.Update(ctx, id, patch); err != nil {
		if errors.Is(err, core.ErrDuplicateVehicle) {
			return err
		}
		return fmt.Errorf("failed to update registration: %w", err)
	}
	return nil
}

func (s *GateService) DeleteRegistration(ctx context.Context, id string) error {
	if err := s.registry.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	return nil
}

func (s *GateService) ClearRegistry(ctx context.Context) error {
	if err := s.registry.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear registry: %w", err)
	}
	return nil
}

// SeedRegistry inserts a small sample fleet, skipping plates that are
// already registered.
func (s *GateService) SeedRegistry(ctx context.Context) (int, error) {
	samples := []models.RegisterVehicleRequest{
		{VehicleNumber: "KZ 101 AAA", DriverName: "Arman Bekov", DriverPhone: "+7 701 111 0101", TrailerNumber: "TR-101", CustomerName: "West Depot", CompanyName: "CaspianOil Trans"},
		{VehicleNumber: "KZ 202 BBB", DriverName: "Dmitry Orlov", DriverPhone: "+7 702 222 0202", TrailerNumber: "TR-202", CustomerName: "North Terminal", CompanyName: "SteppeFuel Logistics"},
		{VehicleNumber: "KZ 303 CCC", DriverName: "Nurlan Abiev", DriverPhone: "+7 705 333 0303", TrailerNumber: "", CustomerName: "City Fuel Hub", CompanyName: "CaspianOil Trans"},
		{VehicleNumber: "KZ 404 DDD", DriverName: "Sergey Kim", DriverPhone: "+7 707 444 0404", TrailerNumber: "TR-404", CustomerName: "East Yard", CompanyName: "AltynTanker LLP"},
	}

	created := 0
	for i := range samples {
		_, err := s.RegisterVehicle(ctx, &samples[i], "seed")
		if err != nil {
			if errors.Is(err, core.ErrDuplicateVehicle) {
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}
