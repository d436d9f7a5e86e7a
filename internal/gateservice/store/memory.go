package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tanker-queue/internal/gateservice/core"
	"tanker-queue/pkg/models"
)

// In-memory implementations of the store interfaces. They honor the same
// contracts as the Postgres implementations and back the unit tests.

type MemoryEntryStore struct {
	mu      sync.Mutex
	entries []*models.Entry
}

func NewMemoryEntryStore() *MemoryEntryStore {
	return &MemoryEntryStore{}
}

func (s *MemoryEntryStore) Insert(ctx context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.entries {
		if existing.QueueNumber == entry.QueueNumber {
			return core.ErrDuplicateQueueNumber
		}
	}
	clone := *entry
	s.entries = append(s.entries, &clone)
	return nil
}

func (s *MemoryEntryStore) FindByPlate(ctx context.Context, plate string) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *models.Entry
	for _, e := range s.entries {
		if !strings.EqualFold(e.TruckNumber, plate) {
			continue
		}
		if found == nil || e.CreatedAt.After(found.CreatedAt) {
			found = e
		}
	}
	if found == nil {
		return nil, nil
	}
	clone := *found
	return &clone, nil
}

func (s *MemoryEntryStore) Search(ctx context.Context, term string) ([]*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lowered := strings.ToLower(term)
	matches := []*models.Entry{}
	for _, e := range s.entries {
		if strings.Contains(strings.ToLower(e.TruckNumber), lowered) {
			clone := *e
			matches = append(matches, &clone)
		}
	}
	sortEntriesByCreatedAtDesc(matches)
	if len(matches) > 10 {
		matches = matches[:10]
	}
	return matches, nil
}

func (s *MemoryEntryStore) ListAll(ctx context.Context) ([]*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*models.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		clone := *e
		all = append(all, &clone)
	}
	sortEntriesByCreatedAtDesc(all)
	return all, nil
}

func sortEntriesByCreatedAtDesc(entries []*models.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}

type MemoryVehicleRegistry struct {
	mu   sync.Mutex
	regs []*models.Registration
}

func NewMemoryVehicleRegistry() *MemoryVehicleRegistry {
	return &MemoryVehicleRegistry{}
}

func (s *MemoryVehicleRegistry) FindByVehicleNumber(ctx context.Context, plate string) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.regs {
		if strings.EqualFold(r.VehicleNumber, plate) {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *MemoryVehicleRegistry) Create(ctx context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.regs {
		if strings.EqualFold(r.VehicleNumber, reg.VehicleNumber) {
			return core.ErrDuplicateVehicle
		}
	}
	clone := *reg
	s.regs = append(s.regs, &clone)
	return nil
}

func (s *MemoryVehicleRegistry) Search(ctx context.Context, term string) ([]*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lowered := strings.ToLower(term)
	contains := func(field string) bool {
		return strings.Contains(strings.ToLower(field), lowered)
	}

	matches := []*models.Registration{}
	for _, r := range s.regs {
		if contains(r.VehicleNumber) || contains(r.DriverName) || contains(r.DriverPhone) ||
			contains(r.CustomerName) || contains(r.CompanyName) {
			clone := *r
			matches = append(matches, &clone)
		}
	}
	sortRegistrationsByCreatedAtDesc(matches)
	return matches, nil
}

func (s *MemoryVehicleRegistry) ListAll(ctx context.Context) ([]*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*models.Registration, 0, len(s.regs))
	for _, r := range s.regs {
		clone := *r
		all = append(all, &clone)
	}
	sortRegistrationsByCreatedAtDesc(all)
	return all, nil
}

func (s *MemoryVehicleRegistry) Update(ctx context.Context, id string, patch RegistrationPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.regs {
		if r.ID != id {
			continue
		}
		apply := func(dst *string, src *string) {
			if src != nil {
				*dst = *src
			}
		}
		apply(&r.VehicleNumber, patch.VehicleNumber)
		apply(&r.DriverName, patch.DriverName)
		apply(&r.DriverPhone, patch.DriverPhone)
		apply(&r.TrailerNumber, patch.TrailerNumber)
		apply(&r.CustomerName, patch.CustomerName)
		apply(&r.CompanyName, patch.CompanyName)
		r.UpdatedAt = time.Now()
		return nil
	}
	// Missing id is a no-op success.
	return nil
}

func (s *MemoryVehicleRegistry) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.regs {
		if r.ID == id {
			s.regs = append(s.regs[:i], s.regs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryVehicleRegistry) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.regs = nil
	return nil
}

func sortRegistrationsByCreatedAtDesc(regs []*models.Registration) {
	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].CreatedAt.After(regs[j].CreatedAt)
	})
}

// MemorySequenceStore allocates sequence numbers per calendar day under a
// single mutex, mirroring the database's atomic upsert.
type MemorySequenceStore struct {
	mu   sync.Mutex
	days map[string]int
}

func NewMemorySequenceStore() *MemorySequenceStore {
	return &MemorySequenceStore{days: map[string]int{}}
}

func (s *MemorySequenceStore) Next(ctx context.Context, day time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := day.Format("2006-01-02")
	s.days[key]++
	return s.days[key], nil
}
