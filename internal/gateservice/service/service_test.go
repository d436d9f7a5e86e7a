package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"tanker-queue/internal/gateservice/core"
	"tanker-queue/internal/gateservice/query"
	"tanker-queue/internal/gateservice/store"
	"tanker-queue/pkg/logger"
	"tanker-queue/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type capturingPublisher struct {
	mu        sync.Mutex
	published []*models.Entry
	fail      bool
}

func (p *capturingPublisher) EntryCreated(ctx context.Context, entry *models.Entry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker unreachable")
	}
	p.published = append(p.published, entry)
	return nil
}

type failingSequenceStore struct{}

func (failingSequenceStore) Next(ctx context.Context, day time.Time) (int, error) {
	return 0, errors.New("storage unavailable")
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func entryRequest(orderNumber, truck string) *models.CreateEntryRequest {
	return &models.CreateEntryRequest{
		OrderNumber:    orderNumber,
		CompanyName:    "CaspianOil Trans",
		CustomerName:   "West Depot",
		OrderDate:      "2025-01-17",
		TruckNumber:    truck,
		DriverName:     "Arman Bekov",
		NumberOfDrums:  intPtr(12),
		AmountInLiters: floatPtr(5000),
		TankNumber:     intPtr(3),
	}
}

func newTestService(clock *fakeClock, publisher Publisher) (*GateService, *store.MemoryEntryStore, *store.MemoryVehicleRegistry) {
	entries := store.NewMemoryEntryStore()
	registry := store.NewMemoryVehicleRegistry()
	sequences := store.NewMemorySequenceStore()
	log := logger.NewLogger("gate-service-test")

	var now func() time.Time
	if clock != nil {
		now = clock.Now
	}
	return NewGateService(entries, registry, sequences, publisher, log, now), entries, registry
}

func TestGenerateQueueNumberExampleScenario(t *testing.T) {
	clock := newFakeClock(time.Date(2025, time.January, 17, 9, 0, 0, 0, time.Local))
	svc, _, _ := newTestService(clock, nil)

	first, err := svc.GenerateQueueNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Q25011701", first)

	entry, err := svc.AddEntry(ctx, entryRequest("ORD-1", "KZ 777 ABC"), "test")
	require.NoError(t, err)
	assert.Equal(t, "Q25011702", entry.QueueNumber)

	next, err := svc.GenerateQueueNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Q25011703", next)
}

func TestAddEntryUsesCallerSuppliedQueueNumber(t *testing.T) {
	clock := newFakeClock(time.Date(2025, time.January, 17, 9, 0, 0, 0, time.Local))
	svc, _, _ := newTestService(clock, nil)

	number, err := svc.GenerateQueueNumber(ctx)
	require.NoError(t, err)

	req := entryRequest("ORD-1", "KZ 777 ABC")
	req.QueueNumber = number
	entry, err := svc.AddEntry(ctx, req, "test")
	require.NoError(t, err)

	assert.Equal(t, number, entry.QueueNumber)
	assert.Equal(t, clock.Now(), entry.CreatedAt)
	assert.Equal(t, entry.CreatedAt, entry.UpdatedAt)
	assert.NotEmpty(t, entry.ID)
}

func TestAddEntryConcurrentQueueNumbersAreDistinct(t *testing.T) {
	clock := newFakeClock(time.Date(2025, time.January, 17, 9, 0, 0, 0, time.Local))
	svc, entries, _ := newTestService(clock, nil)

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddEntry(ctx, entryRequest(fmt.Sprintf("ORD-%d", i), "KZ 777 ABC"), "test")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	all, err := entries.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)

	seen := map[string]bool{}
	for _, e := range all {
		assert.False(t, seen[e.QueueNumber], "queue number %s assigned twice", e.QueueNumber)
		seen[e.QueueNumber] = true
	}
}

func TestAddEntryMonotonicSequence(t *testing.T) {
	clock := newFakeClock(time.Date(2025, time.January, 17, 9, 0, 0, 0, time.Local))
	svc, _, _ := newTestService(clock, nil)

	for i := 1; i <= 5; i++ {
		entry, err := svc.AddEntry(ctx, entryRequest(fmt.Sprintf("ORD-%d", i), "KZ 777 ABC"), "test")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("Q250117%02d", i), entry.QueueNumber)
	}
}

func TestAddEntryDayRollover(t *testing.T) {
	clock := newFakeClock(time.Date(2025, time.January, 17, 23, 59, 59, 0, time.Local))
	svc, _, _ := newTestService(clock, nil)

	late, err := svc.AddEntry(ctx, entryRequest("ORD-1", "KZ 777 ABC"), "test")
	require.NoError(t, err)
	assert.Equal(t, "Q25011701", late.QueueNumber)

	clock.Set(time.Date(2025, time.January, 18, 0, 0, 1, 0, time.Local))

	early, err := svc.AddEntry(ctx, entryRequest("ORD-2", "KZ 777 ABC"), "test")
	require.NoError(t, err)
	assert.Equal(t, "Q25011801", early.QueueNumber, "sequence restarts at 01 on the next day")
}

func TestAddEntryAcceptsRepeatedPlates(t *testing.T) {
	svc, entries, _ := newTestService(nil, nil)

	_, err := svc.AddEntry(ctx, entryRequest("ORD-1", "KZ 777 ABC"), "test")
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, entryRequest("ORD-2", "KZ 777 ABC"), "test")
	require.NoError(t, err)

	all, err := entries.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "KZ 777 ABC", all[0].TruckNumber)
	assert.Equal(t, "KZ 777 ABC", all[1].TruckNumber)
	assert.NotEqual(t, all[0].ID, all[1].ID)
}

func TestAddEntryValidationFailureWritesNothing(t *testing.T) {
	svc, entries, _ := newTestService(nil, nil)

	req := entryRequest("ORD-1", "KZ 777 ABC")
	req.TruckNumber = ""
	req.DriverName = ""
	_, err := svc.AddEntry(ctx, req, "test")

	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []string{"truck_number", "driver_name"}, ve.Fields)

	all, listErr := entries.ListAll(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, all, "no partial write on validation failure")
}

func TestAddEntryPublishesNotification(t *testing.T) {
	pub := &capturingPublisher{}
	svc, _, _ := newTestService(nil, pub)

	entry, err := svc.AddEntry(ctx, entryRequest("ORD-1", "KZ 777 ABC"), "test")
	require.NoError(t, err)

	require.Len(t, pub.published, 1)
	assert.Equal(t, entry.ID, pub.published[0].ID)
}

func TestAddEntrySucceedsWhenPublishFails(t *testing.T) {
	pub := &capturingPublisher{fail: true}
	svc, entries, _ := newTestService(nil, pub)

	entry, err := svc.AddEntry(ctx, entryRequest("ORD-1", "KZ 777 ABC"), "test")
	require.NoError(t, err, "notification delivery is fire-and-forget")
	assert.NotEmpty(t, entry.QueueNumber)

	all, err := entries.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGenerateQueueNumberStorageFailure(t *testing.T) {
	log := logger.NewLogger("gate-service-test")
	svc := NewGateService(store.NewMemoryEntryStore(), store.NewMemoryVehicleRegistry(),
		failingSequenceStore{}, nil, log, nil)

	_, err := svc.GenerateQueueNumber(ctx)
	assert.Error(t, err)

	_, err = svc.AddEntry(ctx, entryRequest("ORD-1", "KZ 777 ABC"), "test")
	assert.Error(t, err, "no entry without a queue number")
}

func TestCheckPlate(t *testing.T) {
	svc, _, _ := newTestService(nil, nil)

	result, err := svc.CheckPlate(ctx, "KZ 777 ABC")
	require.NoError(t, err)
	assert.False(t, result.Exists)
	assert.Nil(t, result.Vehicle)

	_, err = svc.AddEntry(ctx, entryRequest("ORD-1", "KZ 777 ABC"), "test")
	require.NoError(t, err)

	result, err = svc.CheckPlate(ctx, "kz 777 abc")
	require.NoError(t, err)
	assert.True(t, result.Exists)
	require.NotNil(t, result.Vehicle)
	assert.Equal(t, "KZ 777 ABC", result.Vehicle.TruckNumber)
}

func TestRegisterVehicleRejectsDuplicateCaseInsensitive(t *testing.T) {
	svc, _, registry := newTestService(nil, nil)

	_, err := svc.RegisterVehicle(ctx, &models.RegisterVehicleRequest{
		VehicleNumber: "KZ 101 AAA",
		DriverName:    "Arman Bekov",
	}, "test")
	require.NoError(t, err)

	_, err = svc.RegisterVehicle(ctx, &models.RegisterVehicleRequest{
		VehicleNumber: "kz 101 aaa",
		DriverName:    "Someone Else",
	}, "test")
	assert.ErrorIs(t, err, core.ErrDuplicateVehicle)

	all, err := registry.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "KZ 101 AAA", all[0].VehicleNumber)
}

func TestListEntriesAppliesQuery(t *testing.T) {
	clock := newFakeClock(time.Date(2025, time.January, 17, 9, 0, 0, 0, time.Local))
	svc, _, _ := newTestService(clock, nil)

	reqA := entryRequest("ORD-1", "KZ 111 AAA")
	reqA.OrderDate = "2025-01-15"
	_, err := svc.AddEntry(ctx, reqA, "test")
	require.NoError(t, err)

	reqB := entryRequest("ORD-2", "KZ 222 BBB")
	reqB.OrderDate = "2025-01-16"
	reqB.CompanyName = "SteppeFuel Logistics"
	_, err = svc.AddEntry(ctx, reqB, "test")
	require.NoError(t, err)

	got, err := svc.ListEntries(ctx, query.Params{Company: "SteppeFuel Logistics"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ORD-2", got[0].OrderNumber)

	from := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.Local)
	to := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.Local)
	got, err = svc.ListEntries(ctx, query.Params{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ORD-1", got[0].OrderNumber)
}

func TestSeedRegistryIsIdempotent(t *testing.T) {
	svc, _, registry := newTestService(nil, nil)

	created, err := svc.SeedRegistry(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, created)

	created, err = svc.SeedRegistry(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, created, "existing plates are skipped")

	all, err := registry.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
