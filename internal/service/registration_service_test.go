package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"eventhub/internal/errors"
	"eventhub/internal/model"
	"eventhub/internal/repository"
)

// fakeEventRepo is an in-memory EventRepository.
type fakeEventRepo struct {
	mu     sync.RWMutex
	nextID uint
	events map[uint]model.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uint]model.Event)}
}

func (f *fakeEventRepo) Create(ctx context.Context, event *model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	event.ID = f.nextID
	f.events[event.ID] = *event
	return nil
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id uint) (*model.Event, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	event, ok := f.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &event, nil
}

func (f *fakeEventRepo) List(ctx context.Context) ([]model.Event, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	events := make([]model.Event, 0, len(f.events))
	for id := uint(1); id <= f.nextID; id++ {
		if event, ok := f.events[id]; ok {
			events = append(events, event)
		}
	}
	return events, nil
}

// fakeRegistrationRepo is an in-memory RegistrationRepository. Its mutex only
// guards slice integrity; admission correctness must come from the service's
// per-event serialization, which is what these tests exercise.
type fakeRegistrationRepo struct {
	mu            sync.Mutex
	nextID        uint
	registrations []model.Registration
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{}
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, registration *model.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, reg := range f.registrations {
		if reg.EventID == registration.EventID && reg.UserID == registration.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	registration.ID = f.nextID
	registration.CreatedAt = time.Now()
	f.registrations = append(f.registrations, *registration)
	return nil
}

func (f *fakeRegistrationRepo) Exists(ctx context.Context, eventID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, reg := range f.registrations {
		if reg.EventID == eventID && reg.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRegistrationRepo) CountByEvent(ctx context.Context, eventID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, reg := range f.registrations {
		if reg.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRegistrationRepo) ListByEvent(ctx context.Context, eventID uint) ([]model.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var registrations []model.Registration
	for _, reg := range f.registrations {
		if reg.EventID == eventID {
			registrations = append(registrations, reg)
		}
	}
	return registrations, nil
}

func (f *fakeRegistrationRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.RegistrationRepository) error) error {
	// The insert is the last write in the admission sequence, so running fn
	// against the live store matches commit-or-nothing semantics.
	return fn(ctx, f)
}

func newTestRegistrationService(t *testing.T, maxCapacity int) (RegistrationService, uint) {
	t.Helper()
	eventRepo := newFakeEventRepo()
	event := &model.Event{
		Title:       "Go Meetup",
		Date:        time.Now().Add(24 * time.Hour),
		MaxCapacity: maxCapacity,
		EventType:   model.EventTypeOnsite,
		OwnerID:     1,
	}
	if err := eventRepo.Create(context.Background(), event); err != nil {
		t.Fatalf("create event: %v", err)
	}
	return NewRegistrationService(eventRepo, newFakeRegistrationRepo()), event.ID
}

func TestRegistrationService_EventNotFound(t *testing.T) {
	service, _ := newTestRegistrationService(t, 10)

	registration, err := service.Register(context.Background(), 999, 1)
	assert.Nil(t, registration)
	assert.ErrorIs(t, err, errors.ErrEventNotFound)

	_, err = service.ListRegistrations(context.Background(), 999)
	assert.ErrorIs(t, err, errors.ErrEventNotFound)
}

func TestRegistrationService_SingleSeatScenario(t *testing.T) {
	service, eventID := newTestRegistrationService(t, 1)
	ctx := context.Background()

	const userA, userB = 10, 20

	registration, err := service.Register(ctx, eventID, userA)
	assert.NoError(t, err)
	assert.Equal(t, eventID, registration.EventID)
	assert.Equal(t, uint(userA), registration.UserID)

	count, err := service.CountRegistrations(ctx, eventID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Same user again: duplicate, not capacity.
	_, err = service.Register(ctx, eventID, userA)
	assert.ErrorIs(t, err, errors.ErrAlreadyRegistered)

	// Different user: the seat is gone.
	_, err = service.Register(ctx, eventID, userB)
	assert.ErrorIs(t, err, errors.ErrCapacityReached)

	count, err = service.CountRegistrations(ctx, eventID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegistrationService_ConcurrentCapacityBound(t *testing.T) {
	const maxCapacity = 5
	const numRequests = 100

	service, eventID := newTestRegistrationService(t, maxCapacity)
	ctx := context.Background()

	var successCount, capacityCount, otherCount int32
	var wg sync.WaitGroup
	wg.Add(numRequests)

	for i := 0; i < numRequests; i++ {
		go func(userID uint) {
			defer wg.Done()
			_, err := service.Register(ctx, eventID, userID)
			switch {
			case err == nil:
				atomic.AddInt32(&successCount, 1)
			case err == errors.ErrCapacityReached:
				atomic.AddInt32(&capacityCount, 1)
			default:
				atomic.AddInt32(&otherCount, 1)
			}
		}(uint(i + 1))
	}
	wg.Wait()

	assert.Equal(t, int32(maxCapacity), successCount)
	assert.Equal(t, int32(numRequests-maxCapacity), capacityCount)
	assert.Equal(t, int32(0), otherCount)

	// No lost updates: the committed rows match the admission count.
	count, err := service.CountRegistrations(ctx, eventID)
	assert.NoError(t, err)
	assert.Equal(t, int64(maxCapacity), count)

	registrations, err := service.ListRegistrations(ctx, eventID)
	assert.NoError(t, err)
	assert.Len(t, registrations, maxCapacity)
}

func TestRegistrationService_ConcurrentDuplicate(t *testing.T) {
	const numRequests = 10
	const userID = 42

	service, eventID := newTestRegistrationService(t, 100)
	ctx := context.Background()

	var successCount, duplicateCount int32
	var wg sync.WaitGroup
	wg.Add(numRequests)

	for i := 0; i < numRequests; i++ {
		go func() {
			defer wg.Done()
			_, err := service.Register(ctx, eventID, userID)
			switch {
			case err == nil:
				atomic.AddInt32(&successCount, 1)
			case err == errors.ErrAlreadyRegistered:
				atomic.AddInt32(&duplicateCount, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successCount)
	assert.Equal(t, int32(numRequests-1), duplicateCount)

	count, err := service.CountRegistrations(ctx, eventID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegistrationService_CrossEventIndependence(t *testing.T) {
	eventRepo := newFakeEventRepo()
	ctx := context.Background()

	var eventIDs []uint
	for i := 0; i < 4; i++ {
		event := &model.Event{
			Title:       "Event",
			Date:        time.Now().Add(24 * time.Hour),
			MaxCapacity: 3,
			EventType:   model.EventTypeVirtual,
			OwnerID:     1,
		}
		if err := eventRepo.Create(ctx, event); err != nil {
			t.Fatalf("create event: %v", err)
		}
		eventIDs = append(eventIDs, event.ID)
	}
	service := NewRegistrationService(eventRepo, newFakeRegistrationRepo())

	// Fill every event concurrently; admission for one event must not
	// interfere with another.
	var wg sync.WaitGroup
	for _, eventID := range eventIDs {
		for user := uint(1); user <= 3; user++ {
			wg.Add(1)
			go func(eventID, userID uint) {
				defer wg.Done()
				_, err := service.Register(ctx, eventID, userID)
				assert.NoError(t, err)
			}(eventID, user)
		}
	}
	wg.Wait()

	for _, eventID := range eventIDs {
		count, err := service.CountRegistrations(ctx, eventID)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
	}
}

func TestRegistrationService_ListOrdering(t *testing.T) {
	service, eventID := newTestRegistrationService(t, 10)
	ctx := context.Background()

	for user := uint(1); user <= 5; user++ {
		_, err := service.Register(ctx, eventID, user)
		assert.NoError(t, err)
	}

	registrations, err := service.ListRegistrations(ctx, eventID)
	assert.NoError(t, err)
	assert.Len(t, registrations, 5)
	for i := 1; i < len(registrations); i++ {
		assert.Greater(t, registrations[i].ID, registrations[i-1].ID)
	}
}
