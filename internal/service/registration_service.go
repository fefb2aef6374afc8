package service

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"eventhub/internal/errors"
	"eventhub/internal/model"
	"eventhub/internal/repository"
)

// RegistrationService is the admission core. For any single event, concurrent
// Register calls are serialized so each admission decision sees the cumulative
// effect of all earlier ones; different events admit independently.
type RegistrationService interface {
	Register(ctx context.Context, eventID, userID uint) (*model.Registration, error)
	ListRegistrations(ctx context.Context, eventID uint) ([]model.Registration, error)
	CountRegistrations(ctx context.Context, eventID uint) (int64, error)
}

type registrationService struct {
	eventRepo repository.EventRepository
	regRepo   repository.RegistrationRepository
	// Mutex map for per-event admission locking
	eventMutexes sync.Map
}

// NewRegistrationService creates a new registration service.
func NewRegistrationService(eventRepo repository.EventRepository, regRepo repository.RegistrationRepository) RegistrationService {
	return &registrationService{
		eventRepo: eventRepo,
		regRepo:   regRepo,
	}
}

// getMutex returns the mutex guarding admissions for a specific event ID.
func (s *registrationService) getMutex(eventID uint) *sync.Mutex {
	value, _ := s.eventMutexes.LoadOrStore(eventID, &sync.Mutex{})
	return value.(*sync.Mutex)
}

// Register admits a user to an event. Preconditions are checked in order:
// the event must exist, the user must not already hold a registration, and
// the event must have remaining capacity. The check-then-insert sequence runs
// under the event's admission mutex inside one transaction, so either the
// registration commits whole or nothing is written.
func (s *registrationService) Register(ctx context.Context, eventID, userID uint) (*model.Registration, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}

	mutex := s.getMutex(eventID)
	mutex.Lock()
	defer mutex.Unlock()

	registration := &model.Registration{
		EventID: eventID,
		UserID:  userID,
	}

	err = s.regRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.RegistrationRepository) error {
		exists, err := txRepo.Exists(ctx, eventID, userID)
		if err != nil {
			return fmt.Errorf("check registration: %w", err)
		}
		if exists {
			return errors.ErrAlreadyRegistered
		}

		count, err := txRepo.CountByEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("count registrations: %w", err)
		}
		if count >= int64(event.MaxCapacity) {
			return errors.ErrCapacityReached
		}

		return txRepo.Create(ctx, registration)
	})
	if err != nil {
		// Unique index backstop: another process may have inserted the same
		// pair between our check and the insert.
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.ErrAlreadyRegistered
		}
		return nil, err
	}

	return registration, nil
}

// ListRegistrations returns an event's registrations in creation order.
func (s *registrationService) ListRegistrations(ctx context.Context, eventID uint) ([]model.Registration, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return s.regRepo.ListByEvent(ctx, eventID)
}

// CountRegistrations returns the number of committed registrations for an
// event at the instant of the call.
func (s *registrationService) CountRegistrations(ctx context.Context, eventID uint) (int64, error) {
	return s.regRepo.CountByEvent(ctx, eventID)
}
