package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"eventhub/internal/cache"
	"eventhub/internal/errors"
	"eventhub/internal/model"
	"eventhub/internal/repository"
)

const eventCacheTTL = 5 * time.Minute

// EventImages holds the image URLs assigned to events by type.
type EventImages struct {
	Onsite  string
	Virtual string
}

// EventService handles event catalog operations. Events are immutable after
// creation, so cached reads never need invalidation.
type EventService interface {
	CreateEvent(ctx context.Context, ownerID uint, title, description string, date time.Time, maxCapacity int, eventType model.EventType) (*model.Event, error)
	GetEvent(ctx context.Context, id uint) (*model.Event, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
}

type eventService struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
	cache     *cache.Client
	images    EventImages
}

// NewEventService creates a new event service.
func NewEventService(eventRepo repository.EventRepository, userRepo repository.UserRepository, cache *cache.Client, images EventImages) EventService {
	return &eventService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		cache:     cache,
		images:    images,
	}
}

func (s *eventService) cacheKey(id uint) string {
	return fmt.Sprintf("event:%d", id)
}

// CreateEvent validates the owner and event type and publishes the event.
// The image URL is assigned from configuration based on the event type.
func (s *eventService) CreateEvent(ctx context.Context, ownerID uint, title, description string, date time.Time, maxCapacity int, eventType model.EventType) (*model.Event, error) {
	if !eventType.Valid() {
		return nil, errors.ErrInvalidEventType
	}

	if _, err := s.userRepo.FindByID(ctx, ownerID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("find owner: %w", err)
	}

	image := s.images.Virtual
	if eventType == model.EventTypeOnsite {
		image = s.images.Onsite
	}

	event := &model.Event{
		Title:       title,
		Description: description,
		Date:        date,
		Image:       image,
		MaxCapacity: maxCapacity,
		EventType:   eventType,
		OwnerID:     ownerID,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	return event, nil
}

// GetEvent retrieves an event by ID with caching.
func (s *eventService) GetEvent(ctx context.Context, id uint) (*model.Event, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Event
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}

	if payload, err := json.Marshal(event); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, eventCacheTTL)
	}

	return event, nil
}

// ListEvents returns all events in creation order with owners preloaded.
func (s *eventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.eventRepo.List(ctx)
}
