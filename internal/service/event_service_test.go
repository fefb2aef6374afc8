package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"eventhub/internal/errors"
	"eventhub/internal/model"
)

// MockEventRepository is a mock implementation of EventRepository.
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) FindByID(ctx context.Context, id uint) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context) ([]model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

var testImages = EventImages{
	Onsite:  "https://img.example.com/onsite.png",
	Virtual: "https://img.example.com/virtual.png",
}

func TestEventService_CreateEvent(t *testing.T) {
	date := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name          string
		ownerID       uint
		eventType     model.EventType
		setupMock     func(*MockEventRepository, *MockUserRepository)
		expectedError error
		expectedImage string
	}{
		{
			name:      "on-site event gets on-site image",
			ownerID:   1,
			eventType: model.EventTypeOnsite,
			setupMock: func(mEvent *MockEventRepository, mUser *MockUserRepository) {
				mUser.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Organizer: true}, nil)
				mEvent.On("Create", mock.Anything, mock.AnythingOfType("*model.Event")).Return(nil)
			},
			expectedImage: testImages.Onsite,
		},
		{
			name:      "virtual event gets virtual image",
			ownerID:   1,
			eventType: model.EventTypeVirtual,
			setupMock: func(mEvent *MockEventRepository, mUser *MockUserRepository) {
				mUser.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Organizer: true}, nil)
				mEvent.On("Create", mock.Anything, mock.AnythingOfType("*model.Event")).Return(nil)
			},
			expectedImage: testImages.Virtual,
		},
		{
			name:          "invalid event type",
			ownerID:       1,
			eventType:     model.EventType("hybrid"),
			setupMock:     func(mEvent *MockEventRepository, mUser *MockUserRepository) {},
			expectedError: errors.ErrInvalidEventType,
		},
		{
			name:      "owner not found",
			ownerID:   99,
			eventType: model.EventTypeOnsite,
			setupMock: func(mEvent *MockEventRepository, mUser *MockUserRepository) {
				mUser.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrOwnerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockEventRepo := new(MockEventRepository)
			mockUserRepo := new(MockUserRepository)
			tt.setupMock(mockEventRepo, mockUserRepo)

			service := NewEventService(mockEventRepo, mockUserRepo, nil, testImages)
			event, err := service.CreateEvent(context.Background(), tt.ownerID, "Go Meetup", "Talks and pizza", date, 50, tt.eventType)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, event)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, event)
				assert.Equal(t, tt.expectedImage, event.Image)
				assert.Equal(t, tt.eventType, event.EventType)
				assert.Equal(t, tt.ownerID, event.OwnerID)
				assert.Equal(t, 50, event.MaxCapacity)
			}

			mockEventRepo.AssertExpectations(t)
			mockUserRepo.AssertExpectations(t)
		})
	}
}

func TestEventService_GetEvent(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockEventRepo := new(MockEventRepository)
		mockEventRepo.On("FindByID", mock.Anything, uint(7)).Return(&model.Event{ID: 7, Title: "Workshop"}, nil)

		service := NewEventService(mockEventRepo, new(MockUserRepository), nil, testImages)
		event, err := service.GetEvent(context.Background(), 7)

		assert.NoError(t, err)
		assert.Equal(t, uint(7), event.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mockEventRepo := new(MockEventRepository)
		mockEventRepo.On("FindByID", mock.Anything, uint(8)).Return(nil, gorm.ErrRecordNotFound)

		service := NewEventService(mockEventRepo, new(MockUserRepository), nil, testImages)
		event, err := service.GetEvent(context.Background(), 8)

		assert.ErrorIs(t, err, errors.ErrEventNotFound)
		assert.Nil(t, event)
	})
}

func TestEventService_ListEvents(t *testing.T) {
	mockEventRepo := new(MockEventRepository)
	mockEventRepo.On("List", mock.Anything).Return([]model.Event{
		{ID: 1, Title: "First", Owner: model.User{Username: "alice"}},
		{ID: 2, Title: "Second", Owner: model.User{Username: "alice"}},
	}, nil)

	service := NewEventService(mockEventRepo, new(MockUserRepository), nil, testImages)
	events, err := service.ListEvents(context.Background())

	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, uint(1), events[0].ID)
	assert.Equal(t, "alice", events[0].Owner.Username)
}
