package repository

import (
	"context"

	"gorm.io/gorm"

	"eventhub/internal/model"
)

// RegistrationRepository defines registration persistence operations. The
// check-then-insert admission sequence runs inside WithTransaction so a
// storage failure at any step leaves no partial state.
type RegistrationRepository interface {
	Create(ctx context.Context, registration *model.Registration) error
	Exists(ctx context.Context, eventID, userID uint) (bool, error)
	CountByEvent(ctx context.Context, eventID uint) (int64, error)
	ListByEvent(ctx context.Context, eventID uint) ([]model.Registration, error)
	// WithTransaction executes fn against a transactional copy of the
	// repository; fn returning an error rolls the whole transaction back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo RegistrationRepository) error) error
}

type registrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository creates a new registration repository.
func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Create(ctx context.Context, registration *model.Registration) error {
	return r.db.WithContext(ctx).Create(registration).Error
}

func (r *registrationRepository) Exists(ctx context.Context, eventID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Registration{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *registrationRepository) CountByEvent(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Registration{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

// ListByEvent returns registrations for an event in creation order with
// their users preloaded.
func (r *registrationRepository) ListByEvent(ctx context.Context, eventID uint) ([]model.Registration, error) {
	var registrations []model.Registration
	err := r.db.WithContext(ctx).Preload("User").
		Where("event_id = ?", eventID).
		Order("id asc").
		Find(&registrations).Error
	if err != nil {
		return nil, err
	}
	return registrations, nil
}

// WithTransaction executes a function within a database transaction.
func (r *registrationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo RegistrationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &registrationRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
