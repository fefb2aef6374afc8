package model

import "time"

// Registration records that a user holds a seat for an event.
// The composite unique index on (event_id, user_id) is the storage-level
// backstop for the one-registration-per-user invariant; admission logic
// enforces it before the insert is attempted.
type Registration struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"event_id" gorm:"not null;uniqueIndex:idx_event_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_event_user"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Event Event `json:"-" gorm:"foreignKey:EventID"`
	User  User  `json:"-" gorm:"foreignKey:UserID"`
}
