package model

import "time"

// EventType distinguishes on-site from virtual events.
type EventType string

const (
	EventTypeOnsite  EventType = "on-site"
	EventTypeVirtual EventType = "virtual"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	return t == EventTypeOnsite || t == EventTypeVirtual
}

// Event represents a published event with a fixed capacity.
// Events are immutable after creation.
type Event struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null;index"`
	Description string    `json:"description" gorm:"type:text"`
	Date        time.Time `json:"date" gorm:"not null"`
	Image       string    `json:"image" gorm:"size:512"`
	MaxCapacity int       `json:"max_capacity" gorm:"not null"`
	EventType   EventType `json:"event_type" gorm:"type:varchar(20);not null"`
	OwnerID     uint      `json:"owner_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Owner User `json:"-" gorm:"foreignKey:OwnerID"`
}
