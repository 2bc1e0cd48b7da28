package model

import (
	"time"
)

// Booking is a request for a room slot. It enters the admission pipeline as a
// candidate (empty ID) and receives its ID and CreatedAt only when committed.
type Booking struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	UserID     string    `json:"user_id" bson:"user_id" validate:"required,min=1,max=64"`
	ResourceID string    `json:"resource_id" bson:"resource_id" validate:"required,min=1,max=64"`
	StartTime  time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" bson:"end_time" validate:"required"`
	CreatedAt  time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

func (b *Booking) Window() TimeWindow {
	return TimeWindow{Start: b.StartTime, End: b.EndTime}
}

func (b *Booking) Committed() bool {
	return b.ID != ""
}
