package models

import (
	"time"

	"github.com/google/uuid"
)

// FailedAttempt records one failed PIN entry. Immutable once written.
type FailedAttempt struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	HasPhoto  bool      `json:"has_photo" gorm:"default:false"`
}

// IntruderPhoto holds the captured photo for a failed attempt. Kept in its
// own table so the failed_attempts rows stay small.
type IntruderPhoto struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AttemptID   uuid.UUID `json:"attempt_id" gorm:"type:uuid;index;not null"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	Timestamp   time.Time `json:"timestamp"`
	PhotoBase64 string    `json:"photo_base64" gorm:"type:text"`
}
