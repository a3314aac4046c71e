package models

import (
	"time"

	"github.com/google/uuid"
)

// OfficerAccess is one entry in the append-only access ledger. Rows are
// never updated or deleted once written.
type OfficerAccess struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	OfficerName     string    `json:"officer_name" gorm:"not null"`
	BadgeNumber     string    `json:"badge_number" gorm:"not null"`
	Timestamp       time.Time `json:"timestamp" gorm:"index"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	Address         *string   `json:"address"`
	DocumentsViewed []string  `json:"documents_viewed" gorm:"serializer:json"`
}

func (OfficerAccess) TableName() string { return "access_logs" }
