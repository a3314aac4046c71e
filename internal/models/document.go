package models

import (
	"time"

	"github.com/google/uuid"
)

// Document types accepted by the API.
const (
	DocTypeID             = "id"
	DocTypeBirthCert      = "birth_certificate"
	DocTypeDisability     = "disability"
	DocTypePermit         = "permit"
	DocTypeJobBadge       = "job_badge"
	DocTypeImmigration    = "immigration"
	DocTypeSocialSecurity = "social_security"
	DocTypeInsurance      = "insurance"
)

var validDocTypes = map[string]bool{
	DocTypeID:             true,
	DocTypeBirthCert:      true,
	DocTypeDisability:     true,
	DocTypePermit:         true,
	DocTypeJobBadge:       true,
	DocTypeImmigration:    true,
	DocTypeSocialSecurity: true,
	DocTypeInsurance:      true,
}

// IsValidDocType reports whether t is one of the recognized document types.
func IsValidDocType(t string) bool {
	return validDocTypes[t]
}

type Document struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	DocType     string    `json:"doc_type" gorm:"not null"`
	Name        string    `json:"name" gorm:"not null"`
	ImageBase64 string    `json:"image_base64" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
