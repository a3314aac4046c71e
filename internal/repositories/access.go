package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/securefold/server/internal/models"
	"gorm.io/gorm"
)

// Listing caps for the ledger endpoints.
const (
	maxAccessLogs     = 1000
	maxFailedAttempts = 100
)

// AccessStore is the append-only ledger of officer accesses and failed PIN
// attempts. It exposes no update or delete operations.
type AccessStore struct {
	db *gorm.DB
}

func NewAccessStore(db *gorm.DB) *AccessStore {
	return &AccessStore{db: db}
}

type AccessEntry struct {
	UserID          uuid.UUID
	OfficerName     string
	BadgeNumber     string
	Latitude        *float64
	Longitude       *float64
	Address         *string
	DocumentsViewed []string
}

func (s *AccessStore) LogAccess(ctx context.Context, entry AccessEntry) (*models.OfficerAccess, error) {
	documentsViewed := entry.DocumentsViewed
	if documentsViewed == nil {
		documentsViewed = []string{}
	}
	rec := models.OfficerAccess{
		ID:              uuid.New(),
		UserID:          entry.UserID,
		OfficerName:     entry.OfficerName,
		BadgeNumber:     entry.BadgeNumber,
		Timestamp:       time.Now().UTC(),
		Latitude:        entry.Latitude,
		Longitude:       entry.Longitude,
		Address:         entry.Address,
		DocumentsViewed: documentsViewed,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *AccessStore) ListAccess(ctx context.Context, userID uuid.UUID) ([]models.OfficerAccess, error) {
	logs := make([]models.OfficerAccess, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(maxAccessLogs).
		Find(&logs).Error
	return logs, err
}

func (s *AccessStore) LogFailedAttempt(ctx context.Context, userID uuid.UUID, latitude, longitude *float64, hasPhoto bool) (*models.FailedAttempt, error) {
	attempt := models.FailedAttempt{
		ID:        uuid.New(),
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Latitude:  latitude,
		Longitude: longitude,
		HasPhoto:  hasPhoto,
	}
	if err := s.db.WithContext(ctx).Create(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (s *AccessStore) ListFailedAttempts(ctx context.Context, userID uuid.UUID) ([]models.FailedAttempt, error) {
	attempts := make([]models.FailedAttempt, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(maxFailedAttempts).
		Find(&attempts).Error
	return attempts, err
}

// SavePhoto stores a captured photo linked to its failed attempt.
func (s *AccessStore) SavePhoto(ctx context.Context, attemptID, userID uuid.UUID, photoBase64 string) (*models.IntruderPhoto, error) {
	photo := models.IntruderPhoto{
		ID:          uuid.New(),
		AttemptID:   attemptID,
		UserID:      userID,
		Timestamp:   time.Now().UTC(),
		PhotoBase64: photoBase64,
	}
	if err := s.db.WithContext(ctx).Create(&photo).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}
