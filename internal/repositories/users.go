package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/securefold/server/internal/models"
	"gorm.io/gorm"
)

// ErrEmailTaken is returned when a signup email is already registered.
var ErrEmailTaken = errors.New("email already registered")

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create registers a new user. Emails are normalized to lowercase before
// both the duplicate check and the insert, so lookups never depend on the
// caller's casing.
func (s *UserStore) Create(ctx context.Context, email, pinHash string) (*models.User, error) {
	email = NormalizeEmail(email)

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case errors.Is(err, gorm.ErrRecordNotFound):
		// new user
	default:
		return nil, err
	}

	user := models.User{
		ID:        uuid.New(),
		Email:     email,
		PinHash:   pinHash,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePinHash replaces the stored PIN digest.
func (s *UserStore) UpdatePinHash(ctx context.Context, id uuid.UUID, pinHash string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("pin_hash", pinHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// NormalizeEmail is the single normalization applied at write and read time.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
