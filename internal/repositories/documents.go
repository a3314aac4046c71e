package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/securefold/server/internal/models"
	"gorm.io/gorm"
)

// maxDocuments caps how many documents a single listing returns.
const maxDocuments = 100

type DocumentStore struct {
	db *gorm.DB
}

func NewDocumentStore(db *gorm.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) Create(ctx context.Context, userID uuid.UUID, docType, name, imageBase64 string) (*models.Document, error) {
	now := time.Now().UTC()
	doc := models.Document{
		ID:          uuid.New(),
		UserID:      userID,
		DocType:     docType,
		Name:        name,
		ImageBase64: imageBase64,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *DocumentStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Document, error) {
	docs := make([]models.Document, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Limit(maxDocuments).
		Find(&docs).Error
	return docs, err
}

func (s *DocumentStore) ListByUserAndType(ctx context.Context, userID uuid.UUID, docType string) ([]models.Document, error) {
	docs := make([]models.Document, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND doc_type = ?", userID, docType).
		Order("created_at").
		Limit(maxDocuments).
		Find(&docs).Error
	return docs, err
}

// Delete removes a document by id. Deleting an id that does not exist
// reports ErrRecordNotFound, so a second delete of the same id fails
// rather than silently succeeding.
func (s *DocumentStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Document{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Update overwrites only the supplied fields and refreshes updated_at.
func (s *DocumentStore) Update(ctx context.Context, id uuid.UUID, name, imageBase64 *string) error {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if name != nil {
		updates["name"] = *name
	}
	if imageBase64 != nil {
		updates["image_base64"] = *imageBase64
	}

	res := s.db.WithContext(ctx).Model(&models.Document{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
