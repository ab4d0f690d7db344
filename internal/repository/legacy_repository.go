package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/mailhoard/mailhoard/internal/errors"
	"github.com/mailhoard/mailhoard/internal/models"
)

// LegacyRepository defines the interface for legacy number lookups
type LegacyRepository interface {
	Create(ctx context.Context, legacy *models.Legacy) error
	GetMsgID(ctx context.Context, emailListID string, number int) (string, error)
}

// legacyRepository implements LegacyRepository using GORM
type legacyRepository struct {
	db *gorm.DB
}

// NewLegacyRepository creates a new LegacyRepository instance
func NewLegacyRepository(db *gorm.DB) LegacyRepository {
	return &legacyRepository{db: db}
}

// Create creates a legacy number mapping, normally only at import time
func (r *legacyRepository) Create(ctx context.Context, legacy *models.Legacy) error {
	result := r.db.WithContext(ctx).Create(legacy)
	if result.Error != nil {
		return fmt.Errorf("failed to create legacy mapping: %w", result.Error)
	}
	return nil
}

// GetMsgID resolves a historical (list, number) pair to a message-id
func (r *legacyRepository) GetMsgID(ctx context.Context, emailListID string, number int) (string, error) {
	var legacy models.Legacy
	result := r.db.WithContext(ctx).
		Where("email_list_id = ? AND number = ?", emailListID, number).
		First(&legacy)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to resolve legacy number: %w", result.Error)
	}
	return legacy.MsgID, nil
}
