package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/mailhoard/mailhoard/internal/errors"
	"github.com/mailhoard/mailhoard/internal/models"
)

// ThreadRepository defines the interface for thread data access
type ThreadRepository interface {
	Create(ctx context.Context, thread *models.Thread) error
	GetByID(ctx context.Context, id uint) (*models.Thread, error)
	SetFirst(ctx context.Context, threadID, messageID uint, date time.Time) error
	ClearFirst(ctx context.Context, threadID uint) error
}

// threadRepository implements ThreadRepository using GORM
type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository creates a new ThreadRepository instance
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

// Create creates a new thread
func (r *threadRepository) Create(ctx context.Context, thread *models.Thread) error {
	result := r.db.WithContext(ctx).Create(thread)
	if result.Error != nil {
		return fmt.Errorf("failed to create thread: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a thread by its ID
func (r *threadRepository) GetByID(ctx context.Context, id uint) (*models.Thread, error) {
	var thread models.Thread
	result := r.db.WithContext(ctx).First(&thread, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get thread by ID: %w", result.Error)
	}
	return &thread, nil
}

// SetFirst points the thread at its earliest member and mirrors that
// message's date onto the thread
func (r *threadRepository) SetFirst(ctx context.Context, threadID, messageID uint, date time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Thread{}).Where("id = ?", threadID).
		Updates(map[string]interface{}{"first_id": messageID, "date": date})
	if result.Error != nil {
		return fmt.Errorf("failed to set thread first: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ClearFirst unsets the thread's first reference, moving it to the empty
// state. The orphaned row stays but is excluded from queries.
func (r *threadRepository) ClearFirst(ctx context.Context, threadID uint) error {
	result := r.db.WithContext(ctx).Model(&models.Thread{}).Where("id = ?", threadID).
		Update("first_id", nil)
	if result.Error != nil {
		return fmt.Errorf("failed to clear thread first: %w", result.Error)
	}
	return nil
}
