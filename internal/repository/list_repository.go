package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/mailhoard/mailhoard/internal/errors"
	"github.com/mailhoard/mailhoard/internal/models"
)

// ListRepository defines the interface for email list data access
type ListRepository interface {
	Create(ctx context.Context, list *models.EmailList) error
	Update(ctx context.Context, list *models.EmailList) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.EmailList, error)
	GetByName(ctx context.Context, name string) (*models.EmailList, error)
	ListAllOrdered(ctx context.Context) ([]models.EmailList, error)
}

// listRepository implements ListRepository using GORM
type listRepository struct {
	db *gorm.DB
}

// NewListRepository creates a new ListRepository instance
func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepository{db: db}
}

// Create creates a new email list
func (r *listRepository) Create(ctx context.Context, list *models.EmailList) error {
	result := r.db.WithContext(ctx).Create(list)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return fmt.Errorf("list '%s' already exists: %w", list.Name, apperrors.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create list: %w", result.Error)
	}
	return nil
}

// Update saves changes to an existing email list
func (r *listRepository) Update(ctx context.Context, list *models.EmailList) error {
	result := r.db.WithContext(ctx).Save(list)
	if result.Error != nil {
		return fmt.Errorf("failed to update list: %w", result.Error)
	}
	return nil
}

// Delete removes an email list and its membership rows
func (r *listRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list := models.EmailList{ID: id}
		if err := tx.Model(&list).Association("Members").Clear(); err != nil {
			return fmt.Errorf("failed to clear list members: %w", err)
		}
		result := tx.Delete(&models.EmailList{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete list: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

// GetByID retrieves an email list by its ID
func (r *listRepository) GetByID(ctx context.Context, id uint) (*models.EmailList, error) {
	var list models.EmailList
	result := r.db.WithContext(ctx).First(&list, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get list by ID: %w", result.Error)
	}
	return &list, nil
}

// GetByName retrieves an email list by its unique name
func (r *listRepository) GetByName(ctx context.Context, name string) (*models.EmailList, error) {
	var list models.EmailList
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&list)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get list by name: %w", result.Error)
	}
	return &list, nil
}

// ListAllOrdered retrieves all email lists ordered by name with members
// preloaded, for the membership export snapshot
func (r *listRepository) ListAllOrdered(ctx context.Context) ([]models.EmailList, error) {
	var lists []models.EmailList
	result := r.db.WithContext(ctx).Preload("Members").Order("name").Find(&lists)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list email lists: %w", result.Error)
	}
	return lists, nil
}
