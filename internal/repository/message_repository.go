package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/mailhoard/mailhoard/internal/errors"
	"github.com/mailhoard/mailhoard/internal/models"
)

// MessageRepository defines the interface for message data access
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	CreateWithAttachments(ctx context.Context, message *models.Message, attachments []models.Attachment) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	GetByHash(ctx context.Context, listID uint, hash string) (*models.Message, error)
	GetByMsgIDPreferList(ctx context.Context, msgid string, listID uint) (*models.Message, error)
	Delete(ctx context.Context, id uint) error
	UpdateSpamScore(ctx context.Context, id uint, score int) error
	SetThreadPosition(ctx context.Context, id uint, order, depth int) error
	ByThread(ctx context.Context, threadID uint) ([]models.Message, error)
	MinDateInThread(ctx context.Context, threadID, excludeID uint) (*models.Message, error)
	CountInThread(ctx context.Context, threadID uint) (int64, error)
	NextInList(ctx context.Context, message *models.Message) (*models.Message, error)
	PreviousInList(ctx context.Context, message *models.Message) (*models.Message, error)
	NextInThread(ctx context.Context, message *models.Message) (*models.Message, error)
	PreviousInThread(ctx context.Context, message *models.Message) (*models.Message, error)
}

// messageRepository implements MessageRepository using GORM
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository instance
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create creates a new message record. A (list, hashcode) collision maps to
// ErrDuplicateEntry so callers can treat the race as idempotent success.
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	result := r.db.WithContext(ctx).Create(message)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return fmt.Errorf("message already archived: %w", apperrors.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create message: %w", result.Error)
	}
	return nil
}

// CreateWithAttachments creates a message with its attachments in a transaction
func (r *messageRepository) CreateWithAttachments(ctx context.Context, message *models.Message, attachments []models.Attachment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			if isDuplicateKeyError(err) {
				return fmt.Errorf("message already archived: %w", apperrors.ErrDuplicateEntry)
			}
			return fmt.Errorf("failed to create message: %w", err)
		}
		for i := range attachments {
			attachments[i].MessageID = message.ID
			if err := tx.Create(&attachments[i]).Error; err != nil {
				return fmt.Errorf("failed to create attachment: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a message by its ID with preloaded attachments
func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	result := r.db.WithContext(ctx).Preload("Attachments").First(&message, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get message by ID: %w", result.Error)
	}
	return &message, nil
}

// GetByHash retrieves the message with the given content hash within a list
func (r *messageRepository) GetByHash(ctx context.Context, listID uint, hash string) (*models.Message, error) {
	var message models.Message
	result := r.db.WithContext(ctx).
		Where("email_list_id = ? AND hashcode = ?", listID, hash).
		First(&message)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get message by hash: %w", result.Error)
	}
	return &message, nil
}

// GetByMsgIDPreferList resolves a message-id, preferring a match within the
// given list. Cross-list fallback returns the lowest primary key so the
// result is deterministic when several lists carry the same msgid.
func (r *messageRepository) GetByMsgIDPreferList(ctx context.Context, msgid string, listID uint) (*models.Message, error) {
	var message models.Message
	result := r.db.WithContext(ctx).
		Where("msg_id = ? AND email_list_id = ?", msgid, listID).
		First(&message)
	if result.Error == nil {
		return &message, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to resolve msgid: %w", result.Error)
	}

	result = r.db.WithContext(ctx).
		Where("msg_id = ?", msgid).
		Order("id").
		First(&message)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve msgid: %w", result.Error)
	}
	return &message, nil
}

// Delete removes a message record and its attachment rows
func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return fmt.Errorf("failed to delete attachments: %w", err)
		}
		result := tx.Delete(&models.Message{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete message: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

// UpdateSpamScore persists a new spam score bit-field value
func (r *messageRepository) UpdateSpamScore(ctx context.Context, id uint, score int) error {
	result := r.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).Update("spam_score", score)
	if result.Error != nil {
		return fmt.Errorf("failed to update spam score: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetThreadPosition persists a message's thread_order and thread_depth
func (r *messageRepository) SetThreadPosition(ctx context.Context, id uint, order, depth int) error {
	result := r.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).
		Updates(map[string]interface{}{"thread_order": order, "thread_depth": depth})
	if result.Error != nil {
		return fmt.Errorf("failed to set thread position: %w", result.Error)
	}
	return nil
}

// ByThread retrieves all members of a thread ordered by (date, id)
func (r *messageRepository) ByThread(ctx context.Context, threadID uint) ([]models.Message, error) {
	var messages []models.Message
	result := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("date, id").
		Find(&messages)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list thread members: %w", result.Error)
	}
	return messages, nil
}

// MinDateInThread returns the thread member with the minimum (date, id),
// excluding the given message. Used to repair a thread's first reference.
func (r *messageRepository) MinDateInThread(ctx context.Context, threadID, excludeID uint) (*models.Message, error) {
	var message models.Message
	result := r.db.WithContext(ctx).
		Where("thread_id = ? AND id <> ?", threadID, excludeID).
		Order("date, id").
		First(&message)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find minimum-date member: %w", result.Error)
	}
	return &message, nil
}

// CountInThread counts the members of a thread
func (r *messageRepository) CountInThread(ctx context.Context, threadID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Message{}).Where("thread_id = ?", threadID).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count thread members: %w", result.Error)
	}
	return count, nil
}

// NextInList returns the message in the same list with the smallest
// (date, id) strictly greater than the given message's
func (r *messageRepository) NextInList(ctx context.Context, message *models.Message) (*models.Message, error) {
	var next models.Message
	result := r.db.WithContext(ctx).
		Where("email_list_id = ?", message.EmailListID).
		Where("date > ? OR (date = ? AND id > ?)", message.Date, message.Date, message.ID).
		Order("date, id").
		First(&next)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get next in list: %w", result.Error)
	}
	return &next, nil
}

// PreviousInList returns the message in the same list with the largest
// (date, id) strictly smaller than the given message's
func (r *messageRepository) PreviousInList(ctx context.Context, message *models.Message) (*models.Message, error) {
	var prev models.Message
	result := r.db.WithContext(ctx).
		Where("email_list_id = ?", message.EmailListID).
		Where("date < ? OR (date = ? AND id < ?)", message.Date, message.Date, message.ID).
		Order("date DESC, id DESC").
		First(&prev)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get previous in list: %w", result.Error)
	}
	return &prev, nil
}

// NextInThread returns the next message in reply-tree traversal order
func (r *messageRepository) NextInThread(ctx context.Context, message *models.Message) (*models.Message, error) {
	var next models.Message
	result := r.db.WithContext(ctx).
		Where("thread_id = ? AND thread_order > ?", message.ThreadID, message.ThreadOrder).
		Order("thread_order").
		First(&next)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get next in thread: %w", result.Error)
	}
	return &next, nil
}

// PreviousInThread returns the previous message in reply-tree traversal order
func (r *messageRepository) PreviousInThread(ctx context.Context, message *models.Message) (*models.Message, error) {
	var prev models.Message
	result := r.db.WithContext(ctx).
		Where("thread_id = ? AND thread_order < ?", message.ThreadID, message.ThreadOrder).
		Order("thread_order DESC").
		First(&prev)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get previous in thread: %w", result.Error)
	}
	return &prev, nil
}
