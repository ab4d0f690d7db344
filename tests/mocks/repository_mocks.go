package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mailhoard/mailhoard/internal/models"
)

// MockListRepository implements repository.ListRepository
type MockListRepository struct {
	mock.Mock
}

// Create creates a new email list
func (m *MockListRepository) Create(ctx context.Context, list *models.EmailList) error {
	args := m.Called(ctx, list)
	return args.Error(0)
}

// Update saves changes to an existing email list
func (m *MockListRepository) Update(ctx context.Context, list *models.EmailList) error {
	args := m.Called(ctx, list)
	return args.Error(0)
}

// Delete removes an email list by its ID
func (m *MockListRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// GetByID retrieves an email list by its ID
func (m *MockListRepository) GetByID(ctx context.Context, id uint) (*models.EmailList, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailList), args.Error(1)
}

// GetByName retrieves an email list by its unique name
func (m *MockListRepository) GetByName(ctx context.Context, name string) (*models.EmailList, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailList), args.Error(1)
}

// ListAllOrdered retrieves all email lists ordered by name
func (m *MockListRepository) ListAllOrdered(ctx context.Context) ([]models.EmailList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EmailList), args.Error(1)
}

// MockMessageRepository implements repository.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Create creates a new message record
func (m *MockMessageRepository) Create(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// CreateWithAttachments creates a message with its attachments
func (m *MockMessageRepository) CreateWithAttachments(ctx context.Context, message *models.Message, attachments []models.Attachment) error {
	args := m.Called(ctx, message, attachments)
	return args.Error(0)
}

// GetByID retrieves a message by its ID
func (m *MockMessageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// GetByHash retrieves the message with the given content hash within a list
func (m *MockMessageRepository) GetByHash(ctx context.Context, listID uint, hash string) (*models.Message, error) {
	args := m.Called(ctx, listID, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// GetByMsgIDPreferList resolves a message-id, preferring the given list
func (m *MockMessageRepository) GetByMsgIDPreferList(ctx context.Context, msgid string, listID uint) (*models.Message, error) {
	args := m.Called(ctx, msgid, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// Delete removes a message record and its attachment rows
func (m *MockMessageRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// UpdateSpamScore persists a new spam score bit-field value
func (m *MockMessageRepository) UpdateSpamScore(ctx context.Context, id uint, score int) error {
	args := m.Called(ctx, id, score)
	return args.Error(0)
}

// SetThreadPosition persists a message's thread_order and thread_depth
func (m *MockMessageRepository) SetThreadPosition(ctx context.Context, id uint, order, depth int) error {
	args := m.Called(ctx, id, order, depth)
	return args.Error(0)
}

// ByThread retrieves all members of a thread ordered by (date, id)
func (m *MockMessageRepository) ByThread(ctx context.Context, threadID uint) ([]models.Message, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// MinDateInThread returns the remaining member with minimum (date, id)
func (m *MockMessageRepository) MinDateInThread(ctx context.Context, threadID, excludeID uint) (*models.Message, error) {
	args := m.Called(ctx, threadID, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// CountInThread counts the members of a thread
func (m *MockMessageRepository) CountInThread(ctx context.Context, threadID uint) (int64, error) {
	args := m.Called(ctx, threadID)
	return args.Get(0).(int64), args.Error(1)
}

// NextInList returns the chronologically next message in the same list
func (m *MockMessageRepository) NextInList(ctx context.Context, message *models.Message) (*models.Message, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// PreviousInList returns the chronologically previous message in the same list
func (m *MockMessageRepository) PreviousInList(ctx context.Context, message *models.Message) (*models.Message, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// NextInThread returns the next message in reply-tree traversal order
func (m *MockMessageRepository) NextInThread(ctx context.Context, message *models.Message) (*models.Message, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// PreviousInThread returns the previous message in reply-tree traversal order
func (m *MockMessageRepository) PreviousInThread(ctx context.Context, message *models.Message) (*models.Message, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// MockThreadRepository implements repository.ThreadRepository
type MockThreadRepository struct {
	mock.Mock
}

// Create creates a new thread
func (m *MockThreadRepository) Create(ctx context.Context, thread *models.Thread) error {
	args := m.Called(ctx, thread)
	return args.Error(0)
}

// GetByID retrieves a thread by its ID
func (m *MockThreadRepository) GetByID(ctx context.Context, id uint) (*models.Thread, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Thread), args.Error(1)
}

// SetFirst points the thread at its earliest member
func (m *MockThreadRepository) SetFirst(ctx context.Context, threadID, messageID uint, date time.Time) error {
	args := m.Called(ctx, threadID, messageID, date)
	return args.Error(0)
}

// ClearFirst unsets the thread's first reference
func (m *MockThreadRepository) ClearFirst(ctx context.Context, threadID uint) error {
	args := m.Called(ctx, threadID)
	return args.Error(0)
}

// MockLegacyRepository implements repository.LegacyRepository
type MockLegacyRepository struct {
	mock.Mock
}

// Create creates a legacy number mapping
func (m *MockLegacyRepository) Create(ctx context.Context, legacy *models.Legacy) error {
	args := m.Called(ctx, legacy)
	return args.Error(0)
}

// GetMsgID resolves a historical (list, number) pair to a message-id
func (m *MockLegacyRepository) GetMsgID(ctx context.Context, emailListID string, number int) (string, error) {
	args := m.Called(ctx, emailListID, number)
	return args.String(0), args.Error(1)
}
