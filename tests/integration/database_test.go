//go:build integration

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "github.com/mailhoard/mailhoard/internal/errors"
	"github.com/mailhoard/mailhoard/internal/models"
	"github.com/mailhoard/mailhoard/internal/repository"
)

// DatabaseIntegrationTestSuite tests repository operations with real PostgreSQL
type DatabaseIntegrationTestSuite struct {
	suite.Suite
	container  testcontainers.Container
	db         *gorm.DB
	listRepo   repository.ListRepository
	threadRepo repository.ThreadRepository
	msgRepo    repository.MessageRepository
	legacyRepo repository.LegacyRepository
}

// SetupSuite starts PostgreSQL container and initializes database
func (s *DatabaseIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "mailhoard_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	// Get connection details
	host, err := container.Host(ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(s.T(), err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=mailhoard_test sslmode=disable",
		host, port.Port())

	// Connect to database. FK constraints are skipped during migration
	// because threads.first_id and messages.thread_id form a cycle.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(s.T(), err)
	s.db = db

	// Run migrations
	err = db.AutoMigrate(&models.User{}, &models.EmailList{}, &models.Thread{},
		&models.Message{}, &models.Attachment{}, &models.Legacy{})
	require.NoError(s.T(), err)

	// Initialize repositories
	s.listRepo = repository.NewListRepository(db)
	s.threadRepo = repository.NewThreadRepository(db)
	s.msgRepo = repository.NewMessageRepository(db)
	s.legacyRepo = repository.NewLegacyRepository(db)
}

// TearDownSuite stops the PostgreSQL container
func (s *DatabaseIntegrationTestSuite) TearDownSuite() {
	if s.container != nil {
		s.container.Terminate(context.Background())
	}
}

// SetupTest cleans up data before each test
func (s *DatabaseIntegrationTestSuite) SetupTest() {
	s.db.Exec("TRUNCATE TABLE attachments, legacies, messages, threads, email_list_members, email_lists, users RESTART IDENTITY CASCADE")
}

// TestDatabaseIntegrationTestSuite runs the test suite
func TestDatabaseIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	suite.Run(t, new(DatabaseIntegrationTestSuite))
}

func (s *DatabaseIntegrationTestSuite) seedList(name string) *models.EmailList {
	list := &models.EmailList{Name: name, Active: true}
	require.NoError(s.T(), s.listRepo.Create(context.Background(), list))
	return list
}

func (s *DatabaseIntegrationTestSuite) seedThread() *models.Thread {
	thread := &models.Thread{Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)}
	require.NoError(s.T(), s.threadRepo.Create(context.Background(), thread))
	return thread
}

func (s *DatabaseIntegrationTestSuite) seedMessage(listID, threadID uint, msgid string, date time.Time) *models.Message {
	msg := &models.Message{
		EmailListID: listID,
		ThreadID:    threadID,
		MsgID:       msgid,
		Hashcode:    "hash-" + msgid,
		Date:        date,
	}
	require.NoError(s.T(), s.msgRepo.Create(context.Background(), msg))
	return msg
}

// ==================== List Tests ====================

func (s *DatabaseIntegrationTestSuite) TestList_CRUD() {
	ctx := context.Background()

	list := &models.EmailList{Name: "eng", Active: true, Description: "Engineering"}
	err := s.listRepo.Create(ctx, list)
	assert.NoError(s.T(), err)
	assert.NotZero(s.T(), list.ID)
	assert.NotZero(s.T(), list.CreatedAt)

	retrieved, err := s.listRepo.GetByName(ctx, "eng")
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), list.ID, retrieved.ID)

	list.Private = true
	err = s.listRepo.Update(ctx, list)
	assert.NoError(s.T(), err)

	retrieved, err = s.listRepo.GetByID(ctx, list.ID)
	assert.NoError(s.T(), err)
	assert.True(s.T(), retrieved.Private)

	err = s.listRepo.Delete(ctx, list.ID)
	assert.NoError(s.T(), err)

	_, err = s.listRepo.GetByID(ctx, list.ID)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *DatabaseIntegrationTestSuite) TestList_UniqueConstraint() {
	ctx := context.Background()

	s.seedList("unique")
	err := s.listRepo.Create(ctx, &models.EmailList{Name: "unique"})

	assert.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, apperrors.ErrDuplicateEntry)
}

func (s *DatabaseIntegrationTestSuite) TestList_MembersPreloaded() {
	ctx := context.Background()

	user := models.User{Username: "alice"}
	require.NoError(s.T(), s.db.Create(&user).Error)
	list := &models.EmailList{Name: "private-eng", Private: true, Members: []models.User{user}}
	require.NoError(s.T(), s.listRepo.Create(ctx, list))

	lists, err := s.listRepo.ListAllOrdered(ctx)
	assert.NoError(s.T(), err)
	require.Len(s.T(), lists, 1)
	require.Len(s.T(), lists[0].Members, 1)
	assert.Equal(s.T(), "alice", lists[0].Members[0].Username)
}

// ==================== Message Tests ====================

func (s *DatabaseIntegrationTestSuite) TestMessage_WithAttachments() {
	ctx := context.Background()

	list := s.seedList("eng")
	thread := s.seedThread()

	message := &models.Message{
		EmailListID: list.ID,
		ThreadID:    thread.ID,
		MsgID:       "att@example.com",
		Hashcode:    "hash-att",
		Date:        time.Now().UTC(),
	}
	attachments := []models.Attachment{
		{Name: "doc1.pdf", Filename: "doc1.pdf", ContentType: "application/pdf"},
		{Name: "image.png", Filename: "image.png", ContentType: "image/png"},
	}
	err := s.msgRepo.CreateWithAttachments(ctx, message, attachments)
	assert.NoError(s.T(), err)

	retrieved, err := s.msgRepo.GetByID(ctx, message.ID)
	assert.NoError(s.T(), err)
	assert.Len(s.T(), retrieved.Attachments, 2)

	// deleting the message removes the attachment rows with it
	err = s.msgRepo.Delete(ctx, message.ID)
	assert.NoError(s.T(), err)

	var count int64
	s.db.Model(&models.Attachment{}).Where("message_id = ?", message.ID).Count(&count)
	assert.Zero(s.T(), count)
}

func (s *DatabaseIntegrationTestSuite) TestMessage_CompositeOrderNavigation() {
	ctx := context.Background()

	list := s.seedList("eng")
	thread := s.seedThread()

	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	m1 := s.seedMessage(list.ID, thread.ID, "m1@example.com", base)
	m2 := s.seedMessage(list.ID, thread.ID, "m2@example.com", base) // date tie
	m3 := s.seedMessage(list.ID, thread.ID, "m3@example.com", base.Add(time.Minute))

	next, err := s.msgRepo.NextInList(ctx, m1)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), m2.ID, next.ID)

	next, err = s.msgRepo.NextInList(ctx, m2)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), m3.ID, next.ID)

	prev, err := s.msgRepo.PreviousInList(ctx, m3)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), m2.ID, prev.ID)

	_, err = s.msgRepo.NextInList(ctx, m3)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *DatabaseIntegrationTestSuite) TestMessage_SpamScore() {
	ctx := context.Background()

	list := s.seedList("eng")
	thread := s.seedThread()
	msg := s.seedMessage(list.ID, thread.ID, "spam@example.com", time.Now().UTC())

	err := s.msgRepo.UpdateSpamScore(ctx, msg.ID, models.FlagSpamSuspect)
	assert.NoError(s.T(), err)

	retrieved, err := s.msgRepo.GetByID(ctx, msg.ID)
	assert.NoError(s.T(), err)
	assert.True(s.T(), retrieved.Marked(models.FlagSpamSuspect))
}

// ==================== Thread Tests ====================

func (s *DatabaseIntegrationTestSuite) TestThread_FirstLifecycle() {
	ctx := context.Background()

	list := s.seedList("eng")
	thread := s.seedThread()
	msg := s.seedMessage(list.ID, thread.ID, "m1@example.com",
		time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))

	err := s.threadRepo.SetFirst(ctx, thread.ID, msg.ID, msg.Date)
	assert.NoError(s.T(), err)

	retrieved, err := s.threadRepo.GetByID(ctx, thread.ID)
	assert.NoError(s.T(), err)
	require.NotNil(s.T(), retrieved.FirstID)
	assert.Equal(s.T(), msg.ID, *retrieved.FirstID)
	assert.True(s.T(), retrieved.Date.Equal(msg.Date))

	err = s.threadRepo.ClearFirst(ctx, thread.ID)
	assert.NoError(s.T(), err)

	retrieved, err = s.threadRepo.GetByID(ctx, thread.ID)
	assert.NoError(s.T(), err)
	assert.Nil(s.T(), retrieved.FirstID)
}

func (s *DatabaseIntegrationTestSuite) TestThread_MinDateExcludesMember() {
	ctx := context.Background()

	list := s.seedList("eng")
	thread := s.seedThread()
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	m1 := s.seedMessage(list.ID, thread.ID, "m1@example.com", base)
	m2 := s.seedMessage(list.ID, thread.ID, "m2@example.com", base.Add(-time.Hour))

	earliest, err := s.msgRepo.MinDateInThread(ctx, thread.ID, 0)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), m2.ID, earliest.ID)

	earliest, err = s.msgRepo.MinDateInThread(ctx, thread.ID, m2.ID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), m1.ID, earliest.ID)
}

// ==================== Legacy Tests ====================

func (s *DatabaseIntegrationTestSuite) TestLegacy_Resolution() {
	ctx := context.Background()

	require.NoError(s.T(), s.legacyRepo.Create(ctx, &models.Legacy{
		EmailListID: "eng",
		MsgID:       "old@example.com",
		Number:      17,
	}))

	msgid, err := s.legacyRepo.GetMsgID(ctx, "eng", 17)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "old@example.com", msgid)

	_, err = s.legacyRepo.GetMsgID(ctx, "eng", 18)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}
