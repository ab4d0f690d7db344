package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	apperrors "github.com/mailhoard/mailhoard/internal/errors"
	"github.com/mailhoard/mailhoard/internal/models"
)

// ThreadRepositoryTestSuite is the test suite for ThreadRepository
type ThreadRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo ThreadRepository
}

func (s *ThreadRepositoryTestSuite) SetupSuite() {
	s.db = openTestDB(s.T())
	s.repo = NewThreadRepository(s.db)
}

func (s *ThreadRepositoryTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM messages")
	s.db.Exec("DELETE FROM threads")
	s.db.Exec("DELETE FROM email_lists")
}

func TestThreadRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ThreadRepositoryTestSuite))
}

func (s *ThreadRepositoryTestSuite) TestCreateStartsEmpty() {
	thread := &models.Thread{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(s.T(), s.repo.Create(context.Background(), thread))
	assert.NotZero(s.T(), thread.ID)
	assert.False(s.T(), thread.Established())
}

func (s *ThreadRepositoryTestSuite) TestSetFirstMirrorsDate() {
	thread := &models.Thread{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(s.T(), s.repo.Create(context.Background(), thread))

	list := models.EmailList{Name: "eng"}
	require.NoError(s.T(), s.db.Create(&list).Error)
	msg := models.Message{
		EmailListID: list.ID,
		ThreadID:    thread.ID,
		MsgID:       "m1@example.com",
		Hashcode:    "hash-m1",
		Date:        time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(s.T(), s.db.Create(&msg).Error)

	require.NoError(s.T(), s.repo.SetFirst(context.Background(), thread.ID, msg.ID, msg.Date))

	got, err := s.repo.GetByID(context.Background(), thread.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got.FirstID)
	assert.Equal(s.T(), msg.ID, *got.FirstID)
	assert.True(s.T(), got.Date.Equal(msg.Date))
	assert.True(s.T(), got.Established())
}

func (s *ThreadRepositoryTestSuite) TestSetFirstMissingThread() {
	err := s.repo.SetFirst(context.Background(), 9999, 1, time.Now().UTC())
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *ThreadRepositoryTestSuite) TestClearFirst() {
	thread := &models.Thread{Date: time.Now().UTC()}
	require.NoError(s.T(), s.repo.Create(context.Background(), thread))
	require.NoError(s.T(), s.repo.SetFirst(context.Background(), thread.ID, 42, thread.Date))

	require.NoError(s.T(), s.repo.ClearFirst(context.Background(), thread.ID))

	got, err := s.repo.GetByID(context.Background(), thread.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), got.FirstID)
	assert.False(s.T(), got.Established())
}

func (s *ThreadRepositoryTestSuite) TestGetByIDMissing() {
	_, err := s.repo.GetByID(context.Background(), 9999)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}
