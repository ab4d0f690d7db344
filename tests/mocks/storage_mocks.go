package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockStore implements storage.Store
type MockStore struct {
	mock.Mock
}

// Write stores raw message bytes and returns the file path
func (m *MockStore) Write(listName, hash string, data []byte) (string, error) {
	args := m.Called(listName, hash, data)
	return args.String(0), args.Error(1)
}

// Read returns the raw bytes of a stored message
func (m *MockStore) Read(listName, hash string) ([]byte, error) {
	args := m.Called(listName, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Relocate moves a message file into the named list subdirectory
func (m *MockStore) Relocate(listName, hash, subdir string) error {
	args := m.Called(listName, hash, subdir)
	return args.Error(0)
}

// Remove deletes a message file
func (m *MockStore) Remove(listName, hash string) error {
	args := m.Called(listName, hash)
	return args.Error(0)
}

// WriteAttachment stores attachment content under _attachments
func (m *MockStore) WriteAttachment(listName, filename string, data []byte) (string, error) {
	args := m.Called(listName, filename, data)
	return args.String(0), args.Error(1)
}

// WriteFailed stores raw bytes of an unarchivable message under _failed
func (m *MockStore) WriteFailed(listName, hash string, data []byte) (string, error) {
	args := m.Called(listName, hash, data)
	return args.String(0), args.Error(1)
}

// MessagePath returns the backing file path for a message
func (m *MockStore) MessagePath(listName, hash string) string {
	args := m.Called(listName, hash)
	return args.String(0)
}

// EnsureSubdir creates and returns a list subdirectory
func (m *MockStore) EnsureSubdir(listName, subdir string) (string, error) {
	args := m.Called(listName, subdir)
	return args.String(0), args.Error(1)
}
