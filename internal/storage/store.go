// Package storage provides the content-addressed, file-backed message store.
// Each message is one file at <root>/<listName>/<hash>, with auxiliary
// _attachments, _failed and _removed subdirectories under the list root.
package storage

import (
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/mailhoard/mailhoard/internal/errors"
	"github.com/mailhoard/mailhoard/internal/models"
)

// Directories are group-writable with setgid so multiple archiving
// processes can share the tree (mode 0o2777 equivalent).
const dirMode = os.FileMode(0o777) | os.ModeSetgid

// Store defines the interface for message file storage
type Store interface {
	Write(listName, hash string, data []byte) (string, error)
	Read(listName, hash string) ([]byte, error)
	Relocate(listName, hash, subdir string) error
	Remove(listName, hash string) error
	WriteAttachment(listName, filename string, data []byte) (string, error)
	WriteFailed(listName, hash string, data []byte) (string, error)
	MessagePath(listName, hash string) string
	EnsureSubdir(listName, subdir string) (string, error)
}

// fileStore implements Store on the local filesystem
type fileStore struct {
	root string
}

// NewFileStore creates a Store rooted at the given archive directory
func NewFileStore(root string) (Store, error) {
	if err := ensureDir(root); err != nil {
		return nil, fmt.Errorf("failed to create archive root: %w", err)
	}
	return &fileStore{root: root}, nil
}

// Hash returns the content hash used as the on-disk filename and external
// reference for a message: URL-safe base64 of the SHA-1 of the raw bytes.
func Hash(data []byte) string {
	sum := sha1.Sum(data)
	return base64.URLEncoding.EncodeToString(sum[:])
}

// ensureDir creates a directory with shared-archive permissions, tolerating
// the already-exists race between concurrent archiving processes
func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0o777); err != nil {
		return err
	}
	// MkdirAll is subject to the umask; chmod separately for setgid+rwx
	return os.Chmod(path, dirMode)
}

// MessagePath returns the backing file path for a message
func (s *fileStore) MessagePath(listName, hash string) string {
	return filepath.Join(s.root, listName, hash)
}

// EnsureSubdir creates (if absent) and returns a list subdirectory such as
// _attachments, _failed or _removed
func (s *fileStore) EnsureSubdir(listName, subdir string) (string, error) {
	path := filepath.Join(s.root, listName, subdir)
	if err := ensureDir(path); err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", apperrors.ErrFileIO, path, err)
	}
	return path, nil
}

// Write stores raw message bytes under the list's archive directory and
// returns the file path
func (s *fileStore) Write(listName, hash string, data []byte) (string, error) {
	if err := ensureDir(filepath.Join(s.root, listName)); err != nil {
		return "", fmt.Errorf("%w: creating list dir for %s: %v", apperrors.ErrFileIO, listName, err)
	}
	path := s.MessagePath(listName, hash)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: writing %s: %v", apperrors.ErrFileIO, path, err)
	}
	return path, nil
}

// Read returns the raw bytes of a stored message. A missing file is a
// recoverable condition surfaced as ErrMissingFile.
func (s *fileStore) Read(listName, hash string) ([]byte, error) {
	path := s.MessagePath(listName, hash)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrMissingFile, path)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", apperrors.ErrFileIO, path, err)
	}
	return data, nil
}

// Relocate moves a message file into the named list subdirectory. The move
// is a single rename so there is no window where neither location has the
// file. The destination directory is created first if absent.
func (s *fileStore) Relocate(listName, hash, subdir string) error {
	src := s.MessagePath(listName, hash)
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", apperrors.ErrMissingFile, src)
		}
		return fmt.Errorf("%w: stat %s: %v", apperrors.ErrFileIO, src, err)
	}
	dir, err := s.EnsureSubdir(listName, subdir)
	if err != nil {
		return err
	}
	dst := filepath.Join(dir, hash)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("%w: moving %s to %s: %v", apperrors.ErrFileIO, src, dst, err)
	}
	return nil
}

// Remove deletes a message file. Used to compensate a failed record write;
// an already-absent file is not an error.
func (s *fileStore) Remove(listName, hash string) error {
	path := s.MessagePath(listName, hash)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: removing %s: %v", apperrors.ErrFileIO, path, err)
	}
	return nil
}

// WriteAttachment stores attachment content under the list's _attachments
// directory and returns the file path
func (s *fileStore) WriteAttachment(listName, filename string, data []byte) (string, error) {
	dir, err := s.EnsureSubdir(listName, models.AttachmentsSubdir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: writing attachment %s: %v", apperrors.ErrFileIO, path, err)
	}
	return path, nil
}

// WriteFailed stores raw bytes of a message that could not be archived
// under the list's _failed directory
func (s *fileStore) WriteFailed(listName, hash string, data []byte) (string, error) {
	dir, err := s.EnsureSubdir(listName, models.FailedSubdir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, hash)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: writing failed message %s: %v", apperrors.ErrFileIO, path, err)
	}
	return path, nil
}
