package errors

import (
	"errors"
	"fmt"
)

// Archive error taxonomy
var (
	// ErrUnknownList indicates the archive target list does not exist
	ErrUnknownList = errors.New("unknown email list")

	// ErrNotFound indicates a record was not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEntry indicates a unique constraint violation
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrFileIO indicates a store write or move failure
	ErrFileIO = errors.New("file storage operation failed")

	// ErrMissingFile indicates a record whose backing file is absent
	ErrMissingFile = errors.New("message file missing")

	// ErrExternalCommand indicates the membership-export notify command failed
	ErrExternalCommand = errors.New("external command failed")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")
)

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnknownList checks if the error is an unknown list error
func IsUnknownList(err error) bool {
	return errors.Is(err, ErrUnknownList)
}

// IsMissingFile checks if the error indicates an absent backing file
func IsMissingFile(err error) bool {
	return errors.Is(err, ErrMissingFile)
}

// IsFileIO checks if the error is a file storage failure
func IsFileIO(err error) bool {
	return errors.Is(err, ErrFileIO)
}
