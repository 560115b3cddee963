package service

import (
	"errors"

	"chanitec_backend/platform/apperr"
)

// DuplicateError rejects a create whose business fields match an existing quote.
type DuplicateError struct {
	ExistingID string
}

func (e *DuplicateError) Error() string {
	return "quote already exists: " + e.ExistingID
}

// storageError leaves typed errors alone and turns anything else into a 500
// carrying the driver message.
func storageError(message string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return apperr.Storage(message, err)
}
