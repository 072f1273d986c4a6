package domain

import (
	"errors"
	"fmt"
)

var (
	ErrPermissionDenied  = errors.New("permission denied")
	ErrDeviceUnavailable = errors.New("capture device unavailable")
	ErrNoActiveRecording = errors.New("no active recording")
	ErrRecordingNotFound = errors.New("recording not found")
	ErrUpload            = errors.New("audio upload failed")
	ErrSubmission        = errors.New("analysis submission rejected")
	ErrRemoteProcessing  = errors.New("remote processing failed")
	ErrTimeout           = errors.New("analysis timed out")
	ErrStorage           = errors.New("audio storage failed")
	ErrPersistence       = errors.New("journal persistence failed")
	ErrInvalidInput      = errors.New("invalid input")
	ErrTemporary         = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
