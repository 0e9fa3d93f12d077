package models

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned by stores for unknown or expired keys.
var ErrSessionNotFound = errors.New("session not found")

// Input related errors
var (
	ErrInvalidImage        = errors.New("unsupported image: upload a JPG or PNG file")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrInvalidDayCount     = fmt.Errorf("number of days must be between %d and %d", MinNumDays, MaxNumDays)
	ErrNoLandmarkData      = errors.New("no landmark identified yet")
)

// Upstream service errors
var (
	ErrEmptyModelResponse = errors.New("model returned no content")
	ErrPageNotFound       = errors.New("encyclopedia page not found")
)

type FileError struct {
	Issue string
}

func (fe FileError) Error() string {
	return fmt.Sprintf("invalid file: %v", fe.Issue)
}

func (fe FileError) Unwrap() error {
	return ErrInvalidImage
}
