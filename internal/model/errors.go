package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrMovieNotFound   = errors.New("movie not found")
	ErrUpstream        = errors.New("upstream error")
)

// UpstreamStatusError is returned when the metadata API answers with a non-200 status
type UpstreamStatusError struct {
	Path       string
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Path, e.StatusCode)
}

func (e *UpstreamStatusError) Unwrap() error {
	return ErrUpstream
}
