package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProvider is returned by Registry.Get for an id nobody registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrAllSegmentsFailed is returned when every sub-fetch of a
	// multi-segment provider fails.
	ErrAllSegmentsFailed = errors.New("all segments failed")
)

// APIError is a non-2xx reply from an upstream job API.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API returned %d: %s", e.Provider, e.StatusCode, e.Body)
}
