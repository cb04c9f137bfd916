package storeapi

import (
	"errors"
	"fmt"
)

// ErrFetchFailure matches any collection-level upstream failure.
var ErrFetchFailure = errors.New("storeapi: fetch failure")

// FetchError describes why a collection could not be loaded.
type FetchError struct {
	Collection string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("storeapi: fetch %s: unexpected status %d", e.Collection, e.StatusCode)
	}
	return fmt.Sprintf("storeapi: fetch %s: %v", e.Collection, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrFetchFailure) match every FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailure
}
