package models

import (
	"errors"
	"fmt"
)

// ErrFetchFailed is the single failure kind of a refresh: one of the joint
// source fetches failed and the refresh was abandoned.
var ErrFetchFailed = errors.New("fetch failed")

// ErrNoSnapshot indicates no refresh has succeeded yet.
var ErrNoSnapshot = errors.New("no timeline snapshot yet")

// ErrSearchTooLong indicates the search term exceeds MaxSearchLength.
var ErrSearchTooLong = fmt.Errorf("search exceeds maximum length of %d", MaxSearchLength)

// ErrUnknownSelector indicates a category or type selector outside the closed sets.
var ErrUnknownSelector = errors.New("unknown filter selector")

// FetchError records which collection failed during a joint fetch.
type FetchError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: fetching %s: %v", ErrFetchFailed, e.Source, e.Err)
}

// Unwrap exposes both the sentinel and the cause to errors.Is/As.
func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailed, e.Err}
}
