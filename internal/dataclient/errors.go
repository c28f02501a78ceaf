package dataclient

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an id-matched write touches no row.
var ErrNotFound = errors.New("record not found")

// APIError carries the backend's HTTP status and message. Handlers log it and
// answer users with a generic message; the raw text never reaches a response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// FetchError is a failed read round trip.
type FetchError struct {
	Table string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Table, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// InsertError is a failed insert round trip.
type InsertError struct {
	Table string
	Err   error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("insert into %s: %v", e.Table, e.Err)
}

func (e *InsertError) Unwrap() error { return e.Err }

// UpdateError is a failed or unmatched update round trip.
type UpdateError struct {
	Table string
	Err   error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("update %s: %v", e.Table, e.Err)
}

func (e *UpdateError) Unwrap() error { return e.Err }

// DeleteError is a failed delete round trip.
type DeleteError struct {
	Table string
	Err   error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete from %s: %v", e.Table, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }
