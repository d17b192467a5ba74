package model

import "errors"

// Reasons a table can be missing.
var (
	ErrFetchFailed  = errors.New("fetch failed")
	ErrNoRows       = errors.New("no rows in range")
	ErrInvalidRange = errors.New("invalid date range")
	ErrNotFetched   = errors.New("not fetched")
)

// Maybe holds a value or the reason it is missing.
// The zero value is missing with ErrNotFetched.
type Maybe[T any] struct {
	value   T
	present bool
	reason  error
}

// Present wraps an available value.
func Present[T any](v T) Maybe[T] {
	return Maybe[T]{value: v, present: true}
}

// Missing records why no value is available.
func Missing[T any](reason error) Maybe[T] {
	if reason == nil {
		reason = ErrNotFetched
	}
	return Maybe[T]{reason: reason}
}

func (m Maybe[T]) Get() (T, bool) { return m.value, m.present }

func (m Maybe[T]) IsPresent() bool { return m.present }

// Reason is nil for a present value.
func (m Maybe[T]) Reason() error {
	if m.present {
		return nil
	}
	if m.reason == nil {
		return ErrNotFetched
	}
	return m.reason
}
