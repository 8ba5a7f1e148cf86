// Package kvstore provides string key-value storage backends with the semantics
// of browser local storage: synchronous get/set/remove of serialized strings,
// no transactions, and last write wins.
package kvstore

import (
	"context"
	"errors"
)

// Keys used by the profile manager.
const (
	KeyProfiles        = "user_profiles"
	KeyActiveProfileID = "active_profile_id"
	KeyLegacyProfile   = "user_profile"
)

var (
	// ErrQuotaExceeded is returned by Set when the backend has no room for the value.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrClosed is returned when a backend is used after Close.
	ErrClosed = errors.New("store closed")
)

// Store is a string key-value store. A missing key is reported with ok == false,
// never as an error. Removing a missing key is a no-op.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// IsQuotaExceeded reports whether err signals that the backend is full.
func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}
