package securestore

import (
	"context"
	"errors"
)

// Keys the session engine uses. Embedders bringing their own Store see exactly
// these two keys and nothing else.
const (
	// KeyAccessToken holds the short-lived bearer credential.
	KeyAccessToken = "token"
	// KeyRefreshToken holds the long-lived credential used to mint new access tokens.
	KeyRefreshToken = "refreshToken"
)

// ErrNotFound is returned by Get when the key has never been set or has been
// deleted. It is a distinct condition from a storage failure.
var ErrNotFound = errors.New("securestore: key not found")

// Store is the external key-value capability the session engine persists
// credentials through. Implementations must be safe for concurrent use.
//
// Delete of an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
