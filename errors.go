package authkit

import (
	"errors"

	"github.com/fieldform/authkit/securestore"
)

var (
	// ErrNotReady is returned when a Session method is called on a nil or
	// unbuilt engine.
	ErrNotReady = errors.New("session engine not ready")
	// ErrValidation covers missing or malformed input detected before any
	// network call. Session state is never touched.
	ErrValidation = errors.New("validation failed")
	// ErrAuth covers login and signup rejections. The server's message, when
	// present, is wrapped verbatim around this sentinel.
	ErrAuth = errors.New("authentication rejected")
	// ErrTokenRefresh covers failed or malformed refresh-token exchanges.
	// It always coincides with a forced logout.
	ErrTokenRefresh = errors.New("token refresh failed")
	// ErrLoggedOut is returned by operations that require an authenticated
	// session when none exists.
	ErrLoggedOut = errors.New("not authenticated")
	// ErrProfileUpdate covers rejected profile mutations; session state is
	// untouched.
	ErrProfileUpdate = errors.New("profile update failed")
	// ErrSubmission covers rejected form submissions; session state is
	// untouched.
	ErrSubmission = errors.New("form submission failed")
	// ErrStorage covers secure-store read/write failures. In token paths it
	// is fatal to the operation and forces a logout.
	ErrStorage = errors.New("secure storage failure")
)

func isNotFound(err error) bool {
	return errors.Is(err, securestore.ErrNotFound)
}
