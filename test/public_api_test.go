package test

import (
	"context"
	"testing"

	authkit "github.com/fieldform/authkit"
	"github.com/fieldform/authkit/securestore"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = authkit.New

	var _ *authkit.Session
	var _ authkit.Config
	var _ authkit.Credentials
	var _ authkit.User
	var _ authkit.State
	var _ authkit.ChangeListener
	var _ authkit.ProfileUpdate
	var _ authkit.FormSubmission
	var _ authkit.AuditSink
	var _ authkit.AuditEvent
	var _ authkit.MetricsSnapshot

	var _ error = authkit.ErrValidation
	var _ error = authkit.ErrAuth
	var _ error = authkit.ErrTokenRefresh
	var _ error = authkit.ErrLoggedOut
	var _ error = authkit.ErrProfileUpdate
	var _ error = authkit.ErrSubmission
	var _ error = authkit.ErrStorage

	var _ securestore.Store = securestore.NewMemory()
	var _ func(string, string) (*securestore.File, error) = securestore.NewFile

	var _ func(*authkit.Session, context.Context, authkit.Credentials) error = (*authkit.Session).Login
	var _ func(*authkit.Session, context.Context, authkit.Credentials) error = (*authkit.Session).Signup
	var _ func(*authkit.Session, context.Context) = (*authkit.Session).Logout
	var _ func(*authkit.Session, context.Context) (string, error) = (*authkit.Session).RefreshAuthToken
	var _ func(*authkit.Session, context.Context) error = (*authkit.Session).Restore
	var _ func(*authkit.Session, context.Context) = (*authkit.Session).RefreshUserProfile
	var _ func(*authkit.Session, context.Context, authkit.ProfileUpdate) error = (*authkit.Session).UpdateUserProfile
	var _ func(*authkit.Session, context.Context, authkit.FormSubmission) error = (*authkit.Session).SubmitForm
	var _ func(*authkit.Session) (authkit.User, bool) = (*authkit.Session).CurrentUser
}
