package flows

import "context"

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	// ClearMemory wipes in-memory session state and bumps the session
	// generation so in-flight refreshes cannot resurrect the session.
	ClearMemory        func()
	DeleteAccessToken  func(ctx context.Context) error
	DeleteRefreshToken func(ctx context.Context) error
	Warn               func(msg string, args ...any)
}

// RunLogout clears local session state. Memory is cleared first so callers
// observe the logged-out state immediately; store deletes are best-effort and
// their failures are reported through Warn, never to the caller. A logout
// must not leave the UI stuck authenticated because a keychain write failed.
func RunLogout(ctx context.Context, deps LogoutDeps) {
	deps.ClearMemory()

	if err := deps.DeleteAccessToken(ctx); err != nil && deps.Warn != nil {
		deps.Warn("logout: access token delete failed", "error", err)
	}
	if err := deps.DeleteRefreshToken(ctx); err != nil && deps.Warn != nil {
		deps.Warn("logout: refresh token delete failed", "error", err)
	}
}
