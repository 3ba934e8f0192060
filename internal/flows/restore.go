package flows

import "context"

// RestoreFailureKind classifies startup restoration failures.
type RestoreFailureKind int

const (
	RestoreFailureNone RestoreFailureKind = iota
	// RestoreFailureStorage: the store could not be read at all.
	RestoreFailureStorage
	// RestoreFailureRefresh: the preemptive refresh was rejected; the
	// refresh flow has already torn the session down.
	RestoreFailureRefresh
	// RestoreFailureProfile: tokens were refreshed but the profile fetch
	// failed.
	RestoreFailureProfile
)

// RestoreResult reports whether a session was re-established. A clean
// logged-out start (no stored tokens) is LoggedIn=false with no failure.
type RestoreResult struct {
	Failure  RestoreFailureKind
	Err      error
	LoggedIn bool
	Profile  ProfileRecord
}

// RestoreDeps captures startup restoration dependencies.
type RestoreDeps struct {
	ReadAccessToken  func(ctx context.Context) (value string, found bool, err error)
	ReadRefreshToken func(ctx context.Context) (value string, found bool, err error)
	// Refresh is the engine's serialized refresh; on failure it has already
	// cleared the session.
	Refresh      func(ctx context.Context) (string, error)
	FetchProfile func(ctx context.Context) (ProfileRecord, error)
	// ClearSession tears everything down; used when restoration fails partway.
	ClearSession func(ctx context.Context)
	Warn         func(msg string, args ...any)
}

// RunRestore re-establishes a session from persisted credentials. The stored
// access token is treated as soft-expired: restoration always rotates through
// a refresh rather than trusting it.
func RunRestore(ctx context.Context, deps RestoreDeps) RestoreResult {
	_, accessFound, err := deps.ReadAccessToken(ctx)
	if err != nil {
		deps.ClearSession(ctx)
		return RestoreResult{Failure: RestoreFailureStorage, Err: err}
	}
	_, refreshFound, err := deps.ReadRefreshToken(ctx)
	if err != nil {
		deps.ClearSession(ctx)
		return RestoreResult{Failure: RestoreFailureStorage, Err: err}
	}

	if !accessFound || !refreshFound {
		// A lone token is a bug condition, not a valid state; heal it.
		if accessFound != refreshFound {
			if deps.Warn != nil {
				deps.Warn("restore: unpaired token in store, clearing")
			}
			deps.ClearSession(ctx)
		}
		return RestoreResult{}
	}

	if _, err := deps.Refresh(ctx); err != nil {
		return RestoreResult{Failure: RestoreFailureRefresh, Err: err}
	}

	profile, err := deps.FetchProfile(ctx)
	if err != nil {
		deps.ClearSession(ctx)
		return RestoreResult{Failure: RestoreFailureProfile, Err: err}
	}

	return RestoreResult{LoggedIn: true, Profile: profile}
}
