package flows

import "context"

// RefreshFailureKind classifies refresh flow failures for root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	// RefreshFailureNoToken: no refresh token in the store. The session is
	// torn down without any network call.
	RefreshFailureNoToken
	// RefreshFailureStorage: the store read itself failed.
	RefreshFailureStorage
	// RefreshFailureExchange: the server rejected the refresh token or the
	// exchange never completed.
	RefreshFailureExchange
	// RefreshFailureMalformed: the server answered 2xx but the pair is
	// incomplete.
	RefreshFailureMalformed
	// RefreshFailurePersist: the rotated pair could not be written back.
	RefreshFailurePersist
	// RefreshFailureSuperseded: a logout resolved while the exchange was in
	// flight; the rotated pair was discarded so the logout wins.
	RefreshFailureSuperseded
)

// RefreshResult carries either the rotated token pair or failure metadata.
type RefreshResult struct {
	Failure RefreshFailureKind
	Err     error
	Pair    TokenPair
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	// ReadRefreshToken reports the stored refresh token, or found=false when
	// the key is absent.
	ReadRefreshToken func(ctx context.Context) (value string, found bool, err error)
	// Exchange trades the refresh token for a rotated pair server-side.
	Exchange func(ctx context.Context, refreshToken string) (TokenPair, error)
	// Commit persists the rotated pair and publishes the access token to
	// memory atomically with respect to logout. It reports committed=false
	// when a concurrent logout superseded this refresh.
	Commit func(ctx context.Context, pair TokenPair) (committed bool, err error)
	Warn   func(msg string, args ...any)
}

// RunRefresh executes one refresh-token exchange. Serialization of
// concurrent callers is the engine's job; by the time this flow runs it is
// the single in-flight refresh.
func RunRefresh(ctx context.Context, deps RefreshDeps) RefreshResult {
	stored, found, err := deps.ReadRefreshToken(ctx)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureStorage, Err: err}
	}
	if !found {
		return RefreshResult{Failure: RefreshFailureNoToken}
	}

	pair, err := deps.Exchange(ctx, stored)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureExchange, Err: err}
	}
	if !pair.Valid() {
		if deps.Warn != nil {
			deps.Warn("refresh response missing token or refreshToken")
		}
		return RefreshResult{Failure: RefreshFailureMalformed}
	}

	committed, err := deps.Commit(ctx, pair)
	if err != nil {
		return RefreshResult{Failure: RefreshFailurePersist, Err: err}
	}
	if !committed {
		return RefreshResult{Failure: RefreshFailureSuperseded}
	}

	return RefreshResult{Pair: pair}
}
