package flows

import "context"

// LoginFailureKind classifies login and signup failures for root-level mapping.
type LoginFailureKind int

const (
	LoginFailureNone LoginFailureKind = iota
	// LoginFailureExchange: credentials rejected or the exchange never
	// completed. No session state has been touched.
	LoginFailureExchange
	// LoginFailureMalformed: 2xx response missing either token.
	LoginFailureMalformed
	// LoginFailurePersist: tokens could not be written to the store.
	LoginFailurePersist
	// LoginFailureProfile: tokens landed but the follow-up profile fetch
	// failed. The engine clears the half-built session before surfacing.
	LoginFailureProfile
)

// LoginResult carries the issued pair and fetched profile, or failure metadata.
type LoginResult struct {
	Failure LoginFailureKind
	Err     error
	Pair    TokenPair
	Profile ProfileRecord
}

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	// Exchange trades credentials for a token pair.
	Exchange func(ctx context.Context, email, password string) (TokenPair, error)
	// Persist writes both tokens to the store and publishes the access token
	// to memory, in that order.
	Persist func(ctx context.Context, pair TokenPair) error
	// FetchProfile retrieves the canonical profile using the just-published
	// access token.
	FetchProfile func(ctx context.Context) (ProfileRecord, error)
	// Rollback tears down the partially-built session after a post-persist
	// failure.
	Rollback func(ctx context.Context)
	Warn     func(msg string, args ...any)
}

// RunLogin executes the credential exchange, token persistence, and profile
// fetch sequence.
func RunLogin(ctx context.Context, email, password string, deps LoginDeps) LoginResult {
	pair, err := deps.Exchange(ctx, email, password)
	if err != nil {
		return LoginResult{Failure: LoginFailureExchange, Err: err}
	}
	if !pair.Valid() {
		if deps.Warn != nil {
			deps.Warn("login response missing token or refreshToken")
		}
		return LoginResult{Failure: LoginFailureMalformed}
	}

	if err := deps.Persist(ctx, pair); err != nil {
		deps.Rollback(ctx)
		return LoginResult{Failure: LoginFailurePersist, Err: err}
	}

	profile, err := deps.FetchProfile(ctx)
	if err != nil {
		deps.Rollback(ctx)
		return LoginResult{Failure: LoginFailureProfile, Err: err}
	}

	return LoginResult{Pair: pair, Profile: profile}
}

// SignupDeps captures signup flow dependencies. The exchange may yield a
// token pair (auto-authenticating backends) or a bare acknowledgement.
type SignupDeps struct {
	Exchange func(ctx context.Context, email, password string) (pair TokenPair, ackOnly bool, err error)
	// AutoLogin controls whether a returned pair establishes a session
	// immediately. When false the pair is discarded and the caller performs
	// an explicit login.
	AutoLogin    bool
	Persist      func(ctx context.Context, pair TokenPair) error
	FetchProfile func(ctx context.Context) (ProfileRecord, error)
	Rollback     func(ctx context.Context)
	Warn         func(msg string, args ...any)
}

// SignupResult mirrors LoginResult; AckOnly reports that the account was
// created without establishing a session.
type SignupResult struct {
	Failure LoginFailureKind
	Err     error
	AckOnly bool
	Pair    TokenPair
	Profile ProfileRecord
}

// RunSignup executes account creation, optionally continuing into the login
// sequence when the backend auto-authenticates.
func RunSignup(ctx context.Context, email, password string, deps SignupDeps) SignupResult {
	pair, ackOnly, err := deps.Exchange(ctx, email, password)
	if err != nil {
		return SignupResult{Failure: LoginFailureExchange, Err: err}
	}
	if ackOnly || !deps.AutoLogin || !pair.Valid() {
		return SignupResult{AckOnly: true}
	}

	if err := deps.Persist(ctx, pair); err != nil {
		deps.Rollback(ctx)
		return SignupResult{Failure: LoginFailurePersist, Err: err}
	}

	profile, err := deps.FetchProfile(ctx)
	if err != nil {
		deps.Rollback(ctx)
		return SignupResult{Failure: LoginFailureProfile, Err: err}
	}

	return SignupResult{Pair: pair, Profile: profile}
}
