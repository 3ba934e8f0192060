package authkit

import (
	"context"
	"fmt"

	"github.com/fieldform/authkit/httpx"
	"github.com/fieldform/authkit/internal/flows"
	"github.com/fieldform/authkit/tokeninfo"
)

// Login exchanges credentials for a session. On success the user snapshot is
// populated and both tokens are persisted; on any failure the session is left
// (or put back) in the logged-out state.
func (s *Session) Login(ctx context.Context, creds Credentials) error {
	if s == nil {
		return ErrNotReady
	}
	if err := creds.Validate(); err != nil {
		return err
	}

	res := flows.RunLogin(ctx, creds.Email, creds.Password, s.flows.Login)
	if res.Failure != flows.LoginFailureNone {
		s.metricInc(MetricLoginFailure)
		err := s.mapAuthFailure(res.Failure, res.Err, "login")
		s.emitAudit(ctx, AuditEvent{
			EventType: auditEventLoginFailure,
			Email:     creds.Email,
			Error:     err.Error(),
		})
		return err
	}

	s.setUser(res.Profile)
	s.logTokenExpiry(res.Pair.Access)
	s.metricInc(MetricLoginSuccess)
	s.emitAudit(ctx, AuditEvent{
		EventType: auditEventLoginSuccess,
		UserID:    res.Profile.ID,
		Email:     res.Profile.Email,
		Success:   true,
	})
	return nil
}

// Signup creates an account. When the backend returns a token pair and
// auto-login is enabled, the session is established exactly as Login would;
// when the backend answers with a bare acknowledgement (or auto-login is
// off), Signup returns nil with the session still logged out.
func (s *Session) Signup(ctx context.Context, creds Credentials) error {
	if s == nil {
		return ErrNotReady
	}
	if err := creds.Validate(); err != nil {
		return err
	}

	res := flows.RunSignup(ctx, creds.Email, creds.Password, s.flows.Signup)
	if res.Failure != flows.LoginFailureNone {
		s.metricInc(MetricSignupFailure)
		err := s.mapAuthFailure(res.Failure, res.Err, "signup")
		s.emitAudit(ctx, AuditEvent{
			EventType: auditEventSignupFailure,
			Email:     creds.Email,
			Error:     err.Error(),
		})
		return err
	}

	s.metricInc(MetricSignupSuccess)
	if res.AckOnly {
		s.emitAudit(ctx, AuditEvent{
			EventType: auditEventSignupSuccess,
			Email:     creds.Email,
			Success:   true,
			Metadata:  map[string]string{"ack_only": "true"},
		})
		return nil
	}

	s.setUser(res.Profile)
	s.logTokenExpiry(res.Pair.Access)
	s.emitAudit(ctx, AuditEvent{
		EventType: auditEventSignupSuccess,
		UserID:    res.Profile.ID,
		Email:     res.Profile.Email,
		Success:   true,
	})
	return nil
}

// Logout clears the session. It always succeeds from the caller's
// perspective: memory is wiped first, store deletes are best-effort, and a
// logout while already logged out is a no-op.
func (s *Session) Logout(ctx context.Context) {
	if s == nil {
		return
	}
	email := s.currentEmail()
	userID := s.currentUserID()

	flows.RunLogout(ctx, s.flows.Logout)

	s.metricInc(MetricLogout)
	s.emitAudit(ctx, AuditEvent{
		EventType: auditEventLogout,
		UserID:    userID,
		Email:     email,
		Success:   true,
	})
}

// RefreshAuthToken exchanges the stored refresh token for a rotated pair and
// returns the new access token. Concurrent callers coalesce onto a single
// in-flight exchange and share its outcome. Any failure tears the session
// down; a caller that gets an error is logged out.
func (s *Session) RefreshAuthToken(ctx context.Context) (string, error) {
	if s == nil {
		return "", ErrNotReady
	}

	if s.refreshWaiters.Add(1) > 1 {
		s.metricInc(MetricRefreshCoalesced)
	}
	defer s.refreshWaiters.Add(-1)

	v, err, _ := s.refreshGroup.Do("refresh", func() (any, error) {
		return s.doRefresh(ctx)
	})
	if err != nil {
		return "", err
	}
	token, _ := v.(string)
	return token, nil
}

// RenewAccessToken satisfies [httpx.TokenSource]: the transport calls it when
// a request comes back 401 before resubmitting once.
func (s *Session) RenewAccessToken(ctx context.Context) (string, error) {
	token, err := s.RefreshAuthToken(ctx)
	if err != nil {
		return "", err
	}
	s.metricInc(MetricRetryAfterRefresh)
	s.emitAudit(ctx, AuditEvent{
		EventType: auditEventRetryAfterRefresh,
		Success:   true,
	})
	return token, nil
}

// doRefresh runs the single in-flight exchange. The commit closure is pinned
// to the generation observed at entry so a logout that lands mid-exchange
// supersedes the result.
func (s *Session) doRefresh(ctx context.Context) (string, error) {
	startGen := s.generation()

	deps := s.flows.Refresh
	deps.Commit = func(ctx context.Context, pair flows.TokenPair) (bool, error) {
		return s.commitPair(ctx, pair, startGen)
	}

	res := flows.RunRefresh(ctx, deps)
	switch res.Failure {
	case flows.RefreshFailureNone:
		s.logTokenExpiry(res.Pair.Access)
		s.metricInc(MetricRefreshSuccess)
		s.emitAudit(ctx, AuditEvent{
			EventType: auditEventRefreshSuccess,
			Success:   true,
		})
		return res.Pair.Access, nil

	case flows.RefreshFailureSuperseded:
		// Logout won the race. The session is already clear; do not tear it
		// down again.
		s.metricInc(MetricRefreshSuperseded)
		s.emitAudit(ctx, AuditEvent{EventType: auditEventRefreshSuperseded})
		return "", fmt.Errorf("%w: superseded by logout", ErrTokenRefresh)

	case flows.RefreshFailureNoToken:
		s.teardown(ctx)
		s.metricInc(MetricRefreshFailure)
		err := fmt.Errorf("%w: no refresh token", ErrTokenRefresh)
		s.auditRefreshFailure(ctx, err)
		return "", err

	case flows.RefreshFailureStorage, flows.RefreshFailurePersist:
		s.teardown(ctx)
		s.metricInc(MetricRefreshFailure)
		err := fmt.Errorf("%w: %w", ErrStorage, res.Err)
		s.auditRefreshFailure(ctx, err)
		return "", err

	case flows.RefreshFailureMalformed:
		s.teardown(ctx)
		s.metricInc(MetricRefreshFailure)
		err := fmt.Errorf("%w: incomplete token response", ErrTokenRefresh)
		s.auditRefreshFailure(ctx, err)
		return "", err

	default:
		s.teardown(ctx)
		s.metricInc(MetricRefreshFailure)
		err := fmt.Errorf("%w: %w", ErrTokenRefresh, res.Err)
		s.auditRefreshFailure(ctx, err)
		return "", err
	}
}

func (s *Session) auditRefreshFailure(ctx context.Context, err error) {
	s.emitAudit(ctx, AuditEvent{
		EventType: auditEventRefreshFailure,
		Error:     err.Error(),
	})
	s.emitAudit(ctx, AuditEvent{EventType: auditEventForcedLogout})
}

// persistPair writes both tokens to the store and publishes the access token
// to memory. The io lock keeps the two writes from interleaving with a
// concurrent logout's deletes.
func (s *Session) persistPair(ctx context.Context, pair flows.TokenPair) error {
	s.io.Lock()
	defer s.io.Unlock()

	if err := s.store.Set(ctx, s.config.Tokens.AccessKey, pair.Access); err != nil {
		return err
	}
	if err := s.store.Set(ctx, s.config.Tokens.RefreshKey, pair.Refresh); err != nil {
		return err
	}

	s.mu.Lock()
	s.accessToken = pair.Access
	s.mu.Unlock()
	return nil
}

// commitPair is persistPair with a generation gate: if a logout bumped the
// generation after the exchange started, the rotated pair is discarded and
// the store is left in the logged-out state the logout produced.
func (s *Session) commitPair(ctx context.Context, pair flows.TokenPair, startGen uint64) (bool, error) {
	s.io.Lock()
	defer s.io.Unlock()

	if s.generation() != startGen {
		return false, nil
	}

	if err := s.store.Set(ctx, s.config.Tokens.AccessKey, pair.Access); err != nil {
		return false, err
	}
	if err := s.store.Set(ctx, s.config.Tokens.RefreshKey, pair.Refresh); err != nil {
		return false, err
	}

	s.mu.Lock()
	if s.gen != startGen {
		// Logout landed between the store writes and publication. Its deletes
		// are queued on the io lock behind us, so the store converges to empty
		// once we release it; just do not publish.
		s.mu.Unlock()
		return false, nil
	}
	s.accessToken = pair.Access
	s.mu.Unlock()
	return true, nil
}

// teardown clears memory and best-effort deletes both stored tokens. Unlike
// Logout it emits no audit event; callers that need one emit their own.
func (s *Session) teardown(ctx context.Context) {
	s.clearMemory()
	if err := s.store.Delete(ctx, s.config.Tokens.AccessKey); err != nil && !isNotFound(err) {
		s.warn("teardown: access token delete failed", "error", err)
	}
	if err := s.store.Delete(ctx, s.config.Tokens.RefreshKey); err != nil && !isNotFound(err) {
		s.warn("teardown: refresh token delete failed", "error", err)
	}
}

// deleteStoredToken returns a flow-shaped deleter for one store key; a
// missing key is success.
func (s *Session) deleteStoredToken(key string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		s.io.Lock()
		defer s.io.Unlock()
		if err := s.store.Delete(ctx, key); err != nil && !isNotFound(err) {
			return err
		}
		return nil
	}
}

func (s *Session) loggedIn() bool {
	_, ok := s.CurrentUser()
	return ok
}

// mapAuthFailure converts a login/signup flow failure into the public error
// vocabulary. Server rejection messages are carried verbatim.
func (s *Session) mapAuthFailure(kind flows.LoginFailureKind, cause error, op string) error {
	switch kind {
	case flows.LoginFailureExchange:
		if msg := httpx.ServerMessage(cause); msg != "" {
			return fmt.Errorf("%w: %s", ErrAuth, msg)
		}
		return fmt.Errorf("%w: %s failed: %w", ErrAuth, op, cause)
	case flows.LoginFailureMalformed:
		return fmt.Errorf("%w: incomplete token response", ErrAuth)
	case flows.LoginFailurePersist:
		return fmt.Errorf("%w: %w", ErrStorage, cause)
	case flows.LoginFailureProfile:
		return fmt.Errorf("%s: fetch profile: %w", op, cause)
	default:
		return fmt.Errorf("%s failed: %w", op, cause)
	}
}

// logTokenExpiry peeks at a freshly rotated access token and logs when it is
// already near expiry. Diagnostics only; a 401 remains the sole expiry signal.
func (s *Session) logTokenExpiry(token string) {
	if !tokeninfo.ExpiresWithin(token, s.config.Tokens.ExpiryLogWindow) {
		return
	}
	if claims, err := tokeninfo.Peek(token); err == nil {
		s.logger.Debug().
			Time("expires_at", claims.ExpiresAt).
			Msg("access token close to expiry")
	}
}
