package authkit

import (
	"context"
	"fmt"

	"github.com/fieldform/authkit/internal/flows"
)

// Restore re-establishes a session from persisted credentials. Call it once
// at process start; it always ends the initializing state, whatever the
// outcome. A clean logged-out start (no stored tokens) returns nil.
//
// A stored access token is treated as soft-expired: restoration rotates
// through a refresh before trusting the session, so the returned state is
// backed by tokens the server accepted moments ago.
func (s *Session) Restore(ctx context.Context) error {
	if s == nil {
		return ErrNotReady
	}
	defer s.endInitializing()

	res := flows.RunRestore(ctx, s.flows.Restore)
	switch res.Failure {
	case flows.RestoreFailureNone:
	case flows.RestoreFailureStorage:
		s.metricInc(MetricRestoreFailure)
		err := fmt.Errorf("%w: %w", ErrStorage, res.Err)
		s.emitAudit(ctx, AuditEvent{EventType: auditEventRestoreFailure, Error: err.Error()})
		return err
	case flows.RestoreFailureRefresh:
		// The refresh already tore the session down and emitted its own
		// events; restoration just reports the logged-out outcome.
		s.metricInc(MetricRestoreFailure)
		s.emitAudit(ctx, AuditEvent{EventType: auditEventRestoreFailure, Error: res.Err.Error()})
		return fmt.Errorf("restore: %w", res.Err)
	default:
		s.metricInc(MetricRestoreFailure)
		err := fmt.Errorf("restore: fetch profile: %w", res.Err)
		s.emitAudit(ctx, AuditEvent{EventType: auditEventRestoreFailure, Error: err.Error()})
		return err
	}

	if !res.LoggedIn {
		s.metricInc(MetricRestoreSkipped)
		return nil
	}

	s.setUser(res.Profile)
	s.metricInc(MetricRestoreSuccess)
	s.emitAudit(ctx, AuditEvent{
		EventType: auditEventRestoreSuccess,
		UserID:    res.Profile.ID,
		Email:     res.Profile.Email,
		Success:   true,
	})
	return nil
}

func (s *Session) endInitializing() {
	s.mu.Lock()
	changed := s.initializing
	s.initializing = false
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}
