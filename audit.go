package authkit

import (
	"context"
	"io"
	"time"

	internalaudit "github.com/fieldform/authkit/internal/audit"
)

const (
	auditEventLoginSuccess      = "login_success"
	auditEventLoginFailure      = "login_failure"
	auditEventSignupSuccess     = "signup_success"
	auditEventSignupFailure     = "signup_failure"
	auditEventRefreshSuccess    = "refresh_success"
	auditEventRefreshFailure    = "refresh_failure"
	auditEventRefreshSuperseded = "refresh_superseded"
	auditEventLogout            = "logout"
	auditEventForcedLogout      = "forced_logout"
	auditEventRestoreSuccess    = "restore_success"
	auditEventRestoreFailure    = "restore_failure"
	auditEventRetryAfterRefresh = "retry_after_refresh"
	auditEventProfileUpdate     = "profile_update"
	auditEventFormSubmitted     = "form_submitted"
)

// AuditEvent is the public audit record emitted for session lifecycle
// operations.
type AuditEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	Email     string            `json:"email,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AuditSink receives emitted audit events.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink drops audit events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink delivers audit events over a buffered channel.
type ChannelSink struct {
	out chan AuditEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{out: make(chan AuditEvent, buffer)}
}

func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.out <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.out
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	inner *internalaudit.JSONWriterSink
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{inner: internalaudit.NewJSONWriterSink(w)}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.inner == nil {
		return
	}
	s.inner.Emit(ctx, internalEvent(event))
}

func internalEvent(event AuditEvent) internalaudit.Event {
	return internalaudit.Event{
		Timestamp: event.Timestamp,
		EventType: event.EventType,
		UserID:    event.UserID,
		Email:     event.Email,
		Success:   event.Success,
		Error:     event.Error,
		Metadata:  event.Metadata,
	}
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func publicEvent(event internalaudit.Event) AuditEvent {
	return AuditEvent{
		Timestamp: event.Timestamp,
		EventType: event.EventType,
		UserID:    event.UserID,
		Email:     event.Email,
		Success:   event.Success,
		Error:     event.Error,
		Metadata:  event.Metadata,
	}
}
