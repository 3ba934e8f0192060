package authkit

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fieldform/authkit/httpx"
	"github.com/fieldform/authkit/internal/flows"
)

// ProfileUpdate is a multipart profile mutation, today an avatar change plus
// optional extra form fields.
type ProfileUpdate struct {
	FileName string
	Content  io.Reader
	Fields   map[string]string
}

// FormSubmission is one user-submitted form. Name, Email, and Description are
// required; the image is optional.
type FormSubmission struct {
	Name        string
	Email       string
	Description string
	ImageName   string
	Image       io.Reader
}

// RefreshUserProfile re-fetches the canonical profile and replaces the
// in-memory snapshot wholesale. Failures are logged and swallowed: a stale
// profile is preferred over surfacing an error to the screen. Calling it
// while logged out is a no-op.
func (s *Session) RefreshUserProfile(ctx context.Context) {
	if s == nil {
		return
	}

	res := flows.RunProfileRefresh(ctx, s.flows.Profile)
	switch res.Failure {
	case flows.ProfileFailureNone, flows.ProfileFailureLoggedOut:
	default:
		s.metricInc(MetricProfileRefreshFailure)
		s.logger.Warn().Err(res.Err).Msg("profile refresh failed, keeping stale snapshot")
	}
}

// UpdateUserProfile uploads a profile mutation and merges the fields the
// server echoed back into the in-memory snapshot. Session state is untouched
// on failure.
func (s *Session) UpdateUserProfile(ctx context.Context, update ProfileUpdate) error {
	if s == nil {
		return ErrNotReady
	}

	res := flows.RunProfileUpdate(ctx, flows.ProfileUpdate{
		FileName: update.FileName,
		Content:  update.Content,
		Fields:   update.Fields,
	}, s.flows.Profile)

	switch res.Failure {
	case flows.ProfileFailureNone:
	case flows.ProfileFailureLoggedOut:
		return ErrLoggedOut
	default:
		s.metricInc(MetricProfileUpdateFailure)
		if msg := httpx.ServerMessage(res.Err); msg != "" {
			return fmt.Errorf("%w: %s", ErrProfileUpdate, msg)
		}
		return fmt.Errorf("%w: %w", ErrProfileUpdate, res.Err)
	}

	s.metricInc(MetricProfileUpdateSuccess)
	s.emitAudit(ctx, AuditEvent{
		EventType: auditEventProfileUpdate,
		Success:   true,
	})
	return nil
}

// SetProfileImage overlays a profile image URL onto the in-memory snapshot
// without a network call. Screens use it to reflect a locally picked image
// while the upload is still in flight.
func (s *Session) SetProfileImage(url string) {
	if s == nil || url == "" {
		return
	}
	s.mergeUser(flows.ProfileRecord{ProfileImageURL: url})
}

// SubmitForm posts a user form as a multipart request. Required-field
// validation happens before any network call; a rejected submission never
// mutates session state.
func (s *Session) SubmitForm(ctx context.Context, form FormSubmission) error {
	if s == nil {
		return ErrNotReady
	}

	res := flows.RunSubmit(ctx, flows.SubmitRecord{
		Name:        form.Name,
		Email:       form.Email,
		Description: form.Description,
		ImageName:   form.ImageName,
		Image:       form.Image,
	}, s.flows.Submit)

	switch res.Failure {
	case flows.SubmitFailureNone:
	case flows.SubmitFailureValidation:
		s.metricInc(MetricSubmitFailure)
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(res.MissingFields, ", "))
	default:
		s.metricInc(MetricSubmitFailure)
		if msg := httpx.ServerMessage(res.Err); msg != "" {
			return fmt.Errorf("%w: %s", ErrSubmission, msg)
		}
		return fmt.Errorf("%w: %w", ErrSubmission, res.Err)
	}

	s.metricInc(MetricSubmitSuccess)
	s.emitAudit(ctx, AuditEvent{
		EventType: auditEventFormSubmitted,
		Email:     form.Email,
		Success:   true,
	})
	return nil
}
