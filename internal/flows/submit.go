package flows

import (
	"context"
	"io"
	"strings"
)

// SubmitFailureKind classifies form submission failures.
type SubmitFailureKind int

const (
	SubmitFailureNone SubmitFailureKind = iota
	// SubmitFailureValidation: a required field is missing; no network call
	// was made.
	SubmitFailureValidation
	// SubmitFailureUpload: the multipart post failed.
	SubmitFailureUpload
)

// SubmitRecord is one user-submitted form. Image is optional.
type SubmitRecord struct {
	Name        string
	Email       string
	Description string
	ImageName   string
	Image       io.Reader
}

// SubmitResult reports the submission outcome; MissingFields names the
// fields that failed validation.
type SubmitResult struct {
	Failure       SubmitFailureKind
	Err           error
	MissingFields []string
}

// SubmitDeps captures form submission dependencies.
type SubmitDeps struct {
	Upload func(ctx context.Context, record SubmitRecord) error
	Warn   func(msg string, args ...any)
}

// RunSubmit validates required fields and posts the form. Validation happens
// before any network call and never touches session state.
func RunSubmit(ctx context.Context, record SubmitRecord, deps SubmitDeps) SubmitResult {
	var missing []string
	if strings.TrimSpace(record.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(record.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(record.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return SubmitResult{Failure: SubmitFailureValidation, MissingFields: missing}
	}

	if err := deps.Upload(ctx, record); err != nil {
		return SubmitResult{Failure: SubmitFailureUpload, Err: err}
	}
	return SubmitResult{}
}
