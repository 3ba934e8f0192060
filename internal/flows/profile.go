package flows

import (
	"context"
	"io"
)

// ProfileFailureKind classifies profile operation failures.
type ProfileFailureKind int

const (
	ProfileFailureNone ProfileFailureKind = iota
	// ProfileFailureFetch: the canonical profile could not be re-fetched.
	ProfileFailureFetch
	// ProfileFailureUpload: the multipart update was rejected.
	ProfileFailureUpload
	// ProfileFailureLoggedOut: no session to operate on.
	ProfileFailureLoggedOut
)

// ProfileResult carries the refreshed or merged profile, or failure metadata.
type ProfileResult struct {
	Failure ProfileFailureKind
	Err     error
	Profile ProfileRecord
}

// ProfileUpdate is a multipart profile mutation, today an avatar change.
type ProfileUpdate struct {
	FileName string
	Content  io.Reader
	Fields   map[string]string
}

// ProfileDeps captures profile flow dependencies.
type ProfileDeps struct {
	LoggedIn func() bool
	Fetch    func(ctx context.Context) (ProfileRecord, error)
	// Upload posts the multipart payload and returns whatever fields the
	// server echoed back; empty fields are left unmerged.
	Upload func(ctx context.Context, update ProfileUpdate) (ProfileRecord, error)
	// Replace swaps the in-memory profile wholesale.
	Replace func(profile ProfileRecord)
	// Merge overlays non-empty returned fields onto the in-memory profile.
	Merge func(profile ProfileRecord)
	Warn  func(msg string, args ...any)
}

// RunProfileRefresh re-fetches the canonical profile and replaces the
// in-memory snapshot wholesale.
func RunProfileRefresh(ctx context.Context, deps ProfileDeps) ProfileResult {
	if !deps.LoggedIn() {
		return ProfileResult{Failure: ProfileFailureLoggedOut}
	}
	profile, err := deps.Fetch(ctx)
	if err != nil {
		return ProfileResult{Failure: ProfileFailureFetch, Err: err}
	}
	deps.Replace(profile)
	return ProfileResult{Profile: profile}
}

// RunProfileUpdate uploads the mutation and merges the server's response
// into the in-memory profile. Session state is never touched on failure.
func RunProfileUpdate(ctx context.Context, update ProfileUpdate, deps ProfileDeps) ProfileResult {
	if !deps.LoggedIn() {
		return ProfileResult{Failure: ProfileFailureLoggedOut}
	}
	returned, err := deps.Upload(ctx, update)
	if err != nil {
		return ProfileResult{Failure: ProfileFailureUpload, Err: err}
	}
	deps.Merge(returned)
	return ProfileResult{Profile: returned}
}
