// Package authkit is a client-side session and token lifecycle manager for
// bearer-token REST backends.
//
// It owns the credential state of one user session: login/signup/logout,
// secure persistence of the access/refresh token pair, transparent refresh on
// HTTP 401 with a single retry of the original request, startup session
// restoration, and profile synchronization.
//
// The package is designed for concurrent callers: [Session] methods are safe
// to call from multiple goroutines after initialization through
// [Builder.Build]. Concurrent requests that observe a 401 converge on a
// single refresh-token exchange; they never race each other into invalidating
// the session.
//
// # Architecture boundaries
//
// authkit is the public surface. It exposes [Session], [Builder], [Config],
// sentinel errors, and value types (User, State, AuditEvent). Flow
// orchestration and audit dispatch live under internal/ and are never
// exported. The transport boundary is [httpx], credential persistence is
// [securestore].
//
// # What this package must NOT do
//
//   - Expose store backends, wire shapes, or retry bookkeeping in its public API.
//   - Perform I/O outside of Session methods (construction via Builder is
//     allocation-only until Build; startup I/O happens in Session.Restore).
//   - Hold the refresh token in memory outside an in-flight refresh.
package authkit
