package authkit

import "context"

type contextKey struct{}

// NewContext returns a context carrying the session. Application layers that
// receive only a context can recover the engine with [FromContext].
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext extracts the session placed by [NewContext], or ok=false.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}
