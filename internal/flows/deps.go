package flows

// TokenPair is the flow-local credential pair shape. Both fields are set or
// the pair is malformed; flows reject partial pairs before any persistence.
type TokenPair struct {
	Access  string
	Refresh string
}

// Valid reports whether the pair can be persisted.
func (p TokenPair) Valid() bool {
	return p.Access != "" && p.Refresh != ""
}

// ProfileRecord is the flow-local user profile shape, already normalized at
// the wire boundary.
type ProfileRecord struct {
	ID              string
	Email           string
	ProfileImageURL string
}

// Deps groups flow dependency sets. The root engine builds this once at
// construction and delegates session operations to the matching flow.
type Deps struct {
	Login   LoginDeps
	Signup  SignupDeps
	Refresh RefreshDeps
	Logout  LogoutDeps
	Restore RestoreDeps
	Profile ProfileDeps
	Submit  SubmitDeps
}
