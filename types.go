package authkit

// User is the denormalized profile snapshot held while a session is
// authenticated. ProfileImageURL is empty when the account has no avatar;
// the wire-level profileImage/profileImageUrl ambiguity is normalized before
// a User is ever constructed.
type User struct {
	ID              string
	Email           string
	ProfileImageURL string
}

// State is an immutable snapshot of the session, safe to hand to UI layers.
//
// Initializing is true only during the startup restoration sequence and
// never returns to true for the lifetime of the process.
type State struct {
	User          *User
	Authenticated bool
	Initializing  bool
}

// ChangeListener receives a State snapshot after every observable session
// transition: login, logout, refresh rotation, profile change, restore
// completion. Listeners run synchronously on the mutating goroutine and must
// not block.
type ChangeListener func(State)
