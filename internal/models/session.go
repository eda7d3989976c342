package models

// Identity is the authenticated account as reported by the backend on
// login or signup. It is replaced wholesale on each auth event.
type Identity struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
}

// Session pairs a bearer token with the identity it authenticates.
// Invariant: Identity is present if and only if Token is non-empty.
type Session struct {
	Token    string    `json:"token"`
	Identity *Identity `json:"identity"`
}

// Valid reports whether the session can be used for protected calls.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.Identity != nil && s.Identity.UserID != ""
}
