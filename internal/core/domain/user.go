package domain

import "strings"

// User is the identity returned by the API on sign-in.
type User struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
}

// DisplayName returns the best available human-readable name.
func (u User) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	default:
		return u.ID
	}
}

// IsPrivileged reports whether the user has administrative rights.
func (u User) IsPrivileged() bool {
	return u.IsAdmin || strings.EqualFold(u.Role, "admin")
}

// IsZero reports whether no identity field is set.
func (u User) IsZero() bool {
	return u == User{}
}

// Session is the persisted sign-in state: a bearer credential plus the
// cached identity it was issued for.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// LooksValid reports whether the payload has the minimum shape of a
// signed-in session. It does not contact the server.
func (s *Session) LooksValid() bool {
	return s != nil && strings.TrimSpace(s.Token) != "" && s.User != nil
}

// Credentials are the sign-in inputs sent to the auth endpoint.
type Credentials struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}
