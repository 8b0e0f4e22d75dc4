package session

import (
	"time"

	"hrportal/internal/domain/auth"
)

// Keys of the persisted session group. They are written and removed together.
const (
	KeyLoggedIn = "isLoggedIn"
	KeyRole     = "userRole"
	KeyEmail    = "userEmail"
)

type State string

const (
	StateLoggedOut        State = "logged_out"
	StateAwaitingPasscode State = "awaiting_passcode"
	StateLoggedIn         State = "logged_in"
)

type Session struct {
	LoggedIn bool      `json:"loggedIn"`
	Role     auth.Role `json:"role"`
	Email    string    `json:"email"`
}

// Keys renders the session as the persisted key group.
func (s Session) Keys() map[string]string {
	loggedIn := "false"
	if s.LoggedIn {
		loggedIn = "true"
	}
	return map[string]string{
		KeyLoggedIn: loggedIn,
		KeyRole:     string(s.Role),
		KeyEmail:    s.Email,
	}
}

// FromKeys rebuilds a session from a persisted key group. Groups that are
// not logged in, or whose role is not a known role, yield no session.
func FromKeys(values map[string]string) (Session, bool) {
	if values[KeyLoggedIn] != "true" {
		return Session{}, false
	}
	role, err := auth.ParseRole(values[KeyRole])
	if err != nil {
		return Session{}, false
	}
	return Session{LoggedIn: true, Role: role, Email: values[KeyEmail]}, true
}

type PendingLogin struct {
	Email    string
	Role     auth.Role
	Passcode string
	IssuedAt time.Time
	// Attempts counts failed verifications; only tracked when an attempt limit is set.
	Attempts int
}
