package session

import "hrportal/internal/domain/auth"

// LoginPath is the entry point every failed guard redirects to.
const LoginPath = "/"

type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonWrongRole       Reason = "wrong_role"
)

type Decision struct {
	Allowed    bool
	Reason     Reason
	RedirectTo string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func redirect(reason Reason) Decision {
	return Decision{Reason: reason, RedirectTo: LoginPath}
}

// Guard only reads the store; a redirect never clears a stale session.
type Guard struct {
	store *Store
}

func NewGuard(store *Store) Guard {
	return Guard{store: store}
}

// Require allows a logged-in session whose role equals role.
func (g Guard) Require(role auth.Role) Decision {
	sess, ok := g.store.CurrentSession()
	if !ok {
		return redirect(ReasonUnauthenticated)
	}
	if sess.Role != role {
		return redirect(ReasonWrongRole)
	}
	return allow()
}

// RequireAny allows any logged-in session.
func (g Guard) RequireAny() Decision {
	if _, ok := g.store.CurrentSession(); !ok {
		return redirect(ReasonUnauthenticated)
	}
	return allow()
}
