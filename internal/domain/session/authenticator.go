package session

import (
	"context"
	"fmt"

	"hrportal/internal/domain/auth"
)

type CredentialValidator interface {
	Validate(ctx context.Context, email, password, role string) error
}

// Authenticator drives the login handshake against a tab's store.
type Authenticator struct {
	Credentials CredentialValidator
	Deliverer   Deliverer
	Options     Options
}

func NewAuthenticator(credentials CredentialValidator, deliverer Deliverer, opts Options) *Authenticator {
	return &Authenticator{Credentials: credentials, Deliverer: deliverer, Options: opts}
}

// Login validates the credentials and, on success, clears the store and
// issues a new passcode. Failed validation leaves the store untouched.
func (a *Authenticator) Login(ctx context.Context, store *Store, email, password, role string) (PendingLogin, error) {
	if err := a.Credentials.Validate(ctx, email, password, role); err != nil {
		return PendingLogin{}, err
	}
	parsed, err := auth.ParseRole(role)
	if err != nil {
		return PendingLogin{}, auth.ErrInvalidCredentials
	}
	if err := store.Clear(ctx); err != nil {
		return PendingLogin{}, fmt.Errorf("clear before login: %w", err)
	}
	return NewIssuer(store, a.Deliverer, a.Options).Issue(ctx, email, parsed)
}

func (a *Authenticator) Verify(ctx context.Context, store *Store, passcode string) (Session, error) {
	return NewVerifier(store, a.Options).Verify(ctx, passcode)
}

func (a *Authenticator) Logout(ctx context.Context, store *Store) error {
	return store.Clear(ctx)
}
