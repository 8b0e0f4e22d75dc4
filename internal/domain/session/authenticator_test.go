package session

import (
	"context"
	"errors"
	"testing"

	"hrportal/internal/domain/auth"
)

func TestScenarioAdminLogin(t *testing.T) {
	deliverer := &captureDeliverer{}
	authenticator := NewAuthenticator(demoValidator(t), deliverer, Options{Random: fixedRandom(482913)})
	store := NewStore("tab", NewMemoryKeyStore())

	pending, err := authenticator.Login(context.Background(), store, "admin@example.com", "password", "admin")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if pending.Passcode != "482913" || deliverer.last() != "482913" {
		t.Fatalf("expected 482913 issued and delivered, got %s / %s", pending.Passcode, deliverer.last())
	}

	sess, err := authenticator.Verify(context.Background(), store, deliverer.last())
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if sess.Role != auth.RoleAdmin || sess.Email != "admin@example.com" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if !NewGuard(store).Require(auth.RoleAdmin).Allowed {
		t.Fatal("expected admin guard to allow")
	}
}

func TestScenarioInvalidCredentials(t *testing.T) {
	deliverer := &captureDeliverer{}
	authenticator := NewAuthenticator(demoValidator(t), deliverer, Options{})
	store := NewStore("tab", nil)

	_, err := authenticator.Login(context.Background(), store, "x@x.com", "wrong", "employee")
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, ok := store.Pending(); ok {
		t.Fatal("expected no pending login")
	}
	if _, ok := store.CurrentSession(); ok {
		t.Fatal("expected no session")
	}
	if deliverer.count() != 0 {
		t.Fatal("expected nothing delivered")
	}
}

func TestFailedLoginKeepsExistingState(t *testing.T) {
	authenticator := NewAuthenticator(demoValidator(t), &captureDeliverer{}, Options{Random: fixedRandom(482913)})
	store := NewStore("tab", nil)
	if _, err := authenticator.Login(context.Background(), store, "admin@example.com", "password", "admin"); err != nil {
		t.Fatalf("login error: %v", err)
	}

	if _, err := authenticator.Login(context.Background(), store, "admin@example.com", "nope", "admin"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, ok := store.Pending(); !ok {
		t.Fatal("expected earlier pending login to survive a failed attempt")
	}
}

func TestLoginClearsPreviousSession(t *testing.T) {
	keys := NewMemoryKeyStore()
	authenticator := NewAuthenticator(demoValidator(t), &captureDeliverer{}, Options{Random: fixedRandom(482913)})
	store := NewStore("tab", keys)

	if _, err := authenticator.Login(context.Background(), store, "admin@example.com", "password", "admin"); err != nil {
		t.Fatalf("login error: %v", err)
	}
	if _, err := authenticator.Verify(context.Background(), store, "482913"); err != nil {
		t.Fatalf("verify error: %v", err)
	}

	if _, err := authenticator.Login(context.Background(), store, "employee@example.com", "password", "employee"); err != nil {
		t.Fatalf("second login error: %v", err)
	}
	if _, ok := store.CurrentSession(); ok {
		t.Fatal("expected a fresh login to clear the previous session")
	}
	if store.State() != StateAwaitingPasscode {
		t.Fatalf("expected awaiting passcode, got %s", store.State())
	}
	persisted, _ := keys.Load(context.Background(), "tab")
	if len(persisted) != 0 {
		t.Fatalf("expected persisted group removed, got %v", persisted)
	}
}

func TestLogoutReturnsToLoggedOut(t *testing.T) {
	authenticator := NewAuthenticator(demoValidator(t), &captureDeliverer{}, Options{Random: fixedRandom(118204)})
	store := NewStore("tab", NewMemoryKeyStore())
	if _, err := authenticator.Login(context.Background(), store, "employee@example.com", "password", "employee"); err != nil {
		t.Fatalf("login error: %v", err)
	}
	if _, err := authenticator.Verify(context.Background(), store, "118204"); err != nil {
		t.Fatalf("verify error: %v", err)
	}

	if err := authenticator.Logout(context.Background(), store); err != nil {
		t.Fatalf("logout error: %v", err)
	}
	if store.State() != StateLoggedOut {
		t.Fatalf("expected logged out, got %s", store.State())
	}
	if NewGuard(store).RequireAny().Allowed {
		t.Fatal("expected guard to redirect after logout")
	}
}
