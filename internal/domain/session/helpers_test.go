package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"hrportal/internal/domain/auth"
)

// fixedRandom returns a draw that GeneratePasscode maps onto code.
func fixedRandom(code int) func() float64 {
	return func() float64 {
		return (float64(code-passcodeBase) + 0.5) / passcodeSpan
	}
}

type captureDeliverer struct {
	mu        sync.Mutex
	passcodes []string
	emails    []string
}

func (d *captureDeliverer) Deliver(_ context.Context, passcode, email string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.passcodes = append(d.passcodes, passcode)
	d.emails = append(d.emails, email)
	return nil
}

func (d *captureDeliverer) last() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.passcodes) == 0 {
		return ""
	}
	return d.passcodes[len(d.passcodes)-1]
}

func (d *captureDeliverer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.passcodes)
}

var errBrokenKeys = errors.New("keys unavailable")

type brokenKeys struct{}

func (brokenKeys) Save(context.Context, string, map[string]string) error { return errBrokenKeys }
func (brokenKeys) Load(context.Context, string) (map[string]string, error) {
	return nil, errBrokenKeys
}
func (brokenKeys) Remove(context.Context, string) error { return errBrokenKeys }

func demoValidator(t *testing.T) *auth.Validator {
	t.Helper()
	dir, err := auth.NewDirectory([]auth.SeedAccount{
		{Email: "admin@example.com", Password: "password", Role: auth.RoleAdmin},
		{Email: "employee@example.com", Password: "password", Role: auth.RoleEmployee},
	}, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("directory error: %v", err)
	}
	return auth.NewValidator(dir)
}
