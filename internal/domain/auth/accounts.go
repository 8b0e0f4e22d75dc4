package auth

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidCredentials covers unknown email, wrong password and wrong role alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Account struct {
	Email        string
	PasswordHash string
	Role         Role
}

// SeedAccount is the plaintext form an account is configured with.
type SeedAccount struct {
	Email    string
	Password string
	Role     Role
}

type AccountLookup interface {
	FindAccount(ctx context.Context, email string) (Account, bool)
}

// Directory is the read-only set of known accounts, keyed by exact email.
type Directory struct {
	accounts map[string]Account
	decoy    string
}

func NewDirectory(seeds []SeedAccount, cost int) (*Directory, error) {
	decoy, err := HashPassword("unknown-account", cost)
	if err != nil {
		return nil, fmt.Errorf("hash decoy password: %w", err)
	}
	d := &Directory{accounts: make(map[string]Account, len(seeds)), decoy: decoy}
	for _, seed := range seeds {
		if seed.Email == "" || seed.Password == "" {
			continue
		}
		if !seed.Role.Valid() {
			return nil, fmt.Errorf("account %s: %w", seed.Email, ErrInvalidRole)
		}
		if _, exists := d.accounts[seed.Email]; exists {
			return nil, fmt.Errorf("account %s configured twice", seed.Email)
		}
		hash, err := HashPassword(seed.Password, cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", seed.Email, err)
		}
		d.accounts[seed.Email] = Account{Email: seed.Email, PasswordHash: hash, Role: seed.Role}
	}
	return d, nil
}

// FindAccount looks email up. On a miss the returned account carries only a
// decoy hash of the same cost, so a caller can spend the same bcrypt work.
func (d *Directory) FindAccount(_ context.Context, email string) (Account, bool) {
	account, ok := d.accounts[email]
	if !ok {
		return Account{PasswordHash: d.decoy}, false
	}
	return account, true
}

func (d *Directory) Len() int {
	return len(d.accounts)
}

type Validator struct {
	Accounts AccountLookup
}

func NewValidator(accounts AccountLookup) *Validator {
	return &Validator{Accounts: accounts}
}

// Validate checks the (email, password, role) triple by exact match. It has no side effects.
func (v *Validator) Validate(ctx context.Context, email, password, role string) error {
	if email == "" || password == "" || role == "" {
		return ErrInvalidCredentials
	}
	wantRole, err := ParseRole(role)
	if err != nil {
		return ErrInvalidCredentials
	}

	if len(password) > MaxPasswordBytes {
		return ErrInvalidCredentials
	}

	// A miss still compares against the lookup's decoy hash.
	account, ok := v.Accounts.FindAccount(ctx, email)
	passwordErr := CheckPassword(account.PasswordHash, password)
	if !ok || passwordErr != nil || account.Role != wantRole {
		return ErrInvalidCredentials
	}
	return nil
}
