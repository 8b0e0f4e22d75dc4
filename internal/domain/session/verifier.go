package session

import (
	"context"
	"crypto/subtle"
	"time"
)

type Verifier struct {
	store       *Store
	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
}

func NewVerifier(store *Store, opts Options) *Verifier {
	opts = opts.withDefaults()
	return &Verifier{store: store, ttl: opts.PasscodeTTL, maxAttempts: opts.MaxAttempts, now: opts.Now}
}

// Verify promotes the pending login to a session when submitted equals its
// passcode. A wrong code keeps the pending login so the user can retry.
func (v *Verifier) Verify(ctx context.Context, submitted string) (Session, error) {
	var out Session
	err := v.store.withLock(func() error {
		pending := v.store.pending
		if pending == nil {
			return ErrInvalidPasscode
		}
		if v.ttl > 0 && v.now().Sub(pending.IssuedAt) > v.ttl {
			v.store.pending = nil
			return ErrPasscodeExpired
		}
		if !passcodeEqual(submitted, pending.Passcode) {
			if v.maxAttempts > 0 {
				pending.Attempts++
				if pending.Attempts >= v.maxAttempts {
					v.store.pending = nil
					return ErrTooManyAttempts
				}
			}
			return ErrInvalidPasscode
		}

		sess := Session{LoggedIn: true, Role: pending.Role, Email: pending.Email}
		if err := v.store.commitLocked(ctx, sess); err != nil {
			return err
		}
		v.store.pending = nil
		out = sess
		return nil
	})
	if err != nil {
		return Session{}, err
	}
	return out, nil
}

func passcodeEqual(submitted, issued string) bool {
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(issued)) == 1
}
