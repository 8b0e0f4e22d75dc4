package session

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"time"

	"hrportal/internal/domain/auth"
)

const (
	passcodeBase = 100000
	passcodeSpan = 900000
)

type Options struct {
	// PasscodeTTL of zero disables expiry.
	PasscodeTTL time.Duration
	// MaxAttempts of zero allows unlimited retries.
	MaxAttempts int
	// Random returns a value in [0, 1). Defaults to a crypto/rand draw.
	Random func() float64
	Now    func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Random == nil {
		o.Random = cryptoFloat64
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type Issuer struct {
	store   *Store
	deliver Deliverer
	random  func() float64
	now     func() time.Time
}

func NewIssuer(store *Store, deliverer Deliverer, opts Options) *Issuer {
	opts = opts.withDefaults()
	return &Issuer{store: store, deliver: deliverer, random: opts.Random, now: opts.Now}
}

// Issue replaces the store's pending login with a fresh passcode for
// (email, role) and delivers it. A failed delivery leaves no pending login.
func (i *Issuer) Issue(ctx context.Context, email string, role auth.Role) (PendingLogin, error) {
	pending := PendingLogin{
		Email:    email,
		Role:     role,
		Passcode: GeneratePasscode(i.random),
		IssuedAt: i.now(),
	}

	err := i.store.withLock(func() error {
		i.store.pending = &pending
		if i.deliver == nil {
			return nil
		}
		if err := i.deliver.Deliver(ctx, pending.Passcode, email); err != nil {
			i.store.pending = nil
			return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
		}
		return nil
	})
	if err != nil {
		return PendingLogin{}, err
	}
	i.store.live()
	return pending, nil
}

// GeneratePasscode maps random's [0, 1) draw onto [100000, 999999].
func GeneratePasscode(random func() float64) string {
	n := int(math.Floor(random()*passcodeSpan)) + passcodeBase
	if n > passcodeBase+passcodeSpan-1 {
		n = passcodeBase + passcodeSpan - 1
	}
	if n < passcodeBase {
		n = passcodeBase
	}
	return strconv.Itoa(n)
}

func cryptoFloat64() float64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return float64(binary.BigEndian.Uint64(b[:])>>11) / (1 << 53)
}
