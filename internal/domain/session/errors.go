package session

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPasscode = errors.New("invalid passcode")
	ErrPasscodeExpired = fmt.Errorf("%w: expired", ErrInvalidPasscode)
	ErrTooManyAttempts = fmt.Errorf("%w: too many attempts", ErrInvalidPasscode)
	ErrDeliveryFailed  = errors.New("passcode delivery failed")
)
