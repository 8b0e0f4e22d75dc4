package session

import (
	"context"
	"fmt"
	"time"
)

// Deliverer hands an issued passcode to the user out of band. It is called
// synchronously from Issue, before Issue returns.
type Deliverer interface {
	Deliver(ctx context.Context, passcode, email string) error
}

type DelivererFunc func(ctx context.Context, passcode, email string) error

func (f DelivererFunc) Deliver(ctx context.Context, passcode, email string) error {
	return f(ctx, passcode, email)
}

// Mailer matches the platform SMTP mailer.
type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// MailDeliverer emails the passcode to the account address.
type MailDeliverer struct {
	Mailer Mailer
	From   string
	// TTL is only mentioned in the message body; zero means no expiry.
	TTL time.Duration
}

func (d MailDeliverer) Deliver(ctx context.Context, passcode, email string) error {
	return d.Mailer.Send(ctx, d.From, email, "Your sign-in code", buildPasscodeMessage(passcode, d.TTL))
}

func buildPasscodeMessage(passcode string, ttl time.Duration) string {
	msg := fmt.Sprintf("Your one-time sign-in code is %s.\n", passcode)
	if ttl > 0 {
		msg += fmt.Sprintf("It expires in %s.\n", ttl)
	}
	msg += "If you did not try to sign in, you can ignore this email.\n"
	return msg
}
