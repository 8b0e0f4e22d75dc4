package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"hrportal/internal/domain/session"
	"hrportal/internal/platform/config"
)

// logMailer stands in when SMTP is off. It records that a message was due
// without writing the body, which may hold a passcode.
type logMailer struct{}

func (logMailer) Send(_ context.Context, from, to, subject, _ string) error {
	slog.Info("email delivery disabled", "from", from, "to", to, "subject", subject)
	return nil
}

type smtpMailer struct {
	addr     string
	host     string
	user     string
	password string
	useTLS   bool
	timeout  time.Duration
}

func New(cfg config.Config) session.Mailer {
	if !cfg.EmailEnabled || cfg.SMTPHost == "" {
		return logMailer{}
	}
	return &smtpMailer{
		addr:     net.JoinHostPort(cfg.SMTPHost, fmt.Sprint(cfg.SMTPPort)),
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		useTLS:   cfg.SMTPUseTLS,
		timeout:  10 * time.Second,
	}
}

func (s *smtpMailer) Send(ctx context.Context, from, to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("email: empty recipient")
	}

	dialer := net.Dialer{Timeout: s.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer client.Close()

	if s.useTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return err
		}
	}
	if s.user != "" {
		if err := client.Auth(smtp.PlainAuth("", s.user, s.password, s.host)); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(buildMessage(from, to, subject, body)); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildMessage(from, to, subject, body string) []byte {
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"Date: " + time.Now().UTC().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n" + body)
}
