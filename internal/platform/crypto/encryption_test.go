package crypto

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestSealAndOpen(t *testing.T) {
	svc, err := New(strings.Repeat("ab", 32))
	if err != nil {
		t.Fatalf("new error: %v", err)
	}
	if !svc.Configured() {
		t.Fatal("expected configured service")
	}

	sealed, err := svc.Encrypt([]byte("admin@example.com"))
	if err != nil {
		t.Fatalf("encrypt error: %v", err)
	}
	if bytes.Contains(sealed, []byte("admin@example.com")) {
		t.Fatal("expected plaintext not to appear in sealed value")
	}
	plain, err := svc.Decrypt(sealed)
	if err != nil {
		t.Fatalf("decrypt error: %v", err)
	}
	if string(plain) != "admin@example.com" {
		t.Fatalf("unexpected plaintext %q", plain)
	}

	sealed[len(sealed)-1] ^= 0xff
	if _, err := svc.Decrypt(sealed); err == nil {
		t.Fatal("expected tampered value to fail")
	}
	if _, err := svc.Decrypt([]byte{1, 2}); !errors.Is(err, ErrCiphertextTooShort) {
		t.Fatalf("expected ErrCiphertextTooShort, got %v", err)
	}
}

func TestUnconfiguredPassesThrough(t *testing.T) {
	svc, err := New("")
	if err != nil {
		t.Fatalf("new error: %v", err)
	}
	if svc.Configured() {
		t.Fatal("expected unconfigured service")
	}
	out, _ := svc.Encrypt([]byte("plain"))
	if string(out) != "plain" {
		t.Fatalf("expected passthrough, got %q", out)
	}
}

func TestNewRejectsShortKey(t *testing.T) {
	if _, err := New("short"); err == nil {
		t.Fatal("expected short key to be rejected")
	}
}
