package security

import (
	"errors"
	"testing"

	"github.com/edu-planet/edu-service/internal/errs"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123", nil)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret123" {
		t.Fatalf("hash must not equal the plain password")
	}

	if err := ComparePassword(hash, "secret123"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatalf("wrong password must not match")
	}
}

func TestHashPassword_TooShort(t *testing.T) {
	if _, err := HashPassword("12345", nil); !errors.Is(err, errs.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}

	cfg := &BcryptConfig{MinLength: 10}
	if _, err := HashPassword("secret123", cfg); !errors.Is(err, errs.ErrPasswordTooShort) {
		t.Fatalf("custom minLength: expected ErrPasswordTooShort, got %v", err)
	}
}
