package security

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/edu-planet/edu-service/internal/domain"
	"github.com/edu-planet/edu-service/internal/errs"
)

func testSigner(t *testing.T, ttl time.Duration) *JWTSigner {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return NewJWTSigner(key, &key.PublicKey, "edu-service", "edu-platform", ttl, 30*time.Second)
}

func TestJWT_SignAndParse(t *testing.T) {
	s := testSigner(t, 15*time.Minute)

	token, err := s.SignAccessToken(42, domain.UserTeacher, time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := s.ParseAndValidate(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	id, err := SubjectAsUserID(claims)
	if err != nil {
		t.Fatalf("subject: %v", err)
	}
	if id != 42 {
		t.Fatalf("subject: got %d, want 42", id)
	}
	if claims.UserType != "teacher" {
		t.Fatalf("utype: got %q, want teacher", claims.UserType)
	}
}

func TestJWT_Expired(t *testing.T) {
	s := testSigner(t, time.Minute)

	// токен выпущен далеко в прошлом, clockSkew не спасает
	token, err := s.SignAccessToken(1, domain.UserStudent, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := s.ParseAndValidate(token); err == nil {
		t.Fatalf("expected expired token to fail validation")
	}
}

func TestJWT_WrongKey(t *testing.T) {
	s1 := testSigner(t, time.Minute)
	s2 := testSigner(t, time.Minute)

	token, err := s1.SignAccessToken(1, domain.UserStudent, time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := s2.ParseAndValidate(token); err == nil {
		t.Fatalf("token signed by foreign key must not validate")
	}
}

func TestJWT_WrongIssuer(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	issue := NewJWTSigner(key, &key.PublicKey, "other-service", "edu-platform", time.Minute, 0)
	verify := NewJWTSigner(key, &key.PublicKey, "edu-service", "edu-platform", time.Minute, 0)

	token, err := issue.SignAccessToken(1, domain.UserStudent, time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := verify.ParseAndValidate(token); !errors.Is(err, errs.ErrInvalidIssuer) {
		t.Fatalf("expected ErrInvalidIssuer, got %v", err)
	}
}

func TestSubjectAsUserID_Invalid(t *testing.T) {
	if _, err := SubjectAsUserID(nil); !errors.Is(err, errs.ErrInvalidSubject) {
		t.Fatalf("nil claims: expected ErrInvalidSubject, got %v", err)
	}

	claims := &AccessClaims{}
	claims.Subject = "not-a-number"
	if _, err := SubjectAsUserID(claims); !errors.Is(err, errs.ErrInvalidSubject) {
		t.Fatalf("bad subject: expected ErrInvalidSubject, got %v", err)
	}
}
