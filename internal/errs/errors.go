package errs

import "errors"

var (
	ErrPasswordTooShort   = errors.New("password too short")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidIssuer      = errors.New("invalid issuer")
	ErrInvalidAudience    = errors.New("invalid audience")
	ErrTokenExpired       = errors.New("token expired or not valid yet")
	ErrInvalidSubject     = errors.New("invalid subject")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
