package domain

import (
	"strings"
	"time"
)

type UserID = int64

type UserType string

const (
	UserStudent UserType = "student"
	UserTeacher UserType = "teacher"
	UserAdmin   UserType = "admin"
)

func (t UserType) Valid() bool {
	switch t {
	case UserStudent, UserTeacher, UserAdmin:
		return true
	}
	return false
}

type User struct {
	ID           UserID    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Type         UserType  `db:"user_type"`
	AvatarURL    *string   `db:"avatar_url"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// NewUser ожидает уже посчитанный хеш пароля.
func NewUser(email, passwordHash string, ut UserType, now time.Time, opts ...UserOption) (*User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidEmail
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, ErrEmptyPasswordHash
	}
	if !ut.Valid() {
		ut = UserStudent
	}

	u := &User{
		Email:        email,
		PasswordHash: passwordHash,
		Type:         ut,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(u)
	}

	return u, nil
}

func (u *User) SetPasswordHash(hash string, now time.Time) error {
	if strings.TrimSpace(hash) == "" {
		return ErrEmptyPasswordHash
	}
	u.PasswordHash = hash
	u.UpdatedAt = now

	return nil
}

func (u *User) SetName(first, last string, now time.Time) {
	u.FirstName = strings.TrimSpace(first)
	u.LastName = strings.TrimSpace(last)
	u.UpdatedAt = now
}

func (u *User) SetAvatarURL(url *string, now time.Time) {
	u.AvatarURL = trimPtr(url)
	u.UpdatedAt = now
}

// Options конструктора
type UserOption func(*User)

func WithName(first, last string) UserOption {
	return func(u *User) {
		u.FirstName = strings.TrimSpace(first)
		u.LastName = strings.TrimSpace(last)
	}
}

func WithAvatarURL(url string) UserOption {
	return func(u *User) { u.AvatarURL = trimPtr(&url) }
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	t := strings.TrimSpace(*p)
	if t == "" {
		return nil
	}

	return &t
}
