package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/edu-planet/edu-service/internal/domain"
	"github.com/edu-planet/edu-service/internal/errs"
	"github.com/edu-planet/edu-service/internal/postgres"
	"github.com/edu-planet/edu-service/internal/security"
)

type AuthResult struct {
	User        *domain.User
	AccessToken string
}

type AuthService struct {
	users      *postgres.UserRepository
	jwt        *security.JWTSigner
	passPolicy security.BcryptConfig
	now        func() time.Time
}

func NewAuthService(users *postgres.UserRepository, jwt *security.JWTSigner, passPolicy security.BcryptConfig, now func() time.Time) *AuthService {
	if now == nil {
		now = time.Now
	}

	return &AuthService{
		users:      users,
		jwt:        jwt,
		passPolicy: passPolicy,
		now:        now,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string, ut domain.UserType, first, last string) (*AuthResult, error) {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		slog.Error("auth.register.existsByEmail failed", slog.Any("err", err))
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyExists
	}

	hash, err := security.HashPassword(password, &s.passPolicy)
	if err != nil {
		slog.Error("auth.register.hashPassword failed", slog.Any("err", err))
		return nil, err
	}

	u, err := domain.NewUser(email, hash, ut, s.now(), domain.WithName(first, last))
	if err != nil {
		return nil, err
	}

	id, err := s.users.Create(ctx, u)
	if err != nil {
		slog.Error("auth.register.createUser failed", slog.Any("err", err))
		return nil, err
	}
	u.ID = id

	access, err := s.jwt.SignAccessToken(u.ID, u.Type, s.now())
	if err != nil {
		slog.Error("auth.register.signToken failed", slog.Any("err", err))
		return nil, err
	}

	return &AuthResult{User: u, AccessToken: access}, nil
}

// Login аутентифицирует по email+пароль и выпускает access-токен.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, errs.ErrInvalidCredentials
		}
		slog.Error("auth.login.getByEmail failed", slog.Any("err", err))
		return nil, err
	}

	if err := security.ComparePassword(u.PasswordHash, password); err != nil {
		return nil, errs.ErrInvalidCredentials
	}

	access, err := s.jwt.SignAccessToken(u.ID, u.Type, s.now())
	if err != nil {
		slog.Error("auth.login.signToken failed", slog.Any("err", err))
		return nil, err
	}

	return &AuthResult{User: u, AccessToken: access}, nil
}
