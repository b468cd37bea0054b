package service

import (
	"context"
	"time"

	"github.com/edu-planet/edu-service/internal/domain"
	"github.com/edu-planet/edu-service/internal/postgres"
	"github.com/edu-planet/edu-service/internal/security"
)

type UserService struct {
	users      *postgres.UserRepository
	passPolicy security.BcryptConfig
}

func NewUserService(users *postgres.UserRepository, passPolicy security.BcryptConfig) *UserService {
	return &UserService{users: users, passPolicy: passPolicy}
}

func (s *UserService) Get(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return s.users.Get(ctx, id)
}

func (s *UserService) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	return s.users.List(ctx, limit, cursor)
}

type UserPatch struct {
	FirstName *string
	LastName  *string
	AvatarURL *string
	Password  *string
}

func (s *UserService) Update(ctx context.Context, id domain.UserID, patch UserPatch) (*domain.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if patch.FirstName != nil || patch.LastName != nil {
		first, last := u.FirstName, u.LastName
		if patch.FirstName != nil {
			first = *patch.FirstName
		}
		if patch.LastName != nil {
			last = *patch.LastName
		}
		u.SetName(first, last, now)
	}
	if patch.AvatarURL != nil {
		u.SetAvatarURL(patch.AvatarURL, now)
	}
	if patch.Password != nil {
		hash, err := security.HashPassword(*patch.Password, &s.passPolicy)
		if err != nil {
			return nil, err
		}
		if err := u.SetPasswordHash(hash, now); err != nil {
			return nil, err
		}
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id domain.UserID) error {
	return s.users.Delete(ctx, id)
}
