package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/edu-planet/edu-service/internal/domain"
	"github.com/edu-planet/edu-service/internal/postgres"
)

var ErrEmptyName = errors.New("empty name")

type GroupService struct {
	groups *postgres.GroupRepository
}

func NewGroupService(groups *postgres.GroupRepository) *GroupService {
	return &GroupService{groups: groups}
}

// CreateGroup создаёт группу; имя уникально, оно же — ключ комнаты чата.
func (s *GroupService) CreateGroup(ctx context.Context, name string, curatorID *domain.UserID) (*domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	g := &domain.Group{Name: name, CuratorID: curatorID}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("groups.Create: %w", err)
	}
	return g, nil
}

func (s *GroupService) GetGroup(ctx context.Context, id int64) (*domain.Group, error) {
	return s.groups.Get(ctx, id)
}

func (s *GroupService) ListGroups(ctx context.Context, limit int, cursor string) ([]domain.Group, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	return s.groups.List(ctx, limit, cursor)
}

func (s *GroupService) DeleteGroup(ctx context.Context, id int64) error {
	return s.groups.Delete(ctx, id)
}

func (s *GroupService) AddStudent(ctx context.Context, groupID int64, userID domain.UserID) error {
	if _, err := s.groups.Get(ctx, groupID); err != nil {
		return err
	}
	return s.groups.AddMember(ctx, groupID, userID)
}

func (s *GroupService) RemoveStudent(ctx context.Context, groupID int64, userID domain.UserID) error {
	return s.groups.RemoveMember(ctx, groupID, userID)
}

func (s *GroupService) ListStudents(ctx context.Context, groupID int64) ([]domain.User, error) {
	if _, err := s.groups.Get(ctx, groupID); err != nil {
		return nil, err
	}
	return s.groups.ListMembers(ctx, groupID)
}
