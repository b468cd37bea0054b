package service

import (
	"context"

	"github.com/edu-planet/edu-service/internal/domain"
	"github.com/edu-planet/edu-service/internal/postgres"
)

// RosterService отвечает на вопрос «кто состоит в комнате» для обоих
// доменов чата: группа по имени, предмет по id.
type RosterService struct {
	groups   *postgres.GroupRepository
	subjects *postgres.SubjectRepository
	users    *postgres.UserRepository
}

func NewRosterService(groups *postgres.GroupRepository, subjects *postgres.SubjectRepository, users *postgres.UserRepository) *RosterService {
	return &RosterService{groups: groups, subjects: subjects, users: users}
}

func (s *RosterService) GroupRoom(ctx context.Context, name string) (string, []domain.User, error) {
	g, err := s.groups.GetByName(ctx, name)
	if err != nil {
		return "", nil, err
	}
	members, err := s.groups.ListMembers(ctx, g.ID)
	if err != nil {
		return "", nil, err
	}
	if g.CuratorID != nil {
		if curator, err := s.users.Get(ctx, *g.CuratorID); err == nil {
			members = append(members, *curator)
		}
	}
	return domain.GroupRoomKey(g.Name), members, nil
}

func (s *RosterService) SubjectRoom(ctx context.Context, id int64) (string, []domain.User, error) {
	subj, err := s.subjects.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	students, err := s.subjects.ListStudents(ctx, subj.ID)
	if err != nil {
		return "", nil, err
	}
	if teacher, err := s.users.Get(ctx, subj.TeacherID); err == nil {
		students = append(students, *teacher)
	}
	return domain.SubjectRoomKey(subj.ID), students, nil
}
