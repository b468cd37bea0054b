package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/edu-planet/edu-service/internal/domain"
	"github.com/edu-planet/edu-service/internal/postgres"
)

type SubjectService struct {
	subjects *postgres.SubjectRepository
	lessons  *postgres.LessonRepository
}

func NewSubjectService(subjects *postgres.SubjectRepository, lessons *postgres.LessonRepository) *SubjectService {
	return &SubjectService{subjects: subjects, lessons: lessons}
}

func (s *SubjectService) CreateSubject(ctx context.Context, title string, teacherID domain.UserID) (*domain.Subject, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyName
	}

	subj := &domain.Subject{Title: title, TeacherID: teacherID}
	if err := s.subjects.Create(ctx, subj); err != nil {
		return nil, fmt.Errorf("subjects.Create: %w", err)
	}
	return subj, nil
}

func (s *SubjectService) GetSubject(ctx context.Context, id int64) (*domain.Subject, error) {
	return s.subjects.Get(ctx, id)
}

func (s *SubjectService) ListSubjects(ctx context.Context, limit int, cursor string) ([]domain.Subject, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	return s.subjects.List(ctx, limit, cursor)
}

func (s *SubjectService) DeleteSubject(ctx context.Context, id int64) error {
	return s.subjects.Delete(ctx, id)
}

func (s *SubjectService) LinkGroup(ctx context.Context, subjectID, groupID int64) error {
	if _, err := s.subjects.Get(ctx, subjectID); err != nil {
		return err
	}
	return s.subjects.LinkGroup(ctx, subjectID, groupID)
}

func (s *SubjectService) UnlinkGroup(ctx context.Context, subjectID, groupID int64) error {
	return s.subjects.UnlinkGroup(ctx, subjectID, groupID)
}

// --- уроки ---

func (s *SubjectService) CreateLesson(ctx context.Context, l *domain.Lesson) error {
	if _, err := s.subjects.Get(ctx, l.SubjectID); err != nil {
		return err
	}
	l.Topic = strings.TrimSpace(l.Topic)
	if l.Topic == "" {
		return ErrEmptyName
	}
	return s.lessons.Create(ctx, l)
}

func (s *SubjectService) GetLesson(ctx context.Context, id int64) (*domain.Lesson, error) {
	return s.lessons.Get(ctx, id)
}

func (s *SubjectService) ListLessons(ctx context.Context, subjectID int64) ([]domain.Lesson, error) {
	if _, err := s.subjects.Get(ctx, subjectID); err != nil {
		return nil, err
	}
	return s.lessons.ListBySubject(ctx, subjectID)
}

func (s *SubjectService) UpdateLesson(ctx context.Context, l *domain.Lesson) error {
	return s.lessons.Update(ctx, l)
}

func (s *SubjectService) DeleteLesson(ctx context.Context, id int64) error {
	return s.lessons.Delete(ctx, id)
}
