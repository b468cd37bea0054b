package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/edu-planet/edu-service/internal/domain"
	"github.com/edu-planet/edu-service/internal/postgres"
)

// Обработчики «каталога»: группы, предметы, уроки.

func toGroupItem(g *domain.Group) GroupItem {
	return GroupItem{ID: g.ID, Name: g.Name, CuratorID: g.CuratorID, CreatedAt: g.CreatedAt}
}

// POST /groups
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	g, err := h.groupSvc.CreateGroup(r.Context(), req.Name, req.CuratorID)
	if err != nil {
		slog.Error("handler.CreateGroup:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, toGroupItem(g))
}

// GET /groups?limit=&cursor=
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	groups, next, err := h.groupSvc.ListGroups(r.Context(), limit, r.URL.Query().Get("cursor"))
	if err != nil {
		if errors.Is(err, postgres.ErrInvalidCursor) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_cursor"})
			return
		}
		slog.Error("handler.ListGroups:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := GroupsListResponse{Items: make([]GroupItem, 0, len(groups)), NextCursor: next}
	for i := range groups {
		resp.Items = append(resp.Items, toGroupItem(&groups[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /groups/{id}
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	g, err := h.groupSvc.GetGroup(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "group not found"})
			return
		}
		slog.Error("handler.GetGroup:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, toGroupItem(g))
}

// DELETE /groups/{id}
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	if err := h.groupSvc.DeleteGroup(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "group not found"})
			return
		}
		slog.Error("handler.DeleteGroup:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// POST /groups/{id}/students
func (h *Handler) AddStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	var req AddStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	if err := h.groupSvc.AddStudent(r.Context(), id, req.UserID); err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "group not found"})
			return
		}
		slog.Error("handler.AddStudent:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// DELETE /groups/{id}/students/{userId}
func (h *Handler) RemoveStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}
	userID, ok := urlID(r, "userId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}

	if err := h.groupSvc.RemoveStudent(r.Context(), id, userID); err != nil {
		if errors.Is(err, domain.ErrNotInGroup) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "user not in group"})
			return
		}
		slog.Error("handler.RemoveStudent:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// GET /groups/{id}/students
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	users, err := h.groupSvc.ListStudents(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "group not found"})
			return
		}
		slog.Error("handler.ListStudents:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	items := make([]UserItem, 0, len(users))
	for i := range users {
		items = append(items, toUserItem(&users[i]))
	}
	writeJSON(w, http.StatusOK, UsersListResponse{Items: items})
}

// --- предметы ---

func toSubjectItem(s *domain.Subject) SubjectItem {
	return SubjectItem{ID: s.ID, Title: s.Title, TeacherID: s.TeacherID, CreatedAt: s.CreatedAt}
}

// POST /subjects
func (h *Handler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var req CreateSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	s, err := h.subjectSvc.CreateSubject(r.Context(), req.Title, req.TeacherID)
	if err != nil {
		slog.Error("handler.CreateSubject:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, toSubjectItem(s))
}

// GET /subjects?limit=&cursor=
func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	subjects, next, err := h.subjectSvc.ListSubjects(r.Context(), limit, r.URL.Query().Get("cursor"))
	if err != nil {
		if errors.Is(err, postgres.ErrInvalidCursor) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_cursor"})
			return
		}
		slog.Error("handler.ListSubjects:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := SubjectsListResponse{Items: make([]SubjectItem, 0, len(subjects)), NextCursor: next}
	for i := range subjects {
		resp.Items = append(resp.Items, toSubjectItem(&subjects[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /subjects/{id}
func (h *Handler) GetSubject(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	s, err := h.subjectSvc.GetSubject(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSubjectNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "subject not found"})
			return
		}
		slog.Error("handler.GetSubject:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, toSubjectItem(s))
}

// DELETE /subjects/{id}
func (h *Handler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	if err := h.subjectSvc.DeleteSubject(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrSubjectNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "subject not found"})
			return
		}
		slog.Error("handler.DeleteSubject:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// POST /subjects/{id}/groups
func (h *Handler) LinkGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	var req LinkGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	if err := h.subjectSvc.LinkGroup(r.Context(), id, req.GroupID); err != nil {
		if errors.Is(err, domain.ErrSubjectNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "subject not found"})
			return
		}
		slog.Error("handler.LinkGroup:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "linked"})
}

// DELETE /subjects/{id}/groups/{groupId}
func (h *Handler) UnlinkGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}
	groupID, ok := urlID(r, "groupId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid group id"})
		return
	}

	if err := h.subjectSvc.UnlinkGroup(r.Context(), id, groupID); err != nil {
		if errors.Is(err, domain.ErrSubjectNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "subject not found"})
			return
		}
		slog.Error("handler.UnlinkGroup:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unlinked"})
}

// --- уроки ---

func toLessonItem(l *domain.Lesson) LessonItem {
	return LessonItem{
		ID:          l.ID,
		SubjectID:   l.SubjectID,
		Topic:       l.Topic,
		Body:        l.Body,
		ScheduledAt: l.ScheduledAt,
		CreatedAt:   l.CreatedAt,
	}
}

// POST /subjects/{id}/lessons
func (h *Handler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	var req LessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	l := &domain.Lesson{SubjectID: id, Topic: req.Topic, Body: req.Body, ScheduledAt: req.ScheduledAt}
	if err := h.subjectSvc.CreateLesson(r.Context(), l); err != nil {
		if errors.Is(err, domain.ErrSubjectNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "subject not found"})
			return
		}
		slog.Error("handler.CreateLesson:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, toLessonItem(l))
}

// GET /subjects/{id}/lessons
func (h *Handler) ListLessons(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	lessons, err := h.subjectSvc.ListLessons(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSubjectNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "subject not found"})
			return
		}
		slog.Error("handler.ListLessons:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	items := make([]LessonItem, 0, len(lessons))
	for i := range lessons {
		items = append(items, toLessonItem(&lessons[i]))
	}
	writeJSON(w, http.StatusOK, items)
}

// PATCH /lessons/{id}
func (h *Handler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	l, err := h.subjectSvc.GetLesson(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrLessonNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "lesson not found"})
			return
		}
		slog.Error("handler.UpdateLesson:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	var req LessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	l.Topic = req.Topic
	l.Body = req.Body
	if !req.ScheduledAt.IsZero() {
		l.ScheduledAt = req.ScheduledAt
	}

	if err := h.subjectSvc.UpdateLesson(r.Context(), l); err != nil {
		slog.Error("handler.UpdateLesson:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, toLessonItem(l))
}

// DELETE /lessons/{id}
func (h *Handler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	if err := h.subjectSvc.DeleteLesson(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrLessonNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "lesson not found"})
			return
		}
		slog.Error("handler.DeleteLesson:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
