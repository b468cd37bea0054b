package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/edu-planet/edu-service/internal/domain"
	"github.com/edu-planet/edu-service/internal/service"
)

func toTestItem(t *domain.Test) TestItem {
	return TestItem{ID: t.ID, LessonID: t.LessonID, Title: t.Title, CreatedAt: t.CreatedAt}
}

func toQuestionItem(q *domain.Question) QuestionItem {
	item := QuestionItem{
		ID:     q.ID,
		Kind:   string(q.Kind),
		Text:   q.Text,
		Weight: q.Weight,
	}
	for _, o := range q.Options {
		// правильность вариантов наружу не отдаём
		item.Options = append(item.Options, OptionItem{ID: o.ID, Text: o.Text})
	}
	for _, p := range q.Pairs {
		item.Pairs = append(item.Pairs, PairItem{ID: p.ID, Left: p.Left})
	}
	return item
}

// POST /tests
func (h *Handler) CreateTest(w http.ResponseWriter, r *http.Request) {
	var req CreateTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	t, err := h.testSvc.CreateTest(r.Context(), req.LessonID, req.Title)
	if err != nil {
		if errors.Is(err, domain.ErrLessonNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "lesson not found"})
			return
		}
		slog.Error("handler.CreateTest:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, toTestItem(t))
}

// GET /tests/{id}
func (h *Handler) GetTest(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	t, questions, err := h.testSvc.GetTest(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTestNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "test not found"})
			return
		}
		slog.Error("handler.GetTest:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := TestDetailResponse{Test: toTestItem(t), Questions: make([]QuestionItem, 0, len(questions))}
	for i := range questions {
		resp.Questions = append(resp.Questions, toQuestionItem(&questions[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /lessons/{id}/tests
func (h *Handler) ListTests(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	tests, err := h.testSvc.ListByLesson(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrLessonNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "lesson not found"})
			return
		}
		slog.Error("handler.ListTests:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	items := make([]TestItem, 0, len(tests))
	for i := range tests {
		items = append(items, toTestItem(&tests[i]))
	}
	writeJSON(w, http.StatusOK, items)
}

// DELETE /tests/{id}
func (h *Handler) DeleteTest(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	if err := h.testSvc.DeleteTest(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrTestNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "test not found"})
			return
		}
		slog.Error("handler.DeleteTest:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// POST /tests/{id}/questions
func (h *Handler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	var req AddQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	q := &domain.Question{
		TestID: id,
		Kind:   domain.QuestionKind(req.Kind),
		Text:   req.Text,
		Weight: req.Weight,
	}
	for _, o := range req.Options {
		q.Options = append(q.Options, domain.Option{Text: o.Text, Correct: o.Correct})
	}
	for _, p := range req.Pairs {
		q.Pairs = append(q.Pairs, domain.MatchPair{Left: p.Left, Right: p.Right})
	}

	if err := h.testSvc.AddQuestion(r.Context(), q); err != nil {
		switch {
		case errors.Is(err, domain.ErrTestNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "test not found"})
		case errors.Is(err, service.ErrBadQuestion), errors.Is(err, service.ErrZeroWeight):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			slog.Error("handler.AddQuestion:", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}
	writeJSON(w, http.StatusCreated, toQuestionItem(q))
}

// POST /tests/{id}/submissions
func (h *Handler) SubmitTest(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	var req SubmitTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	sub := service.Submission{TestID: id, StudentID: currentUser(r)}
	for _, a := range req.Answers {
		qs := service.QuestionSubmission{QuestionID: a.QuestionID, OptionIDs: a.OptionIDs}
		for _, p := range a.Pairs {
			qs.Pairs = append(qs.Pairs, service.PairChoice{PairID: p.PairID, Chosen: p.Chosen})
		}
		sub.Answers = append(sub.Answers, qs)
	}

	res, err := h.scoringSvc.SubmitTest(r.Context(), sub)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTestNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "test not found"})
		case errors.Is(err, service.ErrNoQuestions):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			slog.Error("handler.SubmitTest:", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, TestResultResponse{
		TestID:    res.TestID,
		StudentID: int64(res.StudentID),
		Score:     res.Score,
	})
}

// GET /tests/{id}/result
func (h *Handler) GetTestResult(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	res, err := h.testSvc.GetResult(r.Context(), id, currentUser(r))
	if err != nil {
		if errors.Is(err, domain.ErrAnswerNotFound) || errors.Is(err, domain.ErrTestNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "result not found"})
			return
		}
		slog.Error("handler.GetTestResult:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, TestResultResponse{
		TestID:    res.TestID,
		StudentID: int64(res.StudentID),
		Score:     res.Score,
	})
}
