package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/edu-planet/edu-service/internal/domain"

	"github.com/go-chi/chi/v5"
)

const defaultHistoryLimit = 50

func toChatMessageItem(m *domain.ChatMessage) ChatMessageItem {
	return ChatMessageItem{
		ID:         m.ID,
		SenderID:   m.SenderID,
		SenderType: string(m.SenderType),
		Text:       m.Text,
		Audience:   string(m.Audience),
		Recipients: m.Recipients,
		Fixed:      m.Fixed,
		ReadBy:     m.ReadBy.IDs(),
		CreatedAt:  m.CreatedAt,
	}
}

func historyParams(r *http.Request) (beforeID int64, limit int) {
	limit = defaultHistoryLimit
	q := r.URL.Query()
	if s := q.Get("before"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			beforeID = n
		}
	}
	if s := q.Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	return beforeID, limit
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request, room string) {
	beforeID, limit := historyParams(r)

	msgs, err := h.chatSvc.History(r.Context(), room, currentUser(r), beforeID, limit)
	if err != nil {
		slog.Error("handler.ChatHistory:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := ChatHistoryResponse{Items: make([]ChatMessageItem, 0, len(msgs))}
	for i := range msgs {
		resp.Items = append(resp.Items, toChatMessageItem(&msgs[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /chat/groups/{name}?before=&limit=
func (h *Handler) GroupChatHistory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid group name"})
		return
	}
	h.history(w, r, domain.GroupRoomKey(name))
}

// GET /chat/subjects/{id}?before=&limit=
func (h *Handler) SubjectChatHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}
	h.history(w, r, domain.SubjectRoomKey(id))
}

// POST /chat/messages/{id}/read
func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	readBy, err := h.chatSvc.MarkMessageRead(r.Context(), id, currentUser(r))
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "message not found"})
			return
		}
		slog.Error("handler.MarkMessageRead:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ReadResponse{ReadBy: readBy.IDs()})
}

// POST /chat/answers/{id}/read
func (h *Handler) MarkAnswerRead(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	readBy, err := h.chatSvc.MarkAnswerRead(r.Context(), id, currentUser(r))
	if err != nil {
		if errors.Is(err, domain.ErrAnswerNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "answer not found"})
			return
		}
		slog.Error("handler.MarkAnswerRead:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ReadResponse{ReadBy: readBy.IDs()})
}

// POST /chat/messages/{id}/fix
func (h *Handler) FixMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	var req FixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	if err := h.chatSvc.SetFixed(r.Context(), id, req.Fixed); err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "message not found"})
			return
		}
		slog.Error("handler.FixMessage:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
