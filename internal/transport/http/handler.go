package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/edu-planet/edu-service/internal/domain"
	"github.com/edu-planet/edu-service/internal/errs"
	"github.com/edu-planet/edu-service/internal/postgres"
	"github.com/edu-planet/edu-service/internal/service"
	"github.com/edu-planet/edu-service/internal/storage"
	httpmw "github.com/edu-planet/edu-service/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	authSvc    *service.AuthService
	userSvc    *service.UserService
	groupSvc   *service.GroupService
	subjectSvc *service.SubjectService
	testSvc    *service.TestService
	scoringSvc *service.ScoringService
	chatSvc    *service.ChatService
	files      *storage.FileStore
}

func NewHandler(
	auth *service.AuthService,
	users *service.UserService,
	groups *service.GroupService,
	subjects *service.SubjectService,
	tests *service.TestService,
	scoring *service.ScoringService,
	chat *service.ChatService,
	files *storage.FileStore,
) *Handler {
	return &Handler{
		authSvc:    auth,
		userSvc:    users,
		groupSvc:   groups,
		subjectSvc: subjects,
		testSvc:    tests,
		scoringSvc: scoring,
		chatSvc:    chat,
		files:      files,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func urlID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func toUserItem(u *domain.User) UserItem {
	return UserItem{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Type:      string(u.Type),
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

// POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	res, err := h.authSvc.Register(r.Context(), req.Email, req.Password,
		domain.UserType(req.UserType), req.FirstName, req.LastName)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			writeJSON(w, http.StatusConflict, ErrorResponse{Error: "email already registered"})
		case errors.Is(err, errs.ErrPasswordTooShort), errors.Is(err, domain.ErrInvalidEmail):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			slog.Error("handler.Register:", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		AccessToken: res.AccessToken,
		User:        toUserItem(res.User),
	})
}

// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	res, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
			return
		}
		slog.Error("handler.Login:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		AccessToken: res.AccessToken,
		User:        toUserItem(res.User),
	})
}

// POST /users — создание пользователя администратором, токен не выдаётся.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	res, err := h.authSvc.Register(r.Context(), req.Email, req.Password,
		domain.UserType(req.UserType), req.FirstName, req.LastName)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			writeJSON(w, http.StatusConflict, ErrorResponse{Error: "email already registered"})
		case errors.Is(err, errs.ErrPasswordTooShort), errors.Is(err, domain.ErrInvalidEmail):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			slog.Error("handler.CreateUser:", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}
	writeJSON(w, http.StatusCreated, toUserItem(res.User))
}

// GET /users?limit=&cursor=
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	users, next, err := h.userSvc.List(r.Context(), limit, r.URL.Query().Get("cursor"))
	if err != nil {
		if errors.Is(err, postgres.ErrInvalidCursor) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_cursor"})
			return
		}
		slog.Error("handler.ListUsers:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := UsersListResponse{Items: make([]UserItem, 0, len(users)), NextCursor: next}
	for i := range users {
		resp.Items = append(resp.Items, toUserItem(&users[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	u, err := h.userSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		slog.Error("handler.GetUser:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, toUserItem(u))
}

// PATCH /users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	u, err := h.userSvc.Update(r.Context(), id, service.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		AvatarURL: req.AvatarURL,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "user not found"})
		case errors.Is(err, errs.ErrPasswordTooShort):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			slog.Error("handler.UpdateUser:", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}
	writeJSON(w, http.StatusOK, toUserItem(u))
}

// DELETE /users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	if err := h.userSvc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		slog.Error("handler.DeleteUser:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// currentUser достаёт id из контекста авторизации.
func currentUser(r *http.Request) domain.UserID {
	return httpmw.UserIDFromCtx(r.Context())
}
