package httpmw

import (
	"context"
	"net/http"
	"strings"

	"github.com/edu-planet/edu-service/internal/domain"
	"github.com/edu-planet/edu-service/internal/security"
)

type ctxKey string

const (
	ctxKeyUserID   ctxKey = "user_id"
	ctxKeyUserType ctxKey = "user_type"
)

type TokenParser interface {
	ParseAndValidate(token string) (*security.AccessClaims, error)
}

// AuthMiddleware проверяет Bearer-токен и кладёт в контекст id и тип
// пользователя из клеймов.
func AuthMiddleware(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || len(auth) <= 7 {
				http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ParseAndValidate(strings.TrimSpace(auth[7:]))
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			uid, err := security.SubjectAsUserID(claims)
			if err != nil {
				http.Error(w, `{"error":"invalid token subject"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUserID, uid)
			ctx = context.WithValue(ctx, ctxKeyUserType, domain.UserType(claims.UserType))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserIDFromCtx(ctx context.Context) domain.UserID {
	if v := ctx.Value(ctxKeyUserID); v != nil {
		if id, ok := v.(domain.UserID); ok {
			return id
		}
	}
	return 0
}

func UserTypeFromCtx(ctx context.Context) domain.UserType {
	if v := ctx.Value(ctxKeyUserType); v != nil {
		if ut, ok := v.(domain.UserType); ok {
			return ut
		}
	}
	return ""
}
