package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/senyabanana/rfq-service/internal/models"
	"github.com/senyabanana/rfq-service/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const actorKey contextKey = "actor"

var errInvalidClaims = errors.New("token has no subject or known role")

var knownRoles = map[models.Role]bool{
	models.CompanyRole:  true,
	models.SupplierRole: true,
	models.ConsumerRole: true,
}

// WithActor кладёт пользователя в контекст запроса.
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext возвращает пользователя запроса. Без аутентификации - анонимный пользователь.
func ActorFromContext(ctx context.Context) models.Actor {
	if actor, ok := ctx.Value(actorKey).(models.Actor); ok {
		return actor
	}
	return models.Anonymous()
}

// ParseToken проверяет HS256 токен и извлекает из него пользователя.
func ParseToken(raw string, secret []byte) (models.Actor, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Actor{}, err
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return models.Actor{}, err
	}
	role, _ := claims["role"].(string)
	if sub == "" || !knownRoles[models.Role(role)] {
		return models.Actor{}, errInvalidClaims
	}
	return models.Actor{ID: sub, Role: models.Role(role)}, nil
}

// Auth проверяет заголовок Authorization: Bearer <jwt>.
// Запрос без заголовка выполняется от имени анонимного пользователя.
func Auth(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), models.Anonymous())))
				return
			}

			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(raw) == "" {
				utils.SendErrorResponse(w, http.StatusUnauthorized, "invalid Authorization header")
				return
			}

			actor, err := ParseToken(strings.TrimSpace(raw), key)
			if err != nil {
				utils.SendErrorResponse(w, http.StatusUnauthorized, "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}
