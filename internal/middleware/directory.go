package middleware

import (
	"log"
	"net/http"
	"sync"

	"github.com/senyabanana/rfq-service/internal/models"
	"github.com/senyabanana/rfq-service/internal/repository"
)

// RegisterUsers заносит аутентифицированных пользователей в справочник при первом запросе.
// По справочнику рассылаются уведомления всем поставщикам.
func RegisterUsers(users repository.UserRepository, logger *log.Logger) func(http.Handler) http.Handler {
	var known sync.Map // map[string]struct{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := ActorFromContext(r.Context())
			if actor.ID != "" {
				if _, ok := known.Load(actor.ID); !ok {
					_, err := users.CreateUser(r.Context(), models.User{ID: actor.ID, Role: actor.Role})
					if err != nil {
						logger.Printf("failed to register user %s: %v", actor.ID, err)
					} else {
						known.Store(actor.ID, struct{}{})
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
