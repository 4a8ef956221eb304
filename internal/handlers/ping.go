package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/rfq-service/internal/utils"
)

// Pinger проверяет доступность хранилища. *pgxpool.Pool подходит без обёрток.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewPingHandler возвращает обработчик GET /api/ping.
// При недоступном хранилище отвечает 503. Хранилище в памяти передаётся как nil.
func NewPingHandler(storage Pinger, logger *log.Logger, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if storage != nil {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			if err := storage.Ping(ctx); err != nil {
				logger.Printf("ping storage: %v", err)
				utils.SendErrorResponse(w, http.StatusServiceUnavailable, "storage unavailable")
				return
			}
		}

		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		if _, err := fmt.Fprint(w, "ok"); err != nil {
			logger.Println(err)
		}
	}
}
