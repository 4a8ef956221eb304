package middleware

import (
	"net"
	"net/http"
	"sync"

	"github.com/senyabanana/rfq-service/internal/metrics"
	"github.com/senyabanana/rfq-service/internal/utils"

	"golang.org/x/time/rate"
)

// clientKey выбирает ключ лимита: ID пользователя, если он аутентифицирован, иначе IP.
func clientKey(r *http.Request) string {
	if actor := ActorFromContext(r.Context()); actor.ID != "" {
		return "sub:" + actor.ID
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// RateLimit ограничивает запросы token bucket'ом на каждого клиента.
// rps - скорость пополнения, burst - размер корзины.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	var limiters sync.Map // map[string]*rate.Limiter

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, _ := limiters.LoadOrStore(clientKey(r), rate.NewLimiter(rate.Limit(rps), burst))
			if !v.(*rate.Limiter).Allow() {
				metrics.RateLimitRejected.WithLabelValues("memory").Inc()
				w.Header().Set("Retry-After", "1")
				utils.SendErrorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
			next.ServeHTTP(w, r)
		})
	}
}
