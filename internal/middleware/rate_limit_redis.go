package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/senyabanana/rfq-service/internal/metrics"
	"github.com/senyabanana/rfq-service/internal/utils"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimit - лимит с фиксированным окном в Redis, общий для всех экземпляров сервиса.
// В окне разрешено floor(rps*window)+burst запросов. Без клиента используется RateLimit.
func RedisRateLimit(client *redis.Client, rps float64, burst int, window time.Duration, logger *log.Logger) func(http.Handler) http.Handler {
	if client == nil {
		return RateLimit(rps, burst)
	}
	windowSeconds := int64(window.Seconds())
	if windowSeconds <= 0 {
		windowSeconds = 1
	}
	allowed := int64(rps*float64(windowSeconds)) + int64(burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bucket := time.Now().Unix() / windowSeconds
			key := fmt.Sprintf("rl:%s:%d", clientKey(r), bucket)

			count, err := client.Incr(r.Context(), key).Result()
			if err != nil {
				logger.Printf("rate limit check failed: %v", err)
				utils.SendErrorResponse(w, http.StatusInternalServerError, "rate limit check failed")
				return
			}
			if count == 1 {
				if err = client.Expire(r.Context(), key, time.Duration(windowSeconds+1)*time.Second).Err(); err != nil {
					logger.Printf("failed to set rate limit expiry: %v", err)
				}
			}
			if count > allowed {
				metrics.RateLimitRejected.WithLabelValues("redis").Inc()
				w.Header().Set("Retry-After", strconv.FormatInt(windowSeconds, 10))
				utils.SendErrorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
			next.ServeHTTP(w, r)
		})
	}
}
