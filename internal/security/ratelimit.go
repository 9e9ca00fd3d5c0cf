package security

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"
)

// requestLimiter : единственный метод лимитера, который нужен middleware
type requestLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimitMiddleware ограничивает число запросов в час на токен
// (для неавторизованных запросов — на IP). Лимит 0 отключает проверку.
func RateLimitMiddleware(limiter requestLimiter, requestsPerHour int) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if requestsPerHour <= 0 {
				next.ServeHTTP(writer, request)
				return
			}

			key := strings.TrimPrefix(request.Header.Get("Authorization"), "Bearer ")
			if key == "" {
				key = request.RemoteAddr
			}

			allowed, err := limiter.Allow(request.Context(), key, requestsPerHour, time.Hour)
			if err != nil {
				// при недоступном Redis запрос пропускается
				log.Printf("ошибка проверки лимита запросов: %v", err)
				next.ServeHTTP(writer, request)
				return
			}
			if !allowed {
				http.Error(writer, "превышен лимит запросов", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
