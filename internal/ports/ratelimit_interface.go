package ports

import (
	"context"
	"time"
)

// RateLimiter : Redis слой счётчиков запросов и блокировки входа
type RateLimiter interface {
	// Allow инкрементирует счётчик фиксированного окна и сообщает,
	// остался ли вызов в пределах лимита
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	RegisterFailedLogin(ctx context.Context, login string, threshold int, lockout time.Duration) (locked bool, err error)
	IsLockedOut(ctx context.Context, login string) (bool, error)
	ResetFailedLogins(ctx context.Context, login string) error
}
