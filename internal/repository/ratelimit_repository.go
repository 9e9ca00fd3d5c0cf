package repository

import (
	"context"
	"fmt"
	"time"

	"rolodrawer/config"
	"rolodrawer/internal/util"
)

// RateLimitRepository хранит счётчики запросов и неудачных входов в Redis.
// Окно фиксированное: ключ живёт ровно window от первого запроса.
type RateLimitRepository struct {
	*config.RedisClient
}

func NewRateLimitRepository(redisClient *config.RedisClient) *RateLimitRepository {
	return &RateLimitRepository{redisClient}
}

func (r *RateLimitRepository) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := r.Client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, util.LogError("[RateLimit] ошибка инкремента счётчика", err)
	}
	if count == 1 {
		if err := r.Client.Expire(ctx, redisKey, window).Err(); err != nil {
			return false, util.LogError("[RateLimit] ошибка установки TTL", err)
		}
	}

	return count <= int64(limit), nil
}

// RegisterFailedLogin увеличивает счётчик неудачных входов.
// При достижении порога учётная запись блокируется на lockout
func (r *RateLimitRepository) RegisterFailedLogin(ctx context.Context, login string, threshold int, lockout time.Duration) (bool, error) {
	counterKey := fmt.Sprintf("failed_login:%s", login)

	count, err := r.Client.Incr(ctx, counterKey).Result()
	if err != nil {
		return false, util.LogError("[RateLimit] ошибка инкремента неудачных входов", err)
	}
	if count == 1 {
		if err := r.Client.Expire(ctx, counterKey, lockout).Err(); err != nil {
			return false, util.LogError("[RateLimit] ошибка установки TTL", err)
		}
	}

	if count < int64(threshold) {
		return false, nil
	}

	lockKey := fmt.Sprintf("lockout:%s", login)
	if err := r.Client.Set(ctx, lockKey, "1", lockout).Err(); err != nil {
		return false, util.LogError("[RateLimit] ошибка установки блокировки", err)
	}
	return true, nil
}

func (r *RateLimitRepository) IsLockedOut(ctx context.Context, login string) (bool, error) {
	exists, err := r.Client.Exists(ctx, fmt.Sprintf("lockout:%s", login)).Result()
	if err != nil {
		return false, util.LogError("[RateLimit] ошибка проверки блокировки", err)
	}
	return exists > 0, nil
}

func (r *RateLimitRepository) ResetFailedLogins(ctx context.Context, login string) error {
	keys := []string{
		fmt.Sprintf("failed_login:%s", login),
		fmt.Sprintf("lockout:%s", login),
	}
	if err := r.Client.Del(ctx, keys...).Err(); err != nil {
		return util.LogError("[RateLimit] ошибка сброса счётчика входов", err)
	}
	return nil
}
