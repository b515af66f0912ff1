package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type TokenCache struct {
	client *redis.Client
}

func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

func (c *TokenCache) SaveRefresh(ctx context.Context, email string, refreshToken string) error {
	return c.client.Set(ctx, "refresh_token:"+refreshToken, email, 30*24*time.Hour).Err()
}

func (c *TokenCache) CheckRefresh(ctx context.Context, refreshToken string) (string, error) {
	return c.client.Get(ctx, "refresh_token:"+refreshToken).Result()
}

func (c *TokenCache) DeleteRefresh(ctx context.Context, refreshToken string) error {
	return c.client.Del(ctx, "refresh_token:"+refreshToken).Err()
}

// Reset codes are the short-lived password-reset tuple; the TTL doubles as
// code_expiration_time.
func (c *TokenCache) SaveResetCode(ctx context.Context, email string, code string) error {
	return c.client.Set(ctx, "reset_code:"+email, code, 15*time.Minute).Err()
}

func (c *TokenCache) GetResetCode(ctx context.Context, email string) (string, error) {
	return c.client.Get(ctx, "reset_code:"+email).Result()
}

func (c *TokenCache) DeleteResetCode(ctx context.Context, email string) error {
	return c.client.Del(ctx, "reset_code:"+email).Err()
}
