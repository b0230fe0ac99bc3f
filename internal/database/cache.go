package database

import (
	"context"
	"time"
)

const (
	// Cache key prefixes
	CacheKeyCustomer  = "infora:customer:"
	CacheKeyBlacklist = "infora:jwt:blacklist:"
)

// CacheDelete removes a key from Redis cache
func CacheDelete(keys ...string) error {
	if Redis == nil || len(keys) == 0 {
		return nil
	}
	ctx := context.Background()
	return Redis.Del(ctx, keys...).Err()
}

// BlacklistToken marks a JWT id as revoked until the token would have
// expired anyway.
func BlacklistToken(jti string, ttl time.Duration) error {
	if Redis == nil || ttl <= 0 {
		return nil
	}
	ctx := context.Background()
	return Redis.Set(ctx, CacheKeyBlacklist+jti, "1", ttl).Err()
}

// IsTokenBlacklisted reports whether a JWT id has been revoked.
func IsTokenBlacklisted(jti string) bool {
	if Redis == nil {
		return false
	}
	ctx := context.Background()
	n, err := Redis.Exists(ctx, CacheKeyBlacklist+jti).Result()
	return err == nil && n > 0
}

// InvalidateCustomerCache clears the cached lookup for a login identity.
// Called whenever a customer's status or plan changes so the next
// authentication sees fresh data.
func InvalidateCustomerCache(email string) {
	CacheDelete(CacheKeyCustomer + email)
}
