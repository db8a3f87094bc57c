package services

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

const (
	settingsCacheKey = "settings:store"
	cacheAttempts    = 3
)

// CacheService wraps the shared Redis pool with retrying helpers
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: getRedisClient(cfg.Cache),
	}
}

func getRedisClient(cfg *structs.CacheConfig) *redis.Client {
	redisOnce.Do(func() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,

			PoolSize:        cfg.PoolSize,
			MinIdleConns:    cfg.MinIdleConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			PoolTimeout:     cfg.PoolTimeout,
			ConnMaxIdleTime: cfg.IdleTimeout,

			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,

			MaxRetries:      cfg.MaxRetries,
			MinRetryBackoff: cfg.MinRetryBackoff,
			MaxRetryBackoff: cfg.MaxRetryBackoff,
		})
	})
	return redisClient
}

func (cs *CacheService) Close() error {
	if redisClient != nil {
		return redisClient.Close()
	}
	return nil
}

// withRetry retries network failures with jittered exponential backoff
func (cs *CacheService) withRetry(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt < cacheAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryableCacheError(err) || attempt == cacheAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cacheBackoff(attempt)):
		}
	}

	return fmt.Errorf("redis operation failed: %w", lastErr)
}

// cacheBackoff returns 100ms·2^attempt capped at 2s, jittered into [b/2, b]
func cacheBackoff(attempt int) time.Duration {
	backoff := min(100*(1<<attempt), 2000)

	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return time.Duration(backoff) * time.Millisecond
	}
	jitter := int(binary.BigEndian.Uint32(buf[:]) % uint32(backoff/2+1))
	return time.Duration(backoff/2+jitter) * time.Millisecond
}

func isRetryableCacheError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}

	errStr := err.Error()
	for _, retryable := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	} {
		if strings.Contains(errStr, retryable) {
			return true
		}
	}
	return false
}

func (cs *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Set(ctx, key, value, ttl).Err()
	})
}

// Get returns an empty string and no error for a missing key
func (cs *CacheService) Get(ctx context.Context, key string) (string, error) {
	var result string
	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			result = ""
			return nil
		}
		if err != nil {
			return err
		}
		result = val
		return nil
	})
	return result, err
}

func (cs *CacheService) Delete(ctx context.Context, keys ...string) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Del(ctx, keys...).Err()
	})
}

// BlacklistToken keeps the jti until the token would have expired anyway
func (cs *CacheService) BlacklistToken(ctx context.Context, jti uuid.UUID, exp time.Time) error {
	ttl := cs.config.Auth.BlacklistCacheTTL
	if exp.After(time.Now()) {
		ttl = time.Until(exp)
	}
	return cs.Set(ctx, "blacklist:"+jti.String(), "true", ttl)
}

func (cs *CacheService) IsTokenBlacklisted(ctx context.Context, jti uuid.UUID) (bool, error) {
	val, err := cs.Get(ctx, "blacklist:"+jti.String())
	if err != nil {
		return false, err
	}
	return val == "true", nil
}

// IncrementRateLimit bumps a fixed-window counter and returns the new count
// with the time left in the window.
func (cs *CacheService) IncrementRateLimit(ctx context.Context, ip, group string, window time.Duration) (int, time.Duration, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", group, ip)

	var count int64
	var ttl time.Duration
	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Incr(ctx, key).Result()
		if err != nil {
			return err
		}
		count = val

		if val == 1 {
			ttl = window
			return cs.client.Expire(ctx, key, window).Err()
		}

		ttl, err = cs.client.TTL(ctx, key).Result()
		if err != nil {
			return err
		}
		if ttl < 0 {
			// counter lost its expiry; give it a fresh window
			ttl = window
			return cs.client.Expire(ctx, key, window).Err()
		}
		return nil
	})
	return int(count), ttl, err
}

func (cs *CacheService) GetRateLimitStatus(ctx context.Context, ip, group string) (map[string]any, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", group, ip)

	var result map[string]any
	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			result = map[string]any{"count": 0, "ttl": 0}
			return nil
		}
		if err != nil {
			return err
		}

		ttl, err := cs.client.TTL(ctx, key).Result()
		if err != nil {
			return err
		}

		count, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid rate limit value: %w", err)
		}

		result = map[string]any{"count": count, "ttl": int(ttl.Seconds())}
		return nil
	})
	return result, err
}

func (cs *CacheService) Ping(ctx context.Context) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Ping(ctx).Err()
	})
}

func (cs *CacheService) GetConnectionStats() map[string]any {
	stats := cs.client.PoolStats()
	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

// ============================================================================
// Product and settings caches
// ============================================================================

func productCacheKey(id uuid.UUID) string {
	return "product:id:" + id.String()
}

func (cs *CacheService) GetProductByID(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	product, err := getJSON[tables.Product](ctx, cs, productCacheKey(id))
	if err != nil {
		cs.logger.Warn("Failed to get product from cache", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}
	return product, nil
}

func (cs *CacheService) SetProductByID(ctx context.Context, product *tables.Product) error {
	return setJSON(ctx, cs, productCacheKey(product.ID), product, cs.config.Cache.ProductTTL)
}

func (cs *CacheService) InvalidateProduct(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productCacheKey(id)
	}
	return cs.Delete(ctx, keys...)
}

// InvalidateAllProductCaches drops every cached product, as after a sale is applied
func (cs *CacheService) InvalidateAllProductCaches(ctx context.Context) error {
	cs.logger.Info("Invalidating all product caches")
	if err := cs.DeletePattern(ctx, "product:*"); err != nil {
		cs.logger.Error("Failed to delete cache pattern", gecho.Field("pattern", "product:*"), gecho.Field("error", err))
		return err
	}
	return nil
}

// GetSettings returns the raw settings rows, or nil on a miss.
func (cs *CacheService) GetSettings(ctx context.Context) (map[string]string, error) {
	rows, err := getJSON[map[string]string](ctx, cs, settingsCacheKey)
	if err != nil || rows == nil {
		return nil, err
	}
	return *rows, nil
}

func (cs *CacheService) SetSettings(ctx context.Context, rows map[string]string) error {
	return setJSON(ctx, cs, settingsCacheKey, rows, cs.config.Cache.SettingsTTL)
}

func (cs *CacheService) InvalidateSettings(ctx context.Context) error {
	return cs.Delete(ctx, settingsCacheKey)
}

// DeletePattern removes all keys matching pattern using SCAN
func (cs *CacheService) DeletePattern(ctx context.Context, pattern string) error {
	return cs.withRetry(ctx, func() error {
		var cursor uint64
		for {
			keys, next, err := cs.client.Scan(ctx, cursor, pattern, 100).Result()
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
			if len(keys) > 0 {
				if err := cs.client.Del(ctx, keys...).Err(); err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}
			}
			cursor = next
			if cursor == 0 {
				return nil
			}
		}
	})
}

func (cs *CacheService) ClearAll(ctx context.Context) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.FlushDB(ctx).Err()
	})
}

func setJSON[T any](ctx context.Context, cs *CacheService, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return cs.Set(ctx, key, data, ttl)
}

func getJSON[T any](ctx context.Context, cs *CacheService, key string) (*T, error) {
	val, err := cs.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if val == "" {
		return nil, nil
	}

	var result T
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return &result, nil
}
