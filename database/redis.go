package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisClient is the shared connection pool. It backs both the cache layer
// and the distributed locks that serialize clinical writes.
var RedisClient *redis.Client

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	MaxRetries   int
}

// InitializeRedis connects the shared client and verifies the server is
// reachable before any repository starts taking locks against it.
func InitializeRedis() error {
	config, err := loadRedisConfig()
	if err != nil {
		return fmt.Errorf("failed to load Redis configuration: %w", err)
	}

	opt, err := redis.ParseURL(config.URL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.PoolSize = config.PoolSize
	opt.MinIdleConns = config.MinIdleConns
	opt.DialTimeout = config.DialTimeout
	opt.ReadTimeout = config.ReadTimeout
	opt.MaxRetries = config.MaxRetries

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis server: %w", err)
	}

	RedisClient = client
	log.Printf("Redis connected: pool=%d minIdle=%d dialTimeout=%s readTimeout=%s retries=%d",
		config.PoolSize, config.MinIdleConns, config.DialTimeout, config.ReadTimeout, config.MaxRetries)
	return nil
}

func loadRedisConfig() (RedisConfig, error) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		return RedisConfig{}, errors.New("REDIS_URL environment variable is not set")
	}
	return RedisConfig{
		URL:          url,
		PoolSize:     envInt("REDIS_POOL_SIZE", 10),
		MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 5),
		DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 30*time.Second),
		ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 10*time.Second),
		MaxRetries:   envInt("REDIS_MAX_RETRIES", 3),
	}, nil
}

func envInt(name string, fallback int) int {
	value, ok := os.LookupEnv(name)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer for %s, using default %d", name, fallback)
		return fallback
	}
	return parsed
}

func envDuration(name string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(name)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s, using default %s", name, fallback)
		return fallback
	}
	return parsed
}

// NewLock tries to take a distributed lock. The value must be unique per
// holder so ReleaseLock cannot free someone else's lock.
func NewLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if RedisClient == nil {
		return false, errors.New("Redis client is not initialized")
	}
	return RedisClient.SetNX(ctx, key, value, ttl).Result()
}

// releaseLockScript deletes the key only when the caller still owns it.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`)

// ReleaseLock frees a lock taken with NewLock. Releasing a lock whose TTL
// already expired (and was possibly re-taken) is reported as an error.
func ReleaseLock(ctx context.Context, key, value string) error {
	if RedisClient == nil {
		return errors.New("Redis client is not initialized")
	}
	result, err := releaseLockScript.Run(ctx, RedisClient, []string{key}, value).Result()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	if result.(int64) == 0 {
		return errors.New("lock release failed: not the lock owner")
	}
	return nil
}
