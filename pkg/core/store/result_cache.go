package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/assumption"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/calc"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/projection"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/valuation"
)

// CacheMode indicates which cache backend is active
type CacheMode string

const (
	CacheModeRedis    CacheMode = "redis"
	CacheModeInMemory CacheMode = "in-memory"
)

const cacheKeyPrefix = "bankability:result:"

// RedisOptions configures the Redis connection behind ResultCache.
type RedisOptions struct {
	Address  string
	Password string
	DB       int
}

type memItem struct {
	data      []byte
	expiresAt time.Time
}

// ResultCache memoizes computed results by a fingerprint of their canonical
// inputs and options. It uses Redis when a client is given and an
// in-process map otherwise.
type ResultCache struct {
	redis *redis.Client
	ttl   time.Duration
	mem   sync.Map
}

// NewRedisClient connects and pings. Callers fall back to an in-memory
// cache when it fails.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	addr := opts.Address
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     5,
		MaxRetries:   3,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// NewResultCache wraps client; a nil client selects the in-memory backend.
// ttl <= 0 means entries never expire.
func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	c := &ResultCache{redis: client, ttl: ttl}
	log.Printf("[STORE] Result cache mode: %s", c.Mode())
	return c
}

// Mode reports the active backend.
func (c *ResultCache) Mode() CacheMode {
	if c.redis != nil {
		return CacheModeRedis
	}
	return CacheModeInMemory
}

// Fingerprint is the SHA-256 of the canonical inputs together with the
// options that change results. Default-valued options hash like their
// explicit defaults.
func Fingerprint(in assumption.CanonicalInputs, opts valuation.Options) (string, error) {
	curve := opts.SeasonalCurve
	if curve == (projection.SeasonalCurve{}) {
		curve = projection.DefaultSeasonalCurve
	}
	guess := opts.IRRGuess
	if guess == 0 {
		guess = calc.DefaultIRRGuess
	}

	payload, err := json.Marshal(struct {
		Inputs assumption.CanonicalInputs `json:"inputs"`
		Curve  projection.SeasonalCurve   `json:"curve"`
		Strict bool                       `json:"strict"`
		Guess  float64                    `json:"guess"`
	}{in, curve, opts.StrictIRR, guess})
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// Get returns the cached result for key. A miss is (nil, false, nil).
func (c *ResultCache) Get(ctx context.Context, key string) (*valuation.Result, bool, error) {
	var data []byte
	if c.redis != nil {
		b, err := c.redis.Get(ctx, cacheKeyPrefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("redis get: %w", err)
		}
		data = b
	} else {
		v, ok := c.mem.Load(key)
		if !ok {
			return nil, false, nil
		}
		item := v.(memItem)
		if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
			c.mem.Delete(key)
			return nil, false, nil
		}
		data = item.data
	}

	var res valuation.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, false, fmt.Errorf("decode cached result: %w", err)
	}
	return &res, true, nil
}

// Set stores res under key.
func (c *ResultCache) Set(ctx context.Context, key string, res *valuation.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if c.redis != nil {
		if err := c.redis.Set(ctx, cacheKeyPrefix+key, data, c.ttl).Err(); err != nil {
			return fmt.Errorf("redis set: %w", err)
		}
		return nil
	}

	item := memItem{data: data}
	if c.ttl > 0 {
		item.expiresAt = time.Now().Add(c.ttl)
	}
	c.mem.Store(key, item)
	return nil
}

// Compute returns the cached result for in and opts, computing and storing
// it on a miss. Cache failures are logged and never fail the computation.
func (c *ResultCache) Compute(ctx context.Context, in assumption.ModelInputs, opts valuation.Options) (*valuation.Result, bool, error) {
	canonical, err := assumption.Normalize(in)
	if err != nil {
		return nil, false, err
	}
	key, err := Fingerprint(canonical, opts)
	if err != nil {
		return nil, false, err
	}

	if res, ok, err := c.Get(ctx, key); err != nil {
		log.Printf("[WARNING] result cache read failed: %v", err)
	} else if ok {
		return res, true, nil
	}

	res, err := valuation.Calculate(canonical, opts)
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(ctx, key, res); err != nil {
		log.Printf("[WARNING] result cache write failed: %v", err)
	}
	return res, false, nil
}
