package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/portfolio-grader/internal/types"
)

const (
	gradePrefix = "grade:"
	sharePrefix = "share:"
	hitsSuffix  = ":hits"
)

// Redis is a Store backed by a Redis instance; TTL handling is delegated to
// Redis key expiry.
type Redis struct {
	client *redis.Client
}

var _ Store = (*Redis)(nil)

// NewRedis connects to the given Redis URL (redis://host:port/db).
func NewRedis(ctx context.Context, redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &Redis{client: client}, nil
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, url string) (*types.GradingResult, error) {
	data, err := r.client.Get(ctx, gradePrefix+url).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var result types.GradingResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}

	// Access tracking is best-effort.
	_ = r.client.Incr(ctx, gradePrefix+url+hitsSuffix).Err()

	result.FromCache = true
	return &result, nil
}

// Put implements Store.
func (r *Redis) Put(ctx context.Context, result *types.GradingResult, ttl time.Duration) error {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := r.client.Set(ctx, gradePrefix+result.URL, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Delete implements Store.
func (r *Redis) Delete(ctx context.Context, url string) error {
	if err := r.client.Del(ctx, gradePrefix+url, gradePrefix+url+hitsSuffix).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Clear implements Store.
func (r *Redis) Clear(ctx context.Context) (int, error) {
	deleted := 0
	for _, prefix := range []string{gradePrefix, sharePrefix} {
		keys, err := r.scanKeys(ctx, prefix+"*")
		if err != nil {
			return deleted, err
		}
		if len(keys) == 0 {
			continue
		}
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return deleted, fmt.Errorf("failed to clear cache: %w", err)
		}
		deleted += len(keys)
	}
	return deleted, nil
}

// Purge implements Store. Redis expires keys on its own, so there is nothing
// to do.
func (r *Redis) Purge(context.Context) (int, error) {
	return 0, nil
}

// CreateShare implements Store.
func (r *Redis) CreateShare(ctx context.Context, url string, expiry time.Duration) (*types.ShareLink, error) {
	if expiry == 0 {
		expiry = DefaultShareExpiry
	}
	link := types.ShareLink{
		ID:        NewShareID(),
		URL:       url,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(expiry),
	}
	data, err := json.Marshal(link)
	if err != nil {
		return nil, fmt.Errorf("failed to encode share link: %w", err)
	}
	if err := r.client.Set(ctx, sharePrefix+link.ID, data, expiry).Err(); err != nil {
		return nil, fmt.Errorf("failed to write share link: %w", err)
	}
	return &link, nil
}

// GetShare implements Store.
func (r *Redis) GetShare(ctx context.Context, id string) (*types.GradingResult, error) {
	data, err := r.client.Get(ctx, sharePrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read share link: %w", err)
	}

	var link types.ShareLink
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, fmt.Errorf("failed to decode share link: %w", err)
	}
	return r.Get(ctx, link.URL)
}

// Stats implements Store.
func (r *Redis) Stats(ctx context.Context) (Stats, error) {
	grades, err := r.scanKeys(ctx, gradePrefix+"*")
	if err != nil {
		return Stats{}, err
	}
	shares, err := r.scanKeys(ctx, sharePrefix+"*")
	if err != nil {
		return Stats{}, err
	}

	entries := 0
	for _, k := range grades {
		if len(k) < len(hitsSuffix) || k[len(k)-len(hitsSuffix):] != hitsSuffix {
			entries++
		}
	}
	return Stats{Entries: entries, Shares: len(shares)}, nil
}

// Close implements Store.
func (r *Redis) Close() {
	_ = r.client.Close()
}

func (r *Redis) scanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan cache keys: %w", err)
	}
	return keys, nil
}
