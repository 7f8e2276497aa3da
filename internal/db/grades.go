package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/portfolio-grader/internal/cache"
	"github.com/jonathan/portfolio-grader/internal/types"
)

var _ cache.Store = (*DB)(nil)

// Get retrieves a fresh cached grading result and records the access.
// Returns (nil, nil) on a miss or an expired entry.
func (db *DB) Get(ctx context.Context, url string) (*types.GradingResult, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`UPDATE grading_cache
		 SET access_count = access_count + 1, last_accessed = NOW()
		 WHERE url = $1 AND expires_at > NOW()
		 RETURNING result`,
		url,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached grading: %w", err)
	}

	var result types.GradingResult
	if err := json.Unmarshal(content, &result); err != nil {
		return nil, fmt.Errorf("failed to decode cached grading: %w", err)
	}
	result.FromCache = true
	return &result, nil
}

// Put stores a grading result, replacing any previous entry for the URL.
func (db *DB) Put(ctx context.Context, result *types.GradingResult, ttl time.Duration) error {
	if ttl == 0 {
		ttl = cache.DefaultTTL
	}
	content, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal grading result: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO grading_cache (url, result, expires_at)
		 VALUES ($1, $2, NOW() + $3)
		 ON CONFLICT (url) DO UPDATE
		 SET result = $2, created_at = NOW(), expires_at = NOW() + $3,
		     access_count = 0, last_accessed = NULL`,
		result.URL, content, ttl,
	)
	if err != nil {
		return fmt.Errorf("failed to cache grading result: %w", err)
	}
	return nil
}

// Delete removes one cached entry.
func (db *DB) Delete(ctx context.Context, url string) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM grading_cache WHERE url = $1`, url)
	if err != nil {
		return fmt.Errorf("failed to delete cached grading: %w", err)
	}
	return nil
}

// Clear removes all cached entries and share links, returning how many cache
// rows were removed.
func (db *DB) Clear(ctx context.Context) (int, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM grading_cache`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear grading cache: %w", err)
	}
	if _, err := db.pool.Exec(ctx, `DELETE FROM share_links`); err != nil {
		return int(tag.RowsAffected()), fmt.Errorf("failed to clear share links: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Purge removes expired cache entries and share links.
func (db *DB) Purge(ctx context.Context) (int, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM grading_cache WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge grading cache: %w", err)
	}
	if _, err := db.pool.Exec(ctx, `DELETE FROM share_links WHERE expires_at <= NOW()`); err != nil {
		return int(tag.RowsAffected()), fmt.Errorf("failed to purge share links: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// CreateShare mints a shareable link for a graded URL.
func (db *DB) CreateShare(ctx context.Context, url string, expiry time.Duration) (*types.ShareLink, error) {
	if expiry == 0 {
		expiry = cache.DefaultShareExpiry
	}
	link := types.ShareLink{
		ID:        cache.NewShareID(),
		URL:       url,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(expiry),
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO share_links (id, url, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		link.ID, link.URL, link.CreatedAt, link.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create share link: %w", err)
	}
	return &link, nil
}

// GetShare resolves a share id to its cached grading result. Returns
// (nil, nil) when the link is unknown, expired, or its result fell out of the
// cache.
func (db *DB) GetShare(ctx context.Context, id string) (*types.GradingResult, error) {
	var url string
	err := db.pool.QueryRow(ctx,
		`SELECT url FROM share_links WHERE id = $1 AND expires_at > NOW()`,
		id,
	).Scan(&url)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get share link: %w", err)
	}
	return db.Get(ctx, url)
}

// Stats implements cache.Store.
func (db *DB) Stats(ctx context.Context) (cache.Stats, error) {
	var stats cache.Stats
	err := db.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM grading_cache WHERE expires_at > NOW()),
		   (SELECT COUNT(*) FROM share_links WHERE expires_at > NOW())`,
	).Scan(&stats.Entries, &stats.Shares)
	if err != nil {
		return cache.Stats{}, fmt.Errorf("failed to get cache stats: %w", err)
	}
	return stats, nil
}
