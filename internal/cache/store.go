// Package cache defines the grading-result cache contract and its
// non-PostgreSQL implementations. Caching is a cost optimization: every
// operation may fail without affecting grading correctness.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/portfolio-grader/internal/types"
)

// DefaultTTL is how long a cached grading stays fresh.
const DefaultTTL = 7 * 24 * time.Hour

// DefaultShareExpiry is how long a shareable link stays valid.
const DefaultShareExpiry = 30 * 24 * time.Hour

// ShareIDLength is the length of a shareable link id.
const ShareIDLength = 12

// Stats summarizes cache contents.
type Stats struct {
	Entries int `json:"entries"`
	Shares  int `json:"shares"`
}

// Store is the grading-result cache. Get returns (nil, nil) on a miss or an
// expired entry; a hit also records the access.
type Store interface {
	Get(ctx context.Context, url string) (*types.GradingResult, error)
	Put(ctx context.Context, result *types.GradingResult, ttl time.Duration) error
	Delete(ctx context.Context, url string) error
	Clear(ctx context.Context) (int, error)
	Purge(ctx context.Context) (int, error)
	CreateShare(ctx context.Context, url string, expiry time.Duration) (*types.ShareLink, error)
	GetShare(ctx context.Context, id string) (*types.GradingResult, error)
	Stats(ctx context.Context) (Stats, error)
	Close()
}

// NewShareID mints a random url-safe share id.
func NewShareID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:ShareIDLength]
}
