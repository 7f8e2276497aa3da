package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/portfolio-grader/internal/types"
)

// Memory is an in-process Store used when no database is configured, and by
// tests. Entries vanish on restart, which is acceptable for a cache.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	shares  map[string]types.ShareLink
	now     func() time.Time
}

var _ Store = (*Memory)(nil)

type memoryEntry struct {
	result      types.GradingResult
	expiresAt   time.Time
	accessCount int
	lastAccess  time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]*memoryEntry),
		shares:  make(map[string]types.ShareLink),
		now:     time.Now,
	}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, url string) (*types.GradingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[url]
	if !ok {
		return nil, nil
	}
	if m.now().After(entry.expiresAt) {
		delete(m.entries, url)
		return nil, nil
	}
	entry.accessCount++
	entry.lastAccess = m.now()

	result := entry.result
	result.FromCache = true
	return &result, nil
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, result *types.GradingResult, ttl time.Duration) error {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[result.URL] = &memoryEntry{
		result:    *result,
		expiresAt: m.now().Add(ttl),
	}
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, url)
	return nil
}

// Clear implements Store.
func (m *Memory) Clear(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.entries)
	m.entries = make(map[string]*memoryEntry)
	m.shares = make(map[string]types.ShareLink)
	return n, nil
}

// Purge implements Store: it drops expired cache entries and share links.
func (m *Memory) Purge(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for url, entry := range m.entries {
		if m.now().After(entry.expiresAt) {
			delete(m.entries, url)
			n++
		}
	}
	for id, link := range m.shares {
		if link.Expired(m.now()) {
			delete(m.shares, id)
		}
	}
	return n, nil
}

// CreateShare implements Store.
func (m *Memory) CreateShare(_ context.Context, url string, expiry time.Duration) (*types.ShareLink, error) {
	if expiry == 0 {
		expiry = DefaultShareExpiry
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	link := types.ShareLink{
		ID:        NewShareID(),
		URL:       url,
		CreatedAt: m.now(),
		ExpiresAt: m.now().Add(expiry),
	}
	m.shares[link.ID] = link
	return &link, nil
}

// GetShare implements Store.
func (m *Memory) GetShare(ctx context.Context, id string) (*types.GradingResult, error) {
	m.mu.Lock()
	link, ok := m.shares[id]
	if ok && link.Expired(m.now()) {
		delete(m.shares, id)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return nil, nil
	}
	return m.Get(ctx, link.URL)
}

// Stats implements Store.
func (m *Memory) Stats(context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{Entries: len(m.entries), Shares: len(m.shares)}, nil
}

// Close implements Store.
func (m *Memory) Close() {}
