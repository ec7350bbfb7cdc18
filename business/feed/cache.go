package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"resaleMarket/domain"
)

// ResponseCache stores whole home feed responses for a short TTL.
type ResponseCache interface {
	Get(ctx context.Context, key string) (domain.HomeFeedResponse, bool)
	Put(ctx context.Context, key string, resp domain.HomeFeedResponse)
}

// CacheKey builds the home feed key. Offset is deliberately absent: within
// the TTL every page request for the same seed/tag/limit gets the stored
// window.
func CacheKey(seed *int64, tag string, limit int) string {
	seedPart := "none"
	if seed != nil {
		seedPart = fmt.Sprintf("%d", *seed)
	}
	tagPart := tag
	if tagPart == "" {
		tagPart = "none"
	}
	return fmt.Sprintf("seed:%s|tag:%s|limit:%d", seedPart, tagPart, limit)
}

type cacheEntry struct {
	resp     domain.HomeFeedResponse
	storedAt time.Time
}

// MemoryCache is the in-process ResponseCache. Expired entries are not
// evicted, they are overwritten by the next Put for the same key.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (domain.HomeFeedResponse, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return domain.HomeFeedResponse{}, false
	}

	return cloneResponse(entry.resp), true
}

func (c *MemoryCache) Put(_ context.Context, key string, resp domain.HomeFeedResponse) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{resp: cloneResponse(resp), storedAt: c.now()}
	c.mu.Unlock()
}

// Len counts stored entries including stale ones.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cloneResponse(resp domain.HomeFeedResponse) domain.HomeFeedResponse {
	out := resp
	out.Items = make([]domain.FeedRow, len(resp.Items))
	copy(out.Items, resp.Items)
	return out
}

var _ ResponseCache = (*MemoryCache)(nil)
