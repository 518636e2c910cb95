package photoblog

import (
	"sync"
	"time"
)

// FeedCache is an in-memory cache of the public post feed with TTL. Every
// mutation through the API invalidates it so readers never see a stale feed
// past one write.
type FeedCache struct {
	mu      sync.RWMutex
	posts   []Post
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewFeedCache creates a FeedCache backed by the given Store.
func NewFeedCache(s *Store, ttl time.Duration) *FeedCache {
	return &FeedCache{store: s, ttl: ttl}
}

func (c *FeedCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *FeedCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// Posts returns the public feed, loading it from the store when the cached
// copy is missing or expired. It tries a read lock first; only takes a write
// lock if a reload is needed.
func (c *FeedCache) Posts() ([]Post, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.ListPublicPosts()
	if err != nil {
		return nil, err
	}
	c.posts = posts
	c.fetched = time.Now()
	return posts, nil
}
