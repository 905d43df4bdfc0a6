package search

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/windrose-search/windrose/internal/domain/search/response"
)

// responseCache is a small TTL'd LRU over complete responses, keyed by
// everything request-dependent (see Service.cacheKey). Partial responses
// are not cached so a transient engine outage is retried on the next
// request.
type responseCache struct {
	lru *expirable.LRU[string, response.Response]
}

func newResponseCache(size int, ttl time.Duration) *responseCache {
	if size <= 0 {
		size = 256
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &responseCache{lru: expirable.NewLRU[string, response.Response](size, nil, ttl)}
}

func (c *responseCache) get(key string) (response.Response, bool) {
	if c == nil {
		return response.Response{}, false
	}
	return c.lru.Get(key)
}

func (c *responseCache) put(key string, resp response.Response) {
	if c == nil || resp.Partial {
		return
	}
	c.lru.Add(key, resp)
}
