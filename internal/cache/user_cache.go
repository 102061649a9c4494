// Package cache provides the short-lived in-memory cache for user search
// results, so typing in the chat search box does not hammer the server.
package cache

import (
	"strings"
	"time"

	"github.com/learncrew/learncrew-agent/internal/models"
	"github.com/learncrew/learncrew-agent/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
)

// UserSearchCache caches user search results keyed by the normalized
// query. Entries expire after the configured TTL; staleness within the
// TTL is acceptable for a search box.
type UserSearchCache struct {
	store *gocache.Cache
}

// NewUserSearchCache creates a cache with the given entry TTL
func NewUserSearchCache(ttl time.Duration) *UserSearchCache {
	return &UserSearchCache{
		store: gocache.New(ttl, 2*ttl),
	}
}

// Get returns the cached results for a query, if present
func (c *UserSearchCache) Get(query string) ([]models.User, bool) {
	value, found := c.store.Get(normalize(query))
	if !found {
		metrics.CacheMisses.WithLabelValues("user_search").Inc()
		return nil, false
	}

	users, ok := value.([]models.User)
	if !ok {
		metrics.CacheMisses.WithLabelValues("user_search").Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("user_search").Inc()
	return users, true
}

// Set stores the results for a query
func (c *UserSearchCache) Set(query string, users []models.User) {
	c.store.SetDefault(normalize(query), users)
}

// Flush drops every entry, used on logout so results never leak across
// sessions
func (c *UserSearchCache) Flush() {
	c.store.Flush()
}

func normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
