package identity

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/wandermesh/waystation/internal/domain"
)

// userCache provides an in-memory LRU cache for user lookups with
// time-based expiration. Writes that change a user record must invalidate
// the entry so reputation gates never act on stale values.
type userCache struct {
	lru *expirable.LRU[string, *domain.User]
}

func newUserCache(size int, ttl time.Duration) *userCache {
	return &userCache{
		lru: expirable.NewLRU[string, *domain.User](size, nil, ttl),
	}
}

func (c *userCache) Get(userID string) (*domain.User, bool) {
	return c.lru.Get(userID)
}

func (c *userCache) Set(user *domain.User) {
	c.lru.Add(user.ID, user)
}

func (c *userCache) Invalidate(userID string) {
	c.lru.Remove(userID)
}
