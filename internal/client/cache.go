package client

import (
	"sort"
	"sync"

	"citadel/internal/model"
)

// Key names one cached resource collection.
type Key string

const (
	KeyUser            Key = "auth/user"
	KeyContent         Key = "content"
	KeyReminders       Key = "reminders"
	KeyStats           Key = "stats"
	KeyActivity        Key = "activity"
	KeyIntegrations    Key = "integrations"
	KeyAdminStats      Key = "admin/stats"
	KeyAdminUsers      Key = "admin/users"
	KeyAdminContent    Key = "admin/content"
	KeyAdminReminders  Key = "admin/reminders"
	KeyAdminActivities Key = "admin/activities"
)

// ContentCategoryKey is the key for one category's entry list.
func ContentCategoryKey(category string) Key {
	return Key("content/" + category)
}

func allCategoryKeys() []Key {
	keys := make([]Key, 0, len(model.Categories))
	for _, c := range model.Categories {
		keys = append(keys, ContentCategoryKey(c))
	}
	return keys
}

// Cache holds raw response bodies by key. It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[Key][]byte
}

func NewCache() *Cache {
	return &Cache{entries: make(map[Key][]byte)}
}

func (c *Cache) Get(k Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[k]
	return b, ok
}

func (c *Cache) Set(k Key, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[k] = body
}

// Invalidate drops the given keys; missing keys are ignored.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
}

// Keys returns the cached keys in sorted order.
func (c *Cache) Keys() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Key, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
