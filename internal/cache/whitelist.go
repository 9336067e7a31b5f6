// whitelist.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

// Package cache provides the bounded TTL/LRU cache that backs the tile
// URL whitelist service.
package cache

import (
	"sync"
	"time"
)

const (
	// DefaultCapacity bounds the number of cached whitelist decisions.
	DefaultCapacity = 1000
	// DefaultTTL is how long a cached decision stays valid.
	DefaultTTL = 5 * time.Minute
)

// entry is a node in the doubly-linked recency list.
type entry struct {
	key         string
	whitelisted bool
	prev        *entry
	next        *entry
	expiresAt   time.Time
}

// Whitelist is a thread-safe bounded cache mapping a normalized URL to a
// whitelist decision. Lookups and inserts are O(1); when the cache is at
// capacity the least recently used entry is evicted. Expiry is checked
// lazily on read, there is no background sweeper: stale entries that are
// never read again are bounded by capacity and fall off the LRU tail.
type Whitelist struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration

	// items maps keys to list nodes for O(1) lookup
	items map[string]*entry

	// head.next is the most recently used, tail.prev the least
	head *entry
	tail *entry

	// now is swappable for TTL tests
	now func() time.Time
}

// NewWhitelist creates a whitelist cache. Non-positive capacity or TTL
// fall back to the defaults.
func NewWhitelist(capacity int, ttl time.Duration) *Whitelist {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &Whitelist{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry, capacity),
		head:     &entry{},
		tail:     &entry{},
		now:      time.Now,
	}
	c.head.next = c.tail
	c.tail.prev = c.head

	return c
}

// Get returns the cached decision for key. A hit refreshes the entry's
// recency; an expired entry is evicted and reported as a miss.
func (c *Whitelist) Get(key string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return false, false
	}

	if c.now().After(e.expiresAt) {
		c.remove(e)
		return false, false
	}

	c.moveToFront(e)
	return e.whitelisted, true
}

// Set inserts or overwrites the decision for key, evicting the least
// recently used entry when a new key would exceed capacity. Concurrent
// writers for the same key race last-write-wins, which is harmless since
// both compute the same decision.
func (c *Whitelist) Set(key string, whitelisted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)

	if e, ok := c.items[key]; ok {
		e.whitelisted = whitelisted
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	if len(c.items) >= c.capacity {
		c.remove(c.tail.prev)
	}

	e := &entry{key: key, whitelisted: whitelisted, expiresAt: expiresAt}
	c.items[key] = e
	c.pushFront(e)
}

// Clear drops all entries.
func (c *Whitelist) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry, c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Len returns the number of entries currently held, expired or not.
func (c *Whitelist) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Whitelist) pushFront(e *entry) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

func (c *Whitelist) moveToFront(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	c.pushFront(e)
}

func (c *Whitelist) remove(e *entry) {
	if e == c.head || e == c.tail {
		return
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(c.items, e.key)
}
