// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rescache caches landing-page scrape results with outcome-dependent
// expiry: hits stay fresh much longer than misses, so a publisher that
// failed once is re-tried within the hour while known-good extractions are
// reused for a day.
package rescache

import (
	"strconv"
	"sync"
	"time"

	"github.com/pdiddy/pdf-resolver/pkg/types"
)

const (
	defaultPositiveTTL = 24 * time.Hour
	defaultNegativeTTL = 1 * time.Hour
	defaultMaxEntries  = 1000
)

// Key builds the cache key for a landing page fetched with or without the
// proxy. The two variants are cached independently because they can return
// different documents.
func Key(absoluteURL string, useProxy bool) string {
	return absoluteURL + ":" + strconv.FormatBool(useProxy)
}

type entry struct {
	result     types.LandingPageResult
	insertedAt time.Time
}

// Cache is a bounded, TTL-keyed store of landing-page results. A single
// mutex linearizes all reads and writes; operations are map lookups and
// small slice edits, so contention stays negligible even under concurrent
// batch resolution.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	order   []string // insertion order, oldest first

	positiveTTL time.Duration
	negativeTTL time.Duration
	maxEntries  int

	now func() time.Time
}

// New builds a Cache, applying defaults for zero config values
// (24h positive TTL, 1h negative TTL, 1000 entries).
func New(cfg types.CacheConfig) *Cache {
	c := &Cache{
		entries:     make(map[string]entry),
		positiveTTL: cfg.PositiveTTL,
		negativeTTL: cfg.NegativeTTL,
		maxEntries:  cfg.MaxEntries,
		now:         time.Now,
	}
	if c.positiveTTL <= 0 {
		c.positiveTTL = defaultPositiveTTL
	}
	if c.negativeTTL <= 0 {
		c.negativeTTL = defaultNegativeTTL
	}
	if c.maxEntries <= 0 {
		c.maxEntries = defaultMaxEntries
	}
	return c
}

// Get returns the cached result for key if it is still fresh. A stale
// entry is evicted on read and reported as a miss.
func (c *Cache) Get(key string) (types.LandingPageResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return types.LandingPageResult{}, false
	}
	if c.now().Sub(e.insertedAt) >= c.ttlFor(e.result) {
		delete(c.entries, key)
		c.removeFromOrder(key)
		return types.LandingPageResult{}, false
	}
	return e.result, true
}

// Put stores result under key, replacing any previous entry for the key.
// When the cache is full the oldest-inserted entry is evicted first.
func (c *Cache) Put(key string, result types.LandingPageResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		// Replacement counts as a fresh insertion.
		c.removeFromOrder(key)
	} else if len(c.entries) >= c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = entry{result: result, insertedAt: c.now()}
	c.order = append(c.order, key)
}

// Len returns the number of stored entries, fresh or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// ttlFor selects the expiry for a result: positive when a PDF URL was
// found, negative otherwise.
func (c *Cache) ttlFor(r types.LandingPageResult) time.Duration {
	if r.PDFURL != "" {
		return c.positiveTTL
	}
	return c.negativeTTL
}

func (c *Cache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
