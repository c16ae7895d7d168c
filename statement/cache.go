package statement

import (
	"context"
	"sync"

	"github.com/google/btree"
	log "github.com/sirupsen/logrus"
	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/errors"
	"github.com/squareup/pgrow/metrics"
)

const DefaultCacheSize = 256

type cacheKey struct {
	query  string
	format common.Format
}

type cacheEntry struct {
	key     cacheKey
	stmt    *Statement
	lastUse uint64
}

// Less orders entries by last use, so the minimum of the tree is the least recently used entry.
func (e *cacheEntry) Less(than btree.Item) bool {
	return e.lastUse < than.(*cacheEntry).lastUse
}

// Cache is a Preparer that remembers the statements prepared by another Preparer, keyed by query text
// and result format, evicting the least recently used statement when full.
//
// A statement is only cached once its preparation has succeeded. If preparation fails or the context
// is cancelled nothing is cached and the next caller prepares again.
type Cache struct {
	lock      sync.Mutex
	preparer  Preparer
	capacity  int
	entries   map[cacheKey]*cacheEntry
	lru       *btree.BTree
	useSeq    uint64
	hits      metrics.Counter
	misses    metrics.Counter
	evictions metrics.Counter
}

func NewCache(preparer Preparer, capacity int, factory metrics.Factory) (*Cache, error) {
	if capacity < 1 {
		return nil, errors.NewInvalidConfigurationError("statement cache size must be >= 1")
	}
	hits, err := factory.CreateCounter("pgrow_statement_cache_hits_total", "Statements served from the statement cache")
	if err != nil {
		return nil, err
	}
	misses, err := factory.CreateCounter("pgrow_statement_cache_misses_total", "Statements that had to be prepared")
	if err != nil {
		return nil, err
	}
	evictions, err := factory.CreateCounter("pgrow_statement_cache_evictions_total", "Statements evicted from the statement cache")
	if err != nil {
		return nil, err
	}
	return &Cache{
		preparer:  preparer,
		capacity:  capacity,
		entries:   make(map[cacheKey]*cacheEntry),
		lru:       btree.New(8),
		hits:      hits,
		misses:    misses,
		evictions: evictions,
	}, nil
}

func (c *Cache) PrepareWithResultFormat(ctx context.Context, query string, format common.Format) (*Statement, error) {
	key := cacheKey{query: query, format: format}
	if stmt, ok := c.get(key); ok {
		c.hits.Inc()
		return stmt, nil
	}
	c.misses.Inc()
	// the lock is not held while preparing, concurrent misses for the same key may both prepare
	stmt, err := c.preparer.PrepareWithResultFormat(ctx, query, format)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return c.put(key, stmt), nil
}

func (c *Cache) get(key cacheKey) (*Statement, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.touch(entry)
	return entry.stmt, true
}

// put returns the statement that ends up cached for key, which is an earlier one if another caller
// won the race to prepare it.
func (c *Cache) put(key cacheKey, stmt *Statement) *Statement {
	c.lock.Lock()
	defer c.lock.Unlock()
	if existing, ok := c.entries[key]; ok {
		c.touch(existing)
		return existing.stmt
	}
	c.useSeq++
	entry := &cacheEntry{key: key, stmt: stmt, lastUse: c.useSeq}
	c.entries[key] = entry
	c.lru.ReplaceOrInsert(entry)
	for len(c.entries) > c.capacity {
		oldest := c.lru.DeleteMin().(*cacheEntry)
		delete(c.entries, oldest.key)
		c.evictions.Inc()
		log.Debugf("evicted %s from statement cache", oldest.stmt)
	}
	return stmt
}

func (c *Cache) touch(entry *cacheEntry) {
	c.lru.Delete(entry)
	c.useSeq++
	entry.lastUse = c.useSeq
	c.lru.ReplaceOrInsert(entry)
}

// Len returns the number of cached statements.
func (c *Cache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.entries)
}

// Clear drops every cached statement.
func (c *Cache) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.entries = make(map[cacheKey]*cacheEntry)
	c.lru = btree.New(8)
}
