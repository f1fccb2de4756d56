package cache

import (
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/gobwas/glob"
)

// SuggestKey derives the cache key for one suggest call. Keys are built from
// the raw query on purpose: identical literal queries hit, while queries that
// only normalize to the same text ("Đà Lạt" vs "da lat") are separate
// entries. Known limitation, preserved deliberately.
func SuggestKey(query string) string {
	return "suggest:" + query
}

// Cache is a read-through TTL cache over badger. It is advisory: every
// failure degrades to a miss or a skipped write, never to a failed request.
// A nil-db Cache (see Disabled) is valid and treats every op as a no-op.
type Cache struct {
	db  *badger.DB
	ttl time.Duration

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// Open opens the badger-backed cache. An empty dir selects an in-memory
// store, which still honors TTLs but loses entries on restart.
func Open(dir string, ttl time.Duration) (*Cache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Cache{db: db, ttl: ttl}, nil
}

// Disabled returns a cache whose operations all no-op. Used when the backend
// failed to open: caching degrades, the service still starts.
func Disabled() *Cache {
	return &Cache{}
}

// Connected reports whether a backend is actually behind this cache.
func (c *Cache) Connected() bool {
	return c != nil && c.db != nil
}

// DefaultTTL returns the TTL configured at open time.
func (c *Cache) DefaultTTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.ttl
}

// Get returns the cached value for key, or ok=false on miss, expiry, or any
// backend failure.
func (c *Cache) Get(key string) ([]byte, bool) {
	if !c.Connected() {
		return nil, false
	}

	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if err != badger.ErrKeyNotFound {
			log.Debugf("Cache GET failed for %s: %v", key, err)
		}
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return value, true
}

// Set stores value under key with the given TTL (0 falls back to the default
// TTL). Write failures are swallowed.
func (c *Cache) Set(key string, value []byte, ttl time.Duration) {
	if !c.Connected() {
		return
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	err := c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		log.Debugf("Cache SET failed for %s: %v", key, err)
		return
	}
	c.sets.Add(1)
}

// Invalidate removes every key matching the glob pattern and returns how
// many were removed. Keys embed the raw query, so `*` must cross every
// character, slashes included: "suggest:*" clears all suggestion entries.
func (c *Cache) Invalidate(pattern string) (int, error) {
	// Compile up front so a bad glob is an error, not zero.
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return 0, err
	}
	if !c.Connected() {
		return 0, nil
	}

	var keys [][]byte
	err = c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			if matcher.Match(string(key)) {
				keys = append(keys, key)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range keys {
		err := c.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(key)
		})
		if err != nil {
			log.Debugf("Cache DELETE failed for %s: %v", key, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// Stats returns cache metrics for the /api/cache/stats endpoint.
func (c *Cache) Stats() map[string]any {
	stats := map[string]any{
		"enabled": c.Connected(),
		"hits":    c.hitCount(),
		"misses":  c.missCount(),
		"sets":    c.setCount(),
	}
	if !c.Connected() {
		return stats
	}

	keys := 0
	_ = c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys++
		}
		return nil
	})
	lsm, vlog := c.db.Size()

	stats["keys"] = keys
	stats["lsm_size_bytes"] = lsm
	stats["vlog_size_bytes"] = vlog
	stats["default_ttl_seconds"] = int(c.ttl.Seconds())
	return stats
}

// Close releases the backend. Safe on a disabled cache.
func (c *Cache) Close() error {
	if !c.Connected() {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) hitCount() int64 {
	if c == nil {
		return 0
	}
	return c.hits.Load()
}

func (c *Cache) missCount() int64 {
	if c == nil {
		return 0
	}
	return c.misses.Load()
}

func (c *Cache) setCount() int64 {
	if c == nil {
		return 0
	}
	return c.sets.Load()
}
