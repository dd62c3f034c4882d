package resolver

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/funvibe/typeargs/internal/typesystem"
)

type cacheKey struct {
	root   string
	target string
}

func (k cacheKey) String() string {
	return k.root + "\x00" + k.target
}

// substCache memoizes composed substitutions per (root, target). Entries
// are never invalidated: class hierarchies do not change once loaded.
// Failed computations are not cached.
type substCache struct {
	entries sync.Map // cacheKey -> typesystem.Subst
	group   singleflight.Group
	hits    atomic.Int64
	misses  atomic.Int64
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
}

func (c *substCache) get(key cacheKey, compute func() (typesystem.Subst, error)) (typesystem.Subst, error) {
	if v, ok := c.entries.Load(key); ok {
		c.hits.Add(1)
		return v.(typesystem.Subst), nil
	}
	v, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		if v, ok := c.entries.Load(key); ok {
			return v, nil
		}
		c.misses.Add(1)
		s, err := compute()
		if err != nil {
			return nil, err
		}
		c.entries.Store(key, s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(typesystem.Subst), nil
}

func (c *substCache) stats() CacheStats {
	n := 0
	c.entries.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: n}
}
