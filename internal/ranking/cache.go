package ranking

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/lox/genericpoker/internal/card"
)

// Source describes how to build the table for one evaluation type: which
// deck's 5-card combinations it indexes. Only evaluation types large enough
// to benefit from pre-computation register a Source; everything else is
// classified directly by the evaluator package.
type Source struct {
	Name string
	Deck []card.Card
}

// Cache is a process-wide, read-only handle used in place of a global
// singleton: construct one explicitly (NewCache) and pass it into
// every Game, rather than reaching for package-level mutable state. Safe
// for concurrent use; each table builds at most once regardless of how many
// goroutines request it concurrently.
type Cache struct {
	sources map[string]Source

	// dir, when non-empty, is where built tables persist on disk;
	// Get loads a stored table in preference to re-enumerating it.
	dir string

	mu     sync.RWMutex
	tables map[string]*Table

	group singleflight.Group
}

// NewCache constructs an empty cache pre-registered with the given sources.
// Nothing is built until Get or EagerLoad is called.
func NewCache(sources ...Source) *Cache {
	c := &Cache{
		sources: make(map[string]Source, len(sources)),
		tables:  make(map[string]*Table),
	}
	for _, s := range sources {
		c.sources[s.Name] = s
	}
	return c
}

// SetPersistDir points the cache at an on-disk table directory. Tables
// already stored there load instead of rebuilding; freshly built tables are
// written back for the next process.
func (c *Cache) SetPersistDir(dir string) { c.dir = dir }

// Get returns the table for name, building and caching it on first request.
// Concurrent callers requesting the same name block on one build via
// singleflight rather than duplicating the work.
func (c *Cache) Get(name string) (*Table, error) {
	c.mu.RLock()
	if t, ok := c.tables[name]; ok {
		c.mu.RUnlock()
		return t, nil
	}
	c.mu.RUnlock()

	src, ok := c.sources[name]
	if !ok {
		return nil, fmt.Errorf("ranking: no table source registered for %q", name)
	}

	v, err, _ := c.group.Do(name, func() (any, error) {
		c.mu.RLock()
		if t, ok := c.tables[name]; ok {
			c.mu.RUnlock()
			return t, nil
		}
		c.mu.RUnlock()

		var t *Table
		if c.dir != "" {
			if stored, err := LoadStored(src.Name, c.dir); err == nil {
				t = stored
			}
		}
		if t == nil {
			built, err := Build(src.Name, src.Deck)
			if err != nil {
				return nil, err
			}
			if c.dir != "" {
				if err := built.Save(c.dir); err != nil {
					return nil, err
				}
			}
			t = built
		}
		c.mu.Lock()
		c.tables[name] = t
		c.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Table), nil
}

// EagerLoad builds every table in names up front, in parallel, returning
// the first build error encountered (if any). Intended for deployments that
// prefer a slow, predictable startup over a slow first hand.
func (c *Cache) EagerLoad(ctx context.Context, names ...string) error {
	g, _ := errgroup.WithContext(ctx)
	for _, name := range names {
		name := name
		g.Go(func() error {
			_, err := c.Get(name)
			return err
		})
	}
	return g.Wait()
}

// Registered reports the names of every table source known to the cache,
// whether or not it has been built yet.
func (c *Cache) Registered() []string {
	names := make([]string, 0, len(c.sources))
	for name := range c.sources {
		names = append(names, name)
	}
	return names
}
