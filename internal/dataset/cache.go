package dataset

import (
	"context"
	"sync"

	domainDataset "ndtdash/domain/dataset"
	"ndtdash/internal"
	"ndtdash/ports"

	"golang.org/x/sync/singleflight"
)

const flightKey = "pair"

// Cache holds the planned/executed pair for the life of the process. The
// first Get loads it; Invalidate drops it so the next Get reads the sources
// again. A failed load leaves the cache empty.
type Cache struct {
	source ports.DatasetSource
	schema *Schema
	logger *internal.Logger

	mu         sync.RWMutex
	pair       *domainDataset.Pair
	generation uint64
	loads      int

	group singleflight.Group
}

// NewCache creates a cache over source. When schema is non-nil every load is
// validated against it before being cached.
func NewCache(source ports.DatasetSource, schema *Schema, logger *internal.Logger) *Cache {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Cache{source: source, schema: schema, logger: logger}
}

// Get returns the cached pair, loading it on first access. Concurrent first
// callers share a single load.
func (c *Cache) Get(ctx context.Context) (*domainDataset.Pair, error) {
	c.mu.RLock()
	if c.pair != nil {
		pair := c.pair
		c.mu.RUnlock()
		return pair, nil
	}
	c.mu.RUnlock()

	// joined callers must not fail because the first caller went away
	loadCtx := context.WithoutCancel(ctx)
	v, err, shared := c.group.Do(flightKey, func() (interface{}, error) {
		return c.load(loadCtx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Trace("[Cache] joined an in-flight load")
	}
	return v.(*domainDataset.Pair), nil
}

func (c *Cache) load(ctx context.Context) (*domainDataset.Pair, error) {
	c.mu.RLock()
	if c.pair != nil {
		pair := c.pair
		c.mu.RUnlock()
		return pair, nil
	}
	generation := c.generation
	c.mu.RUnlock()

	c.logger.Info("[Cache] loading datasets")
	pair, err := c.source.Load(ctx)
	if err != nil {
		c.logger.Error("[Cache] load failed: %v", err)
		return nil, err
	}

	if c.schema != nil {
		if err := ValidateSchema(pair, *c.schema); err != nil {
			c.logger.Error("[Cache] schema check failed: %v", err)
			return nil, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loads++
	// an Invalidate that raced this load wins; the caller still gets the pair
	if c.generation == generation {
		c.pair = pair
	}
	c.logger.Info("[Cache] cached load %s (planned=%d rows, executed=%d rows)",
		pair.LoadID.Short(), pair.Planned.Len(), pair.Executed.Len())
	return pair, nil
}

// Invalidate drops the cached pair. A load still in flight is forgotten so
// the next Get starts a fresh one instead of joining it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pair = nil
	c.generation++
	c.group.Forget(flightKey)
	c.logger.Info("[Cache] invalidated")
}

// Refresh invalidates and immediately reloads
func (c *Cache) Refresh(ctx context.Context) (*domainDataset.Pair, error) {
	c.Invalidate()
	return c.Get(ctx)
}

// Loaded reports the cached load, if any
func (c *Cache) Loaded() (domainDataset.LoadInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.pair == nil {
		return domainDataset.LoadInfo{}, false
	}
	return c.pair.Info(), true
}

// LoadCount returns how many loads have succeeded since start
func (c *Cache) LoadCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loads
}
