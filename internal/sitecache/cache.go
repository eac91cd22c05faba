// internal/sitecache/cache.go
//
// Published-site cache.
//
// Context
// -------
// Every anonymous page view resolves a slug to its published
// configuration plus the parsed theme for its template variant.  Hitting
// the database and re-parsing templates per request would be wasteful,
// so resolved sites are cached in a sync.Map keyed by slug, loaded on
// demand behind a singleflight barrier, and evicted on idle TTL or LRU
// pressure by a background loop.
//
// Workflow
// --------
//  1. Get(slug) returns a cached *Site, or loads and caches one.
//  2. Publish paths call Invalidate(ownerID) so the next public request
//     sees the fresh document.
//  3. The evictor drops sites idle past IdleTTL and trims the map down
//     to MaxEntries, oldest first.
package sitecache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"

	"github.com/brokerkit/brokerkit/internal/metrics"
	"github.com/brokerkit/brokerkit/internal/siteconfig"
	"github.com/brokerkit/brokerkit/internal/theme"
)

// Static defaults; New takes overrides.
const (
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 500
	EvictInterval = 5 * time.Minute
)

// Site aggregates what the public handlers need for one slug.
type Site struct {
	OwnerID string
	Config  *siteconfig.Config
	Theme   *theme.Theme
}

type entry struct {
	site     *Site
	lastSeen int64 // UnixNano
}

// Cache lazily resolves sites, stores them in a sync.Map, and evicts
// them on idle TTL or LRU pressure.
type Cache struct {
	db          *sqlx.DB
	themes      *theme.Manager
	sfg         singleflight.Group
	m           sync.Map
	evictTicker *time.Ticker
	idleTTL     time.Duration
	maxEntries  int
}

// New constructs a Cache and starts the background evictor.
func New(db *sqlx.DB, themes *theme.Manager, idleTTL time.Duration, maxEntries int) *Cache {
	c := &Cache{
		db:         db,
		themes:     themes,
		idleTTL:    idleTTL,
		maxEntries: maxEntries,
	}
	c.evictTicker = time.NewTicker(EvictInterval)
	go c.evictLoop()
	return c
}

// Get returns the Site published under slug, loading it on demand.
func (c *Cache) Get(ctx context.Context, slug string) (*Site, error) {
	if v, ok := c.m.Load(slug); ok {
		ent := v.(*entry)
		atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
		return ent.site, nil
	}

	v, err, _ := c.sfg.Do(slug, func() (interface{}, error) {
		// Double-check after singleflight barrier.
		if v, ok := c.m.Load(slug); ok {
			ent := v.(*entry)
			atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
			return ent.site, nil
		}
		site, err := c.load(ctx, slug)
		if err != nil {
			if err != siteconfig.ErrNotFound {
				metrics.SiteLoadErrorsTotal.Inc()
			}
			return nil, err
		}
		ent := &entry{
			site:     site,
			lastSeen: time.Now().UnixNano(),
		}
		c.m.Store(slug, ent)
		metrics.SiteLoadTotal.Inc()
		metrics.CachedSites.Inc()
		return site, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Site), nil
}

func (c *Cache) load(ctx context.Context, slug string) (*Site, error) {
	owner, cfg, err := siteconfig.ResolveOwned(ctx, c.db, slug)
	if err != nil {
		return nil, err
	}
	th, err := c.themes.Load(string(cfg.Template))
	if err != nil {
		return nil, err
	}
	return &Site{OwnerID: owner, Config: cfg, Theme: th}, nil
}

// Invalidate drops every cached slug owned by ownerID.  Called after a
// publish so a republished document, possibly under a new slug, takes
// effect immediately.
func (c *Cache) Invalidate(ownerID string) {
	c.m.Range(func(key, value any) bool {
		if value.(*entry).site.OwnerID == ownerID {
			c.m.Delete(key)
			metrics.CachedSites.Dec()
		}
		return true
	})
}

// Close stops the evictor ticker.
func (c *Cache) Close() {
	c.evictTicker.Stop()
}
