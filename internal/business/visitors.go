package business

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultVisitorIdleTimeout = 30 * time.Minute
	// DefaultMaxVisitors bounds the live catalogs. The least recently seen visitor makes room.
	DefaultMaxVisitors = 10000
)

type visitor struct {
	catalog  *Catalog
	lastSeen time.Time
}

// VisitorRegistry keeps one Catalog per visitor. Visitors that stay idle for too long are
// evicted and their featured rotation is stopped.
type VisitorRegistry struct {
	CatalogMetadataGetter

	mu               sync.Mutex
	visitors         map[string]*visitor
	closed           bool
	done             chan struct{}
	featuredInterval time.Duration
	idleTimeout      time.Duration
	maxVisitors      int
	now              func() time.Time
}

func NewVisitorRegistry(cmg CatalogMetadataGetter, featuredInterval, idleTimeout time.Duration) *VisitorRegistry {
	if idleTimeout <= 0 {
		idleTimeout = DefaultVisitorIdleTimeout
	}
	return &VisitorRegistry{
		CatalogMetadataGetter: cmg,
		visitors:              make(map[string]*visitor),
		done:                  make(chan struct{}),
		featuredInterval:      featuredInterval,
		idleTimeout:           idleTimeout,
		maxVisitors:           DefaultMaxVisitors,
		now:                   time.Now,
	}
}

// WithClock replaces the clock used to track visitor activity
func (vr *VisitorRegistry) WithClock(now func() time.Time) *VisitorRegistry {
	vr.mu.Lock()
	defer vr.mu.Unlock()
	vr.now = now
	return vr
}

// WithMaxVisitors changes how many visitors are kept at once. Values below 1 are ignored.
func (vr *VisitorRegistry) WithMaxVisitors(limit int) *VisitorRegistry {
	if limit < 1 {
		return vr
	}
	vr.mu.Lock()
	defer vr.mu.Unlock()
	vr.maxVisitors = limit
	return vr
}

// Peek returns the catalog of a known visitor without creating one
func (vr *VisitorRegistry) Peek(visitorID string) (*Catalog, bool) {
	vr.mu.Lock()
	defer vr.mu.Unlock()
	v, ok := vr.visitors[visitorID]
	if !ok {
		return nil, false
	}
	v.lastSeen = vr.now()
	return v.catalog, true
}

// Get returns the catalog of a visitor. A new visitor gets a started catalog listing the
// popular movies, and created is true.
func (vr *VisitorRegistry) Get(visitorID string) (catalog *Catalog, created bool) {
	vr.mu.Lock()
	if v, ok := vr.visitors[visitorID]; ok {
		v.lastSeen = vr.now()
		vr.mu.Unlock()
		return v.catalog, false
	}
	catalog = NewCatalog(vr.CatalogMetadataGetter, vr.featuredInterval)
	if vr.closed {
		vr.mu.Unlock()
		catalog.Stop()
		catalog.LoadPopular()
		return catalog, true
	}
	oldest := vr.makeRoom()
	vr.visitors[visitorID] = &visitor{catalog: catalog, lastSeen: vr.now()}
	vr.mu.Unlock()

	if oldest != nil {
		oldest.Stop()
		log.Debug().Msg("Visitor limit reached, evicted the least recent visitor")
	}
	log.Debug().Str("visitor", visitorID).Msg("New visitor")
	catalog.Start()
	catalog.LoadPopular()
	return catalog, true
}

// makeRoom removes the least recently seen visitor when the registry is full and returns
// its catalog. vr.mu must be held.
func (vr *VisitorRegistry) makeRoom() *Catalog {
	if len(vr.visitors) < vr.maxVisitors {
		return nil
	}
	var (
		oldestID string
		oldest   *visitor
	)
	for id, v := range vr.visitors {
		if oldest == nil || v.lastSeen.Before(oldest.lastSeen) {
			oldestID, oldest = id, v
		}
	}
	delete(vr.visitors, oldestID)
	return oldest.catalog
}

// EvictIdle removes the visitors not seen for longer than the idle timeout and returns how
// many were removed
func (vr *VisitorRegistry) EvictIdle() int {
	vr.mu.Lock()
	now := vr.now()
	var evicted []*Catalog
	for id, v := range vr.visitors {
		if now.Sub(v.lastSeen) > vr.idleTimeout {
			evicted = append(evicted, v.catalog)
			delete(vr.visitors, id)
		}
	}
	vr.mu.Unlock()

	for _, catalog := range evicted {
		catalog.Stop()
	}
	if len(evicted) > 0 {
		log.Debug().Int("count", len(evicted)).Msg("Evicted idle visitors")
	}
	return len(evicted)
}

// Run evicts idle visitors periodically until ctx is done or the registry is closed
func (vr *VisitorRegistry) Run(ctx context.Context) {
	interval := vr.idleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			vr.EvictIdle()
		case <-ctx.Done():
			return
		case <-vr.done:
			return
		}
	}
}

// Close stops the janitor and every catalog. Visitors arriving afterwards get a catalog
// that is not kept.
func (vr *VisitorRegistry) Close() {
	vr.mu.Lock()
	if vr.closed {
		vr.mu.Unlock()
		return
	}
	vr.closed = true
	close(vr.done)
	visitors := vr.visitors
	vr.visitors = make(map[string]*visitor)
	vr.mu.Unlock()

	for _, v := range visitors {
		v.catalog.Stop()
	}
	log.Info().Int("count", len(visitors)).Msg("Closed visitor catalogs")
}

// Len returns the number of live visitors
func (vr *VisitorRegistry) Len() int {
	vr.mu.Lock()
	defer vr.mu.Unlock()
	return len(vr.visitors)
}
