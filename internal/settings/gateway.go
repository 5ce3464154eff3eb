// Package settings owns the lifecycle of the remotely configured settings
// cache: it decides between the persisted copy and a fresh fetch, persists
// successful fetches, and runs the optional periodic background refresh.
//
// The gateway is an explicit, owned cache object passed by reference to
// consumers — there is no ambient module state. Freshness is a pure function
// of the persisted fetched-at timestamp and the TTL.
package settings

import (
	"context"
	"sync"
	"time"

	"github.com/MurthyAvanithsa/railview/internal/model"
	"github.com/MurthyAvanithsa/railview/internal/store"
)

// DefaultTTL is the maximum settings age before a refetch.
const DefaultTTL = 10 * time.Minute

// Fetcher fetches a complete settings payload from the CMS.
// *cms.Client satisfies this.
type Fetcher interface {
	FetchSettings(ctx context.Context) (model.CachedSettings, error)
}

// State classifies the persisted cache relative to the TTL.
type State int

const (
	StateNoCache State = iota
	StateFresh
	StateStale
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	default:
		return "no-cache"
	}
}

// Gateway serves settings from the persistent cache while fresh and fetches
// otherwise. Concurrent use is safe; completions are last-writer-wins.
type Gateway struct {
	mu    sync.Mutex
	store *store.Store
	fetch Fetcher
	ttl   time.Duration
	now   func() time.Time // test seam
}

// New builds a Gateway over an open store. A non-positive ttl selects
// DefaultTTL.
func New(st *store.Store, fetcher Fetcher, ttl time.Duration) *Gateway {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Gateway{
		store: st,
		fetch: fetcher,
		ttl:   ttl,
		now:   time.Now,
	}
}

// TTL returns the configured time-to-live.
func (g *Gateway) TTL() time.Duration {
	return g.ttl
}

// State reports whether the persisted cache is absent, fresh, or stale.
func (g *Gateway) State() (State, error) {
	fetchedAt, found, err := g.store.FetchedAt()
	if err != nil {
		return StateNoCache, err
	}
	if !found {
		return StateNoCache, nil
	}
	if g.now().Sub(fetchedAt) < g.ttl {
		return StateFresh, nil
	}
	return StateStale, nil
}

// Ensure returns settings no older than the TTL. A fresh persisted payload
// is served without any network call (cacheHit true); otherwise the gateway
// fetches, persists, and returns the new payload. A failed fetch surfaces
// the error — stale data is never substituted silently, so an upstream
// outage stays visible to the caller.
func (g *Gateway) Ensure(ctx context.Context) (model.CachedSettings, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	cached, found, err := g.store.GetSettings()
	if err != nil {
		return model.CachedSettings{}, false, err
	}
	if found && cached.Age(g.now()) < g.ttl {
		return cached, true, nil
	}

	fetched, err := g.refreshLocked(ctx)
	if err != nil {
		return model.CachedSettings{}, false, err
	}
	return fetched, false, nil
}

// Refresh always fetches, overwriting the persisted payload on success.
func (g *Gateway) Refresh(ctx context.Context) (model.CachedSettings, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.refreshLocked(ctx)
}

// refreshLocked fetches and persists. Callers hold g.mu.
func (g *Gateway) refreshLocked(ctx context.Context) (model.CachedSettings, error) {
	fetched, err := g.fetch.FetchSettings(ctx)
	if err != nil {
		return model.CachedSettings{}, err
	}
	if err := g.store.PutSettings(fetched); err != nil {
		return model.CachedSettings{}, err
	}
	return fetched, nil
}

// Cached returns the persisted payload regardless of age.
// Returns found == false when nothing has ever been fetched.
func (g *Gateway) Cached() (model.CachedSettings, bool, error) {
	return g.store.GetSettings()
}
