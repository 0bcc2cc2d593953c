package funnel

import (
	"sync"
	"time"

	"github.com/futig/ai-compass/internal/config"
	"github.com/futig/ai-compass/internal/pkg/mindelay"
	"github.com/futig/ai-compass/internal/storage/session"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Registry maps visitor ids to their browsing session. Sessions idle for longer
// than the configured TTL are evicted and their store cleared.
type Registry struct {
	connector Connector
	cfg       config.FunnelConfig
	clock     mindelay.Clock
	logger    *zap.Logger

	mu       sync.Mutex
	visitors *cache.Cache
}

func NewRegistry(connector Connector, cfg config.FunnelConfig, clock mindelay.Clock, logger *zap.Logger) *Registry {
	if clock == nil {
		clock = mindelay.RealClock()
	}

	cleanup := cfg.SessionTTL / 4
	if cleanup < time.Second {
		cleanup = time.Second
	}

	r := &Registry{
		connector: connector,
		cfg:       cfg,
		clock:     clock,
		logger:    logger,
		visitors:  cache.New(cfg.SessionTTL, cleanup),
	}
	r.visitors.OnEvicted(r.evicted)

	return r
}

// Visitor returns the browsing session of id, creating it on first use. Every
// lookup extends the session's lifetime.
func (r *Registry) Visitor(id string) *Visitor {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.visitors.Get(id); ok {
		visitor := v.(*Visitor)
		r.visitors.SetDefault(id, visitor)
		return visitor
	}

	visitor := NewVisitor(
		id,
		session.NewMemoryStore(),
		r.connector,
		r.clock,
		r.cfg.MinDisplayDuration,
		r.cfg.PrefetchTimeout,
	)
	r.visitors.SetDefault(id, visitor)
	r.logger.Debug("browsing session opened", zap.String("visitor_id", id))

	return visitor
}

// Lookup returns the browsing session of id without creating one.
func (r *Registry) Lookup(id string) (*Visitor, bool) {
	v, ok := r.visitors.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Visitor), true
}

// Forget ends the browsing session of id.
func (r *Registry) Forget(id string) {
	r.visitors.Delete(id)
}

// Len reports the number of live browsing sessions.
func (r *Registry) Len() int {
	return r.visitors.ItemCount()
}

// Close ends every browsing session.
func (r *Registry) Close() {
	for id := range r.visitors.Items() {
		r.visitors.Delete(id)
	}
}

func (r *Registry) evicted(id string, v any) {
	if visitor, ok := v.(*Visitor); ok {
		visitor.Session.Clear()
	}
	r.logger.Debug("browsing session closed", zap.String("visitor_id", id))
}
