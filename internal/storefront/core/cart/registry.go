package cart

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/jcmexdev/salad-storefront/internal/storefront/core/ports"
)

// DefaultMaxSessions bounds the carts held in memory when RegistryConfig
// leaves MaxSessions unset.
const DefaultMaxSessions = 10000

type RegistryConfig struct {
	// MaxSessions is the number of carts kept in memory. The least recently
	// used one is dropped first.
	MaxSessions int
	// TTL drops a cart from memory this long after it was built. Zero keeps
	// carts until they are pushed out by MaxSessions.
	TTL time.Duration
	// Refresh reloads a cached cart from storage on every access. Set it
	// when the storage is shared with other replicas.
	Refresh bool
}

// Registry owns one Store per session. Stores are built on first use and
// restored from storage, so a cart dropped from memory comes back on the
// next request as long as the storage still holds it.
type Registry struct {
	stores  *expirable.LRU[string, *Store]
	loads   singleflight.Group
	storage ports.CartStorage
	refresh bool
	logger  *slog.Logger
}

func NewRegistry(storage ports.CartStorage, cfg RegistryConfig, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	size := cfg.MaxSessions
	if size <= 0 {
		size = DefaultMaxSessions
	}

	return &Registry{
		stores:  expirable.NewLRU[string, *Store](size, nil, cfg.TTL),
		storage: storage,
		refresh: cfg.Refresh,
		logger:  logger,
	}
}

// Store returns the cart of sessionID, building it on first use. Storage is
// read outside any registry-wide lock; concurrent first requests for the
// same session share one load.
func (r *Registry) Store(ctx context.Context, sessionID string) *Store {
	if s, ok := r.stores.Get(sessionID); ok {
		if r.refresh {
			s.Refresh(ctx)
		}
		return s
	}

	v, _, _ := r.loads.Do(sessionID, func() (any, error) {
		if s, ok := r.stores.Get(sessionID); ok {
			return s, nil
		}
		s := NewStore(ctx, Key(sessionID), r.storage, r.logger)
		r.stores.Add(sessionID, s)
		return s, nil
	})
	return v.(*Store)
}

// Forget drops the in-memory store of sessionID. The stored record is kept.
func (r *Registry) Forget(sessionID string) {
	r.stores.Remove(sessionID)
}

// Len returns the number of carts held in memory.
func (r *Registry) Len() int {
	return r.stores.Len()
}

// Key scopes StorageKey to a session.
func Key(sessionID string) string {
	return StorageKey + ":" + sessionID
}
