package session

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/config"
	"github.com/stemsi/erp-portal/internal/storage"
)

// Provider hands out the Store of a client context. Every request gets
// its Store from here instead of reaching for a global.
type Provider struct {
	base storage.Storage
	bus  Bus
	log  zerolog.Logger
}

// NewProvider creates a Provider over the shared storage.
func NewProvider(base storage.Storage, bus Bus, log zerolog.Logger) *Provider {
	return &Provider{base: base, bus: bus, log: log}
}

// For returns the Store for clientID.
func (p *Provider) For(clientID string) *Store {
	scoped := storage.WithPrefix(p.base, config.CacheKey.ClientNamespace(clientID))
	return NewStore(clientID, scoped, p.bus, p.log)
}

// Bus returns the event bus stores publish to.
func (p *Provider) Bus() Bus {
	return p.bus
}

// ClientIDFromKey splits a raw storage key into its client ID and the
// session key within that client's namespace.
func ClientIDFromKey(key string) (clientID, name string, ok bool) {
	rest, ok := storage.TrimPrefix(key, config.ClientKeyRoot)
	if !ok {
		return "", "", false
	}
	i := strings.IndexByte(rest, ':')
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}

// NotifyExternal publishes events for raw storage keys another process
// changed, so tabs connected here learn about logins and logouts made
// elsewhere.
func (p *Provider) NotifyExternal(ctx context.Context, keys []string) {
	if p.bus == nil {
		return
	}
	seen := make(map[string]bool)
	for _, key := range keys {
		clientID, name, ok := ClientIDFromKey(key)
		if !ok || seen[clientID] {
			continue
		}
		if name != config.StorageKeyToken && name != config.StorageKeyRole {
			continue
		}
		seen[clientID] = true

		store := p.For(clientID)
		if sess, ok := store.Session(ctx); ok {
			store.publish(ctx, EventSet, sess.Role)
		} else {
			store.publish(ctx, EventCleared, "")
		}
	}
}
