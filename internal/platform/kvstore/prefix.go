package kvstore

import "context"

// Prefixed namespaces every key of an underlying store.
type Prefixed struct {
	store  Store
	prefix string
}

// WithPrefix returns a Store that prepends prefix to every key.
func WithPrefix(store Store, prefix string) *Prefixed {
	return &Prefixed{store: store, prefix: prefix}
}

// UserPrefix is the namespace holding one user's storage area.
func UserPrefix(userID string) string {
	return "users/" + userID + "/"
}

func (p *Prefixed) Get(ctx context.Context, key string) (string, bool, error) {
	return p.store.Get(ctx, p.prefix+key)
}

func (p *Prefixed) Set(ctx context.Context, key, value string) error {
	return p.store.Set(ctx, p.prefix+key, value)
}

func (p *Prefixed) Remove(ctx context.Context, key string) error {
	return p.store.Remove(ctx, p.prefix+key)
}

var _ Store = (*Prefixed)(nil)
