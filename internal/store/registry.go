package store

import (
	"context"
	"sync"

	"github.com/vytor/timestables/internal/logger"
	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/repository"
)

// Registry hands out one Store per owner, loading it on first use.
type Registry struct {
	mu      sync.Mutex
	gateway repository.ProgressRepository
	opts    []Option
	stores  map[models.Owner]*Store
}

func NewRegistry(gateway repository.ProgressRepository, opts ...Option) *Registry {
	return &Registry{
		gateway: gateway,
		opts:    opts,
		stores:  map[models.Owner]*Store{},
	}
}

func (r *Registry) Get(ctx context.Context, owner models.Owner) (*Store, error) {
	if owner == "" {
		owner = models.AnonymousOwner
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok := r.stores[owner]; ok {
		return st, nil
	}
	logger.FromContext(ctx).WithPrefix("store").Debug("loading store for owner=%s", owner)
	st, err := New(ctx, owner, r.gateway, r.opts...)
	if err != nil {
		return nil, err
	}
	r.stores[owner] = st
	return st, nil
}

// Forget drops the store of owner so the next Get reloads it. Callers still
// holding the old store get ErrStoreClosed from Dispatch; Forget returns
// once its last action has been written.
func (r *Registry) Forget(owner models.Owner) {
	r.mu.Lock()
	st, ok := r.stores[owner]
	delete(r.stores, owner)
	r.mu.Unlock()

	if ok {
		st.close()
	}
}

// Len returns the number of loaded stores.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
