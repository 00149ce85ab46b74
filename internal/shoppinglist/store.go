// Package shoppinglist is the device-local shopping list: an in-memory cache
// over a kv.Store, namespaced by profile id.
//
// Every operation succeeds from the caller's point of view. Storage failures
// degrade the list to in-memory only and are reported through the logger,
// metrics and the optional OnStorageError hook instead of being returned.
package shoppinglist

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"BriteShop/internal/kv"
)

const DefaultKeyPrefix = "brite_shopping_list"

// StorageKey is where the list for profileID is persisted.
func StorageKey(prefix, profileID string) string {
	return prefix + "_" + profileID
}

type Deps struct {
	Log     *zap.Logger
	Metrics *Metrics
	// KeyPrefix defaults to DefaultKeyPrefix.
	KeyPrefix string
	// OnStorageError is called with StageLoad or StageSave whenever a storage
	// failure is swallowed. It runs while the store lock is held.
	OnStorageError func(stage string, err error)
	Now            func() time.Time
}

// Store serializes all operations for one profile. The backing key is read
// at most once per Store; after that the cache is authoritative.
type Store struct {
	backend kv.Store
	key     string
	log     *zap.Logger
	metrics *Metrics
	onErr   func(stage string, err error)
	now     func() time.Time

	mu     sync.Mutex
	loaded bool
	items  List
}

func NewStore(backend kv.Store, profileID string, deps Deps) *Store {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.KeyPrefix == "" {
		deps.KeyPrefix = DefaultKeyPrefix
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	key := StorageKey(deps.KeyPrefix, profileID)
	return &Store{
		backend: backend,
		key:     key,
		log:     deps.Log.With(zap.String("list_key", key)),
		metrics: deps.Metrics,
		onErr:   deps.OnStorageError,
		now:     deps.Now,
	}
}

func (s *Store) Key() string { return s.key }

// List returns a copy of the current list, loading it on first use.
func (s *Store) List(ctx context.Context) List {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.op("list")
	s.load(ctx)
	return s.items.clone()
}

// Contains reports whether productID is on the list.
func (s *Store) Contains(ctx context.Context, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.op("contains")
	s.load(ctx)
	return s.items.Contains(productID)
}

// Add appends meta with quantity 1, or bumps the quantity of an existing
// entry. An existing entry keeps its original snapshot.
func (s *Store) Add(ctx context.Context, meta ItemMeta) List {
	return s.mutate(ctx, "add", func(items List) List {
		if i := items.index(meta.ProductID); i >= 0 {
			items[i].Quantity++
			return items
		}
		return append(items, Item{
			ItemMeta: copyMeta(meta),
			Quantity: 1,
			AddedAt:  s.now().UTC(),
		})
	})
}

// SetQuantity sets the quantity for productID. A quantity of zero or less
// removes the entry; an unknown productID leaves the list unchanged.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) List {
	return s.mutate(ctx, "set_quantity", func(items List) List {
		if quantity <= 0 {
			return items.without(productID)
		}
		if i := items.index(productID); i >= 0 {
			items[i].Quantity = quantity
		}
		return items
	})
}

// Remove deletes productID from the list if present.
func (s *Store) Remove(ctx context.Context, productID string) List {
	return s.mutate(ctx, "remove", func(items List) List {
		return items.without(productID)
	})
}

// Clear empties the list.
func (s *Store) Clear(ctx context.Context) List {
	return s.mutate(ctx, "clear", func(List) List {
		return List{}
	})
}

func (s *Store) mutate(ctx context.Context, op string, fn func(List) List) List {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.op(op)
	s.load(ctx)
	s.items = fn(s.items)
	s.metrics.entries(len(s.items))
	s.save(ctx)
	return s.items.clone()
}

// load must be called with mu held.
func (s *Store) load(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true
	s.items = List{}

	raw, found, err := s.backend.Get(ctx, s.key)
	if err != nil {
		s.storageFailed(StageLoad, err)
		return
	}
	if !found || raw == "" {
		return
	}

	var items List
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.storageFailed(StageLoad, fmt.Errorf("decode list: %w", err))
		return
	}

	s.items = sanitize(items)
	s.metrics.entries(len(s.items))
	s.log.Debug("shopping list loaded", zap.Int("entries", len(s.items)))
}

// save must be called with mu held.
func (s *Store) save(ctx context.Context) {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.storageFailed(StageSave, fmt.Errorf("encode list: %w", err))
		return
	}
	if err := s.backend.Set(ctx, s.key, string(data)); err != nil {
		s.storageFailed(StageSave, err)
	}
}

func (s *Store) storageFailed(stage string, err error) {
	s.log.Warn("shopping list storage failed", zap.String("stage", stage), zap.Error(err))
	s.metrics.storageFailed(stage)
	if s.onErr != nil {
		s.onErr(stage, err)
	}
}

// copyMeta returns meta with its optional fields detached from the caller's
// pointers. A non-finite price is stored as no price.
func copyMeta(meta ItemMeta) ItemMeta {
	meta.Brand = clonePtr(meta.Brand)
	meta.EstimatedPrice = clonePtr(meta.EstimatedPrice)
	if meta.EstimatedPrice != nil && !finite(*meta.EstimatedPrice) {
		meta.EstimatedPrice = nil
	}
	meta.ImageURL = clonePtr(meta.ImageURL)
	return meta
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
