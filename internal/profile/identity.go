// Package profile supplies the anonymous per-installation identifier used to
// namespace locally persisted data. The identifier is never sent anywhere and
// is not a credential.
package profile

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"BriteShop/internal/kv"
)

const (
	// StorageKey is the fixed key the durable identifier lives under.
	StorageKey = "brite_profile_id"

	// VolatilePrefix marks an identifier that could not be persisted.
	VolatilePrefix = "temp"
)

type Identity struct {
	store    kv.Store
	log      *zap.Logger
	platform string

	mu      sync.Mutex
	rng     *rand.Rand
	id      string
	durable bool
}

type Deps struct {
	Log *zap.Logger
	// Platform tags generated identifiers; defaults to runtime.GOOS.
	Platform string
	// Seed for the token generator; zero seeds from the clock.
	Seed int64
}

func New(store kv.Store, deps Deps) *Identity {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Platform == "" {
		deps.Platform = runtime.GOOS
	}
	if deps.Seed == 0 {
		deps.Seed = time.Now().UnixNano()
	}

	return &Identity{
		store:    store,
		log:      deps.Log,
		platform: deps.Platform,
		rng:      rand.New(rand.NewSource(deps.Seed)),
	}
}

// ProfileID returns the installation identifier, reading or creating it on
// the first call and memoizing it afterwards. It never fails: when storage is
// unavailable a temp-prefixed identifier is returned for this process only.
func (p *Identity) ProfileID(ctx context.Context) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.id != "" {
		return p.id
	}

	stored, found, err := p.store.Get(ctx, StorageKey)
	if err != nil {
		p.log.Warn("profile id read failed, using volatile id", zap.Error(err))
		return p.volatile()
	}
	if found && stored != "" {
		p.id, p.durable = stored, true
		return p.id
	}

	id := p.generate(p.platform)
	if err := p.store.Set(ctx, StorageKey, id); err != nil {
		p.log.Warn("profile id write failed, using volatile id", zap.Error(err))
		return p.volatile()
	}

	p.log.Info("profile id created", zap.String("profile_id", id))
	p.id, p.durable = id, true
	return p.id
}

// Durable reports whether the memoized identifier is backed by storage. It is
// false before the first ProfileID call.
func (p *Identity) Durable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.durable
}

// IsVolatile reports whether id was generated without durable storage.
func IsVolatile(id string) bool {
	return strings.HasPrefix(id, VolatilePrefix+"-")
}

func (p *Identity) volatile() string {
	p.id, p.durable = p.generate(VolatilePrefix), false
	return p.id
}

// generate draws a version-4 token from the seeded math/rand source. The
// result must never be used as a secret.
func (p *Identity) generate(tag string) string {
	token, err := uuid.NewRandomFromReader(p.rng)
	if err != nil {
		// *rand.Rand never returns a read error.
		panic(fmt.Sprintf("profile: token generation failed: %v", err))
	}
	return tag + "-" + token.String()
}
