package cache

import (
	"sync"
	"time"

	"github.com/wander-list/api-go/state"
)

// SyncInterval is the trailing debounce between a state mutation and its
// persistence.
const SyncInterval = 500 * time.Millisecond

// allowList maps persisted state paths to their cache keys. Everything else in
// the store is session-only.
var allowList = map[string]string{
	"currentUser":  "user",
	"wishlist":     "wishlist",
	"create.draft": "current_draft",
	"filters":      "filters",
}

// Syncer persists allow-listed state paths with a trailing debounce, and can
// reverse the projection at startup.
type Syncer struct {
	store    *state.Store
	cache    *Cache
	interval time.Duration

	mu    sync.Mutex
	timer *time.Timer
	dirty map[string]string // path -> cache key
	stop  func()
}

func NewSyncer(store *state.Store, c *Cache) *Syncer {
	return &Syncer{store: store, cache: c, interval: SyncInterval, dirty: map[string]string{}}
}

// WithInterval overrides the debounce, used by tests.
func (s *Syncer) WithInterval(d time.Duration) *Syncer {
	if d > 0 {
		s.interval = d
	}
	return s
}

// Start subscribes to every store mutation and arms the debounce for
// allow-listed paths.
func (s *Syncer) Start() {
	s.stop = s.store.Subscribe(state.Wildcard, func(path string, _ interface{}) {
		root, key := matchAllowList(path)
		if key == "" {
			return
		}
		s.mu.Lock()
		s.dirty[root] = key
		if s.timer != nil {
			s.timer.Stop()
		}
		s.timer = time.AfterFunc(s.interval, s.flush)
		s.mu.Unlock()
	})
}

// Stop unsubscribes and cancels any pending flush.
func (s *Syncer) Stop() {
	if s.stop != nil {
		s.stop()
	}
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
}

// Flush persists pending paths immediately, bypassing the debounce.
func (s *Syncer) Flush() { s.flush() }

func (s *Syncer) flush() {
	s.mu.Lock()
	pending := s.dirty
	s.dirty = map[string]string{}
	s.mu.Unlock()

	for path, key := range pending {
		if v := s.store.Snapshot(path); v != nil {
			s.cache.Set(key, v)
		}
	}
}

// LoadState reverses the projection: cached values are written back into the
// store silently so subscribers and the debounce stay quiet.
func (s *Syncer) LoadState() {
	for path, key := range allowList {
		if v := s.cache.Get(key, nil); v != nil {
			s.store.Set(path, v, true)
		}
	}
}

func matchAllowList(path string) (root, key string) {
	for p, k := range allowList {
		if path == p || hasPathPrefix(path, p) {
			return p, k
		}
	}
	return "", ""
}

func hasPathPrefix(path, prefix string) bool {
	return len(path) > len(prefix) && path[:len(prefix)] == prefix && path[len(prefix)] == '.'
}
