package cache

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/wander-list/api-go/events"
)

const (
	// Namespace prefixes every key this cache touches.
	Namespace = "wanderlist_"

	// DefaultAllowance mirrors the small browser-local quota the scratch
	// state used to live under.
	DefaultAllowance = 5 * 1024 * 1024

	warnRatio    = 0.9
	staleDraftAge = 30 * 24 * time.Hour
)

// Prefixes dropped wholesale by Cleanup.
var cleanupPrefixes = []string{"temp_", "cache_", "old_"}

// Cache is a namespaced key-value scratch store with a byte allowance.
// Non-string values are JSON-serialized; reads fall back to the raw string
// when the stored value is not valid JSON. All failures degrade to the
// default value / false, never to an error crossing the caller.
type Cache struct {
	kv        KV
	bus       *events.Bus
	allowance int64
	now       func() time.Time
}

func New(kv KV, bus *events.Bus) *Cache {
	return &Cache{kv: kv, bus: bus, allowance: DefaultAllowance, now: time.Now}
}

// WithAllowance overrides the byte allowance. Zero keeps the default.
func (c *Cache) WithAllowance(bytes int64) *Cache {
	if bytes > 0 {
		c.allowance = bytes
	}
	return c
}

func (c *Cache) key(k string) string { return Namespace + k }

// Get returns the parsed value stored under k, or def when absent or failing.
func (c *Cache) Get(k string, def interface{}) interface{} {
	raw, ok, err := c.kv.Get(context.Background(), c.key(k))
	if err != nil {
		log.Printf("cache get %q: %v", k, err)
		return def
	}
	if !ok {
		return def
	}
	var parsed interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		// Plain string writes are stored raw.
		return raw
	}
	return parsed
}

// Set stores v under k, JSON-serializing non-strings. On quota overflow it
// emits storage:quota-exceeded, runs Cleanup, retries once and reports the
// outcome.
func (c *Cache) Set(k string, v interface{}) bool {
	raw, err := serialize(v)
	if err != nil {
		log.Printf("cache set %q: %v", k, err)
		return false
	}

	if !c.fits(k, raw) {
		c.emitQuota(events.TopicStorageQuotaExceeded)
		c.Cleanup()
		if !c.fits(k, raw) {
			return false
		}
	}

	if err := c.kv.Set(context.Background(), c.key(k), raw); err != nil {
		log.Printf("cache set %q: %v", k, err)
		return false
	}

	if used := c.Size(); c.allowance > 0 && float64(used) >= warnRatio*float64(c.allowance) {
		c.emitQuota(events.TopicStorageQuotaWarning)
	}
	return true
}

func (c *Cache) Remove(k string) bool {
	if err := c.kv.Del(context.Background(), c.key(k)); err != nil {
		log.Printf("cache remove %q: %v", k, err)
		return false
	}
	return true
}

// Clear drops every namespaced key.
func (c *Cache) Clear() bool {
	keys, err := c.kv.Keys(context.Background(), Namespace)
	if err != nil {
		log.Printf("cache clear: %v", err)
		return false
	}
	if err := c.kv.Del(context.Background(), keys...); err != nil {
		log.Printf("cache clear: %v", err)
		return false
	}
	return true
}

// Keys lists stored keys with the namespace stripped, sorted for stable output.
func (c *Cache) Keys() []string {
	keys, err := c.kv.Keys(context.Background(), Namespace)
	if err != nil {
		log.Printf("cache keys: %v", err)
		return nil
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, Namespace))
	}
	sort.Strings(out)
	return out
}

func (c *Cache) Has(k string) bool {
	_, ok, err := c.kv.Get(context.Background(), c.key(k))
	if err != nil {
		log.Printf("cache has %q: %v", k, err)
		return false
	}
	return ok
}

// Size sums key and value bytes across the namespace.
func (c *Cache) Size() int64 {
	ctx := context.Background()
	keys, err := c.kv.Keys(ctx, Namespace)
	if err != nil {
		return 0
	}
	var total int64
	for _, k := range keys {
		v, ok, err := c.kv.Get(ctx, k)
		if err != nil || !ok {
			continue
		}
		total += int64(len(k) + len(v))
	}
	return total
}

// Cleanup drops throwaway-prefixed keys and draft scratch older than 30 days.
func (c *Cache) Cleanup() {
	ctx := context.Background()
	keys, err := c.kv.Keys(ctx, Namespace)
	if err != nil {
		log.Printf("cache cleanup: %v", err)
		return
	}

	var drop []string
	for _, full := range keys {
		k := strings.TrimPrefix(full, Namespace)
		if hasAnyPrefix(k, cleanupPrefixes) {
			drop = append(drop, full)
			continue
		}
		if strings.HasPrefix(k, "draft_") || k == "current_draft" {
			if raw, ok, _ := c.kv.Get(ctx, full); ok && c.draftIsStale(raw) {
				drop = append(drop, full)
			}
		}
	}
	if len(drop) > 0 {
		if err := c.kv.Del(ctx, drop...); err != nil {
			log.Printf("cache cleanup: %v", err)
		}
	}
}

func (c *Cache) draftIsStale(raw string) bool {
	var v struct {
		SavedAt   string `json:"saved_at"`
		UpdatedAt string `json:"updated_at"`
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return false
	}
	stamp := v.SavedAt
	if stamp == "" {
		stamp = v.UpdatedAt
	}
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return false
	}
	return c.now().Sub(t) > staleDraftAge
}

func (c *Cache) fits(k, raw string) bool {
	if c.allowance <= 0 {
		return true
	}
	return c.Size()+int64(len(c.key(k))+len(raw)) <= c.allowance
}

func (c *Cache) emitQuota(topic events.Topic) {
	if c.bus == nil {
		return
	}
	used := c.Size()
	ratio := 0.0
	if c.allowance > 0 {
		ratio = float64(used) / float64(c.allowance)
	}
	c.bus.Emit(topic, events.QuotaEvent{Used: used, Allowance: c.allowance, Ratio: ratio})
}

func serialize(v interface{}) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
