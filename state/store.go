package state

import (
	"strings"
	"sync"
)

// Handler receives the mutated path and the value now held at the subscribed
// path. Wildcard subscribers receive the mutated path and the mutated value.
type Handler func(path string, value interface{})

// Wildcard subscribes to every mutation.
const Wildcard = "*"

type subscription struct {
	id int
	fn Handler
}

// Store is an observable map addressed by dot-separated paths
// ("create.draft.title"). Lookups on missing segments return nil, writes on
// malformed paths are no-ops; it never panics on path input.
type Store struct {
	mu     sync.RWMutex
	root   map[string]interface{}
	nextID int
	subs   map[string][]subscription
}

func NewStore() *Store {
	return &Store{
		root: map[string]interface{}{},
		subs: map[string][]subscription{},
	}
}

// Get returns the value at path, or nil when any segment is missing.
func (s *Store) Get(path string) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(path)
}

func (s *Store) lookup(path string) interface{} {
	segs := splitPath(path)
	if segs == nil {
		return nil
	}
	var cur interface{} = s.root
	for _, seg := range segs {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur, ok = m[seg]
		if !ok {
			return nil
		}
	}
	return cur
}

// Set writes value at path, creating intermediate maps, then notifies
// subscribers unless silent.
func (s *Store) Set(path string, value interface{}, silent bool) {
	segs := splitPath(path)
	if segs == nil {
		return
	}

	s.mu.Lock()
	cur := s.root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[seg] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = value
	s.mu.Unlock()

	if !silent {
		s.notify(path, value)
	}
}

// Merge shallow-merges partial into the map at path. A non-map value at the
// target, or a missing target, is replaced by partial's entries.
func (s *Store) Merge(path string, partial map[string]interface{}) {
	segs := splitPath(path)
	if segs == nil || partial == nil {
		return
	}

	s.mu.Lock()
	cur := s.root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[seg] = next
		}
		cur = next
	}
	leaf, ok := cur[segs[len(segs)-1]].(map[string]interface{})
	if !ok {
		leaf = map[string]interface{}{}
		cur[segs[len(segs)-1]] = leaf
	}
	for k, v := range partial {
		leaf[k] = v
	}
	s.mu.Unlock()

	s.notify(path, s.Get(path))
}

// Subscribe registers fn for mutations at path or below it. Returns an
// unsubscribe func. Use Wildcard to observe every mutation.
func (s *Store) Subscribe(path string, fn Handler) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs[path] = append(s.subs[path], subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		list := s.subs[path]
		for i, sub := range list {
			if sub.id == id {
				s.subs[path] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(changed string, value interface{}) {
	s.mu.RLock()
	type delivery struct {
		fn    Handler
		value interface{}
	}
	var pending []delivery
	for subPath, list := range s.subs {
		if subPath == Wildcard {
			for _, sub := range list {
				pending = append(pending, delivery{sub.fn, value})
			}
			continue
		}
		if subPath == changed || strings.HasPrefix(changed, subPath+".") {
			v := s.lookup(subPath)
			for _, sub := range list {
				pending = append(pending, delivery{sub.fn, v})
			}
		}
	}
	s.mu.RUnlock()

	for _, d := range pending {
		d.fn(changed, d.value)
	}
}

// Snapshot returns the value at path decoupled from the live tree, for
// serialization by the persistence sync.
func (s *Store) Snapshot(path string) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return deepCopy(s.lookup(path))
}

func deepCopy(v interface{}) interface{} {
	m, ok := v.(map[string]interface{})
	if !ok {
		return v
	}
	out := make(map[string]interface{}, len(m))
	for k, val := range m {
		out[k] = deepCopy(val)
	}
	return out
}

func splitPath(path string) []string {
	if path == "" || path == Wildcard {
		return nil
	}
	segs := strings.Split(path, ".")
	for _, seg := range segs {
		if seg == "" {
			return nil
		}
	}
	return segs
}
