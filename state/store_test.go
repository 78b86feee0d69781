package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMissingPathReturnsNil(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Get("create.draft.title"))
	assert.Nil(t, s.Get(""))
	assert.Nil(t, s.Get("a..b"))
}

func TestSetAndGet(t *testing.T) {
	s := NewStore()
	s.Set("create.draft.title", "Bali Trip", false)
	assert.Equal(t, "Bali Trip", s.Get("create.draft.title"))

	// Intermediate segments materialize as maps.
	m, ok := s.Get("create.draft").(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "Bali Trip", m["title"])
}

func TestSetMalformedPathIsNoop(t *testing.T) {
	s := NewStore()
	s.Set("", 1, false)
	s.Set("a..b", 1, false)
	assert.Nil(t, s.Get("a"))
}

func TestPrefixSubscribersNotified(t *testing.T) {
	s := NewStore()
	var gotPath string
	var gotValue interface{}
	s.Subscribe("create.draft", func(path string, value interface{}) {
		gotPath = path
		gotValue = value
	})

	s.Set("create.draft.title", "Lisbon", false)
	assert.Equal(t, "create.draft.title", gotPath)
	m := gotValue.(map[string]interface{})
	assert.Equal(t, "Lisbon", m["title"])
}

func TestSiblingPathNotNotified(t *testing.T) {
	s := NewStore()
	calls := 0
	s.Subscribe("filters", func(string, interface{}) { calls++ })

	s.Set("filtersExtra.x", 1, false)
	s.Set("wishlist", []string{"a"}, false)
	assert.Zero(t, calls)
}

func TestSilentSetSkipsNotification(t *testing.T) {
	s := NewStore()
	calls := 0
	s.Subscribe(Wildcard, func(string, interface{}) { calls++ })

	s.Set("currentUser", "u1", true)
	assert.Zero(t, calls)
	assert.Equal(t, "u1", s.Get("currentUser"))
}

func TestWildcardReceivesEveryMutation(t *testing.T) {
	s := NewStore()
	var paths []string
	s.Subscribe(Wildcard, func(path string, _ interface{}) { paths = append(paths, path) })

	s.Set("currentUser", "u1", false)
	s.Set("filters.country", "PT", false)
	assert.Equal(t, []string{"currentUser", "filters.country"}, paths)
}

func TestMergeShallow(t *testing.T) {
	s := NewStore()
	s.Set("create.draft", map[string]interface{}{"title": "A", "duration": 3}, false)
	s.Merge("create.draft", map[string]interface{}{"duration": 5, "city": "Ubud"})

	m := s.Get("create.draft").(map[string]interface{})
	assert.Equal(t, "A", m["title"])
	assert.Equal(t, 5, m["duration"])
	assert.Equal(t, "Ubud", m["city"])
}

func TestMergeOntoMissingTarget(t *testing.T) {
	s := NewStore()
	s.Merge("filters", map[string]interface{}{"country": "ID"})
	m := s.Get("filters").(map[string]interface{})
	assert.Equal(t, "ID", m["country"])
}

func TestUnsubscribe(t *testing.T) {
	s := NewStore()
	calls := 0
	off := s.Subscribe("wishlist", func(string, interface{}) { calls++ })

	s.Set("wishlist", 1, false)
	off()
	s.Set("wishlist", 2, false)
	assert.Equal(t, 1, calls)
}

func TestSnapshotIsDecoupled(t *testing.T) {
	s := NewStore()
	s.Set("create.draft.title", "A", false)
	snap := s.Snapshot("create.draft").(map[string]interface{})
	snap["title"] = "mutated"
	assert.Equal(t, "A", s.Get("create.draft.title"))
}
