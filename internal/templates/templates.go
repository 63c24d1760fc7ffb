// Package templates holds the schema snapshots that govern which items a
// date's planner section may contain.
//
// A template is effective from its own date until superseded by the next
// later template. The store keeps the known template dates sorted so
// resolving a calendar date to its governing template is a binary search.
package templates

import (
	"sort"
	"sync"

	"github.com/caasion/holos/internal/plan"
)

// lookaheadDays bounds date enumeration for the last template, which has
// no successor to end its governed range.
const lookaheadDays = 180

// Store owns the template set. All access goes through its methods; there
// is no package-level state.
type Store struct {
	mu        sync.RWMutex
	templates map[plan.TDate]plan.Template
	sorted    []plan.TDate
}

// NewStore returns an empty template store.
func NewStore() *Store {
	return &Store{templates: make(map[plan.TDate]plan.Template)}
}

// Set installs or replaces the template effective from tDate.
func (s *Store) Set(tDate plan.TDate, template plan.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.templates[tDate]; !exists {
		i := sort.SearchStrings(s.sorted, tDate)
		s.sorted = append(s.sorted, "")
		copy(s.sorted[i+1:], s.sorted[i:])
		s.sorted[i] = tDate
	}
	s.templates[tDate] = template
}

// Remove deletes the template at tDate. Reports whether one existed.
// Daily data governed by the template is not touched.
func (s *Store) Remove(tDate plan.TDate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.templates[tDate]; !exists {
		return false
	}
	delete(s.templates, tDate)
	i := sort.SearchStrings(s.sorted, tDate)
	s.sorted = append(s.sorted[:i], s.sorted[i+1:]...)
	return true
}

// Get returns the template at exactly tDate.
func (s *Store) Get(tDate plan.TDate) (plan.Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[tDate]
	return t, ok
}

// SetItem installs an item's metadata into the template at tDate.
// Reports false when no template exists for that date.
func (s *Store) SetItem(tDate plan.TDate, id plan.ItemID, meta plan.ItemMeta) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	template, ok := s.templates[tDate]
	if !ok {
		return false
	}
	template[id] = meta
	return true
}

// RemoveItem deletes an item from the template at tDate.
func (s *Store) RemoveItem(tDate plan.TDate, id plan.ItemID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	template, ok := s.templates[tDate]
	if !ok {
		return false
	}
	if _, ok := template[id]; !ok {
		return false
	}
	delete(template, id)
	return true
}

// Dates returns a snapshot of the known template dates in ascending order.
func (s *Store) Dates() []plan.TDate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]plan.TDate, len(s.sorted))
	copy(out, s.sorted)
	return out
}

// ResolveDate maps a calendar date to the latest template date effective
// on or before it. Returns "" when the date precedes every template.
//
// Resolution is a step function: once a template at T becomes effective,
// every date in [T, next template) maps to T.
func (s *Store) ResolveDate(date plan.ISODate) plan.TDate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// sort.SearchStrings finds the first date > the target when we probe
	// with the successor boundary; walk back one for the greatest <=.
	i := sort.Search(len(s.sorted), func(i int) bool { return s.sorted[i] > date })
	if i == 0 {
		return ""
	}
	return s.sorted[i-1]
}

// ResolveLabel finds the item whose template label matches under the
// template governing date. Returns "" when the date has no governing
// template or the label is unknown to it.
func (s *Store) ResolveLabel(date plan.ISODate, label string) plan.ItemID {
	tDate := s.ResolveDate(date)
	if tDate == "" {
		return ""
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, meta := range s.templates[tDate] {
		if meta.Label == label {
			return id
		}
	}
	return ""
}

// DatesOf enumerates every date governed by tDate: from tDate through the
// day before the next template, or a bounded lookahead when tDate is the
// last template. Returns nil for an unknown template date.
func (s *Store) DatesOf(tDate plan.TDate) []plan.ISODate {
	s.mu.RLock()
	i := sort.SearchStrings(s.sorted, tDate)
	known := i < len(s.sorted) && s.sorted[i] == tDate
	next := ""
	if known && i+1 < len(s.sorted) {
		next = s.sorted[i+1]
	}
	s.mu.RUnlock()

	if !known {
		return nil
	}
	if next != "" {
		return plan.DatesBetween(tDate, plan.AddDays(next, -1))
	}
	return plan.DatesBetween(tDate, plan.AddDays(tDate, lookaheadDays))
}
