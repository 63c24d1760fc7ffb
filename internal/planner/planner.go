// Package planner keeps the per-date structured view of daily notes in
// sync with the notes themselves.
//
// The planner owns a parsed store keyed by date. Edits flow in through
// its methods, are coalesced by a debounce window, and are written back
// by regenerating only the managed section of the note. Every write is
// bracketed by a self-write flag so the filesystem watcher's echo of that
// write is not mistaken for an external edit; external edits reload just
// the affected date.
package planner

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/caasion/holos/internal/grammar"
	"github.com/caasion/holos/internal/plan"
	"github.com/caasion/holos/internal/section"
	"github.com/caasion/holos/internal/templates"
	"github.com/caasion/holos/internal/vault"
)

// Options configures a planner service.
type Options struct {
	// SectionHeading is the label of the managed section inside daily
	// notes.
	SectionHeading string

	// Debounce is how long to coalesce rapid edits before writing.
	Debounce time.Duration

	// SuppressGrace is how long the self-write flag is held after a
	// write completes, covering the latency of the echoed file event.
	SuppressGrace time.Duration

	// NotePath maps a date to its note path inside the store. Defaults
	// to "<date>.md" at the vault root.
	NotePath func(date plan.ISODate) string

	Logger *log.Logger
}

// DefaultOptions returns the settings used when fields are left zero.
func DefaultOptions() Options {
	return Options{
		SectionHeading: "Holos",
		Debounce:       200 * time.Millisecond,
		SuppressGrace:  100 * time.Millisecond,
		NotePath:       func(date plan.ISODate) string { return date + ".md" },
		Logger:         log.New(os.Stderr, "[planner] ", log.LstdFlags),
	}
}

// Service is the daily-note cache and write scheduler.
type Service struct {
	store     vault.Store
	templates *templates.Store
	opts      Options

	mu      sync.Mutex
	content map[plan.ISODate]map[plan.ItemID]*plan.Item
	watched map[string]plan.ISODate // note path -> date
	writing bool
	gen     uint64 // bumped on every in-memory edit
	timers  map[plan.ISODate]*time.Timer
}

// New creates a planner service over the given store and template set.
func New(store vault.Store, tpl *templates.Store, opts Options) *Service {
	def := DefaultOptions()
	if opts.SectionHeading == "" {
		opts.SectionHeading = def.SectionHeading
	}
	if opts.Debounce == 0 {
		opts.Debounce = def.Debounce
	}
	if opts.SuppressGrace == 0 {
		opts.SuppressGrace = def.SuppressGrace
	}
	if opts.NotePath == nil {
		opts.NotePath = def.NotePath
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}

	return &Service{
		store:     store,
		templates: tpl,
		opts:      opts,
		content:   make(map[plan.ISODate]map[plan.ItemID]*plan.Item),
		watched:   make(map[string]plan.ISODate),
		timers:    make(map[plan.ISODate]*time.Timer),
	}
}

// Load reads and parses the notes for the given dates, replacing the
// parsed store. A load requested while a write is in flight is skipped so
// a half-written note is never read back.
func (s *Service) Load(dates []plan.ISODate) error {
	s.mu.Lock()
	if s.writing {
		s.mu.Unlock()
		return nil
	}
	startGen := s.gen
	s.mu.Unlock()

	content := make(map[plan.ISODate]map[plan.ItemID]*plan.Item, len(dates))
	watched := make(map[string]plan.ISODate, len(dates))
	for _, date := range dates {
		items, err := s.loadDate(date)
		if err != nil {
			return err
		}
		content[date] = items
		watched[s.opts.NotePath(date)] = date
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// An edit or write that landed while the notes were being read makes
	// this parse stale; the pending debounced write carries the newer
	// state to disk and the next load picks it up.
	if s.writing || s.gen != startGen {
		return nil
	}
	s.content = content
	s.watched = watched
	return nil
}

// loadDate parses one date's managed section. A missing note or missing
// section yields zero items, never an error.
func (s *Service) loadDate(date plan.ISODate) (map[plan.ItemID]*plan.Item, error) {
	doc, err := s.store.ReadFile(s.opts.NotePath(date))
	if errors.Is(err, vault.ErrNotExist) {
		return map[plan.ItemID]*plan.Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load note for %s: %w", date, err)
	}

	body := section.Extract(doc, s.opts.SectionHeading)
	items := grammar.ParseItemSection(body, func(label string) plan.ItemID {
		return s.templates.ResolveLabel(date, label)
	})
	return items, nil
}

// Items returns a snapshot of the parsed items for a date.
func (s *Service) Items(date plan.ISODate) map[plan.ItemID]*plan.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[plan.ItemID]*plan.Item, len(s.content[date]))
	for id, item := range s.content[date] {
		copied := *item
		out[id] = &copied
	}
	return out
}

// Dates returns the dates currently held in the parsed store.
func (s *Service) Dates() []plan.ISODate {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]plan.ISODate, 0, len(s.content))
	for date := range s.content {
		out = append(out, date)
	}
	return out
}

// UpdateCell replaces one item's data for a date and schedules a
// debounced write. Edits inside the window supersede each other; only
// the last state reaches the note.
func (s *Service) UpdateCell(date plan.ISODate, id plan.ItemID, item *plan.Item) {
	s.mu.Lock()
	if s.content[date] == nil {
		s.content[date] = make(map[plan.ItemID]*plan.Item)
	}
	s.content[date][id] = item
	s.gen++
	s.mu.Unlock()

	s.scheduleWrite(date)
}

// RemoveItem drops an item from a date and schedules a write; the item
// disappears from the note's section on the next splice.
func (s *Service) RemoveItem(date plan.ISODate, id plan.ItemID) {
	s.mu.Lock()
	delete(s.content[date], id)
	s.gen++
	s.mu.Unlock()

	s.scheduleWrite(date)
}

func (s *Service) scheduleWrite(date plan.ISODate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[date]; ok {
		t.Stop()
	}
	s.timers[date] = time.AfterFunc(s.opts.Debounce, func() {
		if err := s.WriteDate(date); err != nil {
			s.opts.Logger.Printf("Error writing note for %s: %v", date, err)
		}
	})
}

// WriteDate serializes a date's items and splices them into the note
// under the managed heading, leaving the rest of the note untouched. The
// self-write flag is held across the write and for a grace period after,
// so the watcher's echo is suppressed.
//
// A write failure is surfaced to the caller; the in-memory state remains
// the most recent good state and may be retried.
func (s *Service) WriteDate(date plan.ISODate) error {
	path := s.opts.NotePath(date)

	// Snapshot under the lock: the debounce timer runs this on its own
	// goroutine while callers keep editing the live map.
	s.mu.Lock()
	items := make(map[plan.ItemID]*plan.Item, len(s.content[date]))
	for id, item := range s.content[date] {
		items[id] = item
	}
	s.writing = true
	s.mu.Unlock()

	defer time.AfterFunc(s.opts.SuppressGrace, func() {
		s.mu.Lock()
		s.writing = false
		s.mu.Unlock()
	})

	doc, err := s.store.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read note for %s: %w", date, err)
	}

	template, _ := s.templates.Get(s.templates.ResolveDate(date))
	body := grammar.SerializeSection(template, items)
	updated := section.Replace(doc, s.opts.SectionHeading, body)

	if err := s.store.WriteFile(path, updated); err != nil {
		return fmt.Errorf("failed to write note for %s: %w", date, err)
	}
	return nil
}

// AddItem creates an item on a date, creating the daily note itself when
// absent, and persists immediately rather than waiting for the debounce.
func (s *Service) AddItem(date plan.ISODate, id plan.ItemID, minutes int) error {
	path := s.opts.NotePath(date)

	if _, err := s.store.ReadFile(path); errors.Is(err, vault.ErrNotExist) {
		s.opts.Logger.Printf("Daily note for %s does not exist, creating it", date)
		if err := s.store.CreateFile(path, ""); err != nil {
			return fmt.Errorf("failed to create note for %s: %w", date, err)
		}
	} else if err != nil {
		return err
	}

	if minutes == 0 {
		minutes = plan.DefaultCommitment
	}
	item := &plan.Item{
		ID:       id,
		Time:     minutes,
		Elements: []plan.Element{{Text: "New Item"}},
	}

	s.mu.Lock()
	if s.content[date] == nil {
		s.content[date] = make(map[plan.ItemID]*plan.Item)
	}
	s.watched[path] = date
	s.content[date][id] = item
	s.gen++
	s.mu.Unlock()

	if err := s.WriteDate(date); err != nil {
		return err
	}

	// Read back so the structured view reflects exactly what the note
	// now says.
	items, err := s.loadDate(date)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.content[date] = items
	s.mu.Unlock()
	return nil
}

// HandleEvent routes one file event. A modify on a watched note reloads
// just that date, unless the self-write flag marks the event as an echo
// of our own write. Reports whether a reload happened.
func (s *Service) HandleEvent(ev vault.Event) bool {
	if ev.Op != vault.OpModify {
		return false
	}

	s.mu.Lock()
	if s.writing {
		s.mu.Unlock()
		return false
	}
	date, ok := s.watched[ev.Path]
	s.mu.Unlock()
	if !ok {
		return false
	}

	items, err := s.loadDate(date)
	if err != nil {
		s.opts.Logger.Printf("Error reloading note for %s: %v", date, err)
		return false
	}

	s.mu.Lock()
	s.content[date] = items
	s.mu.Unlock()
	return true
}

// FloatCell is an explicitly unsupported capability: numeric cell reads
// are not part of the grammar. Callers can distinguish this from an
// empty cell.
func (s *Service) FloatCell(date plan.ISODate, id plan.ItemID) (float64, error) {
	return 0, plan.ErrUnsupported
}

// SetFloatCell is the write half of the unsupported numeric cell
// capability.
func (s *Service) SetFloatCell(date plan.ISODate, id plan.ItemID, value float64) error {
	return plan.ErrUnsupported
}

// Close cancels pending debounced writes without flushing them.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for date, t := range s.timers {
		t.Stop()
		delete(s.timers, date)
	}
}
