// Package tracks keeps the structured view of track and project notes in
// sync with their backing files.
//
// Each track owns a folder under the configured tracks folder: one note
// tagged as the track itself plus zero or more project notes, classified
// by a frontmatter tag and id. The service exclusively owns the file
// cache (logical id -> file paths) and the parsed store; every mutation
// flows through its methods so writes can be paired with the self-write
// suppression flag.
//
// Event routing: a modify on a known entity's file refreshes just that
// track; a create, delete or rename anywhere under the folder invalidates
// the whole cache, since membership may have changed and rediscovery is
// cheaper than tracking deltas.
package tracks

import (
	"fmt"
	"log"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/caasion/holos/internal/grammar"
	"github.com/caasion/holos/internal/plan"
	"github.com/caasion/holos/internal/section"
	"github.com/caasion/holos/internal/vault"
)

const (
	tagTrack   = "holos/track"
	tagProject = "holos/project"

	habitsHeading = "Habits"
	tasksHeading  = "Tasks"

	defaultColor = "#cccccc"
)

// trackFiles is one cache entry: the file paths backing a logical track.
type trackFiles struct {
	id              string
	trackPath       string
	activeProjectID string
	projects        map[string]string // project id -> path
}

// Options configures a track service.
type Options struct {
	// Folder is the store-relative folder holding track folders.
	Folder string

	// SuppressGrace is how long the self-write flag is held after a
	// programmatic write.
	SuppressGrace time.Duration

	// MetadataWait bounds the retry window for reading the frontmatter
	// of a freshly created file. After it elapses the file is treated
	// as not yet ready rather than blocking discovery.
	MetadataWait time.Duration

	Logger *log.Logger
}

// DefaultOptions returns the settings used when fields are left zero.
func DefaultOptions() Options {
	return Options{
		Folder:        "Tracks",
		SuppressGrace: 100 * time.Millisecond,
		MetadataWait:  time.Second,
		Logger:        log.New(os.Stderr, "[tracks] ", log.LstdFlags),
	}
}

// Service is the track/project cache and sync engine.
type Service struct {
	store vault.Store
	opts  Options

	mu        sync.Mutex
	fileCache map[string]trackFiles
	tracks    map[string]plan.Track
	writing   bool
}

// New creates a track service over the given store.
func New(store vault.Store, opts Options) *Service {
	def := DefaultOptions()
	if opts.Folder == "" {
		opts.Folder = def.Folder
	}
	if opts.SuppressGrace == 0 {
		opts.SuppressGrace = def.SuppressGrace
	}
	if opts.MetadataWait == 0 {
		opts.MetadataWait = def.MetadataWait
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}

	return &Service{
		store:     store,
		opts:      opts,
		fileCache: make(map[string]trackFiles),
		tracks:    make(map[string]plan.Track),
	}
}

// ===== Read path =====

// PopulateFileCache enumerates the tracks folder and rebuilds the index
// from logical id to backing files. Files without an identity marker are
// simply not managed entities and are skipped silently.
func (s *Service) PopulateFileCache() error {
	entries, err := s.store.ListFolder(s.opts.Folder)
	if err != nil {
		return fmt.Errorf("failed to list tracks folder: %w", err)
	}

	cache := make(map[string]trackFiles)
	for _, e := range entries {
		if !e.IsDir {
			continue
		}
		tf := s.findFilesInFolder(path.Join(s.opts.Folder, e.Name))
		if tf.id != "" && tf.trackPath != "" {
			cache[tf.id] = tf
		}
	}

	s.mu.Lock()
	s.fileCache = cache
	s.mu.Unlock()
	return nil
}

// findFilesInFolder classifies the markdown files of one track folder by
// their frontmatter tag and id.
func (s *Service) findFilesInFolder(folder string) trackFiles {
	tf := trackFiles{projects: make(map[string]string)}

	entries, err := s.store.ListFolder(folder)
	if err != nil {
		s.opts.Logger.Printf("Warning: failed to list %s: %v", folder, err)
		return tf
	}

	for _, e := range entries {
		if e.IsDir || !strings.HasSuffix(e.Name, ".md") {
			continue
		}
		filePath := path.Join(folder, e.Name)

		fm := s.readFrontmatterBounded(filePath)
		if fm == nil {
			continue
		}
		id := vault.FMString(fm, "id")
		if id == "" {
			continue
		}

		tags := vault.FMStrings(fm, "tags")
		switch {
		case contains(tags, tagTrack):
			tf.id = id
			tf.trackPath = filePath
		case contains(tags, tagProject):
			tf.projects[id] = filePath
			if vault.FMBool(fm, "active_project") {
				tf.activeProjectID = id
			}
		}
	}

	return tf
}

// readFrontmatterBounded reads a file's frontmatter, retrying briefly
// when the file is not readable yet (it may have just been created and
// still be settling). After the bounded wait the file is treated as
// not-yet-ready and skipped.
func (s *Service) readFrontmatterBounded(filePath string) map[string]any {
	deadline := time.Now().Add(s.opts.MetadataWait)
	for {
		fm, err := s.store.ReadFrontmatter(filePath)
		if err == nil {
			return fm
		}
		if time.Now().After(deadline) {
			s.opts.Logger.Printf("Warning: metadata for %s not ready: %v", filePath, err)
			return nil
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// LoadAll reads and parses every cached track into the structured store,
// populating the file cache first if it is empty.
func (s *Service) LoadAll() error {
	s.mu.Lock()
	empty := len(s.fileCache) == 0
	s.mu.Unlock()
	if empty {
		if err := s.PopulateFileCache(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	cache := make(map[string]trackFiles, len(s.fileCache))
	for id, tf := range s.fileCache {
		cache[id] = tf
	}
	s.mu.Unlock()

	tracks := make(map[string]plan.Track, len(cache))
	for id, tf := range cache {
		track := s.loadTrack(id, tf)
		if track != nil {
			tracks[id] = *track
		}
	}

	s.mu.Lock()
	s.tracks = tracks
	s.mu.Unlock()
	return nil
}

// loadTrack parses one track and its projects. A classified file missing
// a required field logs a warning and is excluded from this pass; any
// previous state is left to the caller.
func (s *Service) loadTrack(id string, tf trackFiles) *plan.Track {
	fm, err := s.store.ReadFrontmatter(tf.trackPath)
	if err != nil {
		s.opts.Logger.Printf("Warning: failed to read %s: %v", tf.trackPath, err)
		return nil
	}
	content, err := s.store.ReadFile(tf.trackPath)
	if err != nil {
		s.opts.Logger.Printf("Warning: failed to read %s: %v", tf.trackPath, err)
		return nil
	}

	order, ok := vault.FMInt(fm, "order")
	if !ok {
		s.opts.Logger.Printf("Warning: %s is missing order, skipping", tf.trackPath)
		return nil
	}

	color := vault.FMString(fm, "color")
	if color == "" {
		color = defaultColor
	}
	commitment, _ := vault.FMInt(fm, "time_commitment")

	projects := make(map[string]plan.Project, len(tf.projects))
	for pid, ppath := range tf.projects {
		if p := s.loadProject(pid, ppath); p != nil {
			projects[pid] = *p
		}
	}

	return &plan.Track{
		ID:              id,
		Label:           baseName(tf.trackPath),
		Description:     section.ExtractFirst(content),
		Order:           order,
		Color:           color,
		TimeCommitment:  commitment,
		JournalHeader:   vault.FMString(fm, "journal_header"),
		Habits:          grammar.ParseHabitSection(section.Extract(content, habitsHeading)),
		ActiveProjectID: tf.activeProjectID,
		Projects:        projects,
	}
}

// loadProject parses one project note.
func (s *Service) loadProject(id, filePath string) *plan.Project {
	fm, err := s.store.ReadFrontmatter(filePath)
	if err != nil {
		s.opts.Logger.Printf("Warning: failed to read %s: %v", filePath, err)
		return nil
	}
	content, err := s.store.ReadFile(filePath)
	if err != nil {
		s.opts.Logger.Printf("Warning: failed to read %s: %v", filePath, err)
		return nil
	}

	startDate := vault.FMString(fm, "start_date")
	if startDate == "" {
		s.opts.Logger.Printf("Warning: %s is missing start_date, skipping", filePath)
		return nil
	}

	return &plan.Project{
		ID:        id,
		Label:     baseName(filePath),
		StartDate: startDate,
		EndDate:   vault.FMString(fm, "end_date"),
		Elements:  grammar.ParseDataSection(section.Extract(content, tasksHeading)),
		Habits:    grammar.ParseHabitSection(section.Extract(content, habitsHeading)),
	}
}

// Tracks returns a snapshot of the parsed tracks.
func (s *Service) Tracks() map[string]plan.Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]plan.Track, len(s.tracks))
	for id, track := range s.tracks {
		out[id] = track
	}
	return out
}

// Refresh re-reads a single track, leaving the others untouched. On a
// failed load the stale entry is retained rather than cleared.
func (s *Service) Refresh(trackID string) error {
	s.mu.Lock()
	tf, ok := s.fileCache[trackID]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("track %s: %w", trackID, plan.ErrNotFound)
	}

	track := s.loadTrack(trackID, tf)
	if track == nil {
		s.opts.Logger.Printf("Warning: failed to load track %s, keeping previous state", trackID)
		return nil
	}

	s.mu.Lock()
	s.tracks[trackID] = *track
	s.mu.Unlock()
	return nil
}

// Invalidate re-runs file discovery and reloads everything. Used when
// the file set membership itself may have changed.
func (s *Service) Invalidate() error {
	if err := s.PopulateFileCache(); err != nil {
		return err
	}
	return s.LoadAll()
}

// ===== Event routing =====

// inFolder reports whether a store path lies under the tracks folder.
func (s *Service) inFolder(p string) bool {
	return p == s.opts.Folder || strings.HasPrefix(p, s.opts.Folder+"/")
}

// trackIDByPath finds the track whose note or project notes include the
// given path.
func (s *Service) trackIDByPath(p string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, tf := range s.fileCache {
		if tf.trackPath == p {
			return id
		}
		for _, pp := range tf.projects {
			if pp == p {
				return id
			}
		}
	}
	return ""
}

// HandleEvent routes one file event per the invalidation protocol.
// Events echoing the service's own writes are suppressed. Reports
// whether the event caused any cache work.
func (s *Service) HandleEvent(ev vault.Event) bool {
	if !s.inFolder(ev.Path) && !(ev.Op == vault.OpRename && s.inFolder(ev.OldPath)) {
		return false
	}

	s.mu.Lock()
	suppressed := s.writing
	s.mu.Unlock()
	if suppressed {
		return false
	}

	switch ev.Op {
	case vault.OpModify:
		trackID := s.trackIDByPath(ev.Path)
		if trackID == "" {
			return false
		}
		if err := s.Refresh(trackID); err != nil {
			s.opts.Logger.Printf("Error refreshing track %s: %v", trackID, err)
		}
		return true

	case vault.OpCreate, vault.OpDelete, vault.OpRename:
		if err := s.Invalidate(); err != nil {
			s.opts.Logger.Printf("Error invalidating cache: %v", err)
		}
		return true
	}
	return false
}

func contains(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}

func baseName(p string) string {
	return strings.TrimSuffix(path.Base(p), ".md")
}
