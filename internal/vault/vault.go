// Package vault abstracts the document store that holds the markdown
// notes holos manages.
//
// The sync services are written against the Store and Watcher interfaces
// so tests can substitute an in-memory store and drive filesystem events
// deterministically. OSStore is the production implementation, rooted at
// a vault directory on disk, with change notification via fsnotify.
package vault

import "errors"

// ErrNotExist is returned when an operation addresses a file that is not
// in the store.
var ErrNotExist = errors.New("file does not exist")

// Op is the kind of a file event.
type Op int

const (
	OpCreate Op = iota
	OpModify
	OpDelete
	OpRename
)

func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpModify:
		return "modify"
	case OpDelete:
		return "delete"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Event is one file change observed by a watcher. Paths are relative to
// the store root. OldPath is set only for renames.
type Event struct {
	Op      Op
	Path    string
	OldPath string
}

// Entry is one child of a folder listing.
type Entry struct {
	Name  string
	IsDir bool
}

// Store is the file access surface the sync services consume.
type Store interface {
	ReadFile(path string) (string, error)
	WriteFile(path, content string) error
	CreateFile(path, content string) error
	DeleteFile(path string) error
	RenameFile(oldPath, newPath string) error
	ListFolder(path string) ([]Entry, error)

	// ReadFrontmatter returns the parsed key/value header of a note, or
	// an empty map when the note has none.
	ReadFrontmatter(path string) (map[string]any, error)

	// WriteFrontmatter applies mutate to the note's header atomically
	// with respect to the note body.
	WriteFrontmatter(path string, mutate func(fm map[string]any)) error
}

// Watcher emits file events for externally observable changes under the
// store root. It must be started before it emits anything and stopped to
// release resources.
type Watcher interface {
	Start() error
	Stop() error
	Events() <-chan Event
	Errors() <-chan error
}
