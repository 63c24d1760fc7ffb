package plan

import "errors"

var (
	// ErrUnsupported signals a capability that is deliberately not
	// implemented, as opposed to one that returned no data.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrNotFound signals an operation addressed by an ID with no backing
	// entity.
	ErrNotFound = errors.New("not found")
)
