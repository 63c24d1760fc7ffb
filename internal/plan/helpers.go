package plan

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/google/uuid"
)

// GenerateID returns a fresh random identifier with the given prefix.
func GenerateID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// HashText returns the SHA-1 hex digest of text. Used to detect content
// changes without keeping whole documents around.
func HashText(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// SwapItems returns a copy of the slice with the items at a and b swapped.
// Indexes outside the slice leave it untouched.
func SwapItems[T any](items []T, a, b int) []T {
	if a < 0 || b < 0 || a >= len(items) || b >= len(items) {
		return items
	}
	out := make([]T, len(items))
	copy(out, items)
	out[a], out[b] = out[b], out[a]
	return out
}
