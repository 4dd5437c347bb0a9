// Package quote owns the quote id namespace: base ids shared by every part
// of one quoting session and the per-part suffix letters minted within it.
package quote

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// NewID mints a fresh base quote id, e.g. "Q-9f3a2b1c".
func NewID() string {
	return "Q-" + uuid.New().String()[:8]
}

// BaseID strips the part suffix from a quote id. Ids with two or fewer
// dash-separated segments are already base ids and pass through unchanged.
func BaseID(id string) string {
	parts := strings.Split(id, "-")
	if len(parts) <= 2 {
		return id
	}
	return strings.Join(parts[:len(parts)-1], "-")
}

// IsSuffixed reports whether a quote id already carries a part suffix.
func IsSuffixed(id string) bool {
	return len(strings.Split(id, "-")) >= 3
}

// Suffix returns the part suffix of a suffixed quote id, or "" for base ids.
func Suffix(id string) string {
	parts := strings.Split(id, "-")
	if len(parts) <= 2 {
		return ""
	}
	return parts[len(parts)-1]
}

// Allocator issues sequential part suffixes per base quote id. Suffixes are
// monotonic for the lifetime of the process; they are not unique across
// restarts or across processes, and callers must not rely on them for
// global uniqueness.
type Allocator struct {
	mu   sync.Mutex
	last map[string]byte
}

// NewAllocator builds an empty suffix allocator.
func NewAllocator() *Allocator {
	return &Allocator{last: make(map[string]byte)}
}

// Next returns the next unused suffix letter for baseID, starting at "A".
func (a *Allocator) Next(baseID string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	cur, ok := a.last[baseID]
	if !ok {
		a.last[baseID] = 'A'
		return "A"
	}
	cur++
	a.last[baseID] = cur
	return string(cur)
}
