package shortid

import "sync"

// SuffixLen is how many trailing characters of a message id make a short id.
// Five characters keep prompts compact; the platform's id space makes a
// suffix collision only theoretically possible.
const SuffixLen = 5

// Suffix returns the short form of a full id without recording it.
func Suffix(fullID string) string {
	if len(fullID) <= SuffixLen {
		return fullID
	}
	return fullID[len(fullID)-SuffixLen:]
}

// Registry maps short ids back to full platform message ids. It is
// process-wide, append-only state: entries accumulate for the lifetime of
// the process and a collision silently overwrites the older mapping.
type Registry struct {
	mu  sync.RWMutex
	ids map[string]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{ids: make(map[string]string)}
}

// Shorten records the mapping for fullID and returns its short form.
func (r *Registry) Shorten(fullID string) string {
	short := Suffix(fullID)
	r.mu.Lock()
	r.ids[short] = fullID
	r.mu.Unlock()
	return short
}

// Resolve returns the full id for a short id, if known.
func (r *Registry) Resolve(shortID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	full, ok := r.ids[shortID]
	return full, ok
}

// Len reports how many mappings are held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}
