// Package registry implements the scan registry (C5): a process-local
// mapping from scan identifier to the retained (files, folders, summary)
// triple produced by a completed scan. There is no eviction in the core —
// a registered scan stays resident until the process exits.
package registry

import (
	"sync"

	"diskintel/apierr"
	"diskintel/models"
)

// Entry is one retained scan result, borrowed immutably by readers.
type Entry struct {
	Files   []models.FileRecord
	Folders map[string]*models.FolderRecord
	Summary models.ScanSummary
}

// Registry is a read-mostly map guarded so that an insert after a scan
// completes is visible to every subsequent read, per spec.md §5.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Put registers a completed scan under scanID, replacing any prior entry
// under the same identifier.
func (r *Registry) Put(scanID string, entry *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[scanID] = entry
}

// Get retrieves a registered scan. It returns a NotFound apierr.Error if
// scanID is unknown.
func (r *Registry) Get(scanID string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[scanID]
	if !ok {
		return nil, apierr.NotFound("unknown scan id: %s", scanID)
	}
	return entry, nil
}

// MarkStale sets the Stale flag on a registered scan's summary without
// evicting or recomputing anything, per spec.md §4.1's additive staleness
// signal. A miss is a silent no-op — the watcher runs independently of any
// particular request and a scan may have already been superseded.
func (r *Registry) MarkStale(scanID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[scanID]
	if !ok {
		return
	}
	entry.Summary.Stale = true
}

// RootsByScanID returns a snapshot of every registered scan's root path,
// keyed by scan id.
func (r *Registry) RootsByScanID() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roots := make(map[string]string, len(r.entries))
	for id, entry := range r.entries {
		roots[id] = entry.Summary.RootPath
	}
	return roots
}
