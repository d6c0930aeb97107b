package registry

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
)

// Watcher marks registered scans stale when their root changes on disk. It
// never evicts a scan — staleness is an additive signal a reader may act on,
// per spec.md §4.1/§4.5.
type Watcher struct {
	fsw *fsnotify.Watcher
	reg *Registry

	mu     sync.Mutex
	byScan map[string]string // scan id -> root path
}

// NewWatcher starts the background event loop and returns a Watcher bound to
// reg. Call Watch for every scan whose root should be monitored.
func NewWatcher(reg *Registry) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{fsw: fsw, reg: reg, byScan: make(map[string]string)}
	go w.loop()
	return w, nil
}

// Watch adds scanID's root to the watch set, recursively watching every
// existing subdirectory.
func (w *Watcher) Watch(scanID, root string) {
	w.mu.Lock()
	w.byScan[scanID] = root
	w.mu.Unlock()

	if err := watchRecursive(w.fsw, root); err != nil {
		log.Printf("registry watcher: could not watch %s: %v", root, err)
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	defer w.fsw.Close()
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("registry watcher: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			if err := watchRecursive(w.fsw, event.Name); err != nil {
				log.Printf("registry watcher: could not watch new dir %s: %v", event.Name, err)
			}
		}
	}

	for _, scanID := range w.scansAffectedBy(event.Name) {
		w.reg.MarkStale(scanID)
	}
}

func (w *Watcher) scansAffectedBy(path string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var affected []string
	for scanID, root := range w.byScan {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			affected = append(affected, scanID)
		}
	}
	return affected
}

// watchRecursive adds a watch for dir and every subdirectory beneath it. If
// the kernel inotify watch limit is reached it logs once and stops;
// directories beyond that point simply never report a staleness signal.
func watchRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Printf("registry watcher: skipping %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			if errors.Is(err, syscall.ENOSPC) {
				log.Printf("registry watcher: inotify watch limit reached (stopped at %s)", path)
				return filepath.SkipAll
			}
			log.Printf("registry watcher: could not add watch for %s: %v", path, err)
		}
		return nil
	})
}
