package comparator

import (
	"os"
	"path/filepath"
	"time"

	"diskintel/policy"
)

// indexEntry is one indexed node of a tree being compared, keyed by its
// path relative to that tree's root.
type indexEntry struct {
	FullPath string
	Size     int64
	Modified time.Time
	IsDir    bool
}

// buildIndex walks root top-down under C1's blacklist policy, indexing every
// directory and file (excluding root itself) by relative path. A directory's
// Size is left at zero, per spec.md §4.4.
func buildIndex(root string) (map[string]indexEntry, error) {
	entries := make(map[string]indexEntry)
	if err := walkInto(root, root, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func walkInto(root, dir string, entries map[string]indexEntry) error {
	items, err := os.ReadDir(dir)
	if err != nil {
		// A permission error partway through a walk is absorbed: the entries
		// already collected stand, matching the scanner's tolerant walk.
		return nil
	}
	for _, item := range items {
		full := filepath.Join(dir, item.Name())
		if policy.IsBlacklisted(full) {
			continue
		}
		rel, err := filepath.Rel(root, full)
		if err != nil {
			continue
		}
		info, err := item.Info()
		if err != nil {
			continue
		}
		entry := indexEntry{FullPath: full, IsDir: item.IsDir(), Modified: info.ModTime()}
		if !item.IsDir() {
			entry.Size = info.Size()
		}
		entries[rel] = entry
		if item.IsDir() {
			if err := walkInto(root, full, entries); err != nil {
				return err
			}
		}
	}
	return nil
}
