// Package comparator implements the two-tree differ (C4): it indexes a
// source and target root by relative path, classifies every entry, and
// assembles a hierarchical result with difference counts propagated to
// ancestors. An optional deep-scan mode verifies inconclusive files with a
// SHA-256 digest comparison.
package comparator

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"diskintel/apierr"
	"diskintel/models"
)

// Compare diffs sourceRoot against targetRoot. When deepScan is enabled,
// files whose size and modification time agree (or disagree only in
// modification time) are disambiguated by content hash.
func Compare(sourceRoot, targetRoot string, deepScan bool) (models.ComparisonResult, error) {
	if !isDir(sourceRoot) {
		return models.ComparisonResult{}, apierr.InvalidPath("source path does not exist or is not a directory: %s", sourceRoot)
	}
	if !isDir(targetRoot) {
		return models.ComparisonResult{}, apierr.InvalidPath("target path does not exist or is not a directory: %s", targetRoot)
	}

	sourceIdx, err := buildIndex(sourceRoot)
	if err != nil {
		return models.ComparisonResult{}, err
	}
	targetIdx, err := buildIndex(targetRoot)
	if err != nil {
		return models.ComparisonResult{}, err
	}

	keys := unionKeys(sourceIdx, targetIdx)
	sort.Strings(keys)

	items := make(map[string]*models.ComparisonItem, len(keys))
	var roots []*models.ComparisonItem
	var summary models.ComparisonSummary

	for _, key := range keys {
		src, inSource := sourceIdx[key]
		tgt, inTarget := targetIdx[key]

		item := classify(key, src, inSource, tgt, inTarget, deepScan)
		accumulateSummary(&summary, item, src, inSource, tgt, inTarget)
		items[key] = item

		parentKey := filepath.Dir(key)
		parent, hasParent := items[parentKey]
		if parentKey == key || !hasParent || parent.ItemType != models.ItemFolder {
			roots = append(roots, item)
			continue
		}
		parent.Children = append(parent.Children, item)
		propagate(items, parentKey, item)
	}

	return models.ComparisonResult{
		SourcePath: sourceRoot,
		TargetPath: targetRoot,
		DeepScan:   deepScan,
		Roots:      roots,
		Summary:    summary,
	}, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func unionKeys(a, b map[string]indexEntry) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// classify implements spec.md §4.4's entry classification and file
// comparison rules for one relative path.
func classify(relPath string, src indexEntry, inSource bool, tgt indexEntry, inTarget bool, deepScan bool) *models.ComparisonItem {
	item := &models.ComparisonItem{
		Name:         sanitize(filepath.Base(relPath)),
		RelativePath: sanitize(relPath),
	}

	switch {
	case inSource && inTarget:
		item.SourceSize = ptrInt64(src.Size)
		item.SourceModified = ptrTime(src.Modified)
		item.TargetSize = ptrInt64(tgt.Size)
		item.TargetModified = ptrTime(tgt.Modified)
		if src.IsDir {
			item.ItemType = models.ItemFolder
			item.Status = models.StatusIdentical
		} else {
			item.ItemType = models.ItemFile
			item.Status = compareFiles(src, tgt, deepScan)
		}
	case inSource:
		item.SourceSize = ptrInt64(src.Size)
		item.SourceModified = ptrTime(src.Modified)
		item.Status = models.StatusMissingFromTarget
		item.ItemType = entryType(src.IsDir)
	case inTarget:
		item.TargetSize = ptrInt64(tgt.Size)
		item.TargetModified = ptrTime(tgt.Modified)
		item.Status = models.StatusExtraInTarget
		item.ItemType = entryType(tgt.IsDir)
	}

	return item
}

func entryType(isDir bool) models.ItemType {
	if isDir {
		return models.ItemFolder
	}
	return models.ItemFile
}

// compareFiles implements spec.md §4.4's file comparison rules.
func compareFiles(src, tgt indexEntry, deepScan bool) models.ComparisonStatus {
	if src.Size != tgt.Size {
		return models.StatusModified
	}
	if !src.Modified.Equal(tgt.Modified) {
		if deepScan && hashesMatch(src.FullPath, tgt.FullPath) {
			return models.StatusIdentical
		}
		return models.StatusModified
	}
	if deepScan && hashesDiffer(src.FullPath, tgt.FullPath) {
		return models.StatusModified
	}
	return models.StatusIdentical
}

// propagate implements spec.md §4.4's tree-assembly propagation rule up the
// whole ancestor chain starting at parentKey: every ancestor folder counts the
// new non-identical child, and an ancestor that flips from identical to
// modified is itself counted by every folder above it.
func propagate(items map[string]*models.ComparisonItem, parentKey string, child *models.ComparisonItem) {
	if child.Status == models.StatusIdentical && child.DifferenceCount == 0 {
		return
	}
	added := 1 + child.DifferenceCount
	for key := parentKey; ; key = filepath.Dir(key) {
		parent, ok := items[key]
		if !ok || parent.ItemType != models.ItemFolder {
			return
		}
		parent.DifferenceCount += added
		if parent.Status == models.StatusIdentical {
			parent.Status = models.StatusModified
			added++
		}
		if filepath.Dir(key) == key {
			return
		}
	}
}

// accumulateSummary implements spec.md §4.4's summary counters: only files
// contribute to the identical/modified/missing/extra tallies, but every
// entry (directories contributing 0) adds to the size totals.
func accumulateSummary(summary *models.ComparisonSummary, item *models.ComparisonItem, src indexEntry, inSource bool, tgt indexEntry, inTarget bool) {
	if item.ItemType == models.ItemFile {
		switch item.Status {
		case models.StatusIdentical:
			summary.Identical++
		case models.StatusModified:
			summary.Modified++
		case models.StatusMissingFromTarget:
			summary.MissingFromTarget++
		case models.StatusExtraInTarget:
			summary.ExtraInTarget++
		}
	}
	if inSource {
		summary.TotalSourceSize += src.Size
	}
	if inTarget {
		summary.TotalTargetSize += tgt.Size
	}
}

func ptrInt64(v int64) *int64    { return &v }
func ptrTime(t time.Time) *time.Time { return &t }

// sanitize replaces lone UTF-8 surrogate code units with the replacement
// character before a string is exposed in the result tree, per spec.md §4.4.
func sanitize(s string) string {
	return strings.ToValidUTF8(s, "�")
}
