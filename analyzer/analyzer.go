// Package analyzer runs the heuristic passes (C3) over a completed scan:
// large-folder, stale/active-large-folder, cache-pattern, duplicate-folder,
// duplicate-file and cold-archive findings, plus the per-extension roll-up.
package analyzer

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"diskintel/models"
	"diskintel/policy"
)

const (
	// LargeFolderThreshold is the minimum folder size (bytes) considered
	// "large" by every pass that references it.
	LargeFolderThreshold = 1 * gib
	// OldDaysThreshold marks a large folder "old" when strictly exceeded.
	OldDaysThreshold = 365
	// RecentDaysThreshold marks a large folder "active" at or below this age.
	RecentDaysThreshold = 7
	// TopNLarge caps the number of large_folder findings emitted.
	TopNLarge = 20
)

// Result is the analyzer's output: findings in emission order, plus the
// extension roll-up.
type Result struct {
	Findings   []models.Finding
	Extensions []models.ExtensionSummary
}

// idAllocator hands out contiguous finding-N identifiers in emission order.
type idAllocator struct{ next int }

func (a *idAllocator) alloc() string {
	a.next++
	return fmt.Sprintf("finding-%d", a.next)
}

// Analyze runs all six heuristic passes over files/folders, using now as the
// reference instant for age calculations.
func Analyze(files []models.FileRecord, folders map[string]*models.FolderRecord, now time.Time) Result {
	ids := &idAllocator{}
	var findings []models.Finding

	findings = append(findings, largeFolderPass(ids, folders)...)
	findings = append(findings, ageBasedLargeFolderPass(ids, folders, now)...)
	findings = append(findings, cacheCandidatePass(ids, folders)...)
	findings = append(findings, duplicateFolderPass(ids, folders)...)
	findings = append(findings, duplicateFilePass(ids, files)...)
	findings = append(findings, coldArchivePass(ids, folders, now)...)

	return Result{
		Findings:   findings,
		Extensions: extensionSummary(files),
	}
}

// sortedFolderPaths returns folder paths in a fixed (lexicographic) order so
// that passes iterating the map produce deterministic finding sequences.
func sortedFolderPaths(folders map[string]*models.FolderRecord) []string {
	paths := make([]string, 0, len(folders))
	for p := range folders {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// largeFolderPass implements spec.md §4.3(a).
func largeFolderPass(ids *idAllocator, folders map[string]*models.FolderRecord) []models.Finding {
	type entry struct {
		path string
		rec  *models.FolderRecord
	}
	var large []entry
	for _, p := range sortedFolderPaths(folders) {
		f := folders[p]
		if f.TotalSize >= LargeFolderThreshold {
			large = append(large, entry{path: p, rec: f})
		}
	}
	sort.SliceStable(large, func(i, j int) bool { return large[i].rec.TotalSize > large[j].rec.TotalSize })

	if len(large) > TopNLarge {
		large = large[:TopNLarge]
	}

	findings := make([]models.Finding, 0, len(large))
	for _, e := range large {
		findings = append(findings, models.Finding{
			ID:         ids.alloc(),
			Category:   models.CategoryLargeFolder,
			Reason:     fmt.Sprintf("Folder is %s (%d files)", formatGB(e.rec.TotalSize), e.rec.FileCount),
			Paths:      []string{e.path},
			TotalBytes: e.rec.TotalSize,
		})
	}
	return findings
}

// ageBasedLargeFolderPass implements spec.md §4.3(b): old_large_folder and
// active_large_folder are mutually exclusive per folder.
func ageBasedLargeFolderPass(ids *idAllocator, folders map[string]*models.FolderRecord, now time.Time) []models.Finding {
	var findings []models.Finding
	for _, p := range sortedFolderPaths(folders) {
		f := folders[p]
		if f.TotalSize < LargeFolderThreshold || f.LastModified == nil {
			continue
		}
		daysOld := int(now.Sub(*f.LastModified).Hours() / 24)

		switch {
		case daysOld > OldDaysThreshold:
			findings = append(findings, models.Finding{
				ID:         ids.alloc(),
				Category:   models.CategoryOldLargeFolder,
				Reason:     fmt.Sprintf("Folder is %s and untouched for %d days", formatGB(f.TotalSize), daysOld),
				Paths:      []string{p},
				TotalBytes: f.TotalSize,
			})
		case daysOld <= RecentDaysThreshold && f.TotalSize >= 2*LargeFolderThreshold:
			findings = append(findings, models.Finding{
				ID:         ids.alloc(),
				Category:   models.CategoryActiveLargeFolder,
				Reason:     fmt.Sprintf("Folder is %s and modified %d days ago", formatGB(f.TotalSize), daysOld),
				Paths:      []string{p},
				TotalBytes: f.TotalSize,
			})
		}
	}
	return findings
}

// cacheCandidatePass implements spec.md §4.3(c).
func cacheCandidatePass(ids *idAllocator, folders map[string]*models.FolderRecord) []models.Finding {
	var findings []models.Finding
	for _, p := range sortedFolderPaths(folders) {
		f := folders[p]
		if f.TotalSize <= 0 || !policy.IsCacheLike(p) {
			continue
		}
		findings = append(findings, models.Finding{
			ID:         ids.alloc(),
			Category:   models.CategoryCacheCandidate,
			Reason:     fmt.Sprintf("Cache-like folder holding %s", formatMB(f.TotalSize)),
			Paths:      []string{p},
			TotalBytes: f.TotalSize,
		})
	}
	return findings
}

// duplicateFolderPass implements spec.md §4.3(d).
func duplicateFolderPass(ids *idAllocator, folders map[string]*models.FolderRecord) []models.Finding {
	clusters := clusterDuplicateFolders(folders)
	findings := make([]models.Finding, 0, len(clusters))
	for _, c := range clusters {
		reclaimable := c.total() - c.largest()
		findings = append(findings, models.Finding{
			ID:         ids.alloc(),
			Category:   models.CategoryDuplicateFolder,
			Reason:     fmt.Sprintf("%d folders named %q look like duplicates, %s reclaimable", len(c.paths), filepath.Base(c.paths[0]), formatGB(reclaimable)),
			Paths:      append([]string(nil), c.paths...),
			TotalBytes: reclaimable,
		})
	}
	return findings
}

// duplicateFilePass implements spec.md §4.3(e).
func duplicateFilePass(ids *idAllocator, files []models.FileRecord) []models.Finding {
	groups := groupDuplicateFiles(files)
	findings := make([]models.Finding, 0, len(groups))
	for _, g := range groups {
		reclaimable := g.size * int64(len(g.paths)-1)
		findings = append(findings, models.Finding{
			ID:         ids.alloc(),
			Category:   models.CategoryDuplicateFile,
			Reason:     fmt.Sprintf("%d copies of %q (%s each), %s reclaimable", len(g.paths), filepath.Base(g.paths[0]), formatMB(g.size), formatMB(reclaimable)),
			Paths:      append([]string(nil), g.paths...),
			TotalBytes: reclaimable,
		})
	}
	return findings
}

// coldArchivePass implements spec.md §4.3(f).
func coldArchivePass(ids *idAllocator, folders map[string]*models.FolderRecord, now time.Time) []models.Finding {
	var findings []models.Finding
	for _, p := range sortedFolderPaths(folders) {
		f := folders[p]
		if f.TotalSize < LargeFolderThreshold || f.LastAccessed == nil {
			continue
		}
		daysSinceAccess := int(now.Sub(*f.LastAccessed).Hours() / 24)
		if daysSinceAccess > OldDaysThreshold {
			findings = append(findings, models.Finding{
				ID:         ids.alloc(),
				Category:   models.CategoryColdArchive,
				Reason:     fmt.Sprintf("Folder is %s and unaccessed for %d days", formatGB(f.TotalSize), daysSinceAccess),
				Paths:      []string{p},
				TotalBytes: f.TotalSize,
			})
		}
	}
	return findings
}

// extensionSummary groups files by lowercased extension, sorted by total
// bytes descending, per spec.md §4.3.
func extensionSummary(files []models.FileRecord) []models.ExtensionSummary {
	type agg struct {
		count int
		bytes int64
	}
	byExt := make(map[string]*agg)
	var order []string
	for _, f := range files {
		ext := f.Extension
		if ext == "" {
			ext = models.NoExtensionLabel
		}
		a, ok := byExt[ext]
		if !ok {
			a = &agg{}
			byExt[ext] = a
			order = append(order, ext)
		}
		a.count++
		a.bytes += f.SizeBytes
	}

	summaries := make([]models.ExtensionSummary, 0, len(order))
	for _, ext := range order {
		a := byExt[ext]
		summaries = append(summaries, models.ExtensionSummary{
			Extension:  ext,
			FileCount:  a.count,
			TotalBytes: a.bytes,
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool { return summaries[i].TotalBytes > summaries[j].TotalBytes })
	return summaries
}
