package analyzer

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"diskintel/models"
)

func folderMap(entries map[string]int64) map[string]*models.FolderRecord {
	m := make(map[string]*models.FolderRecord, len(entries))
	for p, size := range entries {
		m[p] = &models.FolderRecord{Path: p, TotalSize: size}
	}
	return m
}

// TestCacheCandidate mirrors spec.md scenario S3.
func TestCacheCandidate(t *testing.T) {
	folders := folderMap(map[string]int64{
		"/root":               5*mib + 1024,
		"/root/node_modules":  5 * mib,
		"/root/src":           1024,
	})
	files := []models.FileRecord{
		{Path: "/root/node_modules/big.bin", SizeBytes: 5 * mib, ParentDir: "/root/node_modules"},
		{Path: "/root/src/main.c", SizeBytes: 1024, ParentDir: "/root/src"},
	}

	result := Analyze(files, folders, time.Now())

	var cacheFindings []models.Finding
	for _, f := range result.Findings {
		if f.Category == models.CategoryCacheCandidate {
			cacheFindings = append(cacheFindings, f)
		}
	}
	if len(cacheFindings) != 1 {
		t.Fatalf("expected exactly 1 cache_candidate finding, got %d", len(cacheFindings))
	}
	f := cacheFindings[0]
	if len(f.Paths) != 1 || filepath.Base(f.Paths[0]) != "node_modules" {
		t.Errorf("unexpected paths: %v", f.Paths)
	}
	if f.TotalBytes != 5*mib {
		t.Errorf("total_bytes = %d, want %d", f.TotalBytes, 5*mib)
	}
}

// TestDuplicateFiles mirrors spec.md scenario S4.
func TestDuplicateFiles(t *testing.T) {
	files := []models.FileRecord{
		{Path: "/a/video.mp4", SizeBytes: 2 * mib},
		{Path: "/b/video.mp4", SizeBytes: 2 * mib},
		{Path: "/c/video.mp4", SizeBytes: 1 * mib},
	}
	result := Analyze(files, folderMap(nil), time.Now())

	var dupes []models.Finding
	for _, f := range result.Findings {
		if f.Category == models.CategoryDuplicateFile {
			dupes = append(dupes, f)
		}
	}
	if len(dupes) != 1 {
		t.Fatalf("expected 1 duplicate_file_candidate, got %d", len(dupes))
	}
	if len(dupes[0].Paths) != 2 {
		t.Errorf("expected 2 paths, got %d", len(dupes[0].Paths))
	}
	if dupes[0].TotalBytes != 2*mib {
		t.Errorf("total_bytes = %d, want %d", dupes[0].TotalBytes, 2*mib)
	}
}

// TestDuplicateFolderClustering mirrors spec.md scenario S5.
func TestDuplicateFolderClustering(t *testing.T) {
	folders := folderMap(map[string]int64{
		"/a/backup": 100 * mib,
		"/b/backup": 105 * mib,
		"/c/backup": 200 * mib,
	})
	result := Analyze(nil, folders, time.Now())

	var dupes []models.Finding
	for _, f := range result.Findings {
		if f.Category == models.CategoryDuplicateFolder {
			dupes = append(dupes, f)
		}
	}
	if len(dupes) != 1 {
		t.Fatalf("expected 1 duplicate_folder_candidate, got %d", len(dupes))
	}
	f := dupes[0]
	if len(f.Paths) != 2 {
		t.Fatalf("expected 2 paths, got %d: %v", len(f.Paths), f.Paths)
	}
	if f.Paths[0] != "/b/backup" || f.Paths[1] != "/a/backup" {
		t.Errorf("unexpected cluster order: %v", f.Paths)
	}
	if f.TotalBytes != 100*mib {
		t.Errorf("total_bytes = %d, want %d", f.TotalBytes, 100*mib)
	}
}

func TestFindingIDsContiguous(t *testing.T) {
	folders := folderMap(map[string]int64{
		"/big1": 2 * gib,
		"/big2": 3 * gib,
	})
	result := Analyze(nil, folders, time.Now())
	for i, f := range result.Findings {
		expected := "finding-" + strconv.Itoa(i+1)
		if f.ID != expected {
			t.Errorf("finding[%d].ID = %s, want %s", i, f.ID, expected)
		}
	}
}

func TestLargeFolderCapsAtTopN(t *testing.T) {
	entries := make(map[string]int64, 25)
	for i := 0; i < 25; i++ {
		entries[filepath.Join("/root", strconv.Itoa(i))] = int64(2+i) * gib
	}
	folders := folderMap(entries)
	result := Analyze(nil, folders, time.Now())

	var largeCount int
	for _, f := range result.Findings {
		if f.Category == models.CategoryLargeFolder {
			largeCount++
		}
	}
	if largeCount != TopNLarge {
		t.Errorf("large_folder findings = %d, want %d", largeCount, TopNLarge)
	}
}

func TestExtensionSummaryOrderAndCounts(t *testing.T) {
	files := []models.FileRecord{
		{Path: "/a.txt", SizeBytes: 500, Extension: ".txt"},
		{Path: "/b.txt", SizeBytes: 300, Extension: ".txt"},
		{Path: "/c.log", SizeBytes: 200, Extension: ".log"},
		{Path: "/noext", SizeBytes: 10, Extension: ""},
	}
	result := Analyze(files, folderMap(nil), time.Now())

	if len(result.Extensions) != 3 {
		t.Fatalf("expected 3 extension summaries, got %d", len(result.Extensions))
	}
	if result.Extensions[0].Extension != ".txt" || result.Extensions[0].TotalBytes != 800 {
		t.Errorf("unexpected first summary: %+v", result.Extensions[0])
	}
	var totalFiles int
	for _, e := range result.Extensions {
		totalFiles += e.FileCount
	}
	if totalFiles != len(files) {
		t.Errorf("sum of file_count = %d, want %d", totalFiles, len(files))
	}
	for i := 1; i < len(result.Extensions); i++ {
		if result.Extensions[i].TotalBytes > result.Extensions[i-1].TotalBytes {
			t.Errorf("extension summary not sorted descending at index %d", i)
		}
	}
}
