package snapshot

import (
	"path/filepath"
	"testing"

	"diskintel/apierr"
	"diskintel/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshots.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveLoadScanSnapshot(t *testing.T) {
	store := openTestStore(t)

	findings := []models.Finding{{ID: "finding-1", Category: models.CategoryLargeFolder, Reason: "big", Paths: []string{"/root/big"}, TotalBytes: 5}}
	extensions := []models.ExtensionSummary{{Extension: ".txt", FileCount: 2, TotalBytes: 100}}
	info := models.ScanSummary{ScanID: "scan-1", RootPath: "/root", TotalFiles: 2, TotalFolders: 1, TotalSizeBytes: 100}

	saved, err := store.SaveScan("scan-1", "/root", findings, extensions, info)
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == "" {
		t.Fatal("expected a non-empty snapshot id")
	}

	loaded, err := store.Load(saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.SnapshotType != models.SnapshotTypeScan {
		t.Errorf("snapshot_type = %s, want scan", loaded.SnapshotType)
	}
	if len(loaded.Findings) != 1 || loaded.Findings[0].Category != models.CategoryLargeFolder {
		t.Errorf("findings round-trip mismatch: %+v", loaded.Findings)
	}
	if len(loaded.Extensions) != 1 || loaded.Extensions[0].Extension != ".txt" {
		t.Errorf("extensions round-trip mismatch: %+v", loaded.Extensions)
	}
	if loaded.ScanInfo.ScanID != "scan-1" {
		t.Errorf("scan_info round-trip mismatch: %+v", loaded.ScanInfo)
	}
}

func TestSaveLoadComparisonSnapshot(t *testing.T) {
	store := openTestStore(t)

	result := models.ComparisonResult{
		SourcePath: "/a",
		TargetPath: "/b",
		DeepScan:   true,
		Roots: []*models.ComparisonItem{
			{Name: "doc.txt", RelativePath: "doc.txt", ItemType: models.ItemFile, Status: models.StatusIdentical},
		},
		Summary: models.ComparisonSummary{Identical: 1, TotalSourceSize: 10, TotalTargetSize: 10},
	}

	saved, err := store.SaveComparison("scan-1", "/a", "/b", result)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load(saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.SnapshotType != models.SnapshotTypeComparison {
		t.Errorf("snapshot_type = %s, want comparison", loaded.SnapshotType)
	}
	if loaded.Comparison == nil || len(loaded.Comparison.Roots) != 1 {
		t.Fatalf("comparison round-trip mismatch: %+v", loaded.Comparison)
	}
	if loaded.ComparisonSummary == nil || loaded.ComparisonSummary.Identical != 1 {
		t.Fatalf("comparison_summary round-trip mismatch: %+v", loaded.ComparisonSummary)
	}
	if loaded.TargetPath != "/b" {
		t.Errorf("target_path = %s, want /b", loaded.TargetPath)
	}
}

func TestLoadUnknownReturnsNotFound(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Load("snapshot-does-not-exist")
	if err == nil {
		t.Fatal("expected an error for an unknown snapshot id")
	}
	kind, ok := apierr.As(err)
	if !ok || kind != apierr.KindNotFound {
		t.Errorf("expected KindNotFound, got %v (ok=%v)", kind, ok)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	store := openTestStore(t)
	info := models.ScanSummary{ScanID: "scan-1", RootPath: "/root"}

	first, err := store.SaveScan("scan-1", "/root", nil, nil, info)
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.SaveScan("scan-1", "/root", nil, nil, info)
	if err != nil {
		t.Fatal(err)
	}

	list, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("unexpected ordering: %+v", list)
	}
}

func TestUpdateRejectsComparisonSnapshot(t *testing.T) {
	store := openTestStore(t)
	result := models.ComparisonResult{SourcePath: "/a", TargetPath: "/b"}
	saved, err := store.SaveComparison("scan-1", "/a", "/b", result)
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.Update(saved.ID, nil, nil, models.ScanSummary{})
	if err == nil {
		t.Fatal("expected an error updating a comparison snapshot as a scan")
	}
}

func TestDeleteRemovesSnapshot(t *testing.T) {
	store := openTestStore(t)
	info := models.ScanSummary{ScanID: "scan-1", RootPath: "/root"}
	saved, err := store.SaveScan("scan-1", "/root", nil, nil, info)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(saved.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(saved.ID); err == nil {
		t.Fatal("expected load of deleted snapshot to fail")
	}
}
