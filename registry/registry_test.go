package registry

import (
	"testing"

	"diskintel/apierr"
	"diskintel/models"
)

func TestPutGet(t *testing.T) {
	reg := New()
	entry := &Entry{
		Files:   []models.FileRecord{{Path: "/root/a.txt"}},
		Folders: map[string]*models.FolderRecord{"/root": {Path: "/root"}},
		Summary: models.ScanSummary{ScanID: "scan-1", RootPath: "/root"},
	}
	reg.Put("scan-1", entry)

	got, err := reg.Get("scan-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != entry {
		t.Errorf("Get returned a different entry than Put registered")
	}
}

func TestGetUnknownReturnsNotFound(t *testing.T) {
	reg := New()
	_, err := reg.Get("does-not-exist")
	if err == nil {
		t.Fatal("expected an error for an unregistered scan id")
	}
	kind, ok := apierr.As(err)
	if !ok || kind != apierr.KindNotFound {
		t.Errorf("expected KindNotFound, got %v (ok=%v)", kind, ok)
	}
}

func TestMarkStaleIsAdditive(t *testing.T) {
	reg := New()
	entry := &Entry{Summary: models.ScanSummary{ScanID: "scan-1", RootPath: "/root", TotalFiles: 3}}
	reg.Put("scan-1", entry)

	reg.MarkStale("scan-1")

	got, err := reg.Get("scan-1")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Summary.Stale {
		t.Error("expected Stale to be set")
	}
	if got.Summary.TotalFiles != 3 {
		t.Error("MarkStale must not touch any other field")
	}
}

func TestMarkStaleUnknownScanIsNoOp(t *testing.T) {
	reg := New()
	reg.MarkStale("never-registered")
}
