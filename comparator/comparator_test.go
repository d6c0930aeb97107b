package comparator

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"diskintel/models"
)

func writeAt(t *testing.T, path, contents string, modTime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatal(err)
	}
}

// TestCompareDeepScan mirrors spec.md scenario S6.
func TestCompareDeepScan(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	t1 := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	t2 := time.Now().Truncate(time.Second)

	writeAt(t, filepath.Join(source, "doc.txt"), "a", t1)
	writeAt(t, filepath.Join(target, "doc.txt"), "a", t2)

	shallow, err := Compare(source, target, false)
	if err != nil {
		t.Fatal(err)
	}
	deep, err := Compare(source, target, true)
	if err != nil {
		t.Fatal(err)
	}

	shallowDoc := findByName(shallow.Roots, "doc.txt")
	deepDoc := findByName(deep.Roots, "doc.txt")
	if shallowDoc == nil || deepDoc == nil {
		t.Fatalf("doc.txt missing from one of the results")
	}
	if shallowDoc.Status != models.StatusModified {
		t.Errorf("shallow status = %s, want modified", shallowDoc.Status)
	}
	if deepDoc.Status != models.StatusIdentical {
		t.Errorf("deep status = %s, want identical", deepDoc.Status)
	}

	// Both doc.txt and its parent (the root itself, which has no tracked
	// parent here) are at the top level since source/target roots aren't
	// indexed as entries — use a nested file to exercise parent propagation.
}

// TestCompareParentPropagation nests doc.txt so its parent folder's status
// and difference_count can be observed under both modes, per S6.
func TestCompareParentPropagation(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	t1 := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	t2 := time.Now().Truncate(time.Second)

	writeAt(t, filepath.Join(source, "sub", "doc.txt"), "a", t1)
	writeAt(t, filepath.Join(target, "sub", "doc.txt"), "a", t2)

	shallow, err := Compare(source, target, false)
	if err != nil {
		t.Fatal(err)
	}
	deep, err := Compare(source, target, true)
	if err != nil {
		t.Fatal(err)
	}

	shallowSub := findByName(shallow.Roots, "sub")
	deepSub := findByName(deep.Roots, "sub")
	if shallowSub == nil || deepSub == nil {
		t.Fatalf("sub folder missing from one of the results")
	}
	if shallowSub.DifferenceCount != 1 || shallowSub.Status != models.StatusModified {
		t.Errorf("shallow sub = difference_count %d status %s, want 1 modified", shallowSub.DifferenceCount, shallowSub.Status)
	}
	if deepSub.DifferenceCount != 0 || deepSub.Status != models.StatusIdentical {
		t.Errorf("deep sub = difference_count %d status %s, want 0 identical", deepSub.DifferenceCount, deepSub.Status)
	}
}

func findByName(items []*models.ComparisonItem, name string) *models.ComparisonItem {
	for _, it := range items {
		if it.Name == name {
			return it
		}
		if found := findByName(it.Children, name); found != nil {
			return found
		}
	}
	return nil
}

// TestCompareSummaryCoversAllFiles checks invariant 6 from spec.md §8.
func TestCompareSummaryCoversAllFiles(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	now := time.Now()

	writeAt(t, filepath.Join(source, "same.txt"), "x", now)
	writeAt(t, filepath.Join(target, "same.txt"), "x", now)
	writeAt(t, filepath.Join(source, "gone.txt"), "x", now)
	writeAt(t, filepath.Join(target, "new.txt"), "x", now)
	writeAt(t, filepath.Join(source, "changed.txt"), "x", now)
	writeAt(t, filepath.Join(target, "changed.txt"), "yy", now)

	result, err := Compare(source, target, false)
	if err != nil {
		t.Fatal(err)
	}

	union := make(map[string]struct{})
	var collect func(items []*models.ComparisonItem)
	collect = func(items []*models.ComparisonItem) {
		for _, it := range items {
			if it.ItemType == models.ItemFile {
				union[it.RelativePath] = struct{}{}
			}
			collect(it.Children)
		}
	}
	collect(result.Roots)

	total := result.Summary.Identical + result.Summary.Modified + result.Summary.MissingFromTarget + result.Summary.ExtraInTarget
	if total != len(union) {
		t.Errorf("summary total %d != union file count %d", total, len(union))
	}
}

// TestCompareDifferenceCountMatchesDescendants checks invariant 7 from
// spec.md §8.
func TestCompareDifferenceCountMatchesDescendants(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	now := time.Now()

	writeAt(t, filepath.Join(source, "a", "one.txt"), "x", now)
	writeAt(t, filepath.Join(target, "a", "one.txt"), "yy", now)
	writeAt(t, filepath.Join(source, "a", "b", "two.txt"), "x", now)

	result, err := Compare(source, target, false)
	if err != nil {
		t.Fatal(err)
	}

	var check func(items []*models.ComparisonItem)
	check = func(items []*models.ComparisonItem) {
		for _, it := range items {
			if it.ItemType == models.ItemFolder {
				nonIdentical := countNonIdentical(it.Children)
				if it.DifferenceCount != nonIdentical {
					t.Errorf("%s: difference_count = %d, want %d", it.RelativePath, it.DifferenceCount, nonIdentical)
				}
			}
			check(it.Children)
		}
	}
	check(result.Roots)
}

func countNonIdentical(items []*models.ComparisonItem) int {
	var n int
	for _, it := range items {
		if it.Status != models.StatusIdentical || it.DifferenceCount > 0 {
			n += 1 + it.DifferenceCount
		}
	}
	return n
}

func TestCompareInvalidPath(t *testing.T) {
	_, err := Compare(filepath.Join(t.TempDir(), "missing"), t.TempDir(), false)
	if err == nil {
		t.Fatal("expected error for missing source path")
	}
}
