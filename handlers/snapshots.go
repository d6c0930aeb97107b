package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"diskintel/analyzer"
	"diskintel/apierr"
	"diskintel/comparator"
	"diskintel/models"
	"diskintel/registry"
	"diskintel/scanner"
	"diskintel/snapshot"
)

type createSnapshotRequest struct {
	ScanID   string `json:"scan_id"`
	RootPath string `json:"root_path"`
}

// CreateSnapshotHandler implements POST /api/snapshots.
func CreateSnapshotHandler(reg *registry.Registry, store *snapshot.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSnapshotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apierr.InvalidPath("invalid request body: %v", err))
			return
		}

		entry, err := reg.Get(req.ScanID)
		if err != nil {
			writeError(w, err)
			return
		}

		analyzed := analyzer.Analyze(entry.Files, entry.Folders, time.Now())
		saved, err := store.SaveScan(req.ScanID, req.RootPath, analyzed.Findings, analyzed.Extensions, entry.Summary)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, saved)
	}
}

// ListSnapshotsHandler implements GET /api/snapshots.
func ListSnapshotsHandler(store *snapshot.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.List()
		if err != nil {
			writeError(w, err)
			return
		}
		if list == nil {
			list = []models.Snapshot{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GetSnapshotHandler implements GET /api/snapshots/{id}.
func GetSnapshotHandler(store *snapshot.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := store.Load(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

// UpdateSnapshotHandler implements PUT /api/snapshots/{id}: re-scans the
// stored root and overwrites the payload in place.
func UpdateSnapshotHandler(store *snapshot.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		existing, err := store.Load(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if existing.SnapshotType != models.SnapshotTypeScan {
			writeError(w, apierr.ConflictingSnapshotType("snapshot %s is not a scan snapshot", id))
			return
		}
		if !isDir(existing.RootPath) {
			writeError(w, apierr.StaleRoot("root path no longer exists: %s", existing.RootPath))
			return
		}

		result := scanner.Scan(existing.RootPath)
		result.Summary.ScanID = existing.ScanID
		analyzed := analyzer.Analyze(result.Files, result.Folders, time.Now())

		updated, err := store.Update(id, analyzed.Findings, analyzed.Extensions, result.Summary)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// DeleteSnapshotHandler implements DELETE /api/snapshots/{id}.
func DeleteSnapshotHandler(store *snapshot.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// CreateComparisonSnapshotHandler implements POST /api/snapshots/comparison:
// runs a fresh comparison from query parameters and persists it.
func CreateComparisonSnapshotHandler(store *snapshot.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		sourcePath := q.Get("source_path")
		targetPath := q.Get("target_path")
		deepScan, _ := strconv.ParseBool(q.Get("deep_scan"))

		result, err := comparator.Compare(sourcePath, targetPath, deepScan)
		if err != nil {
			writeError(w, err)
			return
		}

		saved, err := store.SaveComparison(q.Get("scan_id"), sourcePath, targetPath, result)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, saved)
	}
}

// UpdateComparisonSnapshotHandler implements PUT /api/snapshots/comparison/{id}:
// re-runs the comparison for the stored source/target pair.
func UpdateComparisonSnapshotHandler(store *snapshot.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		existing, err := store.Load(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if existing.SnapshotType != models.SnapshotTypeComparison {
			writeError(w, apierr.ConflictingSnapshotType("snapshot %s is not a comparison snapshot", id))
			return
		}
		if !isDir(existing.RootPath) {
			writeError(w, apierr.StaleRoot("source path no longer exists: %s", existing.RootPath))
			return
		}
		if !isDir(existing.TargetPath) {
			writeError(w, apierr.StaleRoot("target path no longer exists: %s", existing.TargetPath))
			return
		}

		deepScan := existing.Comparison != nil && existing.Comparison.DeepScan
		result, err := comparator.Compare(existing.RootPath, existing.TargetPath, deepScan)
		if err != nil {
			writeError(w, err)
			return
		}

		updated, err := store.UpdateComparison(id, result)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}
