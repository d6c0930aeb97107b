package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"diskintel/apierr"
	"diskintel/registry"
	"diskintel/scanner"
)

type scanRequest struct {
	RootPath string `json:"root_path"`
}

// ScanHandler implements POST /api/scan: a synchronous scan registered under
// a freshly minted scan id.
func ScanHandler(reg *registry.Registry, watcher *registry.Watcher, verbose bool, sem Semaphore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apierr.InvalidPath("invalid request body: %v", err))
			return
		}
		if !isDir(req.RootPath) {
			writeError(w, apierr.InvalidPath("root path does not exist or is not a directory: %s", req.RootPath))
			return
		}

		if err := sem.Acquire(r.Context()); err != nil {
			writeError(w, apierr.InvalidPath("scan not admitted: %v", err))
			return
		}
		defer sem.Release()

		result := runScan(req.RootPath, verbose)
		result.Summary.ScanID = "scan-" + uuid.NewString()

		reg.Put(result.Summary.ScanID, &registry.Entry{Files: result.Files, Folders: result.Folders, Summary: result.Summary})
		if watcher != nil {
			watcher.Watch(result.Summary.ScanID, req.RootPath)
		}

		writeJSON(w, http.StatusOK, result.Summary)
	}
}

func runScan(root string, verbose bool) scanner.Result {
	if verbose {
		return scanner.ScanVerbose(root)
	}
	return scanner.Scan(root)
}
