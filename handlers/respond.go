// Package handlers implements the HTTP surface (§6) over the core packages:
// health, scan (synchronous and SSE-streamed), findings, extension summary,
// comparison, and the full snapshot CRUD surface.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"diskintel/apierr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("handlers: encode response: %v", err)
	}
}

// writeError maps an apierr.Error to its HTTP status code per spec.md §7.
// Any other error is logged and reported as a generic 500 — the core never
// hands callers an error kind outside the four it defines.
func writeError(w http.ResponseWriter, err error) {
	kind, ok := apierr.As(err)
	if !ok {
		log.Printf("handlers: unexpected error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	status := http.StatusBadRequest
	if kind == apierr.KindNotFound {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
