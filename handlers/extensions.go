package handlers

import (
	"net/http"
	"time"

	"diskintel/analyzer"
	"diskintel/models"
	"diskintel/registry"
)

// ExtensionsHandler implements GET /api/extensions-summary?scan_id=.
func ExtensionsHandler(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, err := reg.Get(r.URL.Query().Get("scan_id"))
		if err != nil {
			writeError(w, err)
			return
		}

		extensions := analyzer.Analyze(entry.Files, entry.Folders, time.Now()).Extensions
		if extensions == nil {
			extensions = []models.ExtensionSummary{}
		}

		writeJSON(w, http.StatusOK, extensions)
	}
}
