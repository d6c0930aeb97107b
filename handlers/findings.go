package handlers

import (
	"net/http"
	"time"

	"diskintel/analyzer"
	"diskintel/models"
	"diskintel/registry"
)

// FindingsHandler implements GET /api/findings?scan_id=&category=. The
// analyzer runs fresh on every request against the registry's retained
// (files, folders) pair, per spec.md's "C3 consumes on demand" data flow.
func FindingsHandler(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, err := reg.Get(r.URL.Query().Get("scan_id"))
		if err != nil {
			writeError(w, err)
			return
		}

		result := analyzer.Analyze(entry.Files, entry.Folders, time.Now())
		findings := result.Findings
		if category := r.URL.Query().Get("category"); category != "" {
			filtered := make([]models.Finding, 0, len(findings))
			for _, f := range findings {
				if f.Category == category {
					filtered = append(filtered, f)
				}
			}
			findings = filtered
		}
		if findings == nil {
			findings = []models.Finding{}
		}

		writeJSON(w, http.StatusOK, findings)
	}
}
