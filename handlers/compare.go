package handlers

import (
	"encoding/json"
	"net/http"

	"diskintel/apierr"
	"diskintel/comparator"
)

type compareRequest struct {
	SourcePath string `json:"source_path"`
	TargetPath string `json:"target_path"`
	DeepScan   bool   `json:"deep_scan"`
}

// CompareHandler implements POST /api/compare.
func CompareHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req compareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apierr.InvalidPath("invalid request body: %v", err))
			return
		}

		result, err := comparator.Compare(req.SourcePath, req.TargetPath, req.DeepScan)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
