package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"diskintel/analyzer"
	"diskintel/apierr"
	"diskintel/models"
	"diskintel/registry"
)

// ReportHandler implements the supplementary GET /api/report?scan_id=
// endpoint: it renders the analyzer's findings as a Markdown document and
// returns it as sanitized HTML, for embedding directly in a dashboard.
func ReportHandler(reg *registry.Registry) http.HandlerFunc {
	sanitizer := bluemonday.UGCPolicy()

	return func(w http.ResponseWriter, r *http.Request) {
		entry, err := reg.Get(r.URL.Query().Get("scan_id"))
		if err != nil {
			writeReportError(w, err)
			return
		}

		result := analyzer.Analyze(entry.Files, entry.Folders, time.Now())
		md := renderMarkdown(entry.Summary, result)

		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(md), &buf); err != nil {
			http.Error(w, "could not render report", http.StatusInternalServerError)
			return
		}

		safe := sanitizer.SanitizeBytes(buf.Bytes())
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(safe)
	}
}

func writeReportError(w http.ResponseWriter, err error) {
	kind, ok := apierr.As(err)
	status := http.StatusInternalServerError
	if ok && kind == apierr.KindNotFound {
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}

// renderMarkdown builds a findings report in the teacher's plain, factual
// register — headings, a summary line per finding, no editorializing.
func renderMarkdown(summary models.ScanSummary, result analyzer.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Disk report: %s\n\n", summary.RootPath)
	fmt.Fprintf(&b, "%d files, %d folders, %s total.\n\n", summary.TotalFiles, summary.TotalFolders, formatBytes(summary.TotalSizeBytes))

	if summary.Stale {
		b.WriteString("_This scan's root has changed on disk since it completed._\n\n")
	}

	b.WriteString("## Findings\n\n")
	if len(result.Findings) == 0 {
		b.WriteString("No findings.\n\n")
	}
	for _, f := range result.Findings {
		fmt.Fprintf(&b, "- **%s**: %s (%s)\n", f.Category, f.Reason, formatBytes(f.TotalBytes))
	}
	b.WriteString("\n")

	b.WriteString("## Extensions\n\n")
	b.WriteString("| Extension | Files | Bytes |\n|---|---|---|\n")
	for _, e := range result.Extensions {
		fmt.Fprintf(&b, "| %s | %d | %s |\n", e.Extension, e.FileCount, formatBytes(e.TotalBytes))
	}

	return b.String()
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
