package scanner

import "diskintel/models"

// ProgressEvent is one throttled progress observation emitted during a
// streaming scan. It is never emitted for the synchronous scan mode.
type ProgressEvent struct {
	FilesScanned    int
	FoldersScanned  int
	BytesScanned    int64
	CurrentPath     string
	ProgressPercent int
	ElapsedSeconds  float64
	Message         string
}

// CompleteEvent describes the terminal event of a streaming scan. The
// scanner itself never emits it; ScanStreaming only reports ProgressEvent
// values and returns the final Result.
type CompleteEvent struct {
	Summary models.ScanSummary
}
