package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"diskintel/apierr"
	"diskintel/registry"
	"diskintel/scanner"
)

type sseEvent struct {
	ScanID          string `json:"scan_id"`
	EventType       string `json:"event_type"`
	FilesScanned    int    `json:"files_scanned,omitempty"`
	FoldersScanned  int    `json:"folders_scanned,omitempty"`
	BytesScanned    int64  `json:"bytes_scanned,omitempty"`
	CurrentPath     string `json:"current_path,omitempty"`
	ProgressPercent int    `json:"progress_percent,omitempty"`
	ElapsedSeconds  float64 `json:"elapsed_seconds,omitempty"`
	Message         string `json:"message,omitempty"`
	ScanResponse    any    `json:"scan_response,omitempty"`
}

// ScanStreamHandler implements GET /api/scan/stream: a synchronous scan run
// on a background goroutine, with progress relayed to the client as an SSE
// stream. The responder's poll loop is paced by a rate limiter at roughly
// one check per 100 ms, matching the suspension-point model of spec.md §5.
func ScanStreamHandler(reg *registry.Registry, watcher *registry.Watcher, verbose bool, sem Semaphore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		root := r.URL.Query().Get("root_path")
		if !isDir(root) {
			writeError(w, apierr.InvalidPath("root path does not exist or is not a directory: %s", root))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, apierr.InvalidPath("streaming unsupported by this connection"))
			return
		}

		if err := sem.Acquire(r.Context()); err != nil {
			writeError(w, apierr.InvalidPath("scan not admitted: %v", err))
			return
		}
		defer sem.Release()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		scanID := "scan-" + uuid.NewString()
		events := make(chan scanner.ProgressEvent, 16)
		done := make(chan scanner.Result, 1)

		go func() {
			result := scanner.ScanStreaming(root, verbose, func(e scanner.ProgressEvent) {
				events <- e
			})
			close(events)
			done <- result
		}()

		// finishDetached drains any remaining progress events and deposits the
		// finished scan into the registry from a background goroutine. The
		// producer above blocks on events <- e (capacity 16); if nothing keeps
		// draining it after the client goes away, the scan goroutine leaks
		// forever mid-walk instead of completing into the registry per spec.md
		// section 5.
		finishDetached := func() {
			go func() {
				for range events {
				}
				result := <-done
				result.Summary.ScanID = scanID
				reg.Put(scanID, &registry.Entry{Files: result.Files, Folders: result.Folders, Summary: result.Summary})
				if watcher != nil {
					watcher.Watch(scanID, root)
				}
			}()
		}

		limiter := rate.NewLimiter(rate.Every(100*time.Millisecond), 1)
		ctx := r.Context()

		streaming := true
		for streaming {
			if err := limiter.Wait(ctx); err != nil {
				finishDetached()
				return
			}
			select {
			case e, open := <-events:
				if !open {
					streaming = false
					continue
				}
				writeSSE(w, sseEvent{
					ScanID:          scanID,
					EventType:       "progress",
					FilesScanned:    e.FilesScanned,
					FoldersScanned:  e.FoldersScanned,
					BytesScanned:    e.BytesScanned,
					CurrentPath:     e.CurrentPath,
					ProgressPercent: e.ProgressPercent,
					ElapsedSeconds:  e.ElapsedSeconds,
					Message:         e.Message,
				})
				flusher.Flush()
			case <-ctx.Done():
				finishDetached()
				return
			}
		}

		result := <-done
		result.Summary.ScanID = scanID
		reg.Put(scanID, &registry.Entry{Files: result.Files, Folders: result.Folders, Summary: result.Summary})
		if watcher != nil {
			watcher.Watch(scanID, root)
		}

		writeSSE(w, sseEvent{ScanID: scanID, EventType: "complete", ScanResponse: result.Summary})
		flusher.Flush()
	}
}

func writeSSE(w http.ResponseWriter, e sseEvent) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}
