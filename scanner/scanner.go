// Package scanner implements the tolerant recursive walker (C2): it builds a
// file list and a folder aggregate map while skipping blacklisted paths,
// propagates sizes bottom-up, and optionally emits throttled progress to an
// asynchronous consumer.
package scanner

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"diskintel/models"
	"diskintel/policy"
)

// Result is the final output of one scan: the flat file list, the folder
// aggregate map keyed by absolute path, and the summary header.
type Result struct {
	Files   []models.FileRecord
	Folders map[string]*models.FolderRecord
	Summary models.ScanSummary
}

// progressThrottle decides, per spec.md §4.2, whether a progress emission
// is due: every 50th file counted, or at least one wall-clock second since
// the last emission.
type progressThrottle struct {
	lastEmit  time.Time
	lastCount int
}

func (t *progressThrottle) due(filesScanned int, now time.Time) bool {
	if filesScanned > 0 && filesScanned%50 == 0 && filesScanned != t.lastCount {
		return true
	}
	return now.Sub(t.lastEmit) >= time.Second
}

func (t *progressThrottle) mark(filesScanned int, now time.Time) {
	t.lastEmit = now
	t.lastCount = filesScanned
}

// walkState accumulates results across the pre-order walk.
type walkState struct {
	root         string
	verbose      bool
	files        []models.FileRecord
	folders      map[string]*models.FolderRecord
	filesScanned int
	bytesScanned int64
	start        time.Time
	throttle     progressThrottle
	emit         func(ProgressEvent)
}

// Scan performs a synchronous walk of root with no progress emission.
func Scan(root string) Result {
	return run(root, nil, false)
}

// ScanVerbose is Scan with per-entry error logging enabled.
func ScanVerbose(root string) Result {
	return run(root, nil, true)
}

// ScanStreaming performs the same walk as Scan but emits throttled
// ProgressEvent values to emit as it goes. It must be called from a
// goroutine the caller owns; it returns only once the walk is complete.
// Each emission is followed by runtime.Gosched() so the HTTP responder
// driving the SSE stream gets a chance to flush (spec.md §5).
func ScanStreaming(root string, verbose bool, emit func(ProgressEvent)) Result {
	return run(root, emit, verbose)
}

func run(root string, emit func(ProgressEvent), verbose bool) Result {
	st := &walkState{
		root:    root,
		verbose: verbose,
		folders: make(map[string]*models.FolderRecord),
		start:   time.Now(),
		emit:    emit,
	}

	cleanRoot := filepath.Clean(root)
	// The root is pre-inserted before walking so that even an unreadable
	// root yields a non-empty folder map.
	st.folders[cleanRoot] = &models.FolderRecord{Path: cleanRoot}

	st.walkDir(cleanRoot)
	propagateSizes(st.folders)

	summary := models.ScanSummary{
		RootPath:       cleanRoot,
		StartedAt:      st.start,
		EndedAt:        time.Now(),
		TotalFiles:     len(st.files),
		TotalFolders:   len(st.folders),
		TotalSizeBytes: st.bytesScanned,
	}

	return Result{Files: st.files, Folders: st.folders, Summary: summary}
}

// walkDir recurses pre-order, depth-first, top-down. Ignored (blacklisted)
// directories are pruned before descent.
func (st *walkState) walkDir(dir string) {
	if policy.IsBlacklisted(dir) {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if st.verbose {
			log.Printf("scanner: readdir %s: %v", dir, err)
		}
		return
	}

	folder := st.folders[dir]
	if folder == nil {
		folder = &models.FolderRecord{Path: dir}
		st.folders[dir] = folder
	}

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if policy.IsBlacklisted(full) {
				continue
			}
			if _, ok := st.folders[full]; !ok {
				st.folders[full] = &models.FolderRecord{Path: full}
			}
			st.walkDir(full)
			continue
		}

		info, err := entry.Info()
		if err != nil {
			if st.verbose {
				log.Printf("scanner: stat %s: %v", full, err)
			}
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		rec := fileRecord(full, dir, info)
		st.files = append(st.files, rec)
		st.filesScanned++
		st.bytesScanned += rec.SizeBytes

		folder.TotalSize += rec.SizeBytes
		folder.FileCount++
		bumpMax(&folder.LastModified, info.ModTime())
		if at, ok := accessTime(info); ok {
			bumpMax(&folder.LastAccessed, at)
		}

		st.maybeEmit(dir)
	}
}

// maybeEmit sends a throttled progress update for the directory currently
// being scanned, then yields so the responder can flush the SSE frame.
func (st *walkState) maybeEmit(currentDir string) {
	if st.emit == nil {
		return
	}
	now := time.Now()
	if !st.throttle.due(st.filesScanned, now) {
		return
	}
	st.throttle.mark(st.filesScanned, now)

	depth := strings.Count(strings.TrimPrefix(currentDir, st.root), string(filepath.Separator))
	percent := 20 + depth*5
	if percent > 95 {
		percent = 95
	}

	st.emit(ProgressEvent{
		FilesScanned:    st.filesScanned,
		FoldersScanned:  len(st.folders),
		BytesScanned:    st.bytesScanned,
		CurrentPath:     currentDir,
		ProgressPercent: percent,
		ElapsedSeconds:  now.Sub(st.start).Seconds(),
		Message:         "scanning " + currentDir,
	})
	runtime.Gosched()
}

// fileRecord builds a FileRecord from a resolved path, its parent directory
// and its os.FileInfo.
func fileRecord(path, parentDir string, info os.FileInfo) models.FileRecord {
	ext := strings.ToLower(filepath.Ext(path))
	rec := models.FileRecord{
		Path:       path,
		SizeBytes:  info.Size(),
		Extension:  ext,
		ParentDir:  parentDir,
		ModifiedAt: info.ModTime().UTC().Format(time.RFC3339),
	}
	if ct, ok := createTime(info); ok {
		rec.CreatedAt = ct.UTC().Format(time.RFC3339)
	}
	if at, ok := accessTime(info); ok {
		rec.AccessedAt = at.UTC().Format(time.RFC3339)
	}
	return rec
}

// bumpMax sets *cur to t if t is later than the current value (or cur is nil).
func bumpMax(cur **time.Time, t time.Time) {
	if *cur == nil || t.After(**cur) {
		tt := t
		*cur = &tt
	}
}

// propagateSizes performs the single bottom-up pass described in spec.md
// §4.2: folders are visited deepest-first (by path-separator count) and add
// their totals into their parent, provided the parent is itself a key in the
// map. This assumes the initial per-folder aggregates hold only direct-file
// contributions, which walkDir guarantees.
func propagateSizes(folders map[string]*models.FolderRecord) {
	paths := make([]string, 0, len(folders))
	for p := range folders {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		return depth(paths[i]) > depth(paths[j])
	})

	for _, p := range paths {
		parent := filepath.Dir(p)
		if parent == p {
			continue
		}
		parentFolder, ok := folders[parent]
		if !ok {
			continue
		}
		f := folders[p]
		parentFolder.TotalSize += f.TotalSize
		parentFolder.FileCount += f.FileCount
		if f.LastModified != nil {
			bumpMax(&parentFolder.LastModified, *f.LastModified)
		}
		if f.LastAccessed != nil {
			bumpMax(&parentFolder.LastAccessed, *f.LastAccessed)
		}
	}
}

func depth(path string) int {
	return strings.Count(filepath.Clean(path), string(filepath.Separator))
}
