// Package models defines the data structures shared across the scanner,
// analyzer, comparator, registry and snapshot store.
package models

import "time"

// FileRecord is one discovered regular file.
type FileRecord struct {
	Path        string `json:"path"`
	SizeBytes   int64  `json:"size_bytes"`
	Extension   string `json:"extension"`
	CreatedAt   string `json:"created_at,omitempty"`
	ModifiedAt  string `json:"modified_at,omitempty"`
	AccessedAt  string `json:"accessed_at,omitempty"`
	ParentDir   string `json:"parent_dir"`
}

// FolderRecord is one discovered directory, including the scan root.
type FolderRecord struct {
	Path          string     `json:"path"`
	TotalSize     int64      `json:"total_size"`
	FileCount     int        `json:"file_count"`
	LastModified  *time.Time `json:"last_modified,omitempty"`
	LastAccessed  *time.Time `json:"last_accessed,omitempty"`
}

// ScanSummary is the identifying header of a completed (or in-progress) scan.
type ScanSummary struct {
	ScanID         string    `json:"scan_id"`
	RootPath       string    `json:"root_path"`
	StartedAt      time.Time `json:"started_at"`
	EndedAt        time.Time `json:"ended_at"`
	TotalFiles     int       `json:"total_files"`
	TotalFolders   int       `json:"total_folders"`
	TotalSizeBytes int64     `json:"total_size_bytes"`
	// Stale is an additive signal set by the registry's filesystem watcher
	// when the scanned root has changed since this scan completed. It never
	// causes eviction or recomputation — see registry.Registry.
	Stale bool `json:"stale,omitempty"`
}

// Finding is one heuristic observation produced by the analyzer.
type Finding struct {
	ID         string   `json:"id"`
	Category   string   `json:"category"`
	Reason     string   `json:"reason"`
	Paths      []string `json:"paths"`
	TotalBytes int64    `json:"total_bytes"`
}

const (
	CategoryLargeFolder       = "large_folder"
	CategoryOldLargeFolder    = "old_large_folder"
	CategoryActiveLargeFolder = "active_large_folder"
	CategoryCacheCandidate    = "cache_candidate"
	CategoryDuplicateFolder   = "duplicate_folder_candidate"
	CategoryDuplicateFile     = "duplicate_file_candidate"
	CategoryColdArchive       = "cold_archive_candidate"
)

// ExtensionSummary aggregates files by (lowercased) extension.
type ExtensionSummary struct {
	Extension  string `json:"extension"`
	FileCount  int    `json:"file_count"`
	TotalBytes int64  `json:"total_bytes"`
}

// NoExtensionLabel is reported in place of an empty extension.
const NoExtensionLabel = "(no extension)"

// ItemType discriminates a ComparisonItem.
type ItemType string

const (
	ItemFile   ItemType = "file"
	ItemFolder ItemType = "folder"
)

// ComparisonStatus classifies one ComparisonItem against the opposite tree.
type ComparisonStatus string

const (
	StatusIdentical        ComparisonStatus = "identical"
	StatusModified         ComparisonStatus = "modified"
	StatusMissingFromTarget ComparisonStatus = "missing_from_target"
	StatusExtraInTarget     ComparisonStatus = "extra_in_target"
)

// ComparisonItem is the single recursive node type of a comparison result
// tree. Children is only populated for folder items.
type ComparisonItem struct {
	Name             string            `json:"name"`
	RelativePath     string            `json:"relative_path"`
	ItemType         ItemType          `json:"item_type"`
	Status           ComparisonStatus  `json:"status"`
	SourceSize       *int64            `json:"source_size,omitempty"`
	TargetSize       *int64            `json:"target_size,omitempty"`
	SourceModified   *time.Time        `json:"source_modified,omitempty"`
	TargetModified   *time.Time        `json:"target_modified,omitempty"`
	Children         []*ComparisonItem `json:"children,omitempty"`
	DifferenceCount  int               `json:"difference_count"`
}

// ComparisonSummary holds the aggregate counters for a comparison.
type ComparisonSummary struct {
	Identical         int   `json:"identical"`
	Modified          int   `json:"modified"`
	MissingFromTarget int   `json:"missing_from_target"`
	ExtraInTarget     int   `json:"extra_in_target"`
	TotalSourceSize   int64 `json:"total_source_size"`
	TotalTargetSize   int64 `json:"total_target_size"`
}

// ComparisonResult is the full output of the comparator: a forest of roots
// plus the summary counters.
type ComparisonResult struct {
	SourcePath string            `json:"source_path"`
	TargetPath string            `json:"target_path"`
	DeepScan   bool              `json:"deep_scan"`
	Roots      []*ComparisonItem `json:"roots"`
	Summary    ComparisonSummary `json:"summary"`
}

// SnapshotType discriminates the two persisted snapshot variants.
type SnapshotType string

const (
	SnapshotTypeScan       SnapshotType = "scan"
	SnapshotTypeComparison SnapshotType = "comparison"
)

// Snapshot is the durable record persisted by the snapshot store (C6). It is
// the union of both variants; fields specific to one variant are empty/zero
// on the other, matching the single-table schema in spec.md §6.
type Snapshot struct {
	ID             string       `json:"id"`
	SnapshotType   SnapshotType `json:"snapshot_type"`
	ScanID         string       `json:"scan_id"`
	RootPath       string       `json:"root_path"`
	SavedAt        time.Time    `json:"saved_at"`
	TotalFiles     int          `json:"total_files"`
	TotalFolders   int          `json:"total_folders"`
	TotalSizeBytes int64        `json:"total_size_bytes"`

	Findings   []Finding          `json:"findings"`
	Extensions []ExtensionSummary `json:"extensions"`
	ScanInfo   ScanSummary        `json:"scan_info"`

	// Comparison-only fields.
	TargetPath        string             `json:"target_path,omitempty"`
	Comparison        *ComparisonResult  `json:"comparison,omitempty"`
	ComparisonSummary *ComparisonSummary `json:"comparison_summary,omitempty"`
}
