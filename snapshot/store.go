// Package snapshot implements the snapshot store (C6): durable persistence
// of scan and comparison results to a single SQLite-backed table, per
// spec.md §4.6 and §6.
package snapshot

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"diskintel/apierr"
	"diskintel/models"
)

// Store is the durable home for scan and comparison snapshots.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures the snapshots table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot: create table: %w", err)
	}
	if _, err := db.Exec(indexSavedAtSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot: create index: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveScan persists a scan snapshot and returns it, including its assigned id.
func (s *Store) SaveScan(scanID, rootPath string, findings []models.Finding, extensions []models.ExtensionSummary, info models.ScanSummary) (models.Snapshot, error) {
	snap := models.Snapshot{
		ID:             "snapshot-" + uuid.NewString(),
		SnapshotType:   models.SnapshotTypeScan,
		ScanID:         scanID,
		RootPath:       rootPath,
		SavedAt:        time.Now().UTC(),
		TotalFiles:     info.TotalFiles,
		TotalFolders:   info.TotalFolders,
		TotalSizeBytes: info.TotalSizeBytes,
		Findings:       findings,
		Extensions:     extensions,
		ScanInfo:       info,
	}
	if err := s.insert(snap); err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

// SaveComparison persists a comparison snapshot and returns it, including its
// assigned id.
func (s *Store) SaveComparison(scanID, rootPath, targetPath string, result models.ComparisonResult) (models.Snapshot, error) {
	summary := result.Summary
	snap := models.Snapshot{
		ID:                "comparison-" + uuid.NewString(),
		SnapshotType:      models.SnapshotTypeComparison,
		ScanID:            scanID,
		RootPath:          rootPath,
		SavedAt:           time.Now().UTC(),
		TotalSizeBytes:    summary.TotalSourceSize,
		TargetPath:        targetPath,
		Comparison:        &result,
		ComparisonSummary: &summary,
	}
	if err := s.insert(snap); err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) insert(snap models.Snapshot) error {
	row, err := marshalRow(snap)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO snapshots (
			id, snapshot_type, scan_id, root_path, saved_at,
			total_files, total_folders, total_size_bytes,
			findings_json, extensions_json, scan_info_json,
			target_path, comparison_json, comparison_summary_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.id, row.snapshotType, row.scanID, row.rootPath, row.savedAt,
		row.totalFiles, row.totalFolders, row.totalSizeBytes,
		row.findingsJSON, row.extensionsJSON, row.scanInfoJSON,
		row.targetPath, row.comparisonJSON, row.comparisonSummaryJSON,
	)
	if err != nil {
		return fmt.Errorf("snapshot: insert %s: %w", snap.ID, err)
	}
	return nil
}

// Load retrieves a snapshot by id.
func (s *Store) Load(id string) (models.Snapshot, error) {
	r := s.db.QueryRow(selectColumns+" WHERE id = ?", id)
	snap, err := scanRow(r)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Snapshot{}, apierr.NotFound("unknown snapshot id: %s", id)
		}
		return models.Snapshot{}, fmt.Errorf("snapshot: load %s: %w", id, err)
	}
	return snap, nil
}

// List returns every snapshot ordered by save time, newest first.
func (s *Store) List() ([]models.Snapshot, error) {
	rows, err := s.db.Query(selectColumns + " ORDER BY saved_at DESC")
	if err != nil {
		return nil, fmt.Errorf("snapshot: list: %w", err)
	}
	defer rows.Close()

	var snapshots []models.Snapshot
	for rows.Next() {
		snap, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("snapshot: scan row: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// Update replaces the stored payload for id with freshly recomputed findings,
// extensions and scan info, keeping the original id and snapshot_type. It
// returns ConflictingSnapshotType if id identifies a comparison snapshot.
func (s *Store) Update(id string, findings []models.Finding, extensions []models.ExtensionSummary, info models.ScanSummary) (models.Snapshot, error) {
	existing, err := s.Load(id)
	if err != nil {
		return models.Snapshot{}, err
	}
	if existing.SnapshotType != models.SnapshotTypeScan {
		return models.Snapshot{}, apierr.ConflictingSnapshotType("snapshot %s is not a scan snapshot", id)
	}

	existing.SavedAt = time.Now().UTC()
	existing.TotalFiles = info.TotalFiles
	existing.TotalFolders = info.TotalFolders
	existing.TotalSizeBytes = info.TotalSizeBytes
	existing.Findings = findings
	existing.Extensions = extensions
	existing.ScanInfo = info

	row, err := marshalRow(existing)
	if err != nil {
		return models.Snapshot{}, err
	}
	_, err = s.db.Exec(
		`UPDATE snapshots SET saved_at = ?, total_files = ?, total_folders = ?,
			total_size_bytes = ?, findings_json = ?, extensions_json = ?, scan_info_json = ?
		WHERE id = ?`,
		row.savedAt, row.totalFiles, row.totalFolders, row.totalSizeBytes,
		row.findingsJSON, row.extensionsJSON, row.scanInfoJSON, id,
	)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("snapshot: update %s: %w", id, err)
	}
	return existing, nil
}

// UpdateComparison replaces the stored comparison payload for id with a
// freshly recomputed result, keeping the original id, scan_id, root_path and
// target_path. It returns ConflictingSnapshotType if id identifies a scan
// snapshot.
func (s *Store) UpdateComparison(id string, result models.ComparisonResult) (models.Snapshot, error) {
	existing, err := s.Load(id)
	if err != nil {
		return models.Snapshot{}, err
	}
	if existing.SnapshotType != models.SnapshotTypeComparison {
		return models.Snapshot{}, apierr.ConflictingSnapshotType("snapshot %s is not a comparison snapshot", id)
	}

	summary := result.Summary
	existing.SavedAt = time.Now().UTC()
	existing.TotalSizeBytes = summary.TotalSourceSize
	existing.Comparison = &result
	existing.ComparisonSummary = &summary

	row, err := marshalRow(existing)
	if err != nil {
		return models.Snapshot{}, err
	}
	_, err = s.db.Exec(
		`UPDATE snapshots SET saved_at = ?, total_size_bytes = ?, comparison_json = ?, comparison_summary_json = ?
		WHERE id = ?`,
		row.savedAt, row.totalSizeBytes, row.comparisonJSON, row.comparisonSummaryJSON, id,
	)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("snapshot: update comparison %s: %w", id, err)
	}
	return existing, nil
}

// Delete removes a snapshot by id. Deleting an unknown id is a no-op.
func (s *Store) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("snapshot: delete %s: %w", id, err)
	}
	return nil
}

const selectColumns = `SELECT
	id, snapshot_type, scan_id, root_path, saved_at,
	total_files, total_folders, total_size_bytes,
	findings_json, extensions_json, scan_info_json,
	target_path, comparison_json, comparison_summary_json
FROM snapshots`

type row struct {
	id, snapshotType, scanID, rootPath, savedAt                         string
	totalFiles, totalFolders                                            int
	totalSizeBytes                                                      int64
	findingsJSON, extensionsJSON, scanInfoJSON                          string
	targetPath, comparisonJSON, comparisonSummaryJSON                   string
}

func marshalRow(snap models.Snapshot) (row, error) {
	findingsJSON, err := json.Marshal(snap.Findings)
	if err != nil {
		return row{}, err
	}
	extensionsJSON, err := json.Marshal(snap.Extensions)
	if err != nil {
		return row{}, err
	}
	scanInfoJSON, err := json.Marshal(snap.ScanInfo)
	if err != nil {
		return row{}, err
	}
	comparisonJSON, err := json.Marshal(snap.Comparison)
	if err != nil {
		return row{}, err
	}
	comparisonSummaryJSON, err := json.Marshal(snap.ComparisonSummary)
	if err != nil {
		return row{}, err
	}

	return row{
		id:                    snap.ID,
		snapshotType:          string(snap.SnapshotType),
		scanID:                snap.ScanID,
		rootPath:              snap.RootPath,
		// Fixed-width fraction so that ORDER BY saved_at (a text column)
		// sorts chronologically.
		savedAt:               snap.SavedAt.UTC().Format("2006-01-02T15:04:05.000000000Z07:00"),
		totalFiles:            snap.TotalFiles,
		totalFolders:          snap.TotalFolders,
		totalSizeBytes:        snap.TotalSizeBytes,
		findingsJSON:          string(findingsJSON),
		extensionsJSON:        string(extensionsJSON),
		scanInfoJSON:          string(scanInfoJSON),
		targetPath:            snap.TargetPath,
		comparisonJSON:        string(comparisonJSON),
		comparisonSummaryJSON: string(comparisonSummaryJSON),
	}, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRow(sc scanner) (models.Snapshot, error) {
	var r row
	var comparisonJSON, comparisonSummaryJSON string
	if err := sc.Scan(
		&r.id, &r.snapshotType, &r.scanID, &r.rootPath, &r.savedAt,
		&r.totalFiles, &r.totalFolders, &r.totalSizeBytes,
		&r.findingsJSON, &r.extensionsJSON, &r.scanInfoJSON,
		&r.targetPath, &comparisonJSON, &comparisonSummaryJSON,
	); err != nil {
		return models.Snapshot{}, err
	}

	snap := models.Snapshot{
		ID:             r.id,
		SnapshotType:   models.SnapshotType(r.snapshotType),
		ScanID:         r.scanID,
		RootPath:       r.rootPath,
		TotalFiles:     r.totalFiles,
		TotalFolders:   r.totalFolders,
		TotalSizeBytes: r.totalSizeBytes,
		TargetPath:     r.targetPath,
	}
	if savedAt, err := time.Parse(time.RFC3339Nano, r.savedAt); err == nil {
		snap.SavedAt = savedAt
	}
	if err := json.Unmarshal([]byte(r.findingsJSON), &snap.Findings); err != nil && r.findingsJSON != "" {
		return models.Snapshot{}, err
	}
	if err := json.Unmarshal([]byte(r.extensionsJSON), &snap.Extensions); err != nil && r.extensionsJSON != "" {
		return models.Snapshot{}, err
	}
	if r.scanInfoJSON != "" {
		if err := json.Unmarshal([]byte(r.scanInfoJSON), &snap.ScanInfo); err != nil {
			return models.Snapshot{}, err
		}
	}
	if comparisonJSON != "" && comparisonJSON != "null" {
		var comparison models.ComparisonResult
		if err := json.Unmarshal([]byte(comparisonJSON), &comparison); err != nil {
			return models.Snapshot{}, err
		}
		snap.Comparison = &comparison
	}
	if comparisonSummaryJSON != "" && comparisonSummaryJSON != "null" {
		var summary models.ComparisonSummary
		if err := json.Unmarshal([]byte(comparisonSummaryJSON), &summary); err != nil {
			return models.Snapshot{}, err
		}
		snap.ComparisonSummary = &summary
	}

	return snap, nil
}
