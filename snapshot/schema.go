package snapshot

const createTableSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
	id                      TEXT PRIMARY KEY,
	snapshot_type           TEXT NOT NULL,
	scan_id                 TEXT NOT NULL,
	root_path               TEXT NOT NULL,
	saved_at                TEXT NOT NULL,
	total_files             INTEGER NOT NULL,
	total_folders           INTEGER NOT NULL,
	total_size_bytes        INTEGER NOT NULL,
	findings_json           TEXT NOT NULL,
	extensions_json         TEXT NOT NULL,
	scan_info_json          TEXT NOT NULL,
	target_path             TEXT NOT NULL DEFAULT '',
	comparison_json         TEXT NOT NULL DEFAULT '',
	comparison_summary_json TEXT NOT NULL DEFAULT ''
)`

const indexSavedAtSQL = `CREATE INDEX IF NOT EXISTS idx_snapshots_saved_at ON snapshots(saved_at DESC)`
