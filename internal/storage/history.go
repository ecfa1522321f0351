/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// historySchemaVersion tracks the history database layout.
const historySchemaVersion = 1

const historyDBName = "history.sqlite"

// ErrNoSnapshot is returned when a script has no stored snapshots.
var ErrNoSnapshot = errors.New("no snapshot for script")

// ScriptSnapshot is one stored version of a script's text.
type ScriptSnapshot struct {
	ID         int64
	ScriptPath string
	Text       string
	CreatedAt  time.Time
}

// History is the per-project snapshot database under .rve/history.sqlite.
type History struct {
	db *sql.DB
}

// language=SQL
const createHistorySchemaSQL = `
CREATE TABLE IF NOT EXISTS meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS script_snapshots (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    script_path TEXT    NOT NULL,
    content     TEXT    NOT NULL,
    created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_path_time
    ON script_snapshots (script_path, created_at DESC, id DESC);
`

// language=SQL
const insertSnapshotSQL = `
INSERT INTO script_snapshots (script_path, content, created_at)
VALUES (?, ?, ?);
`

// language=SQL
const latestSnapshotSQL = `
SELECT id, script_path, content, created_at
FROM script_snapshots
WHERE script_path = ?
ORDER BY created_at DESC, id DESC
LIMIT 1;
`

// language=SQL
const listSnapshotsSQL = `
SELECT id, script_path, content, created_at
FROM script_snapshots
WHERE script_path = ?
ORDER BY created_at DESC, id DESC
LIMIT ?;
`

// language=SQL
const pruneSnapshotsSQL = `
DELETE FROM script_snapshots
WHERE script_path = ?
  AND id NOT IN (
      SELECT id FROM script_snapshots
      WHERE script_path = ?
      ORDER BY created_at DESC, id DESC
      LIMIT ?
  );
`

// InitOrOpenHistory opens the snapshot database for a project root, creating
// the file and schema on first use. WAL mode keeps readers unblocked while
// snapshots are written.
func InitOrOpenHistory(root string) (*History, error) {
	dir := DerivedDir(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create derived dir: %w", err)
	}
	path := filepath.Join(dir, historyDBName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(createHistorySchemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	if err := ensureHistoryVersion(db); err != nil {
		db.Close()
		return nil, err
	}
	return &History{db: db}, nil
}

// Close releases the underlying database handle.
func (h *History) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}

// SaveSnapshot stores the current text of a script and returns the row id.
// scriptPath should be the manifest-relative path so histories stay portable
// when a project directory moves.
func (h *History) SaveSnapshot(scriptPath, text string) (int64, error) {
	res, err := h.db.Exec(insertSnapshotSQL, scriptPath, text, time.Now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("snapshot id: %w", err)
	}
	return id, nil
}

// LatestSnapshot returns the most recent snapshot for a script.
func (h *History) LatestSnapshot(scriptPath string) (*ScriptSnapshot, error) {
	row := h.db.QueryRow(latestSnapshotSQL, scriptPath)
	snap, err := scanSnapshot(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns up to limit snapshots for a script, newest first.
func (h *History) ListSnapshots(scriptPath string, limit int) ([]ScriptSnapshot, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := h.db.Query(listSnapshotsSQL, scriptPath, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()
	var out []ScriptSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// PruneSnapshots keeps the newest keep snapshots for a script and deletes the
// rest. It returns the number of rows removed.
func (h *History) PruneSnapshots(scriptPath string, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := h.db.Exec(pruneSnapshotsSQL, scriptPath, scriptPath, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return n, nil
}

func scanSnapshot(scan func(dest ...any) error) (*ScriptSnapshot, error) {
	var snap ScriptSnapshot
	var created int64
	if err := scan(&snap.ID, &snap.ScriptPath, &snap.Text, &created); err != nil {
		return nil, err
	}
	snap.CreatedAt = time.UnixMilli(created).UTC()
	return &snap, nil
}

func ensureHistoryVersion(db *sql.DB) error {
	var stored string
	err := db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version';`).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.Exec(`INSERT INTO meta (key, value) VALUES ('schema_version', ?);`,
			fmt.Sprintf("%d", historySchemaVersion))
		if err != nil {
			return fmt.Errorf("write schema version: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	}
	if stored != fmt.Sprintf("%d", historySchemaVersion) {
		return fmt.Errorf("history schema version %s is not supported", stored)
	}
	return nil
}
