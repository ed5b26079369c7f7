package index

import (
	"fmt"

	"github.com/cctk-dev/cctk/internal/scan"
)

type IndexStats struct {
	Scanned  int
	Indexed  int
	Skipped  int
	Removed  int
	Failed   int
	Errors   []string
	ParseErr int
}

func (s *IndexStats) String() string {
	out := fmt.Sprintf("%d scanned, %d indexed, %d unchanged, %d removed",
		s.Scanned, s.Indexed, s.Skipped, s.Removed)
	if s.ParseErr > 0 {
		out += fmt.Sprintf(", %d unparseable lines", s.ParseErr)
	}
	if s.Failed > 0 {
		out += fmt.Sprintf(", %d failed", s.Failed)
	}
	return out
}

// IndexAll walks the projects root and brings the database up to date.
// Unchanged sessions (same mtime and size) are skipped; sessions whose
// files have disappeared are removed.
func IndexAll(d *DB, claudeRoot string, progress func(msg string)) (*IndexStats, error) {
	stats := &IndexStats{}

	files, err := scan.ScanRoot(claudeRoot)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", claudeRoot, err)
	}
	stats.Scanned = len(files)

	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		key := SessionKeyFor(claudeRoot, f.Path)
		seen[key] = struct{}{}

		stamp, err := d.GetSessionStamp(key)
		if err != nil {
			stats.Failed++
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", key, err))
			continue
		}
		if stamp != nil && stamp.Mtime == f.Mtime && stamp.Size == f.Size {
			stats.Skipped++
			continue
		}

		if progress != nil {
			progress(fmt.Sprintf("indexing %s", key))
		}

		data, err := BuildSession(claudeRoot, f.Path, f.Mtime, f.Size)
		if err != nil {
			stats.Failed++
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", key, err))
			continue
		}
		if err := d.UpsertSession(data); err != nil {
			stats.Failed++
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", key, err))
			continue
		}
		stats.Indexed++
		stats.ParseErr += data.Meta.ErrorCount
	}

	// drop sessions whose files no longer exist
	known, err := d.AllSessionKeys()
	if err != nil {
		return stats, err
	}
	for key := range known {
		if _, ok := seen[key]; ok {
			continue
		}
		if err := d.DeleteSession(key); err != nil {
			stats.Failed++
			stats.Errors = append(stats.Errors, fmt.Sprintf("remove %s: %v", key, err))
			continue
		}
		stats.Removed++
	}

	return stats, nil
}

// UpsertSession replaces a session and its chunks in one transaction.
func (d *DB) UpsertSession(data *SessionData) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM chunks WHERE session_key = ?", data.Meta.SessionKey); err != nil {
		return err
	}

	m := data.Meta
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO sessions
		(session_key, file_path, repo_cwd, created_at, updated_at, summary, entry_count, error_count, mtime, size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.SessionKey, m.FilePath, m.RepoCwd, m.CreatedAt, m.UpdatedAt, m.Summary,
		m.EntryCount, m.ErrorCount, m.Mtime, m.Size,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		"INSERT INTO chunks (session_key, chunk_id, ts, role, kind, text, line_number) VALUES (?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range data.Chunks {
		if _, err := stmt.Exec(m.SessionKey, c.ChunkID, c.Ts, c.Role, c.Kind, c.Text, c.LineNumber); err != nil {
			return err
		}
	}

	return tx.Commit()
}
