package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ImportLog 单个文件的导入记录
type ImportLog struct {
	ID           int64      `json:"id"`
	RunID        string     `json:"runId"`
	Filename     string     `json:"filename"`
	Employee     string     `json:"employee,omitempty"`
	Status       string     `json:"status"`
	ImportedRows int        `json:"importedRows"`
	SkippedRows  int        `json:"skippedRows"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// CreateImportLog 创建导入日志，返回 import_log_id
func (s *Store) CreateImportLog(runID, filename string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (run_id, filename, status)
		VALUES (?, ?, 'processing')
	`, runID, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", wrapErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// UpdateImportLog 完成导入日志更新
func (s *Store) UpdateImportLog(id int64, employee string, importedRows, skippedRows int, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			employee = ?,
			imported_rows = ?,
			skipped_rows = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, employee, importedRows, skippedRows, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", wrapErr(err))
	}
	return nil
}

// ListImportLogs 最近的导入日志，runID 为空时不过滤
func (s *Store) ListImportLogs(runID string, limit int) ([]ImportLog, error) {
	query := `
		SELECT id, run_id, filename, COALESCE(employee, ''), status,
			imported_rows, skipped_rows, COALESCE(error_message, ''), started_at, completed_at
		FROM import_logs`
	var args []interface{}
	if runID != "" {
		query += " WHERE run_id = ?"
		args = append(args, runID)
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query import logs failed: %w", wrapErr(err))
	}
	defer rows.Close()

	out := []ImportLog{}
	for rows.Next() {
		var (
			it        ImportLog
			completed sql.NullTime
		)
		if err := rows.Scan(&it.ID, &it.RunID, &it.Filename, &it.Employee, &it.Status,
			&it.ImportedRows, &it.SkippedRows, &it.ErrorMessage, &it.StartedAt, &completed); err != nil {
			return nil, fmt.Errorf("scan import log failed: %w", err)
		}
		if completed.Valid {
			t := completed.Time
			it.CompletedAt = &t
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import logs failed: %w", err)
	}
	return out, nil
}
