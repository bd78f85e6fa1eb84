package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// 运行状态键
const (
	SettingLastRunID = "last_run_id"
	SettingLastRunAt = "last_run_at"
)

// GetSetting 获取运行状态值，不存在时返回 ErrNotFound
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("setting %s: %w", key, ErrNotFound)
		}
		return "", wrapErr(err)
	}
	return value, nil
}

// SetSetting 设置运行状态值
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, wrapErr(err))
	}
	return nil
}

// GetAllSettings 获取所有运行状态
func (s *Store) GetAllSettings() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("query settings failed: %w", wrapErr(err))
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting failed: %w", err)
		}
		out[key] = value
	}
	return out, rows.Err()
}
