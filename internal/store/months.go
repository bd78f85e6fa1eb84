package store

import "fmt"

// PeriodStat 可用年月统计
type PeriodStat struct {
	Year  int `json:"year"`
	Month int `json:"month"`

	Employees  int `json:"employees"`
	Entries    int `json:"entries"`
	TotalHours int `json:"totalHours"`
}

// ListAvailablePeriods 列出当前数据库中存在工时的年月（按年/月倒序）
func (s *Store) ListAvailablePeriods() ([]PeriodStat, error) {
	rows, err := s.db.Query(`
		SELECT
			CAST(substr(date, 1, 4) AS INTEGER) AS y,
			CAST(substr(date, 6, 2) AS INTEGER) AS m,
			COUNT(DISTINCT employee_id),
			COUNT(1),
			COALESCE(SUM(hours), 0)
		FROM timesheet_entries
		WHERE date GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]'
		GROUP BY y, m
		ORDER BY y DESC, m DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query available periods failed: %w", wrapErr(err))
	}
	defer rows.Close()

	out := []PeriodStat{}
	for rows.Next() {
		var it PeriodStat
		if err := rows.Scan(&it.Year, &it.Month, &it.Employees, &it.Entries, &it.TotalHours); err != nil {
			return nil, fmt.Errorf("scan available periods failed: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate available periods failed: %w", err)
	}
	return out, nil
}
