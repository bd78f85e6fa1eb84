package store

import (
	"fmt"
	"strings"

	"intellisheet/internal/model"
)

// AppendFact 无条件插入一条工时事实，不检查是否已存在相同记录
func (s *Store) AppendFact(employeeID, contractID int64, date string, hours int) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO timesheet_entries (employee_id, contract_id, date, hours)
		VALUES (?, ?, ?, ?)
	`, employeeID, contractID, date, hours)
	if err != nil {
		return 0, fmt.Errorf("failed to append fact: %w", wrapErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get fact id: %w", err)
	}
	return id, nil
}

// TimesheetQueryOptions 关联视图查询条件，零值表示不过滤
type TimesheetQueryOptions struct {
	From       string // YYYY-MM-DD，含
	To         string // YYYY-MM-DD，含
	EmployeeID int64
	Project    string
	Limit      int
	Offset     int
}

func (opts TimesheetQueryOptions) where() (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if opts.From != "" {
		conds = append(conds, "t.date >= ?")
		args = append(args, opts.From)
	}
	if opts.To != "" {
		conds = append(conds, "t.date <= ?")
		args = append(args, opts.To)
	}
	if opts.EmployeeID > 0 {
		conds = append(conds, "t.employee_id = ?")
		args = append(args, opts.EmployeeID)
	}
	if opts.Project != "" {
		conds = append(conds, "p.name = ?")
		args = append(args, opts.Project)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

const timesheetJoin = `
	FROM timesheet_entries t
	JOIN employees e ON e.id = t.employee_id
	JOIN contracts c ON c.id = t.contract_id
	JOIN projects p ON p.id = c.project_id`

// ListTimesheet 返回 员工 × 合同 × 项目 × 日期 × 工时 的完整关联视图
func (s *Store) ListTimesheet(opts TimesheetQueryOptions) ([]model.TimesheetView, error) {
	where, args := opts.where()
	query := `SELECT t.id, t.date, t.hours, e.last_name, e.first_name, p.name, c.code, c.id` +
		timesheetJoin + where +
		` ORDER BY t.date, e.last_name, e.first_name, t.id`

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query timesheet failed: %w", wrapErr(err))
	}
	defer rows.Close()

	out := []model.TimesheetView{}
	for rows.Next() {
		var v model.TimesheetView
		if err := rows.Scan(&v.EntryID, &v.Date, &v.Hours, &v.LastName, &v.FirstName, &v.Project, &v.ContractCode, &v.ContractID); err != nil {
			return nil, fmt.Errorf("scan timesheet failed: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timesheet failed: %w", err)
	}
	return out, nil
}

// CountTimesheet 满足条件的事实行数
func (s *Store) CountTimesheet(opts TimesheetQueryOptions) (int, error) {
	where, args := opts.where()
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*)"+timesheetJoin+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count timesheet failed: %w", wrapErr(err))
	}
	return n, nil
}

// EmployeeTotals 每名员工的记录数与总工时（没有工时的员工计为 0）
func (s *Store) EmployeeTotals() ([]model.EmployeeTotal, error) {
	rows, err := s.db.Query(`
		SELECT e.id, e.last_name, e.first_name, COUNT(t.id), COALESCE(SUM(t.hours), 0)
		FROM employees e
		LEFT JOIN timesheet_entries t ON t.employee_id = e.id
		GROUP BY e.id, e.last_name, e.first_name
		ORDER BY e.last_name, e.first_name
	`)
	if err != nil {
		return nil, fmt.Errorf("query employee totals failed: %w", wrapErr(err))
	}
	defer rows.Close()

	out := []model.EmployeeTotal{}
	for rows.Next() {
		var it model.EmployeeTotal
		if err := rows.Scan(&it.EmployeeID, &it.LastName, &it.FirstName, &it.Records, &it.TotalHours); err != nil {
			return nil, fmt.Errorf("scan employee totals failed: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employee totals failed: %w", err)
	}
	return out, nil
}

// ListEmployees 全部员工
func (s *Store) ListEmployees() ([]model.Employee, error) {
	rows, err := s.db.Query("SELECT id, last_name, first_name FROM employees ORDER BY last_name, first_name")
	if err != nil {
		return nil, fmt.Errorf("query employees failed: %w", wrapErr(err))
	}
	defer rows.Close()

	out := []model.Employee{}
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.LastName, &e.FirstName); err != nil {
			return nil, fmt.Errorf("scan employee failed: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListProjects 全部项目
func (s *Store) ListProjects() ([]model.Project, error) {
	rows, err := s.db.Query("SELECT id, name FROM projects ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("query projects failed: %w", wrapErr(err))
	}
	defer rows.Close()

	out := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan project failed: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListContracts 指定项目下的合同，projectID <= 0 时返回全部
func (s *Store) ListContracts(projectID int64) ([]model.Contract, error) {
	query := "SELECT id, project_id, code, COALESCE(description, '') FROM contracts"
	var args []interface{}
	if projectID > 0 {
		query += " WHERE project_id = ?"
		args = append(args, projectID)
	}
	query += " ORDER BY project_id, code"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contracts failed: %w", wrapErr(err))
	}
	defer rows.Close()

	out := []model.Contract{}
	for rows.Next() {
		var c model.Contract
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Code, &c.Description); err != nil {
			return nil, fmt.Errorf("scan contract failed: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ProjectTotals 按 (项目, 合同) 汇总工时，可按日期范围/员工过滤
func (s *Store) ProjectTotals(opts TimesheetQueryOptions) ([]model.ProjectTotal, error) {
	where, args := opts.where()
	rows, err := s.db.Query(`
		SELECT p.name, c.code, COUNT(DISTINCT t.employee_id), COUNT(t.id), COALESCE(SUM(t.hours), 0)`+
		timesheetJoin+where+`
		GROUP BY p.name, c.code
		ORDER BY SUM(t.hours) DESC, p.name, c.code`, args...)
	if err != nil {
		return nil, fmt.Errorf("query project totals failed: %w", wrapErr(err))
	}
	defer rows.Close()

	out := []model.ProjectTotal{}
	for rows.Next() {
		var it model.ProjectTotal
		if err := rows.Scan(&it.Project, &it.ContractCode, &it.Employees, &it.Records, &it.TotalHours); err != nil {
			return nil, fmt.Errorf("scan project totals failed: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project totals failed: %w", err)
	}
	return out, nil
}
