package store

import (
	"database/sql"
	"errors"
	"fmt"

	"intellisheet/internal/model"
)

type employeeKey struct {
	last, first string
}

type contractKey struct {
	project, code string
}

type contractRef struct {
	projectID, contractID int64
}

// SessionStats 一次加载会话的访问统计
type SessionStats struct {
	Lookups      int `json:"lookups"` // 缓存未命中后的数据库查询次数
	CacheHits    int `json:"cacheHits"`
	NewEmployees int `json:"newEmployees"`
	NewProjects  int `json:"newProjects"`
	NewContracts int `json:"newContracts"`
	Facts        int `json:"facts"`
}

// Inserts 新建的维度行数（不含事实行）
func (st SessionStats) Inserts() int {
	return st.NewEmployees + st.NewProjects + st.NewContracts
}

// Session 单个文档的加载会话。
//
// 缓存只在本次文档加载期间有效，加载结束后丢弃；不能跨文档复用，也不能并发使用。
type Session struct {
	store     *Store
	employees map[employeeKey]int64
	projects  map[string]int64
	contracts map[contractKey]contractRef
	stats     SessionStats
}

// NewSession 开始一个新的加载会话
func (s *Store) NewSession() *Session {
	return &Session{
		store:     s,
		employees: make(map[employeeKey]int64),
		projects:  make(map[string]int64),
		contracts: make(map[contractKey]contractRef),
	}
}

// Stats 当前统计
func (ss *Session) Stats() SessionStats {
	return ss.stats
}

// FindOrCreateEmployee 按 (姓, 名) 查找员工，不存在则创建
func (ss *Session) FindOrCreateEmployee(lastName, firstName string) (int64, error) {
	key := employeeKey{lastName, firstName}
	if id, ok := ss.employees[key]; ok {
		ss.stats.CacheHits++
		return id, nil
	}

	id, created, err := ss.store.findOrInsert(
		"SELECT id FROM employees WHERE last_name = ? AND first_name = ?",
		"INSERT INTO employees (last_name, first_name) VALUES (?, ?)",
		lastName, firstName,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve employee %s %s: %w", lastName, firstName, err)
	}
	ss.stats.Lookups++
	if created {
		ss.stats.NewEmployees++
	}
	ss.employees[key] = id
	return id, nil
}

// FindOrCreateProject 按规范项目名查找项目，不存在则创建
func (ss *Session) FindOrCreateProject(name string) (int64, error) {
	if id, ok := ss.projects[name]; ok {
		ss.stats.CacheHits++
		return id, nil
	}

	id, created, err := ss.store.findOrInsert(
		"SELECT id FROM projects WHERE name = ?",
		"INSERT INTO projects (name) VALUES (?)",
		name,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve project %q: %w", name, err)
	}
	ss.stats.Lookups++
	if created {
		ss.stats.NewProjects++
	}
	ss.projects[name] = id
	return id, nil
}

// FindOrCreateContract 先解析项目再解析 (project_id, code) 合同；
// 会话缓存以 (项目名, 编号) 为键，命中时不访问数据库。code 为空时写入 model.NoContractCode
func (ss *Session) FindOrCreateContract(projectName, code string) (projectID, contractID int64, err error) {
	if code == "" {
		code = model.NoContractCode
	}
	key := contractKey{projectName, code}
	if ref, ok := ss.contracts[key]; ok {
		ss.stats.CacheHits++
		return ref.projectID, ref.contractID, nil
	}

	projectID, err = ss.FindOrCreateProject(projectName)
	if err != nil {
		return 0, 0, err
	}

	contractID, created, err := ss.store.findOrInsert(
		"SELECT id FROM contracts WHERE project_id = ? AND code = ?",
		"INSERT INTO contracts (project_id, code) VALUES (?, ?)",
		projectID, code,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to resolve contract %s/%s: %w", projectName, code, err)
	}
	ss.stats.Lookups++
	if created {
		ss.stats.NewContracts++
	}
	ss.contracts[key] = contractRef{projectID: projectID, contractID: contractID}
	return projectID, contractID, nil
}

// AppendFact 追加一条工时事实
func (ss *Session) AppendFact(employeeID, contractID int64, date string, hours int) (int64, error) {
	id, err := ss.store.AppendFact(employeeID, contractID, date, hours)
	if err != nil {
		return 0, err
	}
	ss.stats.Facts++
	return id, nil
}

// findOrInsert 先按自然键查询，不存在则插入；selectSQL 与 insertSQL 使用相同参数
func (s *Store) findOrInsert(selectSQL, insertSQL string, args ...interface{}) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow(selectSQL, args...).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, wrapErr(err)
	}

	res, err := s.db.Exec(insertSQL, args...)
	if err != nil {
		return 0, false, wrapErr(err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get inserted id: %w", err)
	}
	return id, true, nil
}
