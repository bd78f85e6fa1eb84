package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

var (
	// ErrStoreLocked 数据库文件被其他进程占用；整个导入批次必须中止
	ErrStoreLocked = errors.New("store is locked by another process")
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("not found")
)

// resetTables Reset 时按外键依赖倒序删除的表；import_logs 与 settings 保留
var resetTables = []string{"timesheet_entries", "contracts", "projects", "employees"}

// Store SQLite 数据库存储层，独占员工/项目/合同/工时四张表
type Store struct {
	db   *sql.DB
	path string
}

// New 创建新的 Store 实例；文件被锁定时立即失败，不等待
func New(dbPath string) (*Store, error) {
	// 确保 data 目录存在
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=0&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", wrapErr(err))
	}

	// SQLite 单连接，同一时刻只有一个加载会话
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db, path: dbPath}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema 初始化数据库结构
func (s *Store) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}

	if _, err := s.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", wrapErr(err))
	}

	return nil
}

// Reset 删除并重建四张业务表，只在批量导入开始前调用
func (s *Store) Reset() error {
	for _, table := range resetTables {
		if _, err := s.db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, wrapErr(err))
		}
	}
	return s.initSchema()
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path 数据库文件路径
func (s *Store) Path() string {
	return s.path
}

// IsLocked 是否为数据库锁定错误
func IsLocked(err error) bool {
	return errors.Is(err, ErrStoreLocked)
}

// wrapErr 把 SQLITE_BUSY / SQLITE_LOCKED 转换为 ErrStoreLocked
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked {
			return fmt.Errorf("%w: %v", ErrStoreLocked, err)
		}
	}
	return err
}
