package importer

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"intellisheet/internal/facts"
	"intellisheet/internal/model"
	"intellisheet/internal/normalizer"
	"intellisheet/internal/parser"
	"intellisheet/internal/store"
)

// StoreError 存储层失败，整个批次必须中止
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreFatal 判断错误是否需要中止整个批次；其余错误只影响当前文件
func IsStoreFatal(err error) bool {
	var se *StoreError
	return errors.As(err, &se) || store.IsLocked(err)
}

// LoadResult 单个文档的加载结果
type LoadResult struct {
	EmployeeID int64              `json:"employeeId"`
	Facts      int                `json:"facts"`
	Hours      int                `json:"hours"`
	Stats      store.SessionStats `json:"stats"`
}

// Loader 把一名员工一个月的文档写入存储
type Loader struct {
	store      *store.Store
	normalizer *normalizer.Normalizer
	log        zerolog.Logger
}

// NewLoader 创建加载器
func NewLoader(st *store.Store, n *normalizer.Normalizer, log zerolog.Logger) *Loader {
	return &Loader{store: st, normalizer: n, log: log}
}

// Load 先解析员工身份，再按事实构建顺序解析合同并追加事实。
// 中途失败时已写入的事实不会回滚，需要从 Reset 重新导入
func (l *Loader) Load(employee parser.EmployeeName, doc model.Document) (LoadResult, error) {
	if employee.LastName == "" {
		return LoadResult{}, parser.ErrEmployeeNotFound
	}

	session := l.store.NewSession()
	var res LoadResult

	employeeID, err := session.FindOrCreateEmployee(employee.LastName, employee.FirstName)
	if err != nil {
		return res, &StoreError{Op: "resolve employee", Err: err}
	}
	res.EmployeeID = employeeID

	for _, row := range facts.Build(doc, l.normalizer) {
		_, contractID, err := session.FindOrCreateContract(row.Project, row.ContractCode)
		if err != nil {
			res.Stats = session.Stats()
			return res, &StoreError{Op: "resolve contract", Err: err}
		}
		if _, err := session.AppendFact(employeeID, contractID, row.Date, row.Hours); err != nil {
			res.Stats = session.Stats()
			return res, &StoreError{Op: "append fact", Err: err}
		}
		res.Facts++
		res.Hours += row.Hours
	}

	res.Stats = session.Stats()
	l.log.Debug().
		Str("employee", employee.LastName+" "+employee.FirstName).
		Int("facts", res.Facts).
		Int("lookups", res.Stats.Lookups).
		Int("cache_hits", res.Stats.CacheHits).
		Int("inserts", res.Stats.Inserts()).
		Msg("document loaded")
	return res, nil
}
