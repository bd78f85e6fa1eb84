package parser

import (
	"errors"
	"time"
)

// 文档级错误：当前文件放弃处理，批量导入继续下一个文件
var (
	ErrSheetNotFound    = errors.New("timesheet sheet not found")
	ErrPeriodNotFound   = errors.New("cannot find 'Mese di <MESE> <ANNO>' in header rows")
	ErrEmployeeNotFound = errors.New("cannot identify employee from name cell")
	ErrColumnsNotFound  = errors.New("cannot find date/activity columns")
)

// SkipReason 行被跳过的原因
type SkipReason string

const (
	SkipNone          SkipReason = ""
	SkipBadDate       SkipReason = "bad_date"         // 日期单元格不是数字
	SkipDayOutOfRange SkipReason = "day_out_of_range" // 日期超出当月天数
	SkipNoActivity    SkipReason = "no_activity"      // 没有匹配 "<n>h_<label>" 的片段
)

// Period 工时表所属年月
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Valid 年月是否合法
func (p Period) Valid() bool {
	return p.Year > 0 && p.Month >= 1 && p.Month <= 12
}

// DaysIn 当月天数
func (p Period) DaysIn() int {
	return time.Date(p.Year, time.Month(p.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Entry 抽取出的一条 (日期, 原始活动, 工时)
type Entry struct {
	Date  string `json:"date"` // DD/MM/YYYY
	Label string `json:"label"`
	Hours int    `json:"hours"`
}

// RowResult 单行抽取结果：要么有条目，要么带跳过原因
type RowResult struct {
	RowNo   int        `json:"rowNo"`
	Entries []Entry    `json:"entries,omitempty"`
	Skip    SkipReason `json:"skip,omitempty"`
}

// Skipped 是否被跳过
func (r RowResult) Skipped() bool {
	return r.Skip != SkipNone
}

// EmployeeName 从名字单元格解析出的员工身份
type EmployeeName struct {
	LastName  string `json:"lastName"`
	FirstName string `json:"firstName"`
}

// FileResult 单个文件的导入结果
type FileResult struct {
	Filename     string             `json:"filename"`
	Status       string             `json:"status"` // imported/skipped/error
	EmployeeID   int64              `json:"employeeId,omitempty"`
	Employee     string             `json:"employee,omitempty"`
	Period       Period             `json:"period"`
	ImportedRows int                `json:"importedRows"`
	SkippedRows  map[SkipReason]int `json:"skippedRows,omitempty"`
	NewProjects  int                `json:"newProjects"`
	NewContracts int                `json:"newContracts"`
	Errors       []string           `json:"errors,omitempty"`
	Duration     time.Duration      `json:"duration"`
}

// ImportReport 批量导入报告
type ImportReport struct {
	RunID         string        `json:"runId"`
	TotalFiles    int           `json:"totalFiles"`
	ImportedFiles int           `json:"importedFiles"`
	SkippedFiles  int           `json:"skippedFiles"`
	FailedFiles   int           `json:"failedFiles"`
	ImportedRows  int           `json:"importedRows"`
	SkippedRows   int           `json:"skippedRows"`
	Aborted       bool          `json:"aborted"`
	Duration      time.Duration `json:"duration"`
	Files         []FileResult  `json:"files"`
}
