package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"intellisheet/internal/model"
)

// Options 工时表读取选项
type Options struct {
	SheetName string // 首选 Sheet，默认 "Foglio1"
	NameCell  string // 员工姓名所在单元格，默认 "Q2"
	HeaderRow int    // 表头行（1-based），默认 5
}

// DefaultOptions 默认读取选项
func DefaultOptions() Options {
	return Options{
		SheetName: "Foglio1",
		NameCell:  "Q2",
		HeaderRow: 5,
	}
}

// Timesheet 一个工时表文件的解析结果
type Timesheet struct {
	SheetName string             `json:"sheetName"`
	Employee  EmployeeName       `json:"employee"`
	Period    Period             `json:"period"`
	Document  model.Document     `json:"document"`
	Rows      []RowResult        `json:"rows"`
	Skipped   map[SkipReason]int `json:"skipped"`
}

// SkippedTotal 跳过的行数
func (t *Timesheet) SkippedTotal() int {
	n := 0
	for _, c := range t.Skipped {
		n += c
	}
	return n
}

// TimesheetParser 员工月度工时表解析器
type TimesheetParser struct {
	file       *excelize.File
	opts       Options
	recognizer *SheetRecognizer
}

// NewTimesheetParser 创建解析器，零值选项使用默认值
func NewTimesheetParser(file *excelize.File, opts Options) *TimesheetParser {
	def := DefaultOptions()
	if opts.SheetName == "" {
		opts.SheetName = def.SheetName
	}
	if opts.NameCell == "" {
		opts.NameCell = def.NameCell
	}
	if opts.HeaderRow <= 0 {
		opts.HeaderRow = def.HeaderRow
	}
	return &TimesheetParser{
		file:       file,
		opts:       opts,
		recognizer: NewSheetRecognizer(opts.SheetName, opts.HeaderRow),
	}
}

// ParseFile 打开并解析 xlsx 文件
func ParseFile(path string, opts Options) (*Timesheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return NewTimesheetParser(f, opts).Parse()
}

// Parse 解析工时表：先确定员工身份与年月，再逐行抽取活动
func (p *TimesheetParser) Parse() (*Timesheet, error) {
	recognition, rows, err := p.recognizer.RecognizeFile(p.file)
	if err != nil {
		return nil, err
	}
	sheet := recognition.SheetName

	nameCell, err := p.file.GetCellValue(sheet, p.opts.NameCell)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s!%s: %w", sheet, p.opts.NameCell, err)
	}
	employee, ok := ParseEmployeeName(nameCell)
	if !ok {
		return nil, fmt.Errorf("%w: %s!%s is empty", ErrEmployeeNotFound, sheet, p.opts.NameCell)
	}

	if !recognition.Period.Valid() {
		return nil, fmt.Errorf("%w: sheet %q", ErrPeriodNotFound, sheet)
	}
	if !recognition.Columns.Found() {
		return nil, fmt.Errorf("%w: sheet %q", ErrColumnsNotFound, sheet)
	}

	ts := &Timesheet{
		SheetName: sheet,
		Employee:  employee,
		Period:    recognition.Period,
		Document:  model.Document{},
		Skipped:   map[SkipReason]int{},
	}

	cols := recognition.Columns
	for rowIdx := recognition.HeaderRow; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if isBlankRow(row) {
			continue
		}

		dayCell := cellAt(row, cols.DateCol)
		text := cellAt(row, cols.ActivityCol)
		// 日期或描述为空的行（周末、合计行）不算跳过
		if dayCell == "" || text == "" {
			continue
		}

		res := ExtractRow(dayCell, text, ts.Period)
		res.RowNo = rowIdx + 1
		ts.Rows = append(ts.Rows, res)
		if res.Skipped() {
			ts.Skipped[res.Skip]++
			continue
		}
		for _, e := range res.Entries {
			ts.Document.Add(e.Date, model.Activity{Label: e.Label, Hours: e.Hours})
		}
	}

	return ts, nil
}
