package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
	"intellisheet/internal/model"
	"intellisheet/internal/store"
)

// 导出的 Sheet 名称
const (
	SheetData     = "Dati"
	SheetEmployee = "Dipendenti"
	SheetProject  = "Progetti"
)

// dataHeaders 明细表列，与关联视图一一对应
var dataHeaders = []string{"DATA", "ORE", "COGNOME", "NOME", "DIPENDENTE", "PROGETTO", "CODICE_COMMESSA", "PROGETTO_COMPLETO"}

// Exporter 工时导出器
type Exporter struct {
	store *store.Store
}

// NewExporter 创建导出器
func NewExporter(store *store.Store) *Exporter {
	return &Exporter{store: store}
}

// ExportOptions 导出选项，过滤条件与关联视图查询一致
type ExportOptions struct {
	Query    store.TimesheetQueryOptions
	Progress func(ProgressEvent)
}

// Export 导出 Excel：明细、员工汇总、项目汇总三个 Sheet
func (e *Exporter) Export(opts ExportOptions) (*excelize.File, error) {
	reportProgress(opts.Progress, 0, "读取工时明细")
	rows, err := e.store.ListTimesheet(opts.Query)
	if err != nil {
		return nil, fmt.Errorf("读取工时明细失败: %w", err)
	}

	reportProgress(opts.Progress, 30, "读取汇总数据")
	employees, err := e.store.EmployeeTotals()
	if err != nil {
		return nil, fmt.Errorf("读取员工汇总失败: %w", err)
	}
	projects, err := e.store.ProjectTotals(opts.Query)
	if err != nil {
		return nil, fmt.Errorf("读取项目汇总失败: %w", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetData); err != nil {
		_ = f.Close()
		return nil, err
	}

	reportProgress(opts.Progress, 50, "写入明细")
	if err := writeSheet(f, SheetData, toCells(dataHeaders), dataRecords(rows)); err != nil {
		_ = f.Close()
		return nil, err
	}

	reportProgress(opts.Progress, 80, "写入汇总")
	if _, err := f.NewSheet(SheetEmployee); err != nil {
		_ = f.Close()
		return nil, err
	}
	empRows := make([][]interface{}, 0, len(employees))
	for _, it := range employees {
		empRows = append(empRows, []interface{}{it.LastName, it.FirstName, it.Records, it.TotalHours})
	}
	if err := writeSheet(f, SheetEmployee, []interface{}{"COGNOME", "NOME", "RECORD", "ORE_TOTALI"}, empRows); err != nil {
		_ = f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(SheetProject); err != nil {
		_ = f.Close()
		return nil, err
	}
	projRows := make([][]interface{}, 0, len(projects))
	for _, it := range projects {
		projRows = append(projRows, []interface{}{it.ProjectFull(), it.Employees, it.Records, it.TotalHours})
	}
	if err := writeSheet(f, SheetProject, []interface{}{"PROGETTO_COMPLETO", "DIPENDENTI", "RECORD", "ORE_TOTALI"}, projRows); err != nil {
		_ = f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	reportProgress(opts.Progress, 100, "导出完成")
	return f, nil
}

// WriteCSV 以 CSV 写出关联视图明细
func (e *Exporter) WriteCSV(w io.Writer, query store.TimesheetQueryOptions) (int, error) {
	rows, err := e.store.ListTimesheet(query)
	if err != nil {
		return 0, fmt.Errorf("读取工时明细失败: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(dataHeaders); err != nil {
		return 0, err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.Date,
			strconv.Itoa(r.Hours),
			r.LastName,
			r.FirstName,
			r.Employee(),
			r.Project,
			r.ContractCode,
			r.ProjectFull(),
		}); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return len(rows), cw.Error()
}

func dataRecords(rows []model.TimesheetView) [][]interface{} {
	out := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		out = append(out, []interface{}{
			r.Date, r.Hours, r.LastName, r.FirstName, r.Employee(), r.Project, r.ContractCode, r.ProjectFull(),
		})
	}
	return out
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("写入 %s 表头失败: %w", sheet, err)
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("写入 %s 第 %d 行失败: %w", sheet, i+2, err)
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("冻结 %s 表头失败: %w", sheet, err)
	}
	return nil
}

func toCells(headers []string) []interface{} {
	out := make([]interface{}, len(headers))
	for i, h := range headers {
		out[i] = h
	}
	return out
}
