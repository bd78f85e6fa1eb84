package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"intellisheet/internal/model"
	"intellisheet/internal/normalizer"
	"intellisheet/internal/parser"
	"intellisheet/internal/store"
)

// 文件处理状态
const (
	StatusImported = "imported"
	StatusSkipped  = "skipped"
	StatusError    = "error"
)

// Coordinator 批量导入协调器，文件严格逐个处理
type Coordinator struct {
	store     *store.Store
	loader    *Loader
	parseOpts parser.Options
	log       zerolog.Logger
}

// NewCoordinator 创建导入协调器
func NewCoordinator(st *store.Store, n *normalizer.Normalizer, parseOpts parser.Options, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:     st,
		loader:    NewLoader(st, n, log),
		parseOpts: parseOpts,
		log:       log,
	}
}

// ImportOptions 导入选项
type ImportOptions struct {
	Files []string // .xlsx 工时表或 .json 文档
	Reset bool     // 导入前清空员工/项目/合同/工时四张表
	// Employee .json 文档对应的员工（"姓 名"），为空时从文件名推断
	Employee string
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/file_start/file_done/info/warning/error/done
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

// importContext 单次批量导入的上下文
type importContext struct {
	startTime    time.Time
	report       *parser.ImportReport
	progressChan chan ProgressEvent
}

// Import 执行导入，返回进度通道；最后一个事件为 done 或 error
func (c *Coordinator) Import(opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doImport(opts, progressChan)
	}()

	return progressChan
}

// Run 同步执行导入，丢弃中间进度
func (c *Coordinator) Run(opts ImportOptions) (*parser.ImportReport, error) {
	var (
		report *parser.ImportReport
		last   ProgressEvent
	)
	for evt := range c.Import(opts) {
		last = evt
		if r, ok := evt.Data.(*parser.ImportReport); ok {
			report = r
		}
	}
	if last.Type == "error" {
		return report, fmt.Errorf("import aborted: %s", last.Message)
	}
	return report, nil
}

func (c *Coordinator) doImport(opts ImportOptions, progressChan chan ProgressEvent) {
	ctx := &importContext{
		startTime:    time.Now(),
		progressChan: progressChan,
		report: &parser.ImportReport{
			RunID:      uuid.NewString(),
			TotalFiles: len(opts.Files),
			Files:      []parser.FileResult{},
		},
	}
	log := c.log.With().Str("run_id", ctx.report.RunID).Logger()

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "start",
		Message: fmt.Sprintf("开始导入 %d 个文件", len(opts.Files)),
		Data: map[string]interface{}{
			"run_id":      ctx.report.RunID,
			"total_files": len(opts.Files),
		},
		Timestamp: time.Now(),
	})
	log.Info().Int("files", len(opts.Files)).Bool("reset", opts.Reset).Msg("import started")

	if opts.Reset {
		if err := c.store.Reset(); err != nil {
			c.abort(ctx, fmt.Sprintf("清空数据失败: %v", err))
			log.Error().Err(err).Msg("reset failed")
			return
		}
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "info",
			Message:   "已清空员工、项目、合同与工时数据",
			Timestamp: time.Now(),
		})
	}

	for _, path := range opts.Files {
		result, err := c.processFile(ctx, path, opts)
		c.recordFileResult(ctx, result)

		ev := log.Info()
		if result.Status == StatusError {
			ev = log.Warn().Strs("errors", result.Errors)
		}
		ev.Str("file", result.Filename).
			Str("employee", result.Employee).
			Int("rows", result.ImportedRows).
			Int("skipped", sumSkipped(result.SkippedRows)).
			Str("status", result.Status).
			Msg("file processed")

		if err != nil && IsStoreFatal(err) {
			log.Error().Err(err).Str("file", result.Filename).Msg("store failure, aborting import")
			c.abort(ctx, fmt.Sprintf("存储不可用，导入中止: %v", err))
			return
		}
	}

	ctx.report.Duration = time.Since(ctx.startTime)
	c.saveRunState(ctx, log)

	log.Info().
		Int("imported", ctx.report.ImportedFiles).
		Int("failed", ctx.report.FailedFiles).
		Int("rows", ctx.report.ImportedRows).
		Dur("duration", ctx.report.Duration).
		Msg("import finished")

	progressChan <- ProgressEvent{
		Type:      "done",
		Message:   "导入完成",
		Data:      ctx.report,
		Timestamp: time.Now(),
	}
}

// processFile 处理单个文件；返回的 error 仅用于判断是否中止批次
func (c *Coordinator) processFile(ctx *importContext, path string, opts ImportOptions) (parser.FileResult, error) {
	start := time.Now()
	result := parser.FileResult{
		Filename: filepath.Base(path),
		Status:   StatusError,
	}

	c.sendProgress(ctx.progressChan, ProgressEvent{
		Type:    "file_start",
		Message: fmt.Sprintf("正在解析文件: %s", result.Filename),
		Data: map[string]string{
			"filename": result.Filename,
		},
		Timestamp: time.Now(),
	})

	logID, err := c.store.CreateImportLog(ctx.report.RunID, result.Filename)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		result.Duration = time.Since(start)
		return result, &StoreError{Op: "create import log", Err: err}
	}

	employee, doc, err := c.readDocument(path, opts, &result)
	if err == nil {
		result.Employee = strings.TrimSpace(employee.LastName + " " + employee.FirstName)
		if doc.ActivityCount() == 0 {
			result.Status = StatusSkipped
			result.Errors = append(result.Errors, "no activities found")
		} else {
			var loaded LoadResult
			loaded, err = c.loader.Load(employee, doc)
			result.EmployeeID = loaded.EmployeeID
			result.ImportedRows = loaded.Facts
			result.NewProjects = loaded.Stats.NewProjects
			result.NewContracts = loaded.Stats.NewContracts
			if err == nil {
				result.Status = StatusImported
			}
		}
	}
	if err != nil {
		result.Status = StatusError
		result.Errors = append(result.Errors, err.Error())
	}
	result.Duration = time.Since(start)

	if logErr := c.store.UpdateImportLog(logID, result.Employee, result.ImportedRows, sumSkipped(result.SkippedRows),
		result.Status, strings.Join(result.Errors, "; ")); logErr != nil && err == nil {
		err = &StoreError{Op: "update import log", Err: logErr}
	}

	c.sendProgress(ctx.progressChan, ProgressEvent{
		Type:      "file_done",
		Message:   fmt.Sprintf("文件 %s 处理完成: %s，写入 %d 条工时", result.Filename, result.Status, result.ImportedRows),
		Data:      result,
		Timestamp: time.Now(),
	})
	return result, err
}

// readDocument 读取 xlsx 工时表或 json 文档
func (c *Coordinator) readDocument(path string, opts ImportOptions, result *parser.FileResult) (parser.EmployeeName, model.Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		doc, err := ReadDocumentFile(path)
		if err != nil {
			return parser.EmployeeName{}, nil, err
		}
		name := opts.Employee
		if name == "" {
			name = employeeFromFilename(path)
		}
		employee, ok := parser.ParseEmployeeName(name)
		if !ok {
			return parser.EmployeeName{}, nil, fmt.Errorf("%w: no employee given for %s", parser.ErrEmployeeNotFound, filepath.Base(path))
		}
		return employee, doc, nil
	}

	ts, err := parser.ParseFile(path, c.parseOpts)
	if err != nil {
		return parser.EmployeeName{}, nil, err
	}
	result.Period = ts.Period
	result.SkippedRows = ts.Skipped
	return ts.Employee, ts.Document, nil
}

// ReadDocumentFile 读取 {"DD/MM/YYYY": [["label", hours], ...]} 格式的文档
func ReadDocumentFile(path string) (model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", filepath.Base(path), err)
	}
	if doc == nil {
		doc = model.Document{}
	}
	return doc, nil
}

// employeeFromFilename "Rossi_Mario.json" -> "Rossi Mario"
func employeeFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.ReplaceAll(stem, "_", " ")
}

// abort 发送终止事件
func (c *Coordinator) abort(ctx *importContext, message string) {
	ctx.report.Aborted = true
	ctx.report.Duration = time.Since(ctx.startTime)
	ctx.progressChan <- ProgressEvent{
		Type:      "error",
		Message:   message,
		Data:      ctx.report,
		Timestamp: time.Now(),
	}
}

// saveRunState 记录最近一次导入，失败只告警
func (c *Coordinator) saveRunState(ctx *importContext, log zerolog.Logger) {
	if err := c.store.SetSetting(store.SettingLastRunID, ctx.report.RunID); err != nil {
		log.Warn().Err(err).Msg("save last run id failed")
		return
	}
	if err := c.store.SetSetting(store.SettingLastRunAt, time.Now().Format(time.RFC3339)); err != nil {
		log.Warn().Err(err).Msg("save last run time failed")
	}
}

// recordFileResult 记录文件处理结果
func (c *Coordinator) recordFileResult(ctx *importContext, result parser.FileResult) {
	ctx.report.Files = append(ctx.report.Files, result)

	switch result.Status {
	case StatusImported:
		ctx.report.ImportedFiles++
	case StatusSkipped:
		ctx.report.SkippedFiles++
	default:
		ctx.report.FailedFiles++
	}
	ctx.report.ImportedRows += result.ImportedRows
	ctx.report.SkippedRows += sumSkipped(result.SkippedRows)
}

// sendProgress 发送进度事件
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}

func sumSkipped(m map[parser.SkipReason]int) int {
	n := 0
	for _, c := range m {
		n += c
	}
	return n
}
