package parser

import "github.com/xuri/excelize/v2"

// maxHeaderScan 表头自动定位时扫描的最大行数
const maxHeaderScan = 15

// SheetRecognitionResult 工时表识别结果
type SheetRecognitionResult struct {
	SheetName  string        `json:"sheetName"`
	HeaderRow  int           `json:"headerRow"` // 1-based
	Columns    ColumnMapping `json:"columns"`
	Period     Period        `json:"period"`
	Confidence float64       `json:"confidence"` // 0-1
}

// SheetRecognizer 定位工时表所在 Sheet 与表头行
type SheetRecognizer struct {
	preferredSheet string
	headerRow      int
}

// NewSheetRecognizer 创建识别器；preferredSheet 不存在时会在所有 Sheet 中挑选置信度最高的
func NewSheetRecognizer(preferredSheet string, headerRow int) *SheetRecognizer {
	return &SheetRecognizer{preferredSheet: preferredSheet, headerRow: headerRow}
}

// RecognizeFile 选择工时表 Sheet
func (r *SheetRecognizer) RecognizeFile(f *excelize.File) (SheetRecognitionResult, [][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return SheetRecognitionResult{}, nil, ErrSheetNotFound
	}

	if r.preferredSheet != "" {
		if idx, _ := f.GetSheetIndex(r.preferredSheet); idx >= 0 {
			rows, err := f.GetRows(r.preferredSheet)
			if err != nil {
				return SheetRecognitionResult{}, nil, err
			}
			return r.Recognize(r.preferredSheet, rows), rows, nil
		}
	}

	var (
		best     SheetRecognitionResult
		bestRows [][]string
		found    bool
	)
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		res := r.Recognize(sheet, rows)
		if !found || res.Confidence > best.Confidence {
			best, bestRows, found = res, rows, true
		}
	}
	if !found {
		return SheetRecognitionResult{}, nil, ErrSheetNotFound
	}
	return best, bestRows, nil
}

// Recognize 识别单个 Sheet：年月标题占 0.5，日期列与活动列各占 0.25
func (r *SheetRecognizer) Recognize(sheetName string, rows [][]string) SheetRecognitionResult {
	res := SheetRecognitionResult{SheetName: sheetName, Columns: ColumnMapping{DateCol: -1, ActivityCol: -1}}

	if period, ok := FindPeriod(rows, 5); ok {
		res.Period = period
		res.Confidence += 0.5
	}

	headerIdx, mapping := r.locateHeader(rows)
	if headerIdx >= 0 {
		res.HeaderRow = headerIdx + 1
	}
	res.Columns = mapping
	if mapping.DateCol >= 0 {
		res.Confidence += 0.25
	}
	if mapping.ActivityCol >= 0 {
		res.Confidence += 0.25
	}
	return res
}

// locateHeader 优先使用配置的表头行，找不到时在前几行中搜索
func (r *SheetRecognizer) locateHeader(rows [][]string) (int, ColumnMapping) {
	if r.headerRow > 0 && r.headerRow <= len(rows) {
		if m := MapColumns(rows[r.headerRow-1]); m.Found() {
			return r.headerRow - 1, m
		}
	}

	partialIdx := -1
	partial := ColumnMapping{DateCol: -1, ActivityCol: -1}
	for i := 0; i < len(rows) && i < maxHeaderScan; i++ {
		m := MapColumns(rows[i])
		if m.Found() {
			return i, m
		}
		if partialIdx < 0 && (m.DateCol >= 0 || m.ActivityCol >= 0) {
			partialIdx, partial = i, m
		}
	}
	return partialIdx, partial
}
