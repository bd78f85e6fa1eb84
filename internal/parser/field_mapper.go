package parser

import "strings"

// 列名关键词（规范化后比较）
var (
	dateColumnNames     = []string{"data", "giorno", "gg"}
	activityColumnNames = []string{"descrizione attività svolta", "descrizione attivita svolta", "descrizione attività", "attività svolta"}
)

// ColumnMapping 工时表中日期列与活动描述列的位置
type ColumnMapping struct {
	DateCol     int `json:"dateCol"`
	ActivityCol int `json:"activityCol"`
}

// Found 两列是否都已找到
func (m ColumnMapping) Found() bool {
	return m.DateCol >= 0 && m.ActivityCol >= 0
}

// MapColumns 根据表头定位日期列和活动描述列，精确匹配优先于包含匹配
func MapColumns(headers []string) ColumnMapping {
	mapping := ColumnMapping{DateCol: -1, ActivityCol: -1}

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeColumnName(h)
	}

	for idx, col := range normalized {
		if mapping.DateCol < 0 && isDateColumn(col) {
			mapping.DateCol = idx
		}
	}

	for _, exact := range []bool{true, false} {
		for idx, col := range normalized {
			if mapping.ActivityCol >= 0 {
				break
			}
			if idx == mapping.DateCol || col == "" {
				continue
			}
			if exact && col == activityColumnNames[0] {
				mapping.ActivityCol = idx
			}
			if !exact && ContainsAny(col, activityColumnNames) {
				mapping.ActivityCol = idx
			}
		}
	}

	return mapping
}

func isDateColumn(col string) bool {
	for _, name := range dateColumnNames {
		if col == name {
			return true
		}
	}
	return strings.HasPrefix(col, "data ")
}
