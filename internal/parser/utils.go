package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	periodRe     = regexp.MustCompile(`MESE\s+DI\s+(\p{Lu}+)\s+(\d{4})`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// italianMonths 意大利语月份名 -> 月份
var italianMonths = map[string]int{
	"GENNAIO":   1,
	"FEBBRAIO":  2,
	"MARZO":     3,
	"APRILE":    4,
	"MAGGIO":    5,
	"GIUGNO":    6,
	"LUGLIO":    7,
	"AGOSTO":    8,
	"SETTEMBRE": 9,
	"OTTOBRE":   10,
	"NOVEMBRE":  11,
	"DICEMBRE":  12,
}

// ExtractPeriod 从 "Mese di GIUGNO 2025" 这样的文本中提取年月，不区分大小写
func ExtractPeriod(text string) (Period, bool) {
	m := periodRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(text)))
	if len(m) < 3 {
		return Period{}, false
	}
	month, ok := italianMonths[m[1]]
	if !ok {
		return Period{}, false
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return Period{}, false
	}
	return Period{Year: year, Month: month}, true
}

// FindPeriod 在前 maxRows 行中查找第一个包含 "Mese di" 的单元格并解析年月
func FindPeriod(rows [][]string, maxRows int) (Period, bool) {
	for i, row := range rows {
		if i >= maxRows {
			break
		}
		for _, cell := range row {
			if !strings.Contains(strings.ToUpper(cell), "MESE DI") {
				continue
			}
			// 第一个出现 "Mese di" 的单元格即为标题，解析失败不再继续找
			return ExtractPeriod(cell)
		}
	}
	return Period{}, false
}

// ParseEmployeeName 第一个词为姓，其余为名；多段姓氏会被拆错，只能人工修正
func ParseEmployeeName(cell string) (EmployeeName, bool) {
	parts := strings.Fields(cell)
	if len(parts) == 0 {
		return EmployeeName{}, false
	}
	return EmployeeName{
		LastName:  parts[0],
		FirstName: strings.Join(parts[1:], " "),
	}, true
}

// NormalizeColumnName 规范化列名：去首尾空白，换行转空格，压缩空白，转小写
func NormalizeColumnName(name string) string {
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\n", " ")
	name = whitespaceRe.ReplaceAllString(strings.TrimSpace(name), " ")
	return strings.ToLower(name)
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// cellAt 越界返回空串（excelize 会截掉行尾空单元格）
func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// isBlankRow 整行为空
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
