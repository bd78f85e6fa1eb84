package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// activityRe 匹配 "6h_Propa (834)"：工时 + h_ + 到下一个逗号为止的标签
var activityRe = regexp.MustCompile(`(\d+)h_([^,]+)`)

// ExtractRow 将一行（日期单元格 + 活动描述）拆成条目，失败时只返回跳过原因
func ExtractRow(dayCell, activityText string, period Period) RowResult {
	day, ok := parseDay(dayCell)
	if !ok {
		return RowResult{Skip: SkipBadDate}
	}
	if period.Valid() && (day < 1 || day > period.DaysIn()) {
		return RowResult{Skip: SkipDayOutOfRange}
	}

	date := FormatDate(day, period)
	entries := ParseActivities(activityText, date)
	if len(entries) == 0 {
		return RowResult{Skip: SkipNoActivity}
	}
	return RowResult{Entries: entries}
}

// Extract 只返回条目，跳过的行返回空切片
func Extract(dayCell, activityText string, period Period) []Entry {
	return ExtractRow(dayCell, activityText, period).Entries
}

// ParseActivities 扫描所有 "<n>h_<label>" 片段，不匹配的部分直接忽略
func ParseActivities(text, date string) []Entry {
	matches := activityRe.FindAllStringSubmatch(text, -1)
	entries := make([]Entry, 0, len(matches))
	for _, m := range matches {
		hours, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		label := strings.TrimSpace(m[2])
		if label == "" {
			continue
		}
		entries = append(entries, Entry{Date: date, Label: label, Hours: hours})
	}
	return entries
}

// FormatDate 输出 DD/MM/YYYY
func FormatDate(day int, period Period) string {
	return fmt.Sprintf("%02d/%02d/%d", day, period.Month, period.Year)
}

// parseDay 接受整数或小数（如 "3"、"3.0"、"3,0"），小数部分截断
func parseDay(cell string) (int, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
