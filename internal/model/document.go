package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// Activity 一条原始活动：标签 + 工时
// JSON 形式为二元数组，如 ["Propa (834)", 6]
type Activity struct {
	Label string
	Hours int
}

// MarshalJSON 编码为 [label, hours]
func (a Activity) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{a.Label, a.Hours})
}

// UnmarshalJSON 解码 [label, hours]；工时可写成 6.0，但不接受 2.5 这样的非整数
func (a *Activity) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("activity must be a [label, hours] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("activity must have 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &a.Label); err != nil {
		return fmt.Errorf("activity label: %w", err)
	}
	var hours float64
	if err := json.Unmarshal(pair[1], &hours); err != nil {
		return fmt.Errorf("activity hours: %w", err)
	}
	if hours != math.Trunc(hours) {
		return fmt.Errorf("activity %q: hours must be a whole number, got %v", a.Label, hours)
	}
	a.Hours = int(hours)
	return nil
}

// Document 一名员工一个月的中间交换格式：日期 -> 活动列表（日期内保持原始顺序）
type Document map[string][]Activity

// Add 在指定日期下追加活动
func (d Document) Add(date string, acts ...Activity) {
	d[date] = append(d[date], acts...)
}

// ActivityCount 活动总数
func (d Document) ActivityCount() int {
	n := 0
	for _, acts := range d {
		n += len(acts)
	}
	return n
}
