// Package facts 把按日期分组的原始活动展开为规范化的事实行
package facts

import (
	"sort"
	"time"

	"intellisheet/internal/model"
	"intellisheet/internal/normalizer"
)

const isoDateLayout = "2006-01-02"

// sourceDateLayouts 日和月可以不补零，如 3/6/2025
var sourceDateLayouts = []string{"02/01/2006", "2/1/2006"}

// Build 按日期升序展开文档，同一日期内保持活动原有顺序；不去重也不汇总
func Build(doc model.Document, n *normalizer.Normalizer) []model.FactRow {
	type dated struct {
		key string
		iso string
	}

	dates := make([]dated, 0, len(doc))
	for key := range doc {
		dates = append(dates, dated{key: key, iso: ToISODate(key)})
	}
	sort.Slice(dates, func(i, j int) bool {
		if dates[i].iso != dates[j].iso {
			return dates[i].iso < dates[j].iso
		}
		return dates[i].key < dates[j].key
	})

	rows := make([]model.FactRow, 0, doc.ActivityCount())
	for _, d := range dates {
		for _, act := range doc[d.key] {
			res := n.Normalize(act.Label)
			rows = append(rows, model.FactRow{
				Date:         d.iso,
				Project:      res.Project,
				ContractCode: res.ContractCode,
				Hours:        act.Hours,
			})
		}
	}
	return rows
}

// ToISODate DD/MM/YYYY -> YYYY-MM-DD，已是 ISO 或无法解析时原样返回
func ToISODate(date string) string {
	for _, layout := range sourceDateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format(isoDateLayout)
		}
	}
	return date
}
