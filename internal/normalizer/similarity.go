package normalizer

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity 基于编辑距离的相似度，范围 0-1，对称，完全相同为 1
func Similarity(a, b string) float64 {
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
