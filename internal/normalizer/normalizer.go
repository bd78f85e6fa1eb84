// Package normalizer 将人工填写的活动标签映射为规范项目名和可选的合同编号
package normalizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	contractCodeRe = regexp.MustCompile(`\((\d+)\)`)
	codeStripRe    = regexp.MustCompile(`\s*\(\d+\)`)
	underscoresRe  = regexp.MustCompile(`_+`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// MatchKind 命中方式
type MatchKind string

const (
	MatchAlias       MatchKind = "alias"
	MatchFuzzy       MatchKind = "fuzzy"
	MatchPassthrough MatchKind = "passthrough"
)

// Result 规范化结果
type Result struct {
	Project      string    `json:"project"`
	ContractCode string    `json:"contractCode,omitempty"` // 空串表示无编号
	Kind         MatchKind `json:"kind"`
	Score        float64   `json:"score,omitempty"` // 仅模糊匹配时有值
}

// Normalizer 标签规范化器，构造后只读，可并发使用
type Normalizer struct {
	aliases   map[string]string
	canonical []string
	folded    []string
	threshold float64
}

// New 使用给定词表创建规范化器
func New(vocab Vocabulary) *Normalizer {
	n := &Normalizer{
		aliases:   make(map[string]string, len(vocab.Aliases)),
		canonical: append([]string(nil), vocab.Canonical...),
		folded:    make([]string, len(vocab.Canonical)),
		threshold: vocab.Threshold,
	}
	if n.threshold <= 0 {
		n.threshold = DefaultThreshold
	}
	for raw, target := range vocab.Aliases {
		n.aliases[foldLabel(raw)] = target
	}
	for i, name := range n.canonical {
		n.folded[i] = foldLabel(name)
	}
	return n
}

// Normalize 按 编号提取 -> 别名表 -> 模糊匹配 -> 原样清洗 的顺序处理，永不失败
func (n *Normalizer) Normalize(raw string) Result {
	code := ExtractContractCode(raw)

	full := foldLabel(raw)
	stripped := strings.TrimSpace(codeStripRe.ReplaceAllString(full, ""))

	if target, ok := n.aliases[stripped]; ok {
		return Result{Project: target, ContractCode: code, Kind: MatchAlias}
	}
	if target, ok := n.aliases[full]; ok {
		return Result{Project: target, ContractCode: code, Kind: MatchAlias}
	}

	best := -1
	bestScore := 0.0
	for i, candidate := range n.folded {
		score := Similarity(stripped, candidate)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 && bestScore >= n.threshold {
		return Result{Project: n.canonical[best], ContractCode: code, Kind: MatchFuzzy, Score: bestScore}
	}

	return Result{Project: CleanLabel(raw), ContractCode: code, Kind: MatchPassthrough}
}

// Canonical 规范项目名列表（副本）
func (n *Normalizer) Canonical() []string {
	return append([]string(nil), n.canonical...)
}

// ExtractContractCode 提取括号中的数字作为合同编号，如 "Propa (834)" -> "834"
func ExtractContractCode(raw string) string {
	m := contractCodeRe.FindStringSubmatch(raw)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// CleanLabel 保留原始大小写，去除首尾空白并压缩重复的下划线与空白
func CleanLabel(raw string) string {
	s := strings.TrimSpace(norm.NFC.String(raw))
	s = underscoresRe.ReplaceAllString(s, "_")
	return whitespaceRe.ReplaceAllString(s, " ")
}

// foldLabel NFC + 小写 + 去首尾空白，用于匹配
func foldLabel(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	return cases.Lower(language.Und).String(s)
}
