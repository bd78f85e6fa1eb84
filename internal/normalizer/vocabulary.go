package normalizer

// DefaultThreshold 模糊匹配的最低相似度
const DefaultThreshold = 0.80

// Vocabulary 项目词表（启动时加载一次，之后只读）
type Vocabulary struct {
	// Aliases 已知写法 -> 规范项目名，键不区分大小写
	Aliases map[string]string `toml:"aliases" json:"aliases"`
	// Canonical 规范项目名列表，顺序决定模糊匹配并列时的优先级
	Canonical []string `toml:"canonical_projects" json:"canonicalProjects"`
	// Threshold 模糊匹配阈值，<= 0 时使用 DefaultThreshold
	Threshold float64 `toml:"fuzzy_threshold" json:"fuzzyThreshold"`
}

// DefaultVocabulary 内置词表
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Aliases: map[string]string{
			"propa":       "Propa",
			"propa(834)":  "Propa",
			"propa (834)": "Propa",

			"attivitàinterne":              "AttivitàInterne",
			"attivitàinternre":             "AttivitàInterne",
			"attività_interne":             "AttivitàInterne",
			"attivitàinterne(innovation)":  "AttivitàInterne(Innovation)",
			"attività_interne(innovation)": "AttivitàInterne(Innovation)",
			"attività_interne(hubilities)": "AttivitàInterne(Hubilities)",
			"attivitàinterne(hubilities)":  "AttivitàInterne(Hubilities)",

			"ecumsi project":       "EcuMSI Project",
			"ecumsi project (777)": "EcuMSI Project",
			"ecumsi project(777)":  "EcuMSI Project",

			"formazione(fabric)": "Formazione(Fabric)",
			"digital_innovation": "Digital_Innovation",
		},
		Canonical: []string{
			"Propa",
			"AttivitàInterne",
			"AttivitàInterne(Innovation)",
			"AttivitàInterne(Hubilities)",
			"EcuMSI Project",
			"Formazione(Fabric)",
			"Digital_Innovation",
		},
		Threshold: DefaultThreshold,
	}
}

// Merge 用 other 中的非空配置覆盖/扩展当前词表，返回新词表
func (v Vocabulary) Merge(other Vocabulary) Vocabulary {
	out := Vocabulary{
		Aliases:   make(map[string]string, len(v.Aliases)+len(other.Aliases)),
		Canonical: append([]string(nil), v.Canonical...),
		Threshold: v.Threshold,
	}
	for k, val := range v.Aliases {
		out.Aliases[k] = val
	}
	for k, val := range other.Aliases {
		out.Aliases[k] = val
	}

	seen := make(map[string]bool, len(out.Canonical))
	for _, name := range out.Canonical {
		seen[name] = true
	}
	for _, name := range other.Canonical {
		if !seen[name] {
			seen[name] = true
			out.Canonical = append(out.Canonical, name)
		}
	}

	if other.Threshold > 0 {
		out.Threshold = other.Threshold
	}
	return out
}
