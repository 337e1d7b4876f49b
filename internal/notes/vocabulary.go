package notes

import (
	"regexp"
	"strings"
)

// Vocabulary 启发式规则使用的词表与阈值
// 这些列表经常调整，所以集中放在这里并允许通过配置覆盖
type Vocabulary struct {
	// ActionVerbs 行动动词（整词匹配）
	ActionVerbs []string `yaml:"action_verbs"`
	// RelativeDue 相对时间词（today, next week ...）
	RelativeDue []string `yaml:"relative_due"`
	// OwnerMarkers 出现即视为已有负责人的子串（不区分大小写）
	OwnerMarkers []string `yaml:"owner_markers"`
	// DueMarkers 出现即视为已有截止日期的子串（不区分大小写）
	DueMarkers []string `yaml:"due_markers"`
	// VaguePhrases 含糊措辞
	VaguePhrases []string `yaml:"vague_phrases"`
	// VagueMinLength 行动文本短于该长度视为含糊
	VagueMinLength int `yaml:"vague_min_length"`
	// FallbackLimit 没有任何行动项时原样返回的 bullet 数
	FallbackLimit int `yaml:"fallback_limit"`
	// MaxActionItems 输出列表长度上限（UX 选择，0 表示不限制）
	MaxActionItems int `yaml:"max_action_items"`
}

// DefaultVocabulary 返回默认词表
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		ActionVerbs: []string{
			"follow up", "send", "share", "email", "schedule", "book", "call",
			"confirm", "ask", "create", "update", "review", "meet", "prepare",
			"decide", "draft", "finalize", "fix", "ship", "deliver", "contact",
		},
		RelativeDue:    []string{"today", "tomorrow", "this week", "next week", "end of day", "eod", "eow"},
		OwnerMarkers:   []string{"@", "owner:", "assigned to", "i will", "we will"},
		DueMarkers:     []string{"today", "tomorrow", "next week"},
		VaguePhrases:   []string{"look into", "check on", "touch base"},
		VagueMinLength: 20,
		FallbackLimit:  5,
		MaxActionItems: 8,
	}
}

// Merge 用 o 中非空的字段覆盖 v
func (v Vocabulary) Merge(o Vocabulary) Vocabulary {
	if len(o.ActionVerbs) > 0 {
		v.ActionVerbs = o.ActionVerbs
	}
	if len(o.RelativeDue) > 0 {
		v.RelativeDue = o.RelativeDue
	}
	if len(o.OwnerMarkers) > 0 {
		v.OwnerMarkers = o.OwnerMarkers
	}
	if len(o.DueMarkers) > 0 {
		v.DueMarkers = o.DueMarkers
	}
	if len(o.VaguePhrases) > 0 {
		v.VaguePhrases = o.VaguePhrases
	}
	if o.VagueMinLength > 0 {
		v.VagueMinLength = o.VagueMinLength
	}
	if o.FallbackLimit > 0 {
		v.FallbackLimit = o.FallbackLimit
	}
	if o.MaxActionItems != 0 {
		v.MaxActionItems = o.MaxActionItems
	}
	if v.MaxActionItems < 0 {
		v.MaxActionItems = 0
	}
	return v
}

// wordAlternation builds `\b(?:a|b c)\b` from phrases; inner spaces also accept hyphens.
func wordAlternation(words []string) *regexp.Regexp {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(strings.ToLower(w))
		if w == "" {
			continue
		}
		fields := strings.Fields(w)
		for i := range fields {
			fields[i] = regexp.QuoteMeta(fields[i])
		}
		parts = append(parts, strings.Join(fields, `[\s-]+`))
	}
	if len(parts) == 0 {
		// never matches
		return regexp.MustCompile(`\b\B`)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(parts, "|") + `)\b`)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
