package notes

import (
	"regexp"
	"strings"
)

const namePattern = `[A-Z][a-zA-Z'-]+(?:\s+[A-Z][a-zA-Z'-]+)?`

var (
	// <Name> will|to|is going to|needs to|should <rest>
	ownerSubject = regexp.MustCompile(`^(` + namePattern + `)\s+(?:will|to|is going to|needs to|should)\s+(.*)$`)
	actionPrefix = regexp.MustCompile(`(?i)^action\s*:\s*`)
	toPrefix     = regexp.MustCompile(`(?i)^to\s+\w+`)

	ownerHandle   = regexp.MustCompile(`(?:^|[\s(,;])@([A-Za-z0-9_-]+(?:\.[A-Za-z0-9_-]+)*)`)
	ownerTag      = regexp.MustCompile(`\b(?i:owner)\s*:\s*(@?[A-Za-z][\w'-]*(?:\s+[A-Z][\w'-]*)?)`)
	ownerAssigned = regexp.MustCompile(`\b(?i:assigned\s+to)\s+(@?[A-Za-z][\w'-]*(?:\s+[A-Z][\w'-]*)?)`)
	ownerSelf     = regexp.MustCompile(`(?i)\bi\s+will\b`)
	ownerTeam     = regexp.MustCompile(`(?i)\bwe\s+will\b`)

	isoDate = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	weekday = regexp.MustCompile(`(?i)\b(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tues?|wed|thu(?:rs?)?|fri|sat|sun)\b`)

	noteTag        = regexp.MustCompile(`(?i)\bnote\s*:\s*(.+)$`)
	trailingParens = regexp.MustCompile(`\(([^()]+)\)\s*$`)
)

const notesDashSeparator = " - "

// subjects that look like names at the start of a sentence but are not owners
var notOwners = map[string]bool{
	"We": true, "They": true, "It": true, "This": true, "That": true, "There": true,
	"Then": true, "Who": true, "What": true, "Everyone": true, "Someone": true,
}

// Parser 按词表编译好的行动项解析器，可并发使用
type Parser struct {
	vocab        Vocabulary
	verbs        *regexp.Regexp
	relativeDue  *regexp.Regexp
	ownerMarkers []string
	dueMarkers   []string
	vaguePhrases []string
}

// NewParser 编译词表
func NewParser(v Vocabulary) *Parser {
	v = DefaultVocabulary().Merge(v)
	return &Parser{
		vocab:        v,
		verbs:        wordAlternation(v.ActionVerbs),
		relativeDue:  wordAlternation(v.RelativeDue),
		ownerMarkers: lowerAll(v.OwnerMarkers),
		dueMarkers:   lowerAll(v.DueMarkers),
		vaguePhrases: lowerAll(v.VaguePhrases),
	}
}

// Vocabulary 返回生效中的词表
func (p *Parser) Vocabulary() Vocabulary {
	return p.vocab
}

var defaultParser = NewParser(DefaultVocabulary())

// ParseActionItems 使用默认词表解析行动项
func ParseActionItems(bullets []string) []ActionItem {
	return defaultParser.ParseActionItems(bullets)
}

// ParseActionItems 从 bullet 中挑出行动项并抽取负责人、截止日期和备注
// 没有任何 bullet 命中时，原样返回前 FallbackLimit 条
func (p *Parser) ParseActionItems(bullets []string) []ActionItem {
	items := make([]ActionItem, 0)
	for _, b := range bullets {
		if !p.IsActionCandidate(b) {
			continue
		}
		items = append(items, p.ParseActionItem(b))
		if p.vocab.MaxActionItems > 0 && len(items) >= p.vocab.MaxActionItems {
			break
		}
	}
	if len(items) > 0 {
		return items
	}

	for i, b := range bullets {
		if i >= p.vocab.FallbackLimit {
			break
		}
		items = append(items, ActionItem{Text: b})
	}
	return items
}

// IsActionCandidate 判断 bullet 是否像一个行动项
func (p *Parser) IsActionCandidate(bullet string) bool {
	s := StripMarker(bullet)
	return p.HasActionVerb(s) || p.HasOwnerSubject(s) || HasActionPrefix(s)
}

// HasActionVerb 整词匹配行动动词（"callback" 不算 "call"）
func (p *Parser) HasActionVerb(s string) bool {
	return p.verbs.MatchString(s)
}

// HasOwnerSubject matches "<Name> will|to|is going to|needs to|should ...".
func (p *Parser) HasOwnerSubject(s string) bool {
	_, _, ok := p.splitOwnerSubject(s)
	return ok
}

// HasActionPrefix matches "action:" or "to <word>" at the start.
func HasActionPrefix(s string) bool {
	s = strings.TrimSpace(s)
	return actionPrefix.MatchString(s) || toPrefix.MatchString(s)
}

// ParseActionItem 解析单个 bullet，不做候选判断
func (p *Parser) ParseActionItem(bullet string) ActionItem {
	cleaned := strings.TrimSpace(actionPrefix.ReplaceAllString(StripMarker(bullet), ""))
	if cleaned == "" {
		cleaned = strings.TrimSpace(bullet)
	}

	text := cleaned
	if _, rest, ok := p.splitOwnerSubject(cleaned); ok && strings.TrimSpace(rest) != "" {
		text = strings.TrimSpace(rest)
	}

	return ActionItem{
		Text:  text,
		Owner: p.ExtractOwner(cleaned),
		Due:   p.ExtractDue(cleaned),
		Notes: ExtractNotes(cleaned),
	}
}

// ExtractOwner 使用默认词表
func ExtractOwner(s string) string {
	return defaultParser.ExtractOwner(s)
}

// ExtractOwner 按优先级抽取负责人：@handle、owner:、assigned to、<Name> will，
// 最后退化为 "Me"（I will）或 "We"（we will）
func (p *Parser) ExtractOwner(s string) string {
	if m := ownerHandle.FindStringSubmatch(s); m != nil {
		return "@" + m[1]
	}
	if m := ownerTag.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := ownerAssigned.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if name, _, ok := p.splitOwnerSubject(s); ok {
		return name
	}
	if ownerSelf.MatchString(s) {
		return "Me"
	}
	if ownerTeam.MatchString(s) {
		return "We"
	}
	return ""
}

// ExtractDue 按优先级抽取截止日期：ISO 日期、相对时间词、星期
func (p *Parser) ExtractDue(s string) string {
	if m := isoDate.FindString(s); m != "" {
		return m
	}
	if m := p.relativeDue.FindString(s); m != "" {
		return m
	}
	return weekday.FindString(s)
}

// ExtractDue 使用默认词表
func ExtractDue(s string) string {
	return defaultParser.ExtractDue(s)
}

// ExtractNotes 按优先级抽取备注：" - " 之后、note: 之后、结尾括号内
func ExtractNotes(s string) string {
	if i := strings.Index(s, notesDashSeparator); i >= 0 {
		if n := strings.TrimSpace(s[i+len(notesDashSeparator):]); n != "" {
			return n
		}
	}
	if m := noteTag.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := trailingParens.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// splitOwnerSubject rejects imperative openings such as "Ask Maria to ..." whose
// first word is an action verb.
func (p *Parser) splitOwnerSubject(s string) (name, rest string, ok bool) {
	m := ownerSubject.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", "", false
	}
	first := strings.Fields(m[1])[0]
	if notOwners[first] || p.verbs.MatchString(first) {
		return "", "", false
	}
	return m[1], m[2], true
}
