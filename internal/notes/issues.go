package notes

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DetectActionIssues 使用默认词表检查行动项
func DetectActionIssues(items []ActionItem) []ActionIssue {
	return defaultParser.DetectActionIssues(items)
}

// DetectActionIssues 逐项检查缺少负责人、缺少截止日期和措辞含糊；
// 三项检查互相独立，一个行动项可能产生 0 到 3 个问题
func (p *Parser) DetectActionIssues(items []ActionItem) []ActionIssue {
	issues := make([]ActionIssue, 0)
	for i, it := range items {
		n := i + 1
		if p.MissingOwner(it) {
			issues = append(issues, ActionIssue{
				Type:    IssueMissingOwner,
				Item:    n,
				Message: fmt.Sprintf("Item %d has no owner: %q", n, it.Text),
			})
		}
		if p.MissingDueDate(it) {
			issues = append(issues, ActionIssue{
				Type:    IssueMissingDueDate,
				Item:    n,
				Message: fmt.Sprintf("Item %d has no due date: %q", n, it.Text),
			})
		}
		if p.IsVague(it) {
			issues = append(issues, ActionIssue{
				Type:    IssueVague,
				Item:    n,
				Message: fmt.Sprintf("Item %d is vague, make it more specific: %q", n, it.Text),
			})
		}
	}
	return issues
}

// MissingOwner 没有抽取到负责人，且文本里也没有负责人线索
func (p *Parser) MissingOwner(it ActionItem) bool {
	if strings.TrimSpace(it.Owner) != "" {
		return false
	}
	return !containsAny(strings.ToLower(it.Text), p.ownerMarkers)
}

// MissingDueDate 没有抽取到截止日期，且文本里也没有日期线索
func (p *Parser) MissingDueDate(it ActionItem) bool {
	if strings.TrimSpace(it.Due) != "" {
		return false
	}
	lower := strings.ToLower(it.Text)
	if containsAny(lower, p.dueMarkers) {
		return false
	}
	return !weekday.MatchString(it.Text) && !isoDate.MatchString(it.Text)
}

// IsVague 文本过短或包含含糊措辞
func (p *Parser) IsVague(it ActionItem) bool {
	if utf8.RuneCountInString(strings.TrimSpace(it.Text)) < p.vocab.VagueMinLength {
		return true
	}
	return containsAny(strings.ToLower(it.Text), p.vaguePhrases)
}

// CountIssues 使用默认词表
func CountIssues(items []ActionItem) IssueCounts {
	return defaultParser.CountIssues(items)
}

// CountIssues 聚合视图；MissingVerb 统计没有行动动词的条目（通常来自兜底结果）
func (p *Parser) CountIssues(items []ActionItem) IssueCounts {
	var c IssueCounts
	for _, issue := range p.DetectActionIssues(items) {
		switch issue.Type {
		case IssueMissingOwner:
			c.MissingOwners++
		case IssueMissingDueDate:
			c.MissingDue++
		case IssueVague:
			c.Weak++
		}
	}
	for _, it := range items {
		if !p.HasActionVerb(it.Text) {
			c.MissingVerb++
		}
	}
	return c
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
