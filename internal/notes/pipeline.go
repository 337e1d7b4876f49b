package notes

// Analysis 一次完整解析的中间结果
type Analysis struct {
	Bullets     []string      `json:"bullets"`
	ActionItems []ActionItem  `json:"actionItems"`
	Issues      []ActionIssue `json:"issues"`
	Counts      IssueCounts   `json:"counts"`
}

// Analyze raw text -> bullets -> action items -> issues
func (p *Parser) Analyze(raw string) Analysis {
	bullets := ToBullets(raw)
	items := p.ParseActionItems(bullets)
	return Analysis{
		Bullets:     bullets,
		ActionItems: items,
		Issues:      p.DetectActionIssues(items),
		Counts:      p.CountIssues(items),
	}
}

// Outputs 渲染摘要和行动项；邮件是单独的一步，这里留空
func (a Analysis) Outputs() Outputs {
	return Outputs{
		Summary:     MakeSummary(a.Bullets),
		ActionItems: FormatActionItems(a.ActionItems, a.Issues),
	}
}

// Analyze 使用默认词表
func Analyze(raw string) Analysis {
	return defaultParser.Analyze(raw)
}
