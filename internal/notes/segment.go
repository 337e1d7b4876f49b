package notes

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// proseMinLength 单行输入超过该长度时按句子切分
const proseMinLength = 80

var (
	blankRun        = regexp.MustCompile(`[ \t]+`)
	sentenceBreak   = regexp.MustCompile(`[.!?]\s+[A-Z0-9(]`)
	inlineGlyph     = regexp.MustCompile(`[•·]`)
	leadingMarker   = regexp.MustCompile(`^(?:[*•-]|\d+[.)]|\[[ xX]\])\s+`)
	inlineSplitters = []func(string) []string{
		func(s string) []string { return inlineGlyph.Split(s, -1) },
		func(s string) []string { return strings.Split(s, " - ") },
		func(s string) []string { return strings.Split(s, " | ") },
	}
)

// Normalize 把不换行空格换成普通空格，合并连续的空格/制表符并去掉首尾空白
func Normalize(line string) string {
	line = strings.ReplaceAll(line, "\u00a0", " ")
	return strings.TrimSpace(blankRun.ReplaceAllString(line, " "))
}

// ToBullets 把原始笔记切分成有序、去重的 bullet 列表
// 没有可用内容时返回空切片（不是 nil），调用方应提示用户而不是报错
func ToBullets(raw string) []string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}

	var candidates []string
	if len(lines) <= 1 && utf8.RuneCountInString(lines[0]) > proseMinLength {
		// 句子内部同样按内联分隔符切分，重新切分已输出的 bullet 时结果不变
		for _, sentence := range splitSentences(Normalize(lines[0])) {
			candidates = append(candidates, splitInline(sentence)...)
		}
	} else {
		for _, l := range lines {
			candidates = append(candidates, splitInline(Normalize(l))...)
		}
	}

	bullets := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = Normalize(StripMarker(c))
		if c != "" {
			bullets = append(bullets, c)
		}
	}
	return Dedupe(bullets)
}

// StripMarker 去掉行首的 bullet/编号/复选框标记
func StripMarker(s string) string {
	return leadingMarker.ReplaceAllString(strings.TrimSpace(s), "")
}

// Dedupe 按不区分大小写、空白归一后的文本去重，保留首次出现的顺序
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		key := strings.ToLower(Normalize(it))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

// splitSentences splits after . ! or ? when followed by whitespace and a capital, digit or "(".
func splitSentences(text string) []string {
	var out []string
	start := 0
	for _, loc := range sentenceBreak.FindAllStringIndex(text, -1) {
		out = append(out, text[start:loc[0]+1])
		// the last matched byte is the ASCII start of the next sentence
		start = loc[1] - 1
	}
	return append(out, text[start:])
}

func splitInline(line string) []string {
	parts := []string{line}
	for _, split := range inlineSplitters {
		var next []string
		for _, p := range parts {
			next = append(next, split(p)...)
		}
		parts = next
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{line}
	}
	return out
}
