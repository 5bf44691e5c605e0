package utils

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// 括号类型按顺序尝试
var openBrackets = []string{"(", "（", "[", "【"}

const closeBrackets = ")）]】"

// minMatchLen 参与匹配的片段最少字符数（不含）
const minMatchLen = 2

// ReferenceSet 参考名单（同业基金、已投项目等）
type ReferenceSet []string

// SplitCompanyName 把公司名拆成中文主名和括号中的英文名
// 如 "京东方科技 (BOE Technology)" -> ["京东方科技", "BOE Technology"]
func SplitCompanyName(name string) []string {
	name = strings.TrimSpace(name)
	for _, open := range openBrackets {
		idx := strings.Index(name, open)
		if idx < 0 {
			continue
		}

		rest := name[idx+len(open):]
		// 只取到下一个同类左括号为止
		if next := strings.Index(rest, open); next >= 0 {
			rest = rest[:next]
		}
		if end := strings.IndexAny(rest, closeBrackets); end >= 0 {
			rest = rest[:end]
		}
		english := strings.TrimSpace(rest)
		if !isLikelyEnglish(english) {
			continue
		}

		var parts []string
		if chinese := strings.TrimSpace(name[:idx]); chinese != "" {
			parts = append(parts, chinese)
		}
		return append(parts, english)
	}
	return []string{name}
}

// isLikelyEnglish 含有ASCII字符即视为英文
func isLikelyEnglish(s string) bool {
	for _, r := range s {
		if r < utf8.RuneSelf {
			return true
		}
	}
	return false
}

// MatchesReference 判断公司名是否命中参考名单（双向子串，忽略过短片段）
func MatchesReference(name string, refs ReferenceSet) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	parts := SplitCompanyName(name)

	for _, ref := range refs {
		for _, refPart := range SplitCompanyName(ref) {
			if utf8.RuneCountInString(refPart) <= minMatchLen {
				continue
			}
			for _, part := range parts {
				if strings.Contains(part, refPart) {
					return true
				}
				if utf8.RuneCountInString(part) > minMatchLen && strings.Contains(refPart, part) {
					return true
				}
			}
		}
	}
	return false
}

// NameVariants 生成用于查询公司ID的名称变体，按顺序尝试
// 1. 原名 2. 括号两侧加空格 3. 去掉括号内容
func NameVariants(name string) []string {
	name = strings.TrimSpace(name)
	variants := []string{name}

	folded := foldBrackets(name)
	if !strings.Contains(folded, "(") {
		return variants
	}

	spaced := strings.ReplaceAll(folded, "(", " (")
	spaced = strings.ReplaceAll(spaced, ")", ") ")
	variants = appendUnique(variants, collapseSpaces(spaced))

	if stripped := stripBracketed(folded); stripped != "" {
		variants = appendUnique(variants, stripped)
	}
	return variants
}

// foldBrackets 全角括号转半角，其余字符不变
func foldBrackets(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '（' || r == '）' {
			return []rune(width.Narrow.String(string(r)))[0]
		}
		return r
	}, s)
}

// stripBracketed 去掉第一个括号段
func stripBracketed(s string) string {
	start := strings.Index(s, "(")
	end := strings.Index(s, ")")
	if start < 0 {
		return collapseSpaces(s)
	}
	if end < start {
		return collapseSpaces(s[:start])
	}
	return collapseSpaces(s[:start] + " " + s[end+1:])
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
