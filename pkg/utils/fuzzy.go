package utils

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/xrash/smetrics"
	"golang.org/x/text/cases"
)

// FuzzyThreshold 模糊匹配阈值 (0-100)
const FuzzyThreshold = 50

var folder = cases.Fold()

// FuzzyMatch token set 相似度是否达到阈值
func FuzzyMatch(a, b string) bool {
	return TokenSetRatio(a, b) >= FuzzyThreshold
}

// TokenSetRatio 计算两个字符串的 token set 相似度 (0-100)
// 与词序无关：先取交集 token 作为公共前缀，再与各自剩余 token 拼接后两两比较，取最大值
func TokenSetRatio(a, b string) int {
	p1, p2 := normalize(a), normalize(b)
	if p1 == "" || p2 == "" {
		return 0
	}

	t1, t2 := tokenSet(p1), tokenSet(p2)

	var sect, diff1, diff2 []string
	for tok := range t1 {
		if _, ok := t2[tok]; ok {
			sect = append(sect, tok)
		} else {
			diff1 = append(diff1, tok)
		}
	}
	for tok := range t2 {
		if _, ok := t1[tok]; !ok {
			diff2 = append(diff2, tok)
		}
	}
	sort.Strings(sect)
	sort.Strings(diff1)
	sort.Strings(diff2)

	sortedSect := strings.Join(sect, " ")
	combined1 := strings.TrimSpace(sortedSect + " " + strings.Join(diff1, " "))
	combined2 := strings.TrimSpace(sortedSect + " " + strings.Join(diff2, " "))

	best := ratio(sortedSect, combined1)
	if r := ratio(sortedSect, combined2); r > best {
		best = r
	}
	if r := ratio(combined1, combined2); r > best {
		best = r
	}
	return best
}

// normalize 大小写折叠，非字母数字替换为空格
func normalize(s string) string {
	s = folder.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
	return strings.TrimSpace(s)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

// ratio indel 相似度 (0-100)，四舍五入到整数
// 替换代价记为 2，编辑距离即只做增删时的距离
func ratio(a, b string) int {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	dist := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return int(math.Round(100 * float64(total-dist) / float64(total)))
}
