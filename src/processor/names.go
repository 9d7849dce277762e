package processor

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalizer 机场名称规范化: 先转为首字母大写, 再查名称表
type Normalizer struct {
	names map[string]string
	title cases.Caser
}

// NewNormalizer names 来自 DataConfig.GetNames(), 键为首字母大写后的名称
func NewNormalizer(names map[string]string) *Normalizer {
	copied := make(map[string]string, len(names))
	for k, v := range names {
		copied[k] = v
	}
	return &Normalizer{
		names: copied,
		title: cases.Title(language.Spanish),
	}
}

// Canonical "SAN JOSE DEL CABO" -> "San José del Cabo"
func (n *Normalizer) Canonical(raw string) string {
	titled := n.title.String(strings.TrimSpace(raw))
	if name, ok := n.names[titled]; ok {
		return name
	}
	return titled
}

// MonthLabeler 返回将月份键 "1".."12" 替换为本地化缩写的函数, 其他键原样返回
func MonthLabeler(names []string) func(string) string {
	return func(key string) string {
		m, err := strconv.Atoi(key)
		if err != nil || m < 1 || m > len(names) {
			return key
		}
		return names[m-1]
	}
}
