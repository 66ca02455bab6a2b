// Package writing 提供富文本归一化与字数增量追踪
package writing

import (
	"html"
	"strings"
)

// ToPlainText 将编辑器富文本转换为纯文本
//
// 只保留文本节点：标签被移除并以空白分隔，实体被解码，
// 连续空白折叠为单个空格。图片等非文本元素不贡献任何文本。
func ToPlainText(rich string) string {
	if rich == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(rich))
	inTag := false
	for _, r := range rich {
		switch {
		case r == '<':
			inTag = true
			// 标签边界视为空白，避免相邻块的文本粘连
			b.WriteByte(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(html.UnescapeString(b.String())), " ")
}

// CountWords 统计纯文本的词数
//
// 按空白切分，空 token 不计。
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// CountContentWords 统计富文本内容的词数
func CountContentWords(rich string) int {
	return CountWords(ToPlainText(rich))
}
