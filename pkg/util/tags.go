package util

import "strings"

// TagSeparator 编辑表单中回显标签使用的分隔符
const TagSeparator = ", "

// SplitTags splits the comma separated form input into trimmed tags
// SplitTags 将逗号分隔的标签输入拆分为去除首尾空白的标签列表
// "a, b ,c" -> ["a","b","c"]，空段会被丢弃，空输入返回空切片
func SplitTags(input string) []string {
	parts := strings.Split(input, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		tags = append(tags, p)
	}
	return tags
}

// JoinTags 将标签列表拼回表单输入，nil 返回空字符串
func JoinTags(tags []string) string {
	return strings.Join(tags, TagSeparator)
}

// TagsSearchText 搜索时匹配用的标签文本（空格拼接）
func TagsSearchText(tags []string) string {
	return strings.Join(tags, " ")
}
