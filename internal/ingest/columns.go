package ingest

import (
	"strings"
)

// columnAliases 逻辑字段 -> 按优先级排列的可接受表头别名（大小写不敏感）。
// 上游导出可能更换列名，新增别名只需要改这张表
var columnAliases = map[string][]string{
	"date":            {"DATE"},
	"post_date":       {"POST DATE", "DATE", "PUBLISHED", "POST PUBLISHED DATE"},
	"title":           {"POST TITLE", "TITLE", "POST TEXT"},
	"impressions":     {"IMPRESSIONS"},
	"members_reached": {"MEMBERS REACHED"},
	"reactions":       {"REACTIONS"},
	"comments":        {"COMMENTS"},
	"shares":          {"SHARES"},
	"clicks":          {"CLICKS"},
	"post_id":         {"POST ID", "LINKEDIN POST ID"},
	"post_type":       {"POST TYPE", "TYPE", "CONTENT TYPE"},
	"total_followers": {"TOTAL FOLLOWERS", "FOLLOWERS", "TOTAL"},
	"new_followers":   {"NEW FOLLOWERS", "NET NEW FOLLOWERS"},
	"category":        {"CATEGORY"},
	"value":           {"VALUE", "SEGMENT"},
	"percentage":      {"PERCENTAGE", "%"},
}

// columnIndex 表头行到列序号的映射，key 为去空格后的大写表头
type columnIndex map[string]int

// buildColumnIndex 从表头行构建列映射
func buildColumnIndex(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, cell := range header {
		name := strings.ToUpper(strings.TrimSpace(cell))
		if name == "" {
			continue
		}
		if _, exists := idx[name]; !exists {
			idx[name] = i
		}
	}
	return idx
}

// lookup 按别名表顺序查找逻辑字段对应的列，找不到返回 -1
func (c columnIndex) lookup(field string) int {
	for _, alias := range columnAliases[field] {
		if i, ok := c[alias]; ok {
			return i
		}
	}
	return -1
}

// cell 安全取列值，越界或未命中返回空串
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
