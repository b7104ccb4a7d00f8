package ingest

import (
	"strings"
)

// PERFORMANCE 工作表里键值对的已知键别名，按优先级排列
var performanceKeyAliases = map[string][]string{
	"post_url":         {"POST URL"},
	"post_date":        {"POST DATE"},
	"post_time":        {"POST PUBLISH TIME", "POST TIME"},
	"impressions":      {"IMPRESSIONS"},
	"members_reached":  {"MEMBERS REACHED"},
	"reactions":        {"REACTIONS"},
	"comments":         {"COMMENTS"},
	"reposts":          {"REPOSTS"},
	"saves":            {"SAVES"},
	"sends":            {"SENDS ON LINKEDIN", "SENDS"},
	"profile_views":    {"PROFILE VIEWERS FROM THIS POST", "PROFILE VIEWS"},
	"followers_gained": {"FOLLOWERS GAINED FROM THIS POST", "FOLLOWERS GAINED"},
}

// ParsePerformanceSheet PERFORMANCE 工作表是 键-值 两列布局，
// 原样收集为映射，键去空格，空行跳过
func ParsePerformanceSheet(rows [][]string) map[string]string {
	pairs := make(map[string]string)
	for _, row := range rows {
		key := cell(row, 0)
		if key == "" {
			continue
		}
		pairs[key] = cell(row, 1)
	}
	return pairs
}

// perfValue 按别名表从键值对里取值
func perfValue(pairs map[string]string, field string) string {
	upper := make(map[string]string, len(pairs))
	for k, v := range pairs {
		upper[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	for _, alias := range performanceKeyAliases[field] {
		if v, ok := upper[alias]; ok {
			return v
		}
	}
	return ""
}

// ParsePerPostDemographics TOP DEMOGRAPHICS 表格布局：Category / Value / Percentage。
// 类别归一为 snake_case，百分比归一为 0-1 小数
func ParsePerPostDemographics(rows [][]string) []DemographicRecord {
	var records []DemographicRecord
	if len(rows) == 0 {
		return records
	}

	cols := buildColumnIndex(rows[0])
	catCol := cols.lookup("category")
	valCol := cols.lookup("value")
	pctCol := cols.lookup("percentage")
	if catCol < 0 || valCol < 0 || pctCol < 0 {
		return records
	}

	for _, row := range rows[1:] {
		category := cell(row, catCol)
		value := cell(row, valCol)
		if category == "" || value == "" {
			continue
		}
		pct, ok := ParsePercent(cell(row, pctCol))
		if !ok {
			continue
		}
		records = append(records, DemographicRecord{
			Category:   NormalizeCategory(category),
			Value:      value,
			Percentage: pct,
		})
	}
	return records
}

// ParsePerPost 解析单帖明细导出。外部帖子标识从 Post URL 的 URN 中提取，
// 缺失会在警告里说明；发布时间从 12 小时制文本归一为 24 小时整数
func ParsePerPost(wb *Workbook) *PerPostExport {
	result := &PerPostExport{}
	result.Warnings = append(result.Warnings, wb.Warnings...)

	if !wb.HasSheet(SheetPerformance) {
		result.Warnings = append(result.Warnings, "PERFORMANCE sheet not found")
	} else {
		pairs := ParsePerformanceSheet(wb.Sheets[SheetPerformance])

		result.PostURL = strings.TrimSpace(perfValue(pairs, "post_url"))
		if result.PostURL == "" {
			result.Warnings = append(result.Warnings, "PERFORMANCE sheet: 'Post URL' not found")
		} else {
			result.LinkedInPostID = ExtractURNFromURL(result.PostURL)
			if result.LinkedInPostID == "" {
				result.Warnings = append(result.Warnings, "PERFORMANCE sheet: could not extract post id from URL")
			}
		}

		if d, ok := ParseDate(perfValue(pairs, "post_date")); ok {
			result.PostDate = d
			result.HasPostDate = true
		} else {
			result.Warnings = append(result.Warnings, "PERFORMANCE sheet: could not parse post date")
		}

		result.PostHour = ParsePostHour(perfValue(pairs, "post_time"))
		result.Impressions = ParseIntLoose(perfValue(pairs, "impressions"))
		result.MembersReached = ParseIntLoose(perfValue(pairs, "members_reached"))
		result.Reactions = ParseIntLoose(perfValue(pairs, "reactions"))
		result.Comments = ParseIntLoose(perfValue(pairs, "comments"))
		result.Reposts = ParseIntLoose(perfValue(pairs, "reposts"))
		result.Saves = ParseIntLoose(perfValue(pairs, "saves"))
		result.Sends = ParseIntLoose(perfValue(pairs, "sends"))
		result.ProfileViews = ParseIntLoose(perfValue(pairs, "profile_views"))
		result.FollowersGained = ParseIntLoose(perfValue(pairs, "followers_gained"))
	}

	if wb.HasSheet(SheetTopDemographics) {
		result.Demographics = ParsePerPostDemographics(wb.Sheets[SheetTopDemographics])
		if len(result.Demographics) == 0 {
			result.Warnings = append(result.Warnings, "TOP DEMOGRAPHICS sheet: no demographic rows parsed")
		}
	} else {
		result.Warnings = append(result.Warnings, "TOP DEMOGRAPHICS sheet not found")
	}

	return result
}
