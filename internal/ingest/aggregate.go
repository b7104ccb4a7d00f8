package ingest

import (
	"fmt"
	"strings"
)

// ParseAggregate 解析聚合导出。缺失的工作表记警告并跳过，坏行逐条跳过，
// 不会因单行失败放弃整个文件
func ParseAggregate(wb *Workbook) *ParsedExport {
	result := &ParsedExport{}
	result.Warnings = append(result.Warnings, wb.Warnings...)

	if wb.HasSheet(SheetDiscovery) {
		result.Daily = parseDiscoverySheet(wb.Sheets[SheetDiscovery], result)
	} else {
		result.Warnings = append(result.Warnings, fmt.Sprintf("sheet '%s' not found", SheetDiscovery))
	}

	if wb.HasSheet(SheetEngagement) {
		result.Posts = parseEngagementSheet(wb.Sheets[SheetEngagement], result)
	} else if wb.HasSheet(SheetTopPosts) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("sheet '%s' not found; falling back to '%s'", SheetEngagement, SheetTopPosts))
	}

	// TOP POSTS 与 ENGAGEMENT 同构，按 日期+标题 去重后并入
	if wb.HasSheet(SheetTopPosts) {
		topPosts := parseEngagementSheet(wb.Sheets[SheetTopPosts], result)
		seen := make(map[string]struct{}, len(result.Posts))
		for _, p := range result.Posts {
			seen[postKey(p)] = struct{}{}
		}
		for _, p := range topPosts {
			key := postKey(p)
			if _, dup := seen[key]; !dup {
				result.Posts = append(result.Posts, p)
				seen[key] = struct{}{}
			}
		}
	}

	if wb.HasSheet(SheetFollowers) {
		result.Followers = parseFollowersSheet(wb.Sheets[SheetFollowers], result)
	} else {
		result.Warnings = append(result.Warnings, fmt.Sprintf("sheet '%s' not found", SheetFollowers))
	}

	if wb.HasSheet(SheetDemographics) {
		result.Demographics = parseDemographicsSheet(wb.Sheets[SheetDemographics], result)
	} else {
		result.Warnings = append(result.Warnings, fmt.Sprintf("sheet '%s' not found", SheetDemographics))
	}

	return result
}

func postKey(p PostRecord) string {
	return p.PostDate.Format("2006-01-02") + "|" + p.Title
}

// parseDiscoverySheet DISCOVERY -> 账号级每日指标。
// 预期列（PROVISIONAL）：Date, Impressions, Members Reached
func parseDiscoverySheet(rows [][]string, result *ParsedExport) []DailyRecord {
	var records []DailyRecord
	if len(rows) == 0 {
		return records
	}

	cols := buildColumnIndex(rows[0])
	dateCol := cols.lookup("date")
	if dateCol < 0 {
		result.Warnings = append(result.Warnings, "DISCOVERY sheet: 'Date' column not found, skipping sheet")
		return records
	}

	for _, row := range rows[1:] {
		rowDate, ok := ParseDate(cell(row, dateCol))
		if !ok {
			continue
		}
		records = append(records, DailyRecord{
			MetricDate:     rowDate,
			Impressions:    ParseIntLoose(cell(row, cols.lookup("impressions"))),
			MembersReached: ParseIntLoose(cell(row, cols.lookup("members_reached"))),
		})
	}
	return records
}

// parseEngagementSheet ENGAGEMENT / TOP POSTS -> 每帖指标。
// 预期列（PROVISIONAL）：Post Title, Post Date, Impressions, Reactions, Comments, Shares, Clicks
func parseEngagementSheet(rows [][]string, result *ParsedExport) []PostRecord {
	var records []PostRecord
	if len(rows) == 0 {
		return records
	}

	cols := buildColumnIndex(rows[0])
	dateCol := cols.lookup("post_date")
	if dateCol < 0 {
		result.Warnings = append(result.Warnings, "ENGAGEMENT sheet: date column not found, skipping sheet")
		return records
	}
	titleCol := cols.lookup("title")

	for _, row := range rows[1:] {
		rowDate, ok := ParseDate(cell(row, dateCol))
		if !ok {
			continue
		}

		title := cell(row, titleCol)
		if len(title) > maxTitleLength {
			title = title[:maxTitleLength]
		}

		rec := PostRecord{
			PostDate:       rowDate,
			Title:          title,
			Impressions:    ParseIntLoose(cell(row, cols.lookup("impressions"))),
			MembersReached: ParseIntLoose(cell(row, cols.lookup("members_reached"))),
			Reactions:      ParseIntLoose(cell(row, cols.lookup("reactions"))),
			Comments:       ParseIntLoose(cell(row, cols.lookup("comments"))),
			Shares:         ParseIntLoose(cell(row, cols.lookup("shares"))),
			Clicks:         ParseIntLoose(cell(row, cols.lookup("clicks"))),
			LinkedInPostID: cell(row, cols.lookup("post_id")),
			PostType:       cell(row, cols.lookup("post_type")),
		}
		if rec.Impressions > 0 {
			rec.EngagementRate = float64(rec.Reactions+rec.Comments+rec.Shares) / float64(rec.Impressions)
		}
		records = append(records, rec)
	}
	return records
}

// parseFollowersSheet FOLLOWERS -> 每日粉丝快照。
// 预期列（PROVISIONAL）：Date, Total Followers, New Followers
func parseFollowersSheet(rows [][]string, result *ParsedExport) []FollowerRecord {
	var records []FollowerRecord
	if len(rows) == 0 {
		return records
	}

	cols := buildColumnIndex(rows[0])
	dateCol := cols.lookup("date")
	if dateCol < 0 {
		result.Warnings = append(result.Warnings, "FOLLOWERS sheet: 'Date' column not found, skipping sheet")
		return records
	}
	totalCol := cols.lookup("total_followers")
	if totalCol < 0 {
		result.Warnings = append(result.Warnings, "FOLLOWERS sheet: total followers column not found, skipping sheet")
		return records
	}
	newCol := cols.lookup("new_followers")

	for _, row := range rows[1:] {
		rowDate, ok := ParseDate(cell(row, dateCol))
		if !ok {
			continue
		}
		total := ParseIntLoose(cell(row, totalCol))
		if total == 0 {
			continue
		}
		records = append(records, FollowerRecord{
			SnapshotDate:   rowDate,
			TotalFollowers: total,
			NewFollowers:   ParseIntLoose(cell(row, newCol)),
		})
	}
	return records
}

// parseDemographicsSheet DEMOGRAPHICS -> 账号级受众画像。
// 优先按结构化列（Category/Value/Percentage）解析，失败时退回块状启发式：
// 单独一行非数字单元格视为类别标题，其后的 值/百分比 行归入该类别
func parseDemographicsSheet(rows [][]string, result *ParsedExport) []DemographicRecord {
	var records []DemographicRecord
	if len(rows) == 0 {
		return records
	}

	cols := buildColumnIndex(rows[0])
	catCol := cols.lookup("category")
	valCol := cols.lookup("value")
	pctCol := cols.lookup("percentage")

	if catCol >= 0 && valCol >= 0 && pctCol >= 0 {
		for _, row := range rows[1:] {
			category := cell(row, catCol)
			value := cell(row, valCol)
			if category == "" || value == "" {
				continue
			}
			records = append(records, DemographicRecord{
				Category:   strings.ToLower(category),
				Value:      value,
				Percentage: ParseFloatLoose(cell(row, pctCol)),
			})
		}
		return records
	}

	var currentCategory string
	for _, row := range rows {
		var values []string
		for _, c := range row {
			if v := strings.TrimSpace(c); v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}

		if len(values) == 1 && !looksNumeric(values[0]) {
			currentCategory = strings.ToLower(values[0])
			continue
		}

		if currentCategory != "" && len(values) >= 2 {
			pct, ok := parseHeuristicPercent(values[1])
			if !ok {
				continue
			}
			records = append(records, DemographicRecord{
				Category:   currentCategory,
				Value:      values[0],
				Percentage: pct,
			})
		}
	}

	if len(records) == 0 {
		result.Warnings = append(result.Warnings, "DEMOGRAPHICS sheet: could not parse any demographic records")
	}
	return records
}

func looksNumeric(s string) bool {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "%", "")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseHeuristicPercent 块状布局里的百分比是去掉 % 的原始数值，不做 0-1 归一
func parseHeuristicPercent(s string) (float64, bool) {
	cleaned := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if cleaned == "" {
		return 0, false
	}
	f := ParseFloatLoose(cleaned)
	if f == 0 && cleaned != "0" {
		return 0, false
	}
	return f, true
}
