package ingest

// 导出文件中预期出现的工作表名（PROVISIONAL）
const (
	SheetDiscovery       = "DISCOVERY"
	SheetEngagement      = "ENGAGEMENT"
	SheetTopPosts        = "TOP POSTS"
	SheetFollowers       = "FOLLOWERS"
	SheetDemographics    = "DEMOGRAPHICS"
	SheetPerformance     = "PERFORMANCE"
	SheetTopDemographics = "TOP DEMOGRAPHICS"
)

// 文件格式分类结果
const (
	FormatAggregate = "aggregate"
	FormatPerPost   = "per_post"
	FormatUnknown   = "unknown"
)

// DetectFormat 根据工作表组合判断导出类型。
// 无法识别的组合返回 FormatUnknown，由调用方决定如何提示，而不是在这里报错
func DetectFormat(wb *Workbook) string {
	if wb.HasSheet(SheetPerformance) || wb.HasSheet(SheetTopDemographics) {
		return FormatPerPost
	}
	for _, name := range []string{SheetDiscovery, SheetEngagement, SheetTopPosts, SheetFollowers, SheetDemographics} {
		if wb.HasSheet(name) {
			return FormatAggregate
		}
	}
	return FormatUnknown
}
