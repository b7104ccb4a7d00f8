package ingest

import (
	"time"
)

// 标题截断长度，与 posts.title 列宽一致
const maxTitleLength = 100

// PostRecord 归一化后的单条帖子指标记录，交给 Reconciler 合并
type PostRecord struct {
	LinkedInPostID string
	Title          string // 空串表示无标题
	PostDate       time.Time
	PostType       string
	Impressions    int
	MembersReached int
	Reactions      int
	Comments       int
	Shares         int
	Clicks         int
	EngagementRate float64
}

// DailyRecord 账号级每日指标点
type DailyRecord struct {
	MetricDate     time.Time
	Impressions    int
	MembersReached int
	Reactions      int
	Comments       int
	Shares         int
	Clicks         int
}

// FollowerRecord 每日粉丝快照
type FollowerRecord struct {
	SnapshotDate   time.Time
	TotalFollowers int
	NewFollowers   int
}

// DemographicRecord 受众画像行（账号级或单帖级通用）
type DemographicRecord struct {
	Category   string
	Value      string
	Percentage float64
}

// ParsedExport 聚合导出的解析结果。Warnings 随结果一并返回给调用方，
// 只有在一条可用记录都没有时才算失败
type ParsedExport struct {
	Posts        []PostRecord
	Daily        []DailyRecord
	Followers    []FollowerRecord
	Demographics []DemographicRecord
	Warnings     []string
}

// TotalRecords 可用记录总数
func (p *ParsedExport) TotalRecords() int {
	return len(p.Posts) + len(p.Daily) + len(p.Followers) + len(p.Demographics)
}

// PerPostExport 单帖明细导出的解析结果
type PerPostExport struct {
	LinkedInPostID  string
	PostURL         string
	PostDate        time.Time
	HasPostDate     bool
	PostHour        *int
	Impressions     int
	MembersReached  int
	Reactions       int
	Comments        int
	Reposts         int
	Saves           int
	Sends           int
	ProfileViews    int
	FollowersGained int
	Demographics    []DemographicRecord
	Warnings        []string
}
