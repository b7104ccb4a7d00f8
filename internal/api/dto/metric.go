package dto

// SummaryDTO 概览 KPI 卡片数据
type SummaryDTO struct {
	TotalPosts        int64    `json:"total_posts"`
	TotalFollowers    int      `json:"total_followers"`
	NewFollowers      int      `json:"new_followers"`
	ImpressionsPeriod int64    `json:"impressions_period"`
	AvgEngagementRate float64  `json:"avg_engagement_rate"`
	PeriodDays        int      `json:"period_days"`
	BestPost          *BestPostDTO `json:"best_post"`
}

// BestPostDTO 周期内加权得分最高的帖子
type BestPostDTO struct {
	ID            uint64  `json:"id"`
	Title         *string `json:"title"`
	PostDate      string  `json:"post_date"`
	WeightedScore float64 `json:"weighted_score"`
}

// TimeseriesPointDTO 单日指标点
type TimeseriesPointDTO struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

// TimeseriesDTO 日粒度指标序列
type TimeseriesDTO struct {
	Metric string                `json:"metric"`
	Days   int                   `json:"days"`
	Points []*TimeseriesPointDTO `json:"points"`
}

// FollowerTrendPointDTO 粉丝趋势点
type FollowerTrendPointDTO struct {
	Date           string `json:"date"`
	TotalFollowers int    `json:"total_followers"`
	NewFollowers   int    `json:"new_followers"`
}

// DemographicDTO 频道级受众画像行
type DemographicDTO struct {
	SnapshotDate string  `json:"snapshot_date"`
	Category     string  `json:"category"`
	Value        string  `json:"value"`
	Percentage   float64 `json:"percentage"`
}
