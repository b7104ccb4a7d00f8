package model

import (
	"time"
)

// DailyMetric 按天的指标点。PostID 为 NULL 时表示账号级（全频道）数据
type DailyMetric struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	PostID         *uint64   `gorm:"index:idx_post_date,unique" json:"post_id"`
	MetricDate     time.Time `gorm:"not null;index:idx_post_date,unique;column:metric_date" json:"metric_date"`
	Impressions    int       `gorm:"not null;default:0" json:"impressions"`
	MembersReached int       `gorm:"not null;default:0" json:"members_reached"`
	Reactions      int       `gorm:"not null;default:0" json:"reactions"`
	Comments       int       `gorm:"not null;default:0" json:"comments"`
	Shares         int       `gorm:"not null;default:0" json:"shares"`
	Clicks         int       `gorm:"not null;default:0" json:"clicks"`
	CreatedAt      time.Time `json:"created_at"`
}

func (DailyMetric) TableName() string {
	return "daily_metrics"
}
