package model

import (
	"time"
)

// DemographicSnapshot 账号级受众画像行（快照值，导入时整体覆盖而非取最大）
type DemographicSnapshot struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	SnapshotDate time.Time `gorm:"not null;index:idx_demo_snapshot,unique;column:snapshot_date" json:"snapshot_date"`
	Category     string    `gorm:"type:varchar(50);not null;index:idx_demo_snapshot,unique" json:"category"`
	Value        string    `gorm:"type:varchar(100);not null;index:idx_demo_snapshot,unique" json:"value"`
	Percentage   float64   `gorm:"not null" json:"percentage"`
	CreatedAt    time.Time `json:"created_at"`
}

func (DemographicSnapshot) TableName() string {
	return "demographic_snapshots"
}

// PostDemographic 单帖受众画像行，来源于单帖明细导出。
// company_size 与 company 两个类别只在单帖导出中出现
type PostDemographic struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	PostID     uint64    `gorm:"not null;index:idx_post_demo,unique" json:"post_id"`
	Category   string    `gorm:"type:varchar(50);not null;index:idx_post_demo,unique" json:"category"`
	Value      string    `gorm:"type:varchar(100);not null;index:idx_post_demo,unique" json:"value"`
	Percentage float64   `gorm:"not null" json:"percentage"`
	CreatedAt  time.Time `json:"created_at"`
}

func (PostDemographic) TableName() string {
	return "post_demographics"
}
