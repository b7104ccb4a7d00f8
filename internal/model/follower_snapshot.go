package model

import (
	"time"
)

// FollowerSnapshot 每个日历日一条的粉丝数快照
type FollowerSnapshot struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	SnapshotDate   time.Time `gorm:"not null;uniqueIndex:idx_snapshot_date;column:snapshot_date" json:"snapshot_date"`
	TotalFollowers int       `gorm:"not null" json:"total_followers"`
	NewFollowers   int       `gorm:"not null;default:0" json:"new_followers"`
	CreatedAt      time.Time `json:"created_at"`
}

func (FollowerSnapshot) TableName() string {
	return "follower_snapshots"
}
