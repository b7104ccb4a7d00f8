package model

import (
	"time"
)

const (
	UploadStatusCompleted = "completed"
)

// Upload 导入记录。file_hash 的唯一约束是同文件重复导入的最终防线
type Upload struct {
	ID              uint64    `gorm:"primaryKey" json:"id"`
	Filename        string    `gorm:"type:varchar(255);not null" json:"filename"`
	FileHash        string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_file_hash" json:"file_hash"`
	RecordsImported int       `gorm:"not null;default:0" json:"records_imported"`
	Status          string    `gorm:"type:varchar(20);not null;default:completed" json:"status"`
	UploadDate      time.Time `gorm:"autoCreateTime;column:upload_date" json:"upload_date"`
}

func (Upload) TableName() string {
	return "uploads"
}
