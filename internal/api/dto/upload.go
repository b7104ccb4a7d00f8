package dto

// ImportStatsDTO 单次导入各类记录的合并计数
type ImportStatsDTO struct {
	PostsCreated    int `json:"posts_created"`
	PostsUpdated    int `json:"posts_updated"`
	DailyMetrics    int `json:"daily_metrics"`
	Followers       int `json:"followers"`
	Demographics    int `json:"demographics"`
	RecordsImported int `json:"records_imported"`
}

// UploadResultDTO 上传并导入完成后的返回
type UploadResultDTO struct {
	UploadID uint64          `json:"upload_id"`
	Filename string          `json:"filename"`
	Format   string          `json:"format"`
	Stats    *ImportStatsDTO `json:"stats"`
	Warnings []string        `json:"warnings"`
}

// BatchItemDTO 批量导入中单个文件的结果
type BatchItemDTO struct {
	Filename string `json:"filename"`
	Status   string `json:"status"` // success / failed
	Error    string `json:"error,omitempty"`
}

// UploadHistoryDTO 上传历史条目
type UploadHistoryDTO struct {
	ID              uint64 `json:"id"`
	Filename        string `json:"filename"`
	RecordsImported int    `json:"records_imported"`
	Status          string `json:"status"`
	UploadDate      string `json:"upload_date"`
}
