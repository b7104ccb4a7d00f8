package config

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"database"`
	Upload   UploadConfig   `mapstructure:"upload"`
	LinkedIn LinkedInConfig `mapstructure:"linkedin"`
	Publish  PublishConfig  `mapstructure:"publish"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	Path        string `mapstructure:"path"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

// UploadConfig 导出文件上传配置
type UploadConfig struct {
	Dir       string `mapstructure:"dir"`
	MaxSizeMB int64  `mapstructure:"max_size_mb"`
}

// LinkedInConfig 外部发布 API 配置
type LinkedInConfig struct {
	PostsURL    string `mapstructure:"posts_url"`
	UGCPostsURL string `mapstructure:"ugc_posts_url"`
	APIVersion  string `mapstructure:"api_version"`
	TimeoutSec  int    `mapstructure:"timeout_sec"`
}

// PublishConfig 发布安全层配置
type PublishConfig struct {
	CSRFSecret    string `mapstructure:"csrf_secret"`
	DedupWindow   int    `mapstructure:"dedup_window_sec"`
	DedupCapacity int    `mapstructure:"dedup_capacity"`
}
