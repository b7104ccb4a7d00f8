package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// LoadConfig 从文件加载配置并返回。配置以显式值注入各组件，
// 不提供可全局修改的单例，测试时直接构造 Config 即可
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.DB.Path == "" {
		cfg.DB.Path = "./data/beacon.db"
	}
	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = "./data/uploads"
	}
	if cfg.Upload.MaxSizeMB == 0 {
		cfg.Upload.MaxSizeMB = 50
	}
	if cfg.LinkedIn.PostsURL == "" {
		cfg.LinkedIn.PostsURL = "https://api.linkedin.com/rest/posts"
	}
	if cfg.LinkedIn.UGCPostsURL == "" {
		cfg.LinkedIn.UGCPostsURL = "https://api.linkedin.com/v2/ugcPosts"
	}
	if cfg.LinkedIn.APIVersion == "" {
		cfg.LinkedIn.APIVersion = "202411"
	}
	if cfg.LinkedIn.TimeoutSec == 0 {
		cfg.LinkedIn.TimeoutSec = 15
	}
	if cfg.Publish.DedupWindow == 0 {
		cfg.Publish.DedupWindow = 60
	}
	if cfg.Publish.DedupCapacity == 0 {
		cfg.Publish.DedupCapacity = 100
	}
}
