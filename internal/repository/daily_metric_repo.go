package repository

import (
	"Beacon/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type DailyMetricRepo interface {
	FindChannelMetric(ctx context.Context, metricDate time.Time) (*model.DailyMetric, error)
	FindPostMetric(ctx context.Context, postID uint64, metricDate time.Time) (*model.DailyMetric, error)
	CreateMetric(ctx context.Context, metric *model.DailyMetric) error
	SaveMetric(ctx context.Context, metric *model.DailyMetric) error
	ChannelMetricsSince(ctx context.Context, cutoff time.Time) ([]*model.DailyMetric, error)
	SumChannelImpressionsSince(ctx context.Context, cutoff time.Time) (int64, error)
}

type dailyMetricRepoImpl struct {
	db *gorm.DB
}

func NewDailyMetricRepository(db *gorm.DB) DailyMetricRepo {
	return &dailyMetricRepoImpl{db: db}
}

// FindChannelMetric 查账号级日指标。post_id 为 NULL 时 = 匹配不到，必须 IS NULL
func (r *dailyMetricRepoImpl) FindChannelMetric(ctx context.Context, metricDate time.Time) (*model.DailyMetric, error) {
	var metric model.DailyMetric
	err := r.db.WithContext(ctx).
		Where("post_id IS NULL AND metric_date = ?", metricDate).
		First(&metric).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &metric, nil
}

func (r *dailyMetricRepoImpl) FindPostMetric(ctx context.Context, postID uint64, metricDate time.Time) (*model.DailyMetric, error) {
	var metric model.DailyMetric
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND metric_date = ?", postID, metricDate).
		First(&metric).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &metric, nil
}

func (r *dailyMetricRepoImpl) CreateMetric(ctx context.Context, metric *model.DailyMetric) error {
	return r.db.WithContext(ctx).Create(metric).Error
}

func (r *dailyMetricRepoImpl) SaveMetric(ctx context.Context, metric *model.DailyMetric) error {
	return r.db.WithContext(ctx).Save(metric).Error
}

// ChannelMetricsSince 账号级时间序列，按日期升序
func (r *dailyMetricRepoImpl) ChannelMetricsSince(ctx context.Context, cutoff time.Time) ([]*model.DailyMetric, error) {
	metrics := make([]*model.DailyMetric, 0)
	err := r.db.WithContext(ctx).
		Where("post_id IS NULL AND metric_date >= ?", cutoff).
		Order("metric_date ASC").
		Find(&metrics).Error
	if err != nil {
		return nil, err
	}
	return metrics, nil
}

func (r *dailyMetricRepoImpl) SumChannelImpressionsSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).Model(&model.DailyMetric{}).
		Select("SUM(impressions)").
		Where("post_id IS NULL AND metric_date >= ?", cutoff).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
