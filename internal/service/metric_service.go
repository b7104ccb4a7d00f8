package service

import (
	"Beacon/internal/api/dto"
	"Beacon/internal/model"
	"Beacon/internal/pkg/util"
	"Beacon/internal/repository"
	"context"
	"time"
)

type MetricService interface {
	// GetSummary 概览 KPI：帖子总数、粉丝、窗口内曝光与平均互动率、最佳帖子
	GetSummary(ctx context.Context, days int) (*dto.SummaryDTO, error)
	// GetTimeseries 账号级单指标日序列
	GetTimeseries(ctx context.Context, metric string, days int) (*dto.TimeseriesDTO, error)
	GetFollowerTrend(ctx context.Context, days int) ([]*dto.FollowerTrendPointDTO, error)
	GetDemographics(ctx context.Context, category string) ([]*dto.DemographicDTO, error)
}

type metricServiceImpl struct {
	postRepo     repository.PostRepo
	metricRepo   repository.DailyMetricRepo
	snapshotRepo repository.SnapshotRepo
}

func NewMetricService(
	postRepo repository.PostRepo,
	metricRepo repository.DailyMetricRepo,
	snapshotRepo repository.SnapshotRepo,
) MetricService {
	return &metricServiceImpl{
		postRepo:     postRepo,
		metricRepo:   metricRepo,
		snapshotRepo: snapshotRepo,
	}
}

const defaultPeriodDays = 30

func (s *metricServiceImpl) GetSummary(ctx context.Context, days int) (*dto.SummaryDTO, error) {
	if days <= 0 {
		days = defaultPeriodDays
	}
	cutoff := util.GetMidnight(time.Now()).AddDate(0, 0, -days)

	totalPosts, err := s.postRepo.CountPosts(ctx)
	if err != nil {
		return nil, err
	}

	latest, err := s.snapshotRepo.LatestFollowerSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	newFollowers, err := s.snapshotRepo.SumNewFollowersSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	impressions, err := s.metricRepo.SumChannelImpressionsSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	avgRate, err := s.postRepo.AvgEngagementRateSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	summary := &dto.SummaryDTO{
		TotalPosts:        totalPosts,
		NewFollowers:      int(newFollowers),
		ImpressionsPeriod: impressions,
		AvgEngagementRate: avgRate,
		PeriodDays:        days,
	}
	if latest != nil {
		summary.TotalFollowers = latest.TotalFollowers
	}

	best, err := s.bestPostSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	summary.BestPost = best

	return summary, nil
}

// bestPostSince 窗口内加权得分最高的帖子，没有可比帖子时返回 nil
func (s *metricServiceImpl) bestPostSince(ctx context.Context, cutoff time.Time) (*dto.BestPostDTO, error) {
	posts, err := s.postRepo.PostsSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	var best *model.Post
	var bestScore float64
	for _, post := range posts {
		score := post.WeightedScore()
		if best == nil || score > bestScore {
			best = post
			bestScore = score
		}
	}
	if best == nil {
		return nil, nil
	}
	return &dto.BestPostDTO{
		ID:            best.ID,
		Title:         best.Title,
		PostDate:      best.PostDate.Format(time.DateOnly),
		WeightedScore: bestScore,
	}, nil
}

// metricSelectors 时间序列支持的指标名
var metricSelectors = map[string]func(*model.DailyMetric) int{
	"impressions":     func(m *model.DailyMetric) int { return m.Impressions },
	"members_reached": func(m *model.DailyMetric) int { return m.MembersReached },
	"reactions":       func(m *model.DailyMetric) int { return m.Reactions },
	"comments":        func(m *model.DailyMetric) int { return m.Comments },
	"shares":          func(m *model.DailyMetric) int { return m.Shares },
	"clicks":          func(m *model.DailyMetric) int { return m.Clicks },
}

func (s *metricServiceImpl) GetTimeseries(ctx context.Context, metric string, days int) (*dto.TimeseriesDTO, error) {
	selector, ok := metricSelectors[metric]
	if !ok {
		return nil, ErrParamInvalid
	}
	if days <= 0 {
		days = defaultPeriodDays
	}
	cutoff := util.GetMidnight(time.Now()).AddDate(0, 0, -days)

	metrics, err := s.metricRepo.ChannelMetricsSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	points := make([]*dto.TimeseriesPointDTO, 0, len(metrics))
	for _, m := range metrics {
		points = append(points, &dto.TimeseriesPointDTO{
			Date:  m.MetricDate.Format(time.DateOnly),
			Value: selector(m),
		})
	}
	return &dto.TimeseriesDTO{Metric: metric, Days: days, Points: points}, nil
}

func (s *metricServiceImpl) GetFollowerTrend(ctx context.Context, days int) ([]*dto.FollowerTrendPointDTO, error) {
	if days <= 0 {
		days = defaultPeriodDays
	}
	cutoff := util.GetMidnight(time.Now()).AddDate(0, 0, -days)

	snapshots, err := s.snapshotRepo.FollowerTrendSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	points := make([]*dto.FollowerTrendPointDTO, 0, len(snapshots))
	for _, snap := range snapshots {
		points = append(points, &dto.FollowerTrendPointDTO{
			Date:           snap.SnapshotDate.Format(time.DateOnly),
			TotalFollowers: snap.TotalFollowers,
			NewFollowers:   snap.NewFollowers,
		})
	}
	return points, nil
}

func (s *metricServiceImpl) GetDemographics(ctx context.Context, category string) ([]*dto.DemographicDTO, error) {
	rows, err := s.snapshotRepo.ListDemographics(ctx, category)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.DemographicDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, &dto.DemographicDTO{
			SnapshotDate: row.SnapshotDate.Format(time.DateOnly),
			Category:     row.Category,
			Value:        row.Value,
			Percentage:   row.Percentage,
		})
	}
	return items, nil
}
