package repository

import (
	"Beacon/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SnapshotRepo interface {
	FindFollowerSnapshot(ctx context.Context, snapshotDate time.Time) (*model.FollowerSnapshot, error)
	CreateFollowerSnapshot(ctx context.Context, snapshot *model.FollowerSnapshot) error
	SaveFollowerSnapshot(ctx context.Context, snapshot *model.FollowerSnapshot) error
	LatestFollowerSnapshot(ctx context.Context) (*model.FollowerSnapshot, error)
	FollowerTrendSince(ctx context.Context, cutoff time.Time) ([]*model.FollowerSnapshot, error)
	SumNewFollowersSince(ctx context.Context, cutoff time.Time) (int64, error)

	UpsertDemographicSnapshot(ctx context.Context, snapshot *model.DemographicSnapshot) error
	ListDemographics(ctx context.Context, category string) ([]*model.DemographicSnapshot, error)

	UpsertPostDemographic(ctx context.Context, row *model.PostDemographic) error
	ListPostDemographics(ctx context.Context, postID uint64) ([]*model.PostDemographic, error)
}

type snapshotRepoImpl struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) SnapshotRepo {
	return &snapshotRepoImpl{db: db}
}

func (r *snapshotRepoImpl) FindFollowerSnapshot(ctx context.Context, snapshotDate time.Time) (*model.FollowerSnapshot, error) {
	var snapshot model.FollowerSnapshot
	err := r.db.WithContext(ctx).
		Where("snapshot_date = ?", snapshotDate).
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

func (r *snapshotRepoImpl) CreateFollowerSnapshot(ctx context.Context, snapshot *model.FollowerSnapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

func (r *snapshotRepoImpl) SaveFollowerSnapshot(ctx context.Context, snapshot *model.FollowerSnapshot) error {
	return r.db.WithContext(ctx).Save(snapshot).Error
}

func (r *snapshotRepoImpl) LatestFollowerSnapshot(ctx context.Context) (*model.FollowerSnapshot, error) {
	var snapshot model.FollowerSnapshot
	err := r.db.WithContext(ctx).
		Order("snapshot_date DESC").
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

func (r *snapshotRepoImpl) FollowerTrendSince(ctx context.Context, cutoff time.Time) ([]*model.FollowerSnapshot, error) {
	snapshots := make([]*model.FollowerSnapshot, 0)
	err := r.db.WithContext(ctx).
		Where("snapshot_date >= ?", cutoff).
		Order("snapshot_date ASC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *snapshotRepoImpl) SumNewFollowersSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).Model(&model.FollowerSnapshot{}).
		Select("SUM(new_followers)").
		Where("snapshot_date >= ?", cutoff).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// UpsertDemographicSnapshot 画像是快照值而非累计计数，冲突时整体覆盖百分比
func (r *snapshotRepoImpl) UpsertDemographicSnapshot(ctx context.Context, snapshot *model.DemographicSnapshot) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "snapshot_date"}, {Name: "category"}, {Name: "value"}},
		DoUpdates: clause.AssignmentColumns([]string{"percentage"}),
	}).Create(snapshot).Error
}

func (r *snapshotRepoImpl) ListDemographics(ctx context.Context, category string) ([]*model.DemographicSnapshot, error) {
	rows := make([]*model.DemographicSnapshot, 0)
	query := r.db.WithContext(ctx).Order("percentage DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertPostDemographic 单帖画像同样整体覆盖
func (r *snapshotRepoImpl) UpsertPostDemographic(ctx context.Context, row *model.PostDemographic) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "category"}, {Name: "value"}},
		DoUpdates: clause.AssignmentColumns([]string{"percentage"}),
	}).Create(row).Error
}

func (r *snapshotRepoImpl) ListPostDemographics(ctx context.Context, postID uint64) ([]*model.PostDemographic, error) {
	rows := make([]*model.PostDemographic, 0)
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("percentage DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
