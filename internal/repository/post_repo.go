package repository

import (
	"Beacon/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type PostRepo interface {
	FindByLinkedInID(ctx context.Context, linkedinPostID string) (*model.Post, error)
	FindByDateTitle(ctx context.Context, postDate time.Time, title string) (*model.Post, error)
	FindByDateOnly(ctx context.Context, postDate time.Time) (*model.Post, error)
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	ListPosts(ctx context.Context, sort, order string, limit, offset int) ([]*model.Post, int64, error)
	CreatePost(ctx context.Context, post *model.Post) error
	SavePost(ctx context.Context, post *model.Post) error
	CountPosts(ctx context.Context) (int64, error)
	AvgEngagementRateSince(ctx context.Context, cutoff time.Time) (float64, error)
	PostsSince(ctx context.Context, cutoff time.Time) ([]*model.Post, error)
}

type postRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &postRepoImpl{db: db}
}

// FindByLinkedInID 按外部帖子标识查找，未命中返回 nil 而非错误
func (r *postRepoImpl) FindByLinkedInID(ctx context.Context, linkedinPostID string) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Where("linkedin_post_id = ?", linkedinPostID).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// FindByDateTitle 按 发布日期+标题 复合键查找
func (r *postRepoImpl) FindByDateTitle(ctx context.Context, postDate time.Time, title string) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Where("post_date = ? AND title = ?", postDate, title).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// FindByDateOnly 仅按日期匹配的兜底查找，只命中无标题的帖子。
// title 为 NULL 时 SQL 的 = 不会匹配，这里必须用 IS NULL
func (r *postRepoImpl) FindByDateOnly(ctx context.Context, postDate time.Time) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Where("post_date = ? AND title IS NULL", postDate).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).Preload("Demographics").First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts 排序分页列表。sort/order 由 DTO 的枚举校验约束，这里不再白名单化
func (r *postRepoImpl) ListPosts(ctx context.Context, sort, order string, limit, offset int) ([]*model.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	posts := make([]*model.Post, 0, limit)
	err := r.db.WithContext(ctx).
		Order(sort + " " + order).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// SavePost 全字段保存。合并结果可能把计数改小回 0 以外的值，不能用 Updates 跳过零值
func (r *postRepoImpl) SavePost(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepoImpl) CountPosts(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Count(&total).Error
	return total, err
}

// PostsSince 窗口内的全部帖子，按日期升序
func (r *postRepoImpl) PostsSince(ctx context.Context, cutoff time.Time) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	err := r.db.WithContext(ctx).
		Where("post_date >= ?", cutoff).
		Order("post_date ASC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// AvgEngagementRateSince 统计窗口内的平均互动率
func (r *postRepoImpl) AvgEngagementRateSince(ctx context.Context, cutoff time.Time) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).Model(&model.Post{}).
		Select("AVG(engagement_rate)").
		Where("post_date >= ?", cutoff).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
