package service

import (
	"Beacon/internal/api/dto"
	"Beacon/internal/model"
	"Beacon/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type PostService interface {
	ListPosts(ctx context.Context, query *dto.ListPostsQuery) (*dto.PostListDTO, error)
	GetPost(ctx context.Context, id uint64) (*dto.PostDetailDTO, error)
	// UpdatePost 手工修正标注字段，仅更新请求中出现的字段
	UpdatePost(ctx context.Context, id uint64, req *dto.UpdatePostDTO) (*dto.PostDetailDTO, error)
}

type postServiceImpl struct {
	postRepo     repository.PostRepo
	snapshotRepo repository.SnapshotRepo
}

func NewPostService(postRepo repository.PostRepo, snapshotRepo repository.SnapshotRepo) PostService {
	return &postServiceImpl{
		postRepo:     postRepo,
		snapshotRepo: snapshotRepo,
	}
}

func (s *postServiceImpl) ListPosts(ctx context.Context, query *dto.ListPostsQuery) (*dto.PostListDTO, error) {
	sort := query.Sort
	if sort == "" {
		sort = "post_date"
	}
	order := query.Order
	if order == "" {
		order = "desc"
	}
	limit := query.Limit
	if limit == 0 {
		limit = 50
	}

	posts, total, err := s.postRepo.ListPosts(ctx, sort, order, limit, query.Offset)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PostListItemDTO, 0, len(posts))
	for _, post := range posts {
		items = append(items, toListItem(post))
	}
	return &dto.PostListDTO{Total: total, Posts: items}, nil
}

func (s *postServiceImpl) GetPost(ctx context.Context, id uint64) (*dto.PostDetailDTO, error) {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDetail(ctx, post)
}

func (s *postServiceImpl) UpdatePost(ctx context.Context, id uint64, req *dto.UpdatePostDTO) (*dto.PostDetailDTO, error) {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Topic != nil {
		post.Topic = *req.Topic
	}
	if req.ContentFormat != nil {
		post.ContentFormat = *req.ContentFormat
	}
	if req.HookStyle != nil {
		post.HookStyle = *req.HookStyle
	}
	if req.LengthBucket != nil {
		post.LengthBucket = *req.LengthBucket
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Title != nil {
		post.Title = req.Title
	}

	if err = s.postRepo.SavePost(ctx, post); err != nil {
		return nil, err
	}
	return s.toDetail(ctx, post)
}

func (s *postServiceImpl) loadPost(ctx context.Context, id uint64) (*model.Post, error) {
	post, err := s.postRepo.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// toListItem 字段同名部分由 copier 映射，日期与派生值手工补齐
func toListItem(post *model.Post) *dto.PostListItemDTO {
	item := &dto.PostListItemDTO{}
	_ = copier.Copy(item, post)
	item.PostDate = post.PostDate.Format(time.DateOnly)
	item.WeightedScore = post.WeightedScore()
	return item
}

func (s *postServiceImpl) toDetail(ctx context.Context, post *model.Post) (*dto.PostDetailDTO, error) {
	detail := &dto.PostDetailDTO{}
	_ = copier.Copy(detail, post)
	detail.PostDate = post.PostDate.Format(time.DateOnly)
	detail.WeightedScore = post.WeightedScore()

	rows, err := s.snapshotRepo.ListPostDemographics(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	detail.Demographics = make([]*dto.PostDemographicDTO, 0, len(rows))
	for _, row := range rows {
		detail.Demographics = append(detail.Demographics, &dto.PostDemographicDTO{
			Category:   row.Category,
			Value:      row.Value,
			Percentage: row.Percentage,
		})
	}
	return detail, nil
}
