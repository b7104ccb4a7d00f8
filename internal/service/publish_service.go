package service

import (
	"Beacon/internal/api/config"
	"Beacon/internal/api/dto"
	"Beacon/internal/model"
	"Beacon/internal/pkg/consts"
	"Beacon/internal/pkg/dedup"
	"Beacon/internal/pkg/linkedin"
	"Beacon/internal/pkg/security"
	"Beacon/internal/pkg/util"
	"Beacon/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
)

// PublishGateway 发布网关抽象，测试时可替换为桩实现
type PublishGateway interface {
	CreatePost(ctx context.Context, accessToken, memberURN, text, visibility string) (*linkedin.PublishResult, error)
}

type PublishService interface {
	// IssueCSRF 签发一对 (nonce, token)，nonce 走 Cookie，token 走请求头
	IssueCSRF() (string, string)
	// Publish 发布帖子。安全门依次校验，任一失败立即短路，绝不触达网关
	Publish(ctx context.Context, req *dto.PublishDTO, nonce, csrfToken string) (*dto.PublishResultDTO, error)
	// SaveDraft 存草稿，不校验 CSRF、不发网络请求
	SaveDraft(ctx context.Context, req *dto.PublishDTO) (*dto.PublishResultDTO, error)
}

type publishServiceImpl struct {
	postRepo  repository.PostRepo
	tokenRepo repository.TokenRepo
	gateway   PublishGateway
	window    *dedup.WindowCache
	cfg       config.PublishConfig
}

func NewPublishService(
	postRepo repository.PostRepo,
	tokenRepo repository.TokenRepo,
	gateway PublishGateway,
	cfg config.PublishConfig,
) PublishService {
	return &publishServiceImpl{
		postRepo:  postRepo,
		tokenRepo: tokenRepo,
		gateway:   gateway,
		window:    dedup.NewWindowCache(time.Duration(cfg.DedupWindow)*time.Second, cfg.DedupCapacity),
		cfg:       cfg,
	}
}

func (s *publishServiceImpl) IssueCSRF() (string, string) {
	nonce := security.GenerateNonce()
	return nonce, security.GeneratePublishCSRFToken(s.cfg.CSRFSecret, nonce)
}

// Publish 实现。门的顺序：入参校验 -> CSRF -> 连接 -> 权限范围 -> 成员标识 -> 幂等窗口 -> 网关
func (s *publishServiceImpl) Publish(ctx context.Context, req *dto.PublishDTO, nonce, csrfToken string) (*dto.PublishResultDTO, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrPostTextEmpty
	}
	if len([]rune(text)) > consts.MaxPostLength {
		return nil, ErrPostTextTooLong
	}
	visibility := req.Visibility
	if visibility != consts.VisibilityConnections {
		visibility = consts.VisibilityPublic
	}

	if !security.VerifyPublishCSRFToken(s.cfg.CSRFSecret, nonce, csrfToken) {
		log.WarnContext(ctx, "Publish rejected: CSRF verification failed")
		return nil, ErrCSRFInvalid
	}

	token, err := s.tokenRepo.GetToken(ctx, consts.ProviderLinkedIn)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrNotConnected
	}
	if !token.ExpiresAt.IsZero() && token.ExpiresAt.Before(time.Now()) {
		return nil, ErrTokenExpired
	}
	if !token.HasScope(consts.ScopeMemberSocial) {
		return nil, ErrScopeMissing
	}
	if token.MemberID == "" {
		return nil, ErrMemberIDMissing
	}

	if s.window.Seen(util.ContentSHA256(text)) {
		log.WarnContext(ctx, "Publish rejected: duplicate content within dedup window")
		return nil, ErrDuplicatePublish
	}

	result, err := s.gateway.CreatePost(ctx, token.AccessToken, "urn:li:person:"+token.MemberID, text, visibility)
	if err != nil {
		return nil, mapGatewayError(ctx, err)
	}

	post, err := s.recordPublished(ctx, req, text, result)
	if err != nil {
		return nil, err
	}

	return &dto.PublishResultDTO{
		PostID:         post.ID,
		LinkedInPostID: result.PostURN,
		PostURL:        post.PostURL,
		Status:         post.Status,
	}, nil
}

func (s *publishServiceImpl) SaveDraft(ctx context.Context, req *dto.PublishDTO) (*dto.PublishResultDTO, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrPostTextEmpty
	}
	if len([]rune(text)) > consts.MaxPostLength {
		return nil, ErrPostTextTooLong
	}

	var post *model.Post
	if req.DraftID != nil {
		existing, err := s.loadPost(ctx, *req.DraftID)
		if err != nil {
			return nil, err
		}
		post = existing
	} else {
		post = &model.Post{
			Status:   model.PostStatusDraft,
			PostDate: util.GetMidnight(time.Now()),
		}
	}

	post.Content = text
	if req.Title != "" {
		post.Title = util.PtrString(req.Title)
	}

	var err error
	if post.ID == 0 {
		err = s.postRepo.CreatePost(ctx, post)
	} else {
		err = s.postRepo.SavePost(ctx, post)
	}
	if err != nil {
		return nil, err
	}

	return &dto.PublishResultDTO{PostID: post.ID, Status: post.Status}, nil
}

// recordPublished 落库发布结果。带 draft_id 时原地更新那一行，
// 同一草稿永远只对应一行帖子
func (s *publishServiceImpl) recordPublished(ctx context.Context, req *dto.PublishDTO, text string, result *linkedin.PublishResult) (*model.Post, error) {
	var post *model.Post
	if req.DraftID != nil {
		existing, err := s.loadPost(ctx, *req.DraftID)
		if err != nil {
			return nil, err
		}
		if existing.Status != model.PostStatusDraft && existing.Status != "" {
			return nil, ErrDraftNotPublishable
		}
		post = existing
	} else {
		post = &model.Post{}
	}

	post.Content = text
	if req.Title != "" {
		post.Title = util.PtrString(req.Title)
	}
	post.Status = model.PostStatusPublished
	post.PostDate = util.GetMidnight(time.Now())
	if result.ActivityID != "" {
		post.LinkedInPostID = util.PtrString(result.ActivityID)
	} else {
		post.LinkedInPostID = util.PtrString(result.PostURN)
	}
	post.PostURL = result.PostURL

	var err error
	if post.ID == 0 {
		err = s.postRepo.CreatePost(ctx, post)
	} else {
		err = s.postRepo.SavePost(ctx, post)
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *publishServiceImpl) loadPost(ctx context.Context, id uint64) (*model.Post, error) {
	post, err := s.postRepo.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// mapGatewayError 把网关错误归一到业务错误。原始传输错误不出服务层
func mapGatewayError(ctx context.Context, err error) error {
	var rle *linkedin.RateLimitError
	if errors.As(err, &rle) {
		return &RateLimitedError{RetryAfterSeconds: rle.RetryAfterSeconds}
	}
	switch {
	case errors.Is(err, linkedin.ErrEmptyText):
		return ErrPostTextEmpty
	case errors.Is(err, linkedin.ErrTextTooLong):
		return ErrPostTextTooLong
	default:
		log.ErrorContext(ctx, "Publish gateway failed", "err", err.Error())
		return ErrPublishGateway
	}
}
