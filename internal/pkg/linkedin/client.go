package linkedin

import (
	"Beacon/internal/api/config"
	"Beacon/internal/pkg/consts"
	"context"
	"fmt"
	log "log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// 上游错误不携带响应原文，避免令牌或账号信息进入日志与返回值
var (
	ErrEmptyText       = errors.New("帖子内容不能为空")
	ErrTextTooLong     = errors.New("帖子内容超出长度上限")
	ErrMissingPostID   = errors.New("发布响应缺少帖子标识")
	ErrPublishRejected = errors.New("上游接口拒绝了发布请求")
)

// RateLimitError 限流错误，携带重试等待秒数供调用方透传
type RateLimitError struct {
	RetryAfterSeconds int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("上游接口限流，%d 秒后重试", e.RetryAfterSeconds)
}

const defaultRetryAfterSeconds = 60

// PublishResult 发布成功后的帖子标识与跳转地址
type PublishResult struct {
	PostURN    string
	ActivityID string
	PostURL    string
	Endpoint   string
}

type Client struct {
	http *resty.Client
	cfg  config.LinkedInConfig
}

func NewClient(cfg *config.LinkedInConfig) *Client {
	return &Client{
		http: resty.New().SetTimeout(time.Duration(cfg.TimeoutSec) * time.Second),
		cfg:  *cfg,
	}
}

var activityIDRegex = regexp.MustCompile(`urn:li:(?:share|ugcPost|activity):(\d+)`)

// CreatePost 调用 LinkedIn 发布接口创建帖子。
// 先走 /rest/posts，仅在其返回 403（版本化接口未授权）时回退 /v2/ugcPosts；
// 其余失败不回退，直接上抛
func (c *Client) CreatePost(ctx context.Context, accessToken, memberURN, text, visibility string) (*PublishResult, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if len([]rune(text)) > consts.MaxPostLength {
		return nil, ErrTextTooLong
	}
	if visibility != consts.VisibilityPublic && visibility != consts.VisibilityConnections {
		visibility = consts.VisibilityPublic
	}

	result, err := c.postREST(ctx, accessToken, memberURN, text, visibility)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, errForbidden) {
		return nil, err
	}

	log.WarnContext(ctx, "Versioned posts endpoint returned 403, falling back to ugcPosts")
	return c.postUGC(ctx, accessToken, memberURN, text, visibility)
}

// errForbidden 仅在包内用于触发回退，不会上抛给调用方
var errForbidden = errors.New("forbidden")

func (c *Client) postREST(ctx context.Context, accessToken, memberURN, text, visibility string) (*PublishResult, error) {
	payload := map[string]interface{}{
		"author":     memberURN,
		"commentary": text,
		"visibility": visibility,
		"distribution": map[string]interface{}{
			"feedDistribution":               "MAIN_FEED",
			"targetEntities":                 []interface{}{},
			"thirdPartyDistributionChannels": []interface{}{},
		},
		"lifecycleState":            "PUBLISHED",
		"isReshareDisabledByViewer": false,
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetHeader("X-Restli-Protocol-Version", "2.0.0").
		SetHeader("LinkedIn-Version", c.cfg.APIVersion).
		SetBody(payload).
		Post(c.cfg.PostsURL)

	return c.handleResponse(ctx, resp, err, "rest_posts", http403IsFallback)
}

func (c *Client) postUGC(ctx context.Context, accessToken, memberURN, text, visibility string) (*PublishResult, error) {
	payload := map[string]interface{}{
		"author":         memberURN,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]interface{}{
			"com.linkedin.ugc.ShareContent": map[string]interface{}{
				"shareCommentary":    map[string]interface{}{"text": text},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]interface{}{
			"com.linkedin.ugc.MemberNetworkVisibility": visibility,
		},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetHeader("X-Restli-Protocol-Version", "2.0.0").
		SetBody(payload).
		Post(c.cfg.UGCPostsURL)

	return c.handleResponse(ctx, resp, err, "ugc_posts", false)
}

const http403IsFallback = true

// handleResponse 统一处理发布响应。错误信息只含状态码与端点名，不含响应体
func (c *Client) handleResponse(ctx context.Context, resp *resty.Response, err error, endpoint string, fallbackOn403 bool) (*PublishResult, error) {
	if err != nil {
		log.ErrorContext(ctx, "Publish request failed", "endpoint", endpoint, "err", err.Error())
		return nil, ErrPublishRejected
	}

	c.logRateLimitHeaders(ctx, resp, endpoint)

	status := resp.StatusCode()
	switch {
	case status == 429:
		return nil, &RateLimitError{RetryAfterSeconds: parseRetryAfter(resp.Header().Get("Retry-After"))}
	case status == 403 && fallbackOn403:
		return nil, errForbidden
	case status < 200 || status >= 300:
		log.ErrorContext(ctx, "Publish rejected by upstream", "endpoint", endpoint, "status", status)
		return nil, errors.Wrapf(ErrPublishRejected, "endpoint=%s status=%d", endpoint, status)
	}

	postURN := resp.Header().Get("x-restli-id")
	if postURN == "" {
		// 2xx 但没有帖子标识视为失败，不能让草稿被标记为已发布
		log.ErrorContext(ctx, "Publish response missing x-restli-id header", "endpoint", endpoint, "status", status)
		return nil, ErrMissingPostID
	}

	result := &PublishResult{PostURN: postURN, Endpoint: endpoint}
	if m := activityIDRegex.FindStringSubmatch(postURN); m != nil {
		result.ActivityID = m[1]
		result.PostURL = fmt.Sprintf("https://www.linkedin.com/feed/update/urn:li:activity:%s/", m[1])
	}

	log.InfoContext(ctx, "Post published", "endpoint", endpoint, "activity_id", result.ActivityID)
	return result, nil
}

func (c *Client) logRateLimitHeaders(ctx context.Context, resp *resty.Response, endpoint string) {
	remaining := resp.Header().Get("X-RateLimit-Remaining")
	limit := resp.Header().Get("X-RateLimit-Limit")
	if remaining == "" && limit == "" {
		return
	}
	log.InfoContext(ctx, "Upstream rate limit state",
		"endpoint", endpoint, "limit", limit, "remaining", remaining)
}

func parseRetryAfter(header string) int {
	if header == "" {
		return defaultRetryAfterSeconds
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return defaultRetryAfterSeconds
	}
	return seconds
}
