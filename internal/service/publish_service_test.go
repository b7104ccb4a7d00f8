package service

import (
	"Beacon/internal/api/config"
	"Beacon/internal/api/dto"
	"Beacon/internal/model"
	"Beacon/internal/pkg/linkedin"
	"Beacon/internal/repository"
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

type stubGateway struct {
	calls  int
	result *linkedin.PublishResult
	err    error
}

func (g *stubGateway) CreatePost(ctx context.Context, accessToken, memberURN, text, visibility string) (*linkedin.PublishResult, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

func publishFixture(t *testing.T) (*gorm.DB, *stubGateway, PublishService) {
	t.Helper()
	db := newTestDB(t)
	gateway := &stubGateway{
		result: &linkedin.PublishResult{
			PostURN:    "urn:li:share:555",
			ActivityID: "555",
			PostURL:    "https://www.linkedin.com/feed/update/urn:li:activity:555/",
			Endpoint:   "rest_posts",
		},
	}
	svc := NewPublishService(
		repository.NewPostRepository(db),
		repository.NewTokenRepository(db),
		gateway,
		config.PublishConfig{CSRFSecret: "test-secret", DedupWindow: 60, DedupCapacity: 100},
	)
	return db, gateway, svc
}

func seedToken(t *testing.T, db *gorm.DB, scopes, memberID string) {
	t.Helper()
	err := repository.NewTokenRepository(db).SaveToken(context.Background(), &model.OAuthToken{
		Provider:    "linkedin",
		AccessToken: "tok",
		Scopes:      scopes,
		MemberID:    memberID,
		ExpiresAt:   time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestPublishHappyPath(t *testing.T) {
	db, gateway, svc := publishFixture(t)
	seedToken(t, db, "openid w_member_social", "abc")
	ctx := context.Background()

	nonce, token := svc.IssueCSRF()
	result, err := svc.Publish(ctx, &dto.PublishDTO{Text: "hello world", Title: "Greeting"}, nonce, token)
	if err != nil {
		t.Fatal(err)
	}
	if gateway.calls != 1 {
		t.Fatalf("gateway calls = %d", gateway.calls)
	}
	if result.Status != model.PostStatusPublished || result.LinkedInPostID != "urn:li:share:555" {
		t.Fatalf("unexpected result: %+v", result)
	}

	post, err := repository.NewPostRepository(db).GetPost(ctx, result.PostID)
	if err != nil {
		t.Fatal(err)
	}
	if post.Status != model.PostStatusPublished || post.Content != "hello world" {
		t.Fatalf("unexpected post: %+v", post)
	}
	if post.LinkedInPostID == nil || *post.LinkedInPostID != "555" {
		t.Fatalf("linkedin id = %v", post.LinkedInPostID)
	}
}

// CSRF 失败必须在触达网关之前短路
func TestPublishCSRFFailureShortCircuits(t *testing.T) {
	db, gateway, svc := publishFixture(t)
	seedToken(t, db, "w_member_social", "abc")

	nonce, _ := svc.IssueCSRF()
	_, err := svc.Publish(context.Background(), &dto.PublishDTO{Text: "hi"}, nonce, "forged-token")
	if !errors.Is(err, ErrCSRFInvalid) {
		t.Fatalf("expected ErrCSRFInvalid, got %v", err)
	}
	if gateway.calls != 0 {
		t.Fatalf("gateway must not be called, calls = %d", gateway.calls)
	}

	var count int64
	db.Model(&model.Post{}).Count(&count)
	if count != 0 {
		t.Fatal("no post row may be written on CSRF failure")
	}
}

func TestPublishConnectionGates(t *testing.T) {
	cases := []struct {
		name    string
		seed    func(t *testing.T, db *gorm.DB)
		wantErr error
	}{
		{"not connected", func(t *testing.T, db *gorm.DB) {}, ErrNotConnected},
		{"expired token", func(t *testing.T, db *gorm.DB) {
			err := repository.NewTokenRepository(db).SaveToken(context.Background(), &model.OAuthToken{
				Provider: "linkedin", AccessToken: "tok", Scopes: "w_member_social",
				MemberID: "abc", ExpiresAt: time.Now().Add(-time.Hour),
			})
			if err != nil {
				t.Fatal(err)
			}
		}, ErrTokenExpired},
		{"scope missing", func(t *testing.T, db *gorm.DB) {
			seedToken(t, db, "openid profile", "abc")
		}, ErrScopeMissing},
		{"member id missing", func(t *testing.T, db *gorm.DB) {
			seedToken(t, db, "w_member_social", "")
		}, ErrMemberIDMissing},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			db, gateway, svc := publishFixture(t)
			c.seed(t, db)

			nonce, token := svc.IssueCSRF()
			_, err := svc.Publish(context.Background(), &dto.PublishDTO{Text: "hi"}, nonce, token)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("expected %v, got %v", c.wantErr, err)
			}
			if gateway.calls != 0 {
				t.Fatalf("gateway must not be called, calls = %d", gateway.calls)
			}
		})
	}
}

func TestPublishTextValidation(t *testing.T) {
	_, gateway, svc := publishFixture(t)
	nonce, token := svc.IssueCSRF()

	if _, err := svc.Publish(context.Background(), &dto.PublishDTO{Text: "   "}, nonce, token); !errors.Is(err, ErrPostTextEmpty) {
		t.Fatalf("expected ErrPostTextEmpty, got %v", err)
	}

	long := make([]byte, 3001)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := svc.Publish(context.Background(), &dto.PublishDTO{Text: string(long)}, nonce, token); !errors.Is(err, ErrPostTextTooLong) {
		t.Fatalf("expected ErrPostTextTooLong, got %v", err)
	}
	if gateway.calls != 0 {
		t.Fatal("validation failures must not reach the gateway")
	}
}

// 幂等窗口：相同文本 60 秒内第二次发布被拒
func TestPublishDuplicateWindow(t *testing.T) {
	db, gateway, svc := publishFixture(t)
	seedToken(t, db, "w_member_social", "abc")
	ctx := context.Background()

	nonce, token := svc.IssueCSRF()
	if _, err := svc.Publish(ctx, &dto.PublishDTO{Text: "same text"}, nonce, token); err != nil {
		t.Fatal(err)
	}

	nonce, token = svc.IssueCSRF()
	_, err := svc.Publish(ctx, &dto.PublishDTO{Text: "same text"}, nonce, token)
	if !errors.Is(err, ErrDuplicatePublish) {
		t.Fatalf("expected ErrDuplicatePublish, got %v", err)
	}
	if gateway.calls != 1 {
		t.Fatalf("gateway calls = %d, want 1", gateway.calls)
	}

	// 不同文本不受影响
	gateway.result = &linkedin.PublishResult{PostURN: "urn:li:share:556", ActivityID: "556", Endpoint: "rest_posts"}
	nonce, token = svc.IssueCSRF()
	if _, err = svc.Publish(ctx, &dto.PublishDTO{Text: "different text"}, nonce, token); err != nil {
		t.Fatal(err)
	}
}

// 草稿发布后原地更新，同一草稿永远只有一行
func TestPublishDraftUpdatesInPlace(t *testing.T) {
	db, _, svc := publishFixture(t)
	seedToken(t, db, "w_member_social", "abc")
	ctx := context.Background()

	draft, err := svc.SaveDraft(ctx, &dto.PublishDTO{Text: "draft text", Title: "Draft"})
	if err != nil {
		t.Fatal(err)
	}
	if draft.Status != model.PostStatusDraft {
		t.Fatalf("status = %s", draft.Status)
	}

	nonce, token := svc.IssueCSRF()
	result, err := svc.Publish(ctx, &dto.PublishDTO{Text: "final text", DraftID: &draft.PostID}, nonce, token)
	if err != nil {
		t.Fatal(err)
	}
	if result.PostID != draft.PostID {
		t.Fatalf("draft row replaced: draft=%d published=%d", draft.PostID, result.PostID)
	}

	var count int64
	db.Model(&model.Post{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one row, got %d", count)
	}

	post, _ := repository.NewPostRepository(db).GetPost(ctx, result.PostID)
	if post.Status != model.PostStatusPublished || post.Content != "final text" {
		t.Fatalf("unexpected post: %+v", post)
	}
}

func TestPublishRateLimitSurfaced(t *testing.T) {
	db, gateway, svc := publishFixture(t)
	seedToken(t, db, "w_member_social", "abc")
	gateway.err = &linkedin.RateLimitError{RetryAfterSeconds: 42}

	nonce, token := svc.IssueCSRF()
	_, err := svc.Publish(context.Background(), &dto.PublishDTO{Text: "hi"}, nonce, token)

	var rle *RateLimitedError
	if !errors.As(err, &rle) {
		t.Fatalf("expected RateLimitedError, got %v", err)
	}
	if rle.RetryAfterSeconds != 42 {
		t.Fatalf("retry after = %d", rle.RetryAfterSeconds)
	}
	if !errors.Is(err, ErrRateLimited) {
		t.Fatal("rate limit error must map to ErrRateLimited")
	}
}

func TestPublishGatewayFailureSanitised(t *testing.T) {
	db, gateway, svc := publishFixture(t)
	seedToken(t, db, "w_member_social", "abc")
	gateway.err = errors.New("raw transport detail")

	nonce, token := svc.IssueCSRF()
	_, err := svc.Publish(context.Background(), &dto.PublishDTO{Text: "hi"}, nonce, token)
	if !errors.Is(err, ErrPublishGateway) {
		t.Fatalf("expected ErrPublishGateway, got %v", err)
	}

	var count int64
	db.Model(&model.Post{}).Count(&count)
	if count != 0 {
		t.Fatal("failed publish must not record a post")
	}
}
