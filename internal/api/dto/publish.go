package dto

// PublishDTO 发布请求。CSRF token 走请求头，nonce 走 Cookie，不放 body
type PublishDTO struct {
	Text        string  `json:"text" binding:"required"`
	Title       string  `json:"title"`
	DraftID     *uint64 `json:"draft_id"`
	Visibility  string  `json:"visibility"`
	SaveAsDraft bool    `json:"save_as_draft"`
}

// PublishResultDTO 发布成功返回
type PublishResultDTO struct {
	PostID         uint64 `json:"post_id"`
	LinkedInPostID string `json:"linkedin_post_id"`
	PostURL        string `json:"post_url"`
	Status         string `json:"status"`
}

// CSRFTokenDTO 发布前获取的 CSRF token
type CSRFTokenDTO struct {
	Token string `json:"token"`
}

// RateLimitDTO 限流返回，告知前端重试等待时间
type RateLimitDTO struct {
	RetryAfterSeconds int `json:"retry_after_seconds"`
}
