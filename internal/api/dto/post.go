package dto

// PostListItemDTO 帖子列表项
type PostListItemDTO struct {
	ID              uint64   `json:"id"`
	LinkedInPostID  *string  `json:"linkedin_post_id"`
	Title           *string  `json:"title"`
	PostDate        string   `json:"post_date"`
	PostType        string   `json:"post_type"`
	Status          string   `json:"status"`
	Impressions     int      `json:"impressions"`
	MembersReached  int      `json:"members_reached"`
	Reactions       int      `json:"reactions"`
	Comments        int      `json:"comments"`
	Shares          int      `json:"shares"`
	Clicks          int      `json:"clicks"`
	EngagementRate  float64  `json:"engagement_rate"`
	WeightedScore   float64  `json:"weighted_score"`
	Topic           string   `json:"topic"`
	ContentFormat   string   `json:"content_format"`
	HookStyle       string   `json:"hook_style"`
	LengthBucket    string   `json:"length_bucket"`
	PostHour        *int     `json:"post_hour"`
}

// PostDetailDTO 帖子详情，含受众画像
type PostDetailDTO struct {
	PostListItemDTO
	PostURL         string                `json:"post_url"`
	Content         string                `json:"content"`
	Saves           int                   `json:"saves"`
	Sends           int                   `json:"sends"`
	ProfileViews    int                   `json:"profile_views"`
	FollowersGained int                   `json:"followers_gained"`
	Reposts         int                   `json:"reposts"`
	Demographics    []*PostDemographicDTO `json:"demographics"`
}

// PostDemographicDTO 单帖受众画像行
type PostDemographicDTO struct {
	Category   string  `json:"category"`
	Value      string  `json:"value"`
	Percentage float64 `json:"percentage"`
}

// PostListDTO 帖子列表返回包装
type PostListDTO struct {
	Total int64              `json:"total"`
	Posts []*PostListItemDTO `json:"posts"`
}

// ListPostsQuery 列表查询参数，排序字段白名单由绑定校验约束
type ListPostsQuery struct {
	Sort   string `form:"sort" binding:"omitempty,oneof=post_date impressions engagement_rate reactions comments shares clicks created_at"`
	Order  string `form:"order" binding:"omitempty,oneof=asc desc"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

// UpdatePostDTO 手工修正请求，全部字段可选
type UpdatePostDTO struct {
	Topic         *string `json:"topic"`
	ContentFormat *string `json:"content_format"`
	HookStyle     *string `json:"hook_style"`
	LengthBucket  *string `json:"length_bucket"`
	Content       *string `json:"content"`
	Title         *string `json:"title"`
}
