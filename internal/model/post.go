package model

import (
	"time"
)

// Post 状态值。空字符串表示仅从导出文件得知、从未在本系统内创作的帖子
const (
	PostStatusDraft           = "draft"
	PostStatusPublished       = "published"
	PostStatusAnalyticsLinked = "analytics_linked"
)

type Post struct {
	ID             uint64     `gorm:"primaryKey" json:"id"`
	LinkedInPostID *string    `gorm:"column:linkedin_post_id;type:varchar(64);uniqueIndex:idx_linkedin_post_id" json:"linkedin_post_id"`
	PostURL        string     `gorm:"type:varchar(255)" json:"post_url"`
	DraftID        string     `gorm:"type:varchar(20)" json:"draft_id"`
	Title          *string    `gorm:"type:varchar(100);index:idx_date_title" json:"title"`
	PostDate       time.Time  `gorm:"not null;index:idx_date_title;column:post_date" json:"post_date"`
	PostType       string     `gorm:"type:varchar(30)" json:"post_type"`
	Content        string     `json:"content"` // 仅当通过本系统撰写/发布时才有值
	Status         string     `gorm:"type:varchar(20)" json:"status"`
	Impressions    int        `gorm:"not null;default:0" json:"impressions"`
	MembersReached int        `gorm:"not null;default:0" json:"members_reached"`
	Reactions      int        `gorm:"not null;default:0" json:"reactions"`
	Comments       int        `gorm:"not null;default:0" json:"comments"`
	Shares         int        `gorm:"not null;default:0" json:"shares"`
	Clicks         int        `gorm:"not null;default:0" json:"clicks"`
	Saves          int        `gorm:"not null;default:0" json:"saves"`
	Sends          int        `gorm:"not null;default:0" json:"sends"`
	ProfileViews   int        `gorm:"not null;default:0" json:"profile_views"`
	FollowersGained int       `gorm:"not null;default:0" json:"followers_gained"`
	Reposts        int        `gorm:"not null;default:0" json:"reposts"`
	EngagementRate float64    `gorm:"not null;default:0" json:"engagement_rate"`
	Topic          string     `gorm:"type:varchar(50)" json:"topic"`
	ContentFormat  string     `gorm:"type:varchar(30)" json:"content_format"`
	HookStyle      string     `gorm:"type:varchar(30)" json:"hook_style"`
	LengthBucket   string     `gorm:"type:varchar(20)" json:"length_bucket"`
	PostHour       *int       `json:"post_hour"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// 关联关系
	DailyMetrics []DailyMetric     `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Demographics []PostDemographic `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Post) TableName() string {
	return "posts"
}

// RecalculateEngagementRate 按合并后的累计指标重算互动率
func (p *Post) RecalculateEngagementRate() {
	if p.Impressions > 0 {
		p.EngagementRate = float64(p.Reactions+p.Comments+p.Shares) / float64(p.Impressions)
	} else {
		p.EngagementRate = 0
	}
}

// WeightedScore 质量加权互动分。评论权重 3、转发权重 4，放大深度互动信号
func (p *Post) WeightedScore() float64 {
	if p.Impressions == 0 {
		return 0
	}
	return float64(p.Reactions+3*p.Comments+4*p.Shares) / float64(p.Impressions)
}
