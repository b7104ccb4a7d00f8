package model

import (
	"strings"
	"time"
)

// OAuthToken 外部授权凭据。授权码交换由外部协作方完成，本系统只读取结果：
// 已解析的访问令牌、授予的 scope 列表和成员标识
type OAuthToken struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Provider    string    `gorm:"type:varchar(20);not null;default:linkedin;uniqueIndex:idx_provider" json:"provider"`
	AccessToken string    `gorm:"type:varchar(512);not null" json:"-"`
	Scopes      string    `gorm:"type:varchar(255);not null" json:"scopes"` // 空格分隔
	MemberID    string    `gorm:"type:varchar(64)" json:"member_id"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (OAuthToken) TableName() string {
	return "oauth_tokens"
}

// HasScope 判断授权是否包含指定 scope
func (t *OAuthToken) HasScope(scope string) bool {
	for _, s := range strings.Fields(t.Scopes) {
		if s == scope {
			return true
		}
	}
	return false
}
