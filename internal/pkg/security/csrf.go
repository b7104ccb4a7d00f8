package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

const csrfContext = "publish:"

// GenerateNonce 生成随机 nonce，写入 Cookie 用于双提交校验
func GenerateNonce() string {
	return uuid.NewString()
}

// GeneratePublishCSRFToken 基于服务端密钥对 nonce 做 HMAC-SHA256 签名。
// token 本身不含密钥信息，泄露 nonce 不足以伪造 token
func GeneratePublishCSRFToken(secret, nonce string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(csrfContext + nonce))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPublishCSRFToken 常量时间比较，nonce 或 token 为空直接拒绝
func VerifyPublishCSRFToken(secret, nonce, token string) bool {
	if nonce == "" || token == "" {
		return false
	}
	expected := GeneratePublishCSRFToken(secret, nonce)
	return hmac.Equal([]byte(expected), []byte(token))
}
