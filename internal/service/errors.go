package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	TooManyRequests     = 429
	InternalServerError = 500
	BadGateway          = 502
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrFileNotSupported    = errors.New("不支持的文件类型")
	ErrFileTooLarge        = errors.New("文件超出大小限制")
	ErrDuplicateFile       = errors.New("文件已导入过")
	ErrUnknownFormat       = errors.New("无法识别的导出格式")
	ErrNoUsableRecords     = errors.New("文件中没有可导入的记录")
	ErrPostNotFound        = errors.New("帖子不存在")
	ErrPostTextEmpty       = errors.New("帖子内容不能为空")
	ErrPostTextTooLong     = errors.New("帖子内容超出长度上限")
	ErrCSRFInvalid         = errors.New("CSRF 校验失败")
	ErrNotConnected        = errors.New("LinkedIn 账号未连接")
	ErrTokenExpired        = errors.New("LinkedIn 授权已过期")
	ErrScopeMissing        = errors.New("授权缺少发布权限")
	ErrMemberIDMissing     = errors.New("授权信息缺少成员标识")
	ErrDuplicatePublish    = errors.New("相同内容刚刚发布过，请稍后再试")
	ErrRateLimited         = errors.New("上游接口限流")
	ErrPublishGateway      = errors.New("发布失败，上游接口异常")
	ErrDraftNotPublishable = errors.New("帖子当前状态不可发布")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrFileNotSupported:    BadRequest,
	ErrFileTooLarge:        BadRequest,
	ErrDuplicateFile:       Conflict,
	ErrUnknownFormat:       BadRequest,
	ErrNoUsableRecords:     BadRequest,
	ErrPostNotFound:        NotFound,
	ErrPostTextEmpty:       BadRequest,
	ErrPostTextTooLong:     BadRequest,
	ErrCSRFInvalid:         Forbidden,
	ErrNotConnected:        Unauthorized,
	ErrTokenExpired:        Unauthorized,
	ErrScopeMissing:        Forbidden,
	ErrMemberIDMissing:     Forbidden,
	ErrDuplicatePublish:    Conflict,
	ErrRateLimited:         TooManyRequests,
	ErrPublishGateway:      BadGateway,
	ErrDraftNotPublishable: Conflict,
	UnExpectedError:        InternalServerError,
}

// RateLimitedError 限流错误，除状态码外还要把等待秒数带给前端
type RateLimitedError struct {
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string {
	return ErrRateLimited.Error()
}

func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}
