package handler

import (
	"Beacon/internal/api/dto"
	"Beacon/internal/pkg/consts"
	"Beacon/internal/pkg/response"
	"Beacon/internal/service"

	"github.com/gin-gonic/gin"
)

// nonce Cookie 的有效期，秒
const nonceCookieMaxAge = 600

type PublishHandler struct {
	publishService service.PublishService
}

func NewPublishHandler(publishService service.PublishService) *PublishHandler {
	return &PublishHandler{publishService: publishService}
}

// IssueToken 下发 CSRF 凭据：nonce 写 HttpOnly Cookie，token 由前端放请求头
func (h *PublishHandler) IssueToken(c *gin.Context) {
	nonce, token := h.publishService.IssueCSRF()
	c.SetCookie(consts.NonceCookieName, nonce, nonceCookieMaxAge, "/", "", false, true)
	response.Success(c, dto.CSRFTokenDTO{Token: token})
}

// Publish 发布或存草稿
func (h *PublishHandler) Publish(c *gin.Context) {
	var req dto.PublishDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if req.SaveAsDraft {
		result, err := h.publishService.SaveDraft(c.Request.Context(), &req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, result)
		return
	}

	nonce, _ := c.Cookie(consts.NonceCookieName)
	csrfToken := c.GetHeader(consts.CSRFHeaderName)

	result, err := h.publishService.Publish(c.Request.Context(), &req, nonce, csrfToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
