package api

import (
	midsec "SocialCore/middleware/security"
	"SocialCore/tools/errs"
	secu "SocialCore/tools/security"

	"github.com/gin-gonic/gin"
)

// authHandler 签发访问令牌。身份校验在账号系统那侧，
// 这里信任调用方传来的 user_id（网关内部接口）。
type authHandler struct {
	jwtOpts *midsec.Options
}

type tokenReq struct {
	UserID string   `json:"user_id" binding:"required"`
	Scopes []string `json:"scopes"`
}

func (h *authHandler) token(c *gin.Context) {
	var req tokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, errs.ErrValidation.WrapMsg(err.Error()))
		return
	}
	token, expireAt, err := secu.Generate(h.jwtOpts.JWT, req.UserID, req.Scopes)
	if err != nil {
		Fail(c, errs.Wrap(err))
		return
	}
	OK(c, gin.H{
		"token":     token,
		"expire_at": expireAt.Unix(),
		"hash":      secu.HashToken(token),
	})
}
