package security

import (
	"net/http"
	"strings"

	"SocialCore/tools/errs"
	secu "SocialCore/tools/security"

	"github.com/gin-gonic/gin"
)

// —— context key ——
// 后续 handler 统一用这俩 key 读取
const (
	CtxUserIDKey = "authUserID" // string
	CtxScopesKey = "authScopes" // []string
)

type Options struct {
	JWT secu.Options

	HeaderToken               string // 默认 "authorization"
	EnableAuthorizationBearer bool   // 默认 true，兼容 Authorization: Bearer xxx
}

func DefaultOptions(secret []byte) *Options {
	return &Options{
		JWT:                       secu.DefaultOptions(secret),
		HeaderToken:               "authorization",
		EnableAuthorizationBearer: true,
	}
}

// Middleware 校验 JWT 并把用户ID写进 gin context。
// 无 token 或校验失败一律按过期处理，前端统一跳登录。
func Middleware(opts *Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(opts.HeaderToken))
		if token == "" && opts.EnableAuthorizationBearer {
			if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
				if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					token = strings.TrimSpace(authz[len("bearer "):])
				}
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errs.TokenExpiredError,
				"msg":  "missing token",
			})
			return
		}

		claims, err := secu.Verify(opts.JWT, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errs.TokenExpiredError,
				"msg":  "token invalid or expired",
			})
			return
		}

		c.Set(CtxUserIDKey, claims.Subject())
		if scopes, ok := claims.MapClaims[secu.ClaimScope]; ok {
			c.Set(CtxScopesKey, scopes)
		}
		c.Next()
	}
}

// UserID 从 gin context 取当前登录用户
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
