package middleware

import (
	midsec "SocialCore/middleware/security"

	"github.com/gin-gonic/gin"
)

// 路由选项
type RouteOpt struct {
	IsAuth bool
}

var authOpts *midsec.Options

// ConfigAuth 启动时注入鉴权配置，IsAuth 路由共用这一份
func ConfigAuth(opts *midsec.Options) {
	authOpts = opts
}

// 封装 POST
func POST(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.POST(path, midsec.Middleware(authOpts), handler)
	} else {
		r.POST(path, handler)
	}
}

// 封装 GET
func GET(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.GET(path, midsec.Middleware(authOpts), handler)
	} else {
		r.GET(path, handler)
	}
}
