package api

import (
	"errors"
	"net/http"

	"SocialCore/logger"
	"SocialCore/tools/errs"

	"github.com/gin-gonic/gin"
)

// Resp 统一响应包。code=0 表示成功。
type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Resp{Code: 0, Msg: "ok", Data: data})
}

// Fail 业务错误按码映射 HTTP 状态；非业务错误一律 500，
// 细节只进日志不出网
func Fail(c *gin.Context, err error) {
	var ce errs.CodeError
	if !errors.As(errs.Unwrap(err), &ce) {
		logger.Errorf("[api] %s %s: %+v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, Resp{Code: errs.ServerInternalError, Msg: "internal error"})
		return
	}
	c.JSON(httpStatus(ce.Code), Resp{Code: ce.Code, Msg: ce.Msg})
}

func httpStatus(code int) int {
	switch code {
	case errs.NotFoundError:
		return http.StatusNotFound
	case errs.PermissionDeniedError, errs.PrivacyDeniedError,
		errs.CommentingSuspendedError, errs.PostingSuspendedError:
		return http.StatusForbidden
	case errs.ConflictError, errs.AlreadyFriendsError, errs.AlreadyRequestedError:
		return http.StatusConflict
	case errs.ValidationErrorCode:
		return http.StatusBadRequest
	case errs.TokenExpiredError:
		return http.StatusUnauthorized
	case errs.UploadFailureError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
