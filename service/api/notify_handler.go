package api

import (
	midsec "SocialCore/middleware/security"
	"SocialCore/module/social/notify"
	"SocialCore/service/storage"
	"SocialCore/tools/errs"

	"github.com/gin-gonic/gin"
)

type notifyHandler struct {
	router *notify.Router
}

func (h *notifyHandler) inbox(c *gin.Context) {
	list, err := h.router.Inbox(c.Request.Context(), midsec.UserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, list)
}

type markReadReq struct {
	NotificationIDs []string `json:"notification_ids" binding:"required"`
}

func (h *notifyHandler) markRead(c *gin.Context) {
	var req markReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, errs.ErrValidation.WrapMsg(err.Error()))
		return
	}
	if err := h.router.ReadAll(c.Request.Context(), midsec.UserID(c), req.NotificationIDs); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

// unread 红点走缓存计数
func (h *notifyHandler) unread(c *gin.Context) {
	n, err := storage.GetUnread(c.Request.Context(), midsec.UserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"unread": n})
}
