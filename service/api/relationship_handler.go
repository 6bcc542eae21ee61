package api

import (
	midsec "SocialCore/middleware/security"
	"SocialCore/module/social/relationship"
	"SocialCore/service/storage"
	"SocialCore/tools/errs"

	"github.com/gin-gonic/gin"
)

type relationshipHandler struct {
	svc *relationship.Service
}

type peerReq struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *relationshipHandler) bindPeer(c *gin.Context) (self, peer string, ok bool) {
	var req peerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, errs.ErrValidation.WrapMsg(err.Error()))
		return "", "", false
	}
	return midsec.UserID(c), req.UserID, true
}

func (h *relationshipHandler) sendRequest(c *gin.Context) {
	self, peer, ok := h.bindPeer(c)
	if !ok {
		return
	}
	if err := h.svc.SendRequest(c.Request.Context(), self, peer); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

func (h *relationshipHandler) accept(c *gin.Context) {
	self, peer, ok := h.bindPeer(c)
	if !ok {
		return
	}
	if err := h.svc.Accept(c.Request.Context(), self, peer); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

func (h *relationshipHandler) decline(c *gin.Context) {
	self, peer, ok := h.bindPeer(c)
	if !ok {
		return
	}
	if err := h.svc.Decline(c.Request.Context(), self, peer); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

func (h *relationshipHandler) cancel(c *gin.Context) {
	self, peer, ok := h.bindPeer(c)
	if !ok {
		return
	}
	if err := h.svc.CancelRequest(c.Request.Context(), self, peer); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

// reconcile 会话启动时拉一次：把对方已接受的申请收敛到自己这侧
func (h *relationshipHandler) reconcile(c *gin.Context) {
	if err := h.svc.Reconcile(c.Request.Context(), midsec.UserID(c)); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

func (h *relationshipHandler) unfriend(c *gin.Context) {
	self, peer, ok := h.bindPeer(c)
	if !ok {
		return
	}
	if err := h.svc.Unfriend(c.Request.Context(), self, peer); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

func (h *relationshipHandler) block(c *gin.Context) {
	self, peer, ok := h.bindPeer(c)
	if !ok {
		return
	}
	if err := h.svc.Block(c.Request.Context(), self, peer); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

func (h *relationshipHandler) unblock(c *gin.Context) {
	self, peer, ok := h.bindPeer(c)
	if !ok {
		return
	}
	if err := h.svc.Unblock(c.Request.Context(), self, peer); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

// presence 查好友在线状态（网关ID不外泄，只回布尔）
func (h *relationshipHandler) presence(c *gin.Context) {
	peer := c.Query("user_id")
	if peer == "" {
		Fail(c, errs.ErrValidation.WrapMsg("user_id required"))
		return
	}
	_, online, err := storage.PresenceLookup(c.Request.Context(), peer)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"user_id": peer, "online": online})
}
