package api

import (
	"encoding/base64"

	midsec "SocialCore/middleware/security"
	"SocialCore/module/social/content"
	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/errs"

	"github.com/gin-gonic/gin"
)

type contentHandler struct {
	engine *content.Engine
}

type createPostReq struct {
	Text      string   `json:"text"`
	ImageB64  string   `json:"image_b64"`
	ImageMime string   `json:"image_mime"`
	PollQ     string   `json:"poll_question"`
	PollOpts  []string `json:"poll_options"`
}

func (h *contentHandler) createPost(c *gin.Context) {
	var req createPostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, errs.ErrValidation.WrapMsg(err.Error()))
		return
	}
	in := content.PostInput{Text: req.Text, ImageMime: req.ImageMime}
	if req.ImageB64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.ImageB64)
		if err != nil {
			Fail(c, errs.ErrValidation.WrapMsg("bad image encoding"))
			return
		}
		in.ImageData = data
	}
	if len(req.PollOpts) > 0 {
		poll := &socialmodel.Poll{Question: req.PollQ}
		for _, opt := range req.PollOpts {
			poll.Options = append(poll.Options, socialmodel.PollOption{Text: opt})
		}
		in.Poll = poll
	}
	post, err := h.engine.CreatePost(c.Request.Context(), midsec.UserID(c), in)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, post)
}

type reactionReq struct {
	PostID    string `json:"post_id"`
	CommentID string `json:"comment_id"`
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji" binding:"required"`
}

func (h *contentHandler) react(c *gin.Context) {
	var req reactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, errs.ErrValidation.WrapMsg(err.Error()))
		return
	}
	ctx := c.Request.Context()
	self := midsec.UserID(c)
	var err error
	switch {
	case req.MessageID != "":
		err = h.engine.ToggleMessageReaction(ctx, req.MessageID, self, req.Emoji)
	case req.CommentID != "":
		err = h.engine.ToggleCommentReaction(ctx, req.PostID, req.CommentID, self, req.Emoji)
	case req.PostID != "":
		err = h.engine.TogglePostReaction(ctx, req.PostID, self, req.Emoji)
	default:
		err = errs.ErrValidation.WrapMsg("missing reaction target")
	}
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

type commentReq struct {
	PostID        string `json:"post_id" binding:"required"`
	ParentID      string `json:"parent_id"`
	Text          string `json:"text"`
	ImageURL      string `json:"image_url"`
	AudioURL      string `json:"audio_url"`
	AudioDuration int    `json:"audio_duration"`
}

func (r *commentReq) variant() content.Variant {
	return content.Variant{
		Text:          r.Text,
		ImageURL:      r.ImageURL,
		AudioURL:      r.AudioURL,
		AudioDuration: r.AudioDuration,
	}
}

func (h *contentHandler) addComment(c *gin.Context) {
	var req commentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, errs.ErrValidation.WrapMsg(err.Error()))
		return
	}
	id, err := h.engine.AddComment(c.Request.Context(), req.PostID, midsec.UserID(c), req.variant(), req.ParentID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"comment_id": id})
}

type editCommentReq struct {
	commentReq
	CommentID string `json:"comment_id" binding:"required"`
}

func (h *contentHandler) editComment(c *gin.Context) {
	var req editCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, errs.ErrValidation.WrapMsg(err.Error()))
		return
	}
	err := h.engine.EditComment(c.Request.Context(), req.PostID, req.CommentID, midsec.UserID(c), req.variant())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

type commentRefReq struct {
	PostID    string `json:"post_id" binding:"required"`
	CommentID string `json:"comment_id" binding:"required"`
}

func (h *contentHandler) deleteComment(c *gin.Context) {
	var req commentRefReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, errs.ErrValidation.WrapMsg(err.Error()))
		return
	}
	if err := h.engine.DeleteComment(c.Request.Context(), req.PostID, req.CommentID, midsec.UserID(c)); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

func (h *contentHandler) markBestAnswer(c *gin.Context) {
	var req commentRefReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, errs.ErrValidation.WrapMsg(err.Error()))
		return
	}
	if err := h.engine.MarkBestAnswer(c.Request.Context(), req.PostID, midsec.UserID(c), req.CommentID); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

type voteReq struct {
	PostID    string `json:"post_id" binding:"required"`
	OptionIdx int    `json:"option_idx"`
}

func (h *contentHandler) vote(c *gin.Context) {
	var req voteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, errs.ErrValidation.WrapMsg(err.Error()))
		return
	}
	if err := h.engine.Vote(c.Request.Context(), req.PostID, midsec.UserID(c), req.OptionIdx); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

type recountReq struct {
	PostID string `json:"post_id" binding:"required"`
}

// recount 运维入口：按未删评论数校正 comment_count
func (h *contentHandler) recountComments(c *gin.Context) {
	var req recountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, errs.ErrValidation.WrapMsg(err.Error()))
		return
	}
	if err := h.engine.RecountComments(c.Request.Context(), req.PostID); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

type sendMessageReq struct {
	RecipientID   string `json:"recipient_id" binding:"required"`
	Text          string `json:"text"`
	ImageURL      string `json:"image_url"`
	AudioURL      string `json:"audio_url"`
	AudioDuration int    `json:"audio_duration"`

	// 引用回复只传原消息 id，摘要由服务端回查生成
	ReplyToMessageID string `json:"reply_to_message_id"`
}

func (h *contentHandler) sendMessage(c *gin.Context) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, errs.ErrValidation.WrapMsg(err.Error()))
		return
	}
	v := content.Variant{
		Text:          req.Text,
		ImageURL:      req.ImageURL,
		AudioURL:      req.AudioURL,
		AudioDuration: req.AudioDuration,
	}
	msg, err := h.engine.SendMessage(c.Request.Context(), midsec.UserID(c), req.RecipientID, v, req.ReplyToMessageID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, msg)
}

type convReq struct {
	ConversationID string `json:"conversation_id" binding:"required"`
}

func (h *contentHandler) markConversationRead(c *gin.Context) {
	var req convReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, errs.ErrValidation.WrapMsg(err.Error()))
		return
	}
	if err := h.engine.MarkConversationRead(c.Request.Context(), req.ConversationID, midsec.UserID(c)); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}
