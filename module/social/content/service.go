package content

import (
	"context"
	"time"

	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/errs"
	"SocialCore/tools/ids"
)

// Uploader 外部媒体服务（对象存储/CDN）。上传失败与存储错误分开上报。
type Uploader interface {
	Upload(ctx context.Context, data []byte, mimeHint string) (url string, kind string, err error)
}

// Notifier 收件箱投递（尽力而为）
type Notifier interface {
	DepositAsync(ctx context.Context, n socialmodel.Notification)
}

// UnreadCache 会话未读数缓存的失效出口，可为 nil
type UnreadCache interface {
	Invalidate(ctx context.Context, convID, viewerID string)
}

// Engine 共享内容文档的读改写引擎。所有内嵌序列修改走事务，
// 事务体保持纯函数，交给驱动自动重试。
type Engine struct {
	store    *Store
	uploader Uploader
	notifier Notifier
	unread   UnreadCache
}

func NewEngine(store *Store, uploader Uploader, notifier Notifier) *Engine {
	return &Engine{store: store, uploader: uploader, notifier: notifier}
}

// SetUnreadCache 挂接未读缓存失效（发消息/置已读后删 key）
func (e *Engine) SetUnreadCache(c UnreadCache) { e.unread = c }

// PostInput 建帖入参。ImageData 非空时先走媒体服务换 URL。
type PostInput struct {
	Text      string
	ImageData []byte
	ImageMime string
	Poll      *socialmodel.Poll
}

func (e *Engine) CreatePost(ctx context.Context, authorID string, in PostInput) (*socialmodel.Post, error) {
	author, err := e.store.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author.PostSuspended(time.Now()) {
		return nil, errs.ErrPostingSuspended.WrapMsg("until", "t", author.PostSuspendedUntil)
	}

	imageURL := ""
	if len(in.ImageData) > 0 {
		if e.uploader == nil {
			return nil, errs.ErrUploadFailure.WrapMsg("media service unavailable")
		}
		url, _, err := e.uploader.Upload(ctx, in.ImageData, in.ImageMime)
		if err != nil {
			return nil, errs.ErrUploadFailure.WrapMsg(err.Error())
		}
		imageURL = url
	}
	if in.Text == "" && imageURL == "" && in.Poll == nil {
		return nil, errs.ErrValidation.WrapMsg("empty post")
	}

	p := &socialmodel.Post{
		ID:         ids.GenerateString(),
		Author:     author.Snapshot(),
		CreateTime: time.Now(),
		Text:       in.Text,
		ImageURL:   imageURL,
		Comments:   []socialmodel.Comment{},
		Reactions:  map[string]string{},
		Poll:       in.Poll,
	}
	if err := e.store.InsertPost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// TogglePostReaction 同 emoji 再点取消，异 emoji 覆盖；只动 reactions.<userID> 一个键
func (e *Engine) TogglePostReaction(ctx context.Context, postID, userID, emoji string) error {
	p, err := e.store.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	_, present := ToggleEmoji(p.Reactions, userID, emoji)
	if !present {
		return e.store.UnsetPostReaction(ctx, postID, userID)
	}
	if err := e.store.SetPostReaction(ctx, postID, userID, emoji); err != nil {
		return err
	}
	if p.Author.UserID != userID {
		actor, err := e.store.GetUser(ctx, userID)
		if err == nil {
			e.notifier.DepositAsync(ctx, socialmodel.Notification{
				RecipientID: p.Author.UserID,
				Kind:        socialmodel.NotifyPostReaction,
				Actor:       actor.Snapshot(),
				PostID:      postID,
			})
		}
	}
	return nil
}

// AddComment 校验禁言与内容变体后，事务内把评论追加进序列。
// comment_count 在事务外单独 $inc。
func (e *Engine) AddComment(ctx context.Context, postID, authorID string, v Variant, parentID string) (string, error) {
	author, err := e.store.GetUser(ctx, authorID)
	if err != nil {
		return "", err
	}
	if author.CommentSuspended(time.Now()) {
		return "", errs.ErrCommentingSuspended.WrapMsg("until", "t", author.CommentSuspendedUntil)
	}
	kind, err := v.Resolve()
	if err != nil {
		return "", err
	}

	commentID := ids.GenerateString()
	var postAuthor, parentAuthor string
	err = e.store.MutatePost(ctx, postID, func(p *socialmodel.Post) (bool, error) {
		c := socialmodel.Comment{
			ID:         commentID,
			Author:     author.Snapshot(),
			ParentID:   ResolveParentID(p.Comments, parentID),
			CreateTime: time.Now(),
		}
		v.applyToComment(&c, kind)
		if c.ParentID != "" {
			if i := p.FindComment(c.ParentID); i >= 0 {
				parentAuthor = p.Comments[i].Author.UserID
			}
		}
		postAuthor = p.Author.UserID
		p.Comments = append(p.Comments, c)
		return true, nil
	})
	if err != nil {
		return "", err
	}
	if err := e.store.IncCommentCount(ctx, postID, 1); err != nil {
		return "", err
	}

	if postAuthor != "" && postAuthor != authorID {
		e.notifier.DepositAsync(ctx, socialmodel.Notification{
			RecipientID: postAuthor,
			Kind:        socialmodel.NotifyComment,
			Actor:       author.Snapshot(),
			PostID:      postID,
		})
	}
	if parentAuthor != "" && parentAuthor != authorID && parentAuthor != postAuthor {
		e.notifier.DepositAsync(ctx, socialmodel.Notification{
			RecipientID: parentAuthor,
			Kind:        socialmodel.NotifyCommentReply,
			Actor:       author.Snapshot(),
			PostID:      postID,
		})
	}
	return commentID, nil
}

// EditComment 仅作者可改，内容重新校验
func (e *Engine) EditComment(ctx context.Context, postID, commentID, editorID string, v Variant) error {
	kind, err := v.Resolve()
	if err != nil {
		return err
	}
	return e.store.MutatePost(ctx, postID, func(p *socialmodel.Post) (bool, error) {
		i := p.FindComment(commentID)
		if i < 0 {
			return false, errs.ErrNotFound.WrapMsg("comment", "id", commentID)
		}
		c := &p.Comments[i]
		if c.Author.UserID != editorID {
			return false, errs.ErrPermissionDenied.WrapMsg("not the comment author")
		}
		if c.IsDeleted {
			return false, errs.ErrNotFound.WrapMsg("comment deleted", "id", commentID)
		}
		v.applyToComment(c, kind)
		return true, nil
	})
}

// DeleteComment 软删。评论作者或帖子作者可删；重复删除幂等。
func (e *Engine) DeleteComment(ctx context.Context, postID, commentID, actorID string) error {
	deleted := false
	err := e.store.MutatePost(ctx, postID, func(p *socialmodel.Post) (bool, error) {
		deleted = false // 事务重放时重置
		i := p.FindComment(commentID)
		if i < 0 {
			return false, errs.ErrNotFound.WrapMsg("comment", "id", commentID)
		}
		c := &p.Comments[i]
		if c.Author.UserID != actorID && p.Author.UserID != actorID {
			return false, errs.ErrPermissionDenied.WrapMsg("not comment or post author")
		}
		if c.IsDeleted {
			return false, nil
		}
		softDeleteComment(c)
		deleted = true
		return true, nil
	})
	if err != nil {
		return err
	}
	if deleted {
		return e.store.IncCommentCount(ctx, postID, -1)
	}
	return nil
}

// ToggleCommentReaction 评论表情在事务体内走同一套 map 语义
func (e *Engine) ToggleCommentReaction(ctx context.Context, postID, commentID, userID, emoji string) error {
	return e.store.MutatePost(ctx, postID, func(p *socialmodel.Post) (bool, error) {
		i := p.FindComment(commentID)
		if i < 0 {
			return false, errs.ErrNotFound.WrapMsg("comment", "id", commentID)
		}
		c := &p.Comments[i]
		if c.IsDeleted {
			return false, errs.ErrNotFound.WrapMsg("comment deleted", "id", commentID)
		}
		c.Reactions, _ = ToggleEmoji(c.Reactions, userID, emoji)
		return true, nil
	})
}

// Vote 投票。重复投票静默返回未修改状态。
func (e *Engine) Vote(ctx context.Context, postID, userID string, optionIdx int) error {
	return e.store.MutatePost(ctx, postID, func(p *socialmodel.Post) (bool, error) {
		return applyVote(p.Poll, userID, optionIdx)
	})
}

// MarkBestAnswer 仅帖子作者可标记
func (e *Engine) MarkBestAnswer(ctx context.Context, postID, actorID, commentID string) error {
	var commentAuthor string
	err := e.store.MutatePost(ctx, postID, func(p *socialmodel.Post) (bool, error) {
		if p.Author.UserID != actorID {
			return false, errs.ErrPermissionDenied.WrapMsg("only the post author marks best answer")
		}
		i := p.FindComment(commentID)
		if i < 0 || p.Comments[i].IsDeleted {
			return false, errs.ErrNotFound.WrapMsg("comment", "id", commentID)
		}
		commentAuthor = p.Comments[i].Author.UserID
		p.BestAnswerID = commentID
		return true, nil
	})
	if err != nil {
		return err
	}
	if commentAuthor != "" && commentAuthor != actorID {
		actor, aerr := e.store.GetUser(ctx, actorID)
		if aerr == nil {
			e.notifier.DepositAsync(ctx, socialmodel.Notification{
				RecipientID: commentAuthor,
				Kind:        socialmodel.NotifyBestAnswer,
				Actor:       actor.Snapshot(),
				PostID:      postID,
			})
		}
	}
	return nil
}

// SendMessage 两人会话发消息：会话档案 upsert + 插消息。
// replyToID 非空时服务端回查原消息生成摘要，不信任客户端拼的预览。
func (e *Engine) SendMessage(ctx context.Context, senderID, recipientID string, v Variant, replyToID string) (*socialmodel.Message, error) {
	kind, err := v.Resolve()
	if err != nil {
		return nil, err
	}
	convID := socialmodel.ConversationKey(senderID, recipientID)
	now := time.Now()

	var replyTo *socialmodel.ReplySnippet
	if replyToID != "" {
		orig, err := e.store.GetMessage(ctx, replyToID)
		if err != nil {
			return nil, err
		}
		if orig.ConversationID != convID {
			return nil, errs.ErrValidation.WrapMsg("reply target belongs to another conversation", "msg", replyToID)
		}
		ov := Variant{Text: orig.Text, ImageURL: orig.ImageURL, AudioURL: orig.AudioURL}
		replyTo = &socialmodel.ReplySnippet{
			MessageID: orig.ID,
			SenderID:  orig.SenderID,
			Preview:   ov.Preview(orig.Type),
		}
	}

	if err := e.store.UpsertConversation(ctx, convID, []string{senderID, recipientID}, now); err != nil {
		return nil, err
	}
	m := &socialmodel.Message{
		ID:             ids.GenerateString(),
		ConversationID: convID,
		SenderID:       senderID,
		RecipientID:    recipientID,
		ReplyTo:        replyTo,
		CreateTime:     now,
	}
	v.applyToMessage(m, kind)
	if err := e.store.InsertMessage(ctx, m); err != nil {
		return nil, err
	}
	if e.unread != nil {
		e.unread.Invalidate(ctx, convID, recipientID)
	}
	return m, nil
}

// ToggleMessageReaction 集合语义：只把用户从该 emoji 的集合加入/移除
func (e *Engine) ToggleMessageReaction(ctx context.Context, msgID, userID, emoji string) error {
	m, err := e.store.GetMessage(ctx, msgID)
	if err != nil {
		return err
	}
	_, present := ToggleEmojiSet(m.Reactions, userID, emoji)
	if present {
		return e.store.AddMessageReaction(ctx, msgID, userID, emoji)
	}
	return e.store.PullMessageReaction(ctx, msgID, userID, emoji)
}

// MarkConversationRead 批量置已读
func (e *Engine) MarkConversationRead(ctx context.Context, convID, viewerID string) error {
	if err := e.store.MarkMessagesRead(ctx, convID, viewerID); err != nil {
		return err
	}
	if e.unread != nil {
		e.unread.Invalidate(ctx, convID, viewerID)
	}
	return nil
}

// RecountComments 维护操作：按未删评论数重算 comment_count。
// 计数漂移是并发增删下的已知弱不变式，这里提供手动校正入口。
func (e *Engine) RecountComments(ctx context.Context, postID string) error {
	p, err := e.store.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	return e.store.SetCommentCount(ctx, postID, p.LiveCommentCount())
}
