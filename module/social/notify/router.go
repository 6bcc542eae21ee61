package notify

import (
	"context"
	"time"

	"SocialCore/logger"
	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/safe"
)

// Counter 未读数缓存（redis 计数器）
type Counter interface {
	IncrUnread(ctx context.Context, userID string) error
	ResetUnread(ctx context.Context, userID string) error
}

// Pusher 在线推送出口（nats），失败不重试
type Pusher interface {
	PushNotification(ctx context.Context, n socialmodel.Notification) error
}

// Router 状态变化 -> 收件箱的尽力而为投递。
// 写失败不回传给触发方，后台带退避补投几次后放弃。
type Router struct {
	store   *Store
	counter Counter
	pusher  Pusher

	attempts int
	backoff  time.Duration
}

func NewRouter(store *Store, counter Counter, pusher Pusher) *Router {
	return &Router{
		store:    store,
		counter:  counter,
		pusher:   pusher,
		attempts: 3,
		backoff:  2 * time.Second,
	}
}

// DepositAsync 投递入口。立即返回，不阻塞触发方的主流程；
// 落库用独立超时上下文，调用方取消不影响在途投递。
func (r *Router) DepositAsync(_ context.Context, n socialmodel.Notification) {
	if n.RecipientID == "" || n.Kind == "" {
		return
	}
	safe.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		r.deposit(ctx, n)
	})
}

func (r *Router) deposit(ctx context.Context, n socialmodel.Notification) {
	backoff := r.backoff
	var err error
	for i := 0; i < r.attempts; i++ {
		if err = r.store.Insert(ctx, &n); err == nil {
			break
		}
		logger.Warnf("[notify] deposit kind=%s to=%s attempt=%d: %v", n.Kind, n.RecipientID, i+1, err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	if err != nil {
		logger.Errorf("[notify] deposit dropped kind=%s to=%s: %v", n.Kind, n.RecipientID, err)
		return
	}

	if r.counter != nil {
		if err := r.counter.IncrUnread(ctx, n.RecipientID); err != nil {
			logger.Warnf("[notify] unread incr to=%s: %v", n.RecipientID, err)
		}
	}
	if r.pusher != nil {
		if err := r.pusher.PushNotification(ctx, n); err != nil {
			logger.Warnf("[notify] push to=%s: %v", n.RecipientID, err)
		}
	}
}

// ReadAll 进收件箱页：批量置已读并清未读计数
func (r *Router) ReadAll(ctx context.Context, recipientID string, notificationIDs []string) error {
	if err := r.store.MarkRead(ctx, recipientID, notificationIDs); err != nil {
		return err
	}
	if r.counter != nil {
		if err := r.counter.ResetUnread(ctx, recipientID); err != nil {
			logger.Warnf("[notify] unread reset user=%s: %v", recipientID, err)
		}
	}
	return nil
}

func (r *Router) Inbox(ctx context.Context, recipientID string) ([]*socialmodel.Notification, error) {
	return r.store.Inbox(ctx, recipientID)
}
