package relationship

import (
	"context"
	"time"

	"SocialCore/logger"
	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/errs"
	"SocialCore/tools/safe"
)

// Notifier 收件箱投递（尽力而为，失败不回传）
type Notifier interface {
	DepositAsync(ctx context.Context, n socialmodel.Notification)
}

// Storage Service 依赖的存储面。mongo 实现见 Store。
type Storage interface {
	GetUser(ctx context.Context, userID string) (*socialmodel.User, error)
	ProbeRequest(ctx context.Context, from, to string) (*socialmodel.FriendRequest, bool, error)
	InsertRequest(ctx context.Context, req *socialmodel.FriendRequest) error
	MarkAccepted(ctx context.Context, fromID, toID string) error
	DeleteRequest(ctx context.Context, fromID, toID string) error
	AcceptedRequestsFrom(ctx context.Context, fromID string) ([]socialmodel.FriendRequest, error)
	AddFriend(ctx context.Context, userID, friendID string) error
	PullFriend(ctx context.Context, userID, friendID string) error
	AddBookkeeping(ctx context.Context, userID, field, otherID string) error
	PullBookkeeping(ctx context.Context, userID, field, otherID string) error
	AddBlocked(ctx context.Context, userID, blockedID string) error
	PullBlocked(ctx context.Context, userID, blockedID string) error
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	store    Storage
	notifier Notifier
}

func NewService(store Storage, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// SendRequest 发起好友申请。
// 已是好友 -> ErrAlreadyFriends；任一方向已有记录 -> 幂等成功（不新建）；
// 目标隐私规则不满足 -> ErrPrivacyDenied。
func (s *Service) SendRequest(ctx context.Context, selfID, targetID string) error {
	self, err := s.store.GetUser(ctx, selfID)
	if err != nil {
		return err
	}
	target, err := s.store.GetUser(ctx, targetID)
	if err != nil {
		return err
	}
	existing, _, err := s.store.ProbeRequest(ctx, selfID, targetID)
	if err != nil {
		return err
	}

	if err := DecideSend(self, target, existing != nil); err != nil {
		if errs.ErrAlreadyRequested.Is(err) {
			// 重复发送：保持恰好一条记录，按成功返回
			return nil
		}
		return err
	}

	req := &socialmodel.FriendRequest{
		ID:         socialmodel.RequestKey(selfID, targetID),
		From:       self.Snapshot(),
		To:         target.Snapshot(),
		Status:     socialmodel.RequestStatusPending,
		CreateTime: time.Now(),
	}
	if err := s.store.InsertRequest(ctx, req); err != nil {
		if errs.ErrAlreadyRequested.Is(err) {
			return nil // 并发重复：同样幂等
		}
		return err
	}

	// 双侧镜像账本（各自文档，信任客户端协议）
	if err := s.store.AddBookkeeping(ctx, selfID, socialmodel.UserFieldSentRequestIDs, targetID); err != nil {
		return err
	}
	if err := s.store.AddBookkeeping(ctx, targetID, socialmodel.UserFieldReceivedRequestIDs, selfID); err != nil {
		return err
	}

	s.notifier.DepositAsync(ctx, socialmodel.Notification{
		RecipientID: targetID,
		Kind:        socialmodel.NotifyFriendRequest,
		Actor:       self.Snapshot(),
	})
	return nil
}

// Accept 接收方同意：status->accepted 并立即把发起方加进自己的好友集合。
// 阶段1，单边先收敛；发起方那一侧等它的 Reconcile。
func (s *Service) Accept(ctx context.Context, selfID, requesterID string) error {
	if err := s.store.MarkAccepted(ctx, requesterID, selfID); err != nil {
		return err
	}
	if err := s.store.AddFriend(ctx, selfID, requesterID); err != nil {
		return err
	}
	if err := s.store.PullBookkeeping(ctx, selfID, socialmodel.UserFieldReceivedRequestIDs, requesterID); err != nil {
		return err
	}

	self, err := s.store.GetUser(ctx, selfID)
	if err != nil {
		return err
	}
	s.notifier.DepositAsync(ctx, socialmodel.Notification{
		RecipientID: requesterID,
		Kind:        socialmodel.NotifyRequestAccept,
		Actor:       self.Snapshot(),
	})
	return nil
}

// Decline 拒绝：直接删记录，幂等
func (s *Service) Decline(ctx context.Context, selfID, requesterID string) error {
	if err := s.store.DeleteRequest(ctx, requesterID, selfID); err != nil {
		return err
	}
	return s.store.PullBookkeeping(ctx, selfID, socialmodel.UserFieldReceivedRequestIDs, requesterID)
}

// Reconcile 阶段2：发起方消费 accepted 记录，关闭非对称窗口。
// 幂等，可在每次会话启动与后台周期任务反复执行。
func (s *Service) Reconcile(ctx context.Context, selfID string) error {
	accepted, err := s.store.AcceptedRequestsFrom(ctx, selfID)
	if err != nil {
		return err
	}
	for i := range accepted {
		friendID := accepted[i].To.UserID
		if err := s.store.AddFriend(ctx, selfID, friendID); err != nil {
			return err
		}
		if err := s.store.PullBookkeeping(ctx, selfID, socialmodel.UserFieldSentRequestIDs, friendID); err != nil {
			return err
		}
		// 记录已被两侧消费，删除
		if err := s.store.DeleteRequest(ctx, selfID, friendID); err != nil {
			return err
		}
		logger.Infof("[reconcile] converged friendship self=%s friend=%s", selfID, friendID)
	}
	return nil
}

// StartReconcileLoop 后台周期 reconcile；失败退避重试而不是静默丢弃
func (s *Service) StartReconcileLoop(ctx context.Context, selfID string, every time.Duration) {
	safe.SafeGo(func() {
		safe.RetryLoop(ctx, "reconcile", every, 2*time.Minute, func(c context.Context) error {
			return s.Reconcile(c, selfID)
		})
	})
}

// CancelRequest 发起方撤回：删记录 + 清两侧账本
func (s *Service) CancelRequest(ctx context.Context, selfID, targetID string) error {
	if err := s.store.DeleteRequest(ctx, selfID, targetID); err != nil {
		return err
	}
	if err := s.store.PullBookkeeping(ctx, selfID, socialmodel.UserFieldSentRequestIDs, targetID); err != nil {
		return err
	}
	return s.store.PullBookkeeping(ctx, targetID, socialmodel.UserFieldReceivedRequestIDs, selfID)
}

// Unfriend 服务端权威边界：校验双方存在后，事务内成对移除。
// 幂等（$pull 不存在的成员是 no-op）。
func (s *Service) Unfriend(ctx context.Context, selfID, otherID string) error {
	if _, err := s.store.GetUser(ctx, selfID); err != nil {
		return err
	}
	if _, err := s.store.GetUser(ctx, otherID); err != nil {
		return err
	}
	return s.store.Transaction(ctx, func(c context.Context) error {
		if err := s.store.PullFriend(c, selfID, otherID); err != nil {
			return err
		}
		return s.store.PullFriend(c, otherID, selfID)
	})
}

// Block 任意状态可达：清好友关系、清两个方向的申请、加入拉黑集合
func (s *Service) Block(ctx context.Context, selfID, otherID string) error {
	if _, err := s.store.GetUser(ctx, selfID); err != nil {
		return err
	}
	if _, err := s.store.GetUser(ctx, otherID); err != nil {
		return err
	}
	return s.store.Transaction(ctx, func(c context.Context) error {
		if err := s.store.PullFriend(c, selfID, otherID); err != nil {
			return err
		}
		if err := s.store.PullFriend(c, otherID, selfID); err != nil {
			return err
		}
		if err := s.store.DeleteRequest(c, selfID, otherID); err != nil {
			return err
		}
		if err := s.store.DeleteRequest(c, otherID, selfID); err != nil {
			return err
		}
		if err := s.store.PullBookkeeping(c, selfID, socialmodel.UserFieldSentRequestIDs, otherID); err != nil {
			return err
		}
		if err := s.store.PullBookkeeping(c, selfID, socialmodel.UserFieldReceivedRequestIDs, otherID); err != nil {
			return err
		}
		if err := s.store.PullBookkeeping(c, otherID, socialmodel.UserFieldSentRequestIDs, selfID); err != nil {
			return err
		}
		if err := s.store.PullBookkeeping(c, otherID, socialmodel.UserFieldReceivedRequestIDs, selfID); err != nil {
			return err
		}
		return s.store.AddBlocked(c, selfID, otherID)
	})
}

// Unblock 仅移出拉黑集合；关系回到 None
func (s *Service) Unblock(ctx context.Context, selfID, otherID string) error {
	return s.store.PullBlocked(ctx, selfID, otherID)
}
