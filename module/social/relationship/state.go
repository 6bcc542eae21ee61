package relationship

import (
	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/errs"
)

// 无序用户对的关系状态机：
//
//	None -> RequestPending(发起方) -> Friends
//
// Blocked 与其余状态并行互斥，任意状态可达。
// 两侧各自只写自己的记录，Friends 的收敛分两阶段：
// 阶段1 接收方 Accept（单边立即生效），阶段2 发起方 Reconcile 关闭缺口。
// 在阶段2 运行前关系是非对称的，这是协议约定的最终一致窗口，不是缺陷。
type State int

const (
	StateNone State = iota
	StatePendingOut        // 我发出的申请等待对方处理
	StatePendingIn         // 对方发来的申请等待我处理
	StateFriends
	StateBlocked
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StatePendingOut:
		return "pending_out"
	case StatePendingIn:
		return "pending_in"
	case StateFriends:
		return "friends"
	case StateBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// PairState 以 self 的视角推导当前状态。
// outReq/inReq 分别为 self->other 与 other->self 的申请记录（可为 nil）。
func PairState(self, other *socialmodel.User, outReq, inReq *socialmodel.FriendRequest) State {
	if self.HasBlocked(other.ID) || other.HasBlocked(self.ID) {
		return StateBlocked
	}
	if self.IsFriend(other.ID) && other.IsFriend(self.ID) {
		return StateFriends
	}
	// 单边已收敛（accepted 未 reconcile）仍视为 pending 中
	if outReq != nil {
		return StatePendingOut
	}
	if inReq != nil {
		return StatePendingIn
	}
	if self.IsFriend(other.ID) || other.IsFriend(self.ID) {
		// 申请记录已消费、另一侧还未收敛的短暂窗口
		return StateFriends
	}
	return StateNone
}

// DecideSend 判定 self 能否向 target 发起申请。
// requestExists 表示任一方向已存在申请记录。
// 返回 nil 表示可以创建新记录；ErrAlreadyRequested 由调用方按幂等成功处理。
func DecideSend(self, target *socialmodel.User, requestExists bool) error {
	if self.ID == target.ID {
		return errs.ErrValidation.WrapMsg("cannot friend yourself")
	}
	if self.HasBlocked(target.ID) || target.HasBlocked(self.ID) {
		return errs.ErrPermissionDenied.WrapMsg("pair is blocked")
	}
	if self.IsFriend(target.ID) && target.IsFriend(self.ID) {
		return errs.ErrAlreadyFriends.Wrap()
	}
	if requestExists {
		return errs.ErrAlreadyRequested.Wrap()
	}
	switch target.PrivacyRule {
	case "", socialmodel.PrivacyPublic:
		return nil
	case socialmodel.PrivacyFriends:
		// 仅好友可互动：不接受新申请
		return errs.ErrPrivacyDenied.WrapMsg("target accepts no requests")
	case socialmodel.PrivacyFriendsOfFriends:
		if len(socialmodel.MutualFriends(self, target)) == 0 {
			return errs.ErrPrivacyDenied.WrapMsg("no mutual friends")
		}
		return nil
	default:
		return errs.ErrPrivacyDenied.WrapMsg("unknown privacy rule", "rule", target.PrivacyRule)
	}
}
