package relationship

import (
	"testing"

	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/errs"
)

func user(id string, friends ...string) *socialmodel.User {
	return &socialmodel.User{ID: id, FriendIDs: friends, PrivacyRule: socialmodel.PrivacyPublic}
}

func TestDecideSendAlreadyFriends(t *testing.T) {
	a := user("a", "b")
	b := user("b", "a")
	err := DecideSend(a, b, false)
	if !errs.ErrAlreadyFriends.Is(err) {
		t.Fatalf("expected AlreadyFriends, got %v", err)
	}
}

func TestDecideSendExistingRequestIsIdempotent(t *testing.T) {
	a := user("a")
	b := user("b")
	err := DecideSend(a, b, true)
	if !errs.ErrAlreadyRequested.Is(err) {
		t.Fatalf("expected AlreadyRequested, got %v", err)
	}
}

func TestDecideSendBlockedPair(t *testing.T) {
	a := user("a")
	b := user("b")
	b.BlockedIDs = []string{"a"}
	err := DecideSend(a, b, false)
	if !errs.ErrPermissionDenied.Is(err) {
		t.Fatalf("expected PermissionDenied, got %v", err)
	}
}

func TestDecideSendFriendsOfFriends(t *testing.T) {
	a := user("a", "x", "y")
	b := user("b", "z")
	b.PrivacyRule = socialmodel.PrivacyFriendsOfFriends

	if err := DecideSend(a, b, false); !errs.ErrPrivacyDenied.Is(err) {
		t.Fatalf("no mutual friends: expected PrivacyDenied, got %v", err)
	}

	b.FriendIDs = []string{"z", "y"} // y 是共同好友
	if err := DecideSend(a, b, false); err != nil {
		t.Fatalf("mutual friend present: expected ok, got %v", err)
	}
}

func TestDecideSendSelf(t *testing.T) {
	a := user("a")
	if err := DecideSend(a, a, false); !errs.ErrValidation.Is(err) {
		t.Fatalf("expected Validation, got %v", err)
	}
}

func TestPairStateTransitions(t *testing.T) {
	a := user("a")
	b := user("b")

	if st := PairState(a, b, nil, nil); st != StateNone {
		t.Fatalf("fresh pair: expected none, got %v", st)
	}

	req := &socialmodel.FriendRequest{
		ID:     socialmodel.RequestKey("a", "b"),
		Status: socialmodel.RequestStatusPending,
	}
	if st := PairState(a, b, req, nil); st != StatePendingOut {
		t.Fatalf("after send: expected pending_out, got %v", st)
	}
	if st := PairState(b, a, nil, req); st != StatePendingIn {
		t.Fatalf("receiver view: expected pending_in, got %v", st)
	}

	// 接收方 accept：b 侧已收敛，记录仍在（accepted），a 还没 reconcile
	req.Status = socialmodel.RequestStatusAccepted
	b.FriendIDs = []string{"a"}
	if st := PairState(a, b, req, nil); st != StatePendingOut {
		t.Fatalf("eventual-consistency window: expected pending_out, got %v", st)
	}

	// a reconcile：记录删除，两侧对称
	a.FriendIDs = []string{"b"}
	if st := PairState(a, b, nil, nil); st != StateFriends {
		t.Fatalf("after reconcile: expected friends, got %v", st)
	}

	// 拉黑排他
	b.BlockedIDs = []string{"a"}
	if st := PairState(a, b, nil, nil); st != StateBlocked {
		t.Fatalf("expected blocked, got %v", st)
	}
}
