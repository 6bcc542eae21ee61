package relationship

import (
	"context"
	"testing"

	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/errs"
)

// memStore 内存版 Storage，驱动 Service 跑完整握手协议
type memStore struct {
	users    map[string]*socialmodel.User
	requests map[string]*socialmodel.FriendRequest
}

func newMemStore(users ...*socialmodel.User) *memStore {
	m := &memStore{
		users:    map[string]*socialmodel.User{},
		requests: map[string]*socialmodel.FriendRequest{},
	}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memStore) GetUser(_ context.Context, userID string) (*socialmodel.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, errs.ErrNotFound.WrapMsg("user", "id", userID)
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) ProbeRequest(_ context.Context, from, to string) (*socialmodel.FriendRequest, bool, error) {
	if r, ok := m.requests[socialmodel.RequestKey(from, to)]; ok {
		return r, true, nil
	}
	if r, ok := m.requests[socialmodel.RequestKey(to, from)]; ok {
		return r, false, nil
	}
	return nil, false, nil
}

func (m *memStore) InsertRequest(_ context.Context, req *socialmodel.FriendRequest) error {
	if _, ok := m.requests[req.ID]; ok {
		return errs.ErrAlreadyRequested.Wrap()
	}
	m.requests[req.ID] = req
	return nil
}

func (m *memStore) MarkAccepted(_ context.Context, fromID, toID string) error {
	r, ok := m.requests[socialmodel.RequestKey(fromID, toID)]
	if !ok || r.Status != socialmodel.RequestStatusPending {
		return errs.ErrNotFound.WrapMsg("pending request", "from", fromID, "to", toID)
	}
	r.Status = socialmodel.RequestStatusAccepted
	return nil
}

func (m *memStore) DeleteRequest(_ context.Context, fromID, toID string) error {
	delete(m.requests, socialmodel.RequestKey(fromID, toID))
	return nil
}

func (m *memStore) AcceptedRequestsFrom(_ context.Context, fromID string) ([]socialmodel.FriendRequest, error) {
	var out []socialmodel.FriendRequest
	for _, r := range m.requests {
		if r.From.UserID == fromID && r.Status == socialmodel.RequestStatusAccepted {
			out = append(out, *r)
		}
	}
	return out, nil
}

func addSet(s []string, v string) []string {
	for _, it := range s {
		if it == v {
			return s
		}
	}
	return append(s, v)
}

func pull(s []string, v string) []string {
	out := s[:0]
	for _, it := range s {
		if it != v {
			out = append(out, it)
		}
	}
	return out
}

func (m *memStore) AddFriend(_ context.Context, userID, friendID string) error {
	m.users[userID].FriendIDs = addSet(m.users[userID].FriendIDs, friendID)
	return nil
}

func (m *memStore) PullFriend(_ context.Context, userID, friendID string) error {
	m.users[userID].FriendIDs = pull(m.users[userID].FriendIDs, friendID)
	return nil
}

func (m *memStore) bookkeeping(userID, field string) *[]string {
	u := m.users[userID]
	if field == socialmodel.UserFieldSentRequestIDs {
		return &u.SentRequestIDs
	}
	return &u.ReceivedRequestIDs
}

func (m *memStore) AddBookkeeping(_ context.Context, userID, field, otherID string) error {
	b := m.bookkeeping(userID, field)
	*b = addSet(*b, otherID)
	return nil
}

func (m *memStore) PullBookkeeping(_ context.Context, userID, field, otherID string) error {
	b := m.bookkeeping(userID, field)
	*b = pull(*b, otherID)
	return nil
}

func (m *memStore) AddBlocked(_ context.Context, userID, blockedID string) error {
	m.users[userID].BlockedIDs = addSet(m.users[userID].BlockedIDs, blockedID)
	return nil
}

func (m *memStore) PullBlocked(_ context.Context, userID, blockedID string) error {
	m.users[userID].BlockedIDs = pull(m.users[userID].BlockedIDs, blockedID)
	return nil
}

func (m *memStore) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopNotifier struct{ deposited []socialmodel.Notification }

func (n *nopNotifier) DepositAsync(_ context.Context, ntf socialmodel.Notification) {
	n.deposited = append(n.deposited, ntf)
}

func handshakeFixture() (*Service, *memStore, *nopNotifier) {
	store := newMemStore(user("a"), user("b"))
	ntf := &nopNotifier{}
	return NewService(store, ntf), store, ntf
}

func TestHandshakeConvergesToMutualFriendship(t *testing.T) {
	svc, store, ntf := handshakeFixture()
	ctx := context.Background()

	if err := svc.SendRequest(ctx, "a", "b"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := svc.Accept(ctx, "b", "a"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	// 阶段1后只有接收方收敛
	if !store.users["b"].IsFriend("a") {
		t.Fatal("after accept, b should already list a")
	}
	if store.users["a"].IsFriend("b") {
		t.Fatal("before reconcile, a must not list b yet")
	}

	if err := svc.Reconcile(ctx, "a"); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if !store.users["a"].IsFriend("b") || !store.users["b"].IsFriend("a") {
		t.Fatal("friendship must be mutual after reconcile")
	}
	if len(store.requests) != 0 {
		t.Fatalf("request record must be consumed, have %d", len(store.requests))
	}
	if len(store.users["a"].SentRequestIDs) != 0 || len(store.users["b"].ReceivedRequestIDs) != 0 {
		t.Fatal("bookkeeping must be cleared on both sides")
	}
	if len(ntf.deposited) != 2 {
		t.Fatalf("expected request+accept notifications, got %d", len(ntf.deposited))
	}
}

func TestSendRequestTwiceKeepsOneRecord(t *testing.T) {
	svc, store, _ := handshakeFixture()
	ctx := context.Background()

	if err := svc.SendRequest(ctx, "a", "b"); err != nil {
		t.Fatalf("first send: %v", err)
	}
	if err := svc.SendRequest(ctx, "a", "b"); err != nil {
		t.Fatalf("second send must be an idempotent success, got %v", err)
	}
	if len(store.requests) != 1 {
		t.Fatalf("expected exactly one record, have %d", len(store.requests))
	}
	// 反方向同样命中已有记录
	if err := svc.SendRequest(ctx, "b", "a"); err != nil {
		t.Fatalf("reverse send must be an idempotent success, got %v", err)
	}
	if len(store.requests) != 1 {
		t.Fatalf("reverse send must not create a second record, have %d", len(store.requests))
	}
}

func TestReconcileTwiceIsNoop(t *testing.T) {
	svc, store, _ := handshakeFixture()
	ctx := context.Background()

	if err := svc.SendRequest(ctx, "a", "b"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := svc.Accept(ctx, "b", "a"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := svc.Reconcile(ctx, "a"); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if err := svc.Reconcile(ctx, "a"); err != nil {
		t.Fatalf("second reconcile must be a no-op, got %v", err)
	}
	if got := len(store.users["a"].FriendIDs); got != 1 {
		t.Fatalf("friend set must stay deduplicated, have %d", got)
	}
}

func TestDeclineIsIdempotent(t *testing.T) {
	svc, store, _ := handshakeFixture()
	ctx := context.Background()

	if err := svc.SendRequest(ctx, "a", "b"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := svc.Decline(ctx, "b", "a"); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if err := svc.Decline(ctx, "b", "a"); err != nil {
		t.Fatalf("repeat decline must succeed, got %v", err)
	}
	if len(store.requests) != 0 {
		t.Fatal("declined request must be gone")
	}
	if len(store.users["b"].ReceivedRequestIDs) != 0 {
		t.Fatal("receiver bookkeeping must be cleared")
	}
}

func TestBlockClearsPairState(t *testing.T) {
	svc, store, _ := handshakeFixture()
	ctx := context.Background()

	if err := svc.SendRequest(ctx, "a", "b"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := svc.Block(ctx, "b", "a"); err != nil {
		t.Fatalf("block: %v", err)
	}
	if len(store.requests) != 0 {
		t.Fatal("block must remove pending requests in both directions")
	}
	if !store.users["b"].HasBlocked("a") {
		t.Fatal("blocker set must contain a")
	}
	if err := svc.SendRequest(ctx, "a", "b"); !errs.ErrPermissionDenied.Is(err) {
		t.Fatalf("send to blocker: expected PermissionDenied, got %v", err)
	}
}
