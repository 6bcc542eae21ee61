package relationship

import (
	"context"
	"time"

	"SocialCore/data/database/mgo/mongoutil"
	"SocialCore/data/database/utils/tx"
	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	UserColl    *mongo.Collection // user
	RequestColl *mongo.Collection // friend_request
	Tx          tx.Tx
}

func NewStore(db *mongo.Database, mtx tx.Tx) *Store {
	usr := socialmodel.User{}
	req := socialmodel.FriendRequest{}
	return &Store{
		UserColl:    db.Collection(usr.GetTableName()),
		RequestColl: db.Collection(req.GetTableName()),
		Tx:          mtx,
	}
}

var _ Storage = (*Store)(nil)

// Transaction 事务边界透传给驱动层
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.Tx.Transaction(ctx, fn)
}

func (s *Store) GetUser(ctx context.Context, userID string) (*socialmodel.User, error) {
	var u socialmodel.User
	err := s.UserColl.FindOne(ctx, bson.M{socialmodel.UserFieldID: userID}).Decode(&u)
	if mongoutil.IsNotFound(err) {
		return nil, errs.ErrNotFound.WrapMsg("user", "id", userID)
	}
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return &u, nil
}

// ProbeRequest 探测无序对的申请记录：两个方向的主键都查一次。
// 返回 (记录, 方向是否为 from->to, error)；无记录时返回 (nil, false, nil)。
func (s *Store) ProbeRequest(ctx context.Context, from, to string) (*socialmodel.FriendRequest, bool, error) {
	var req socialmodel.FriendRequest
	err := s.RequestColl.FindOne(ctx, bson.M{socialmodel.RequestFieldID: socialmodel.RequestKey(from, to)}).Decode(&req)
	if err == nil {
		return &req, true, nil
	}
	if !mongoutil.IsNotFound(err) && err != nil {
		return nil, false, errs.Wrap(err)
	}
	err = s.RequestColl.FindOne(ctx, bson.M{socialmodel.RequestFieldID: socialmodel.RequestKey(to, from)}).Decode(&req)
	if err == nil {
		return &req, false, nil
	}
	if !mongoutil.IsNotFound(err) && err != nil {
		return nil, false, errs.Wrap(err)
	}
	return nil, false, nil
}

func (s *Store) InsertRequest(ctx context.Context, req *socialmodel.FriendRequest) error {
	if _, err := s.RequestColl.InsertOne(ctx, req); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.ErrAlreadyRequested.Wrap()
		}
		return errs.Wrap(err)
	}
	return nil
}

// MarkAccepted 仅接收方调用：pending -> accepted
func (s *Store) MarkAccepted(ctx context.Context, fromID, toID string) error {
	res, err := s.RequestColl.UpdateOne(ctx,
		bson.M{
			socialmodel.RequestFieldID:     socialmodel.RequestKey(fromID, toID),
			socialmodel.RequestFieldStatus: socialmodel.RequestStatusPending,
		},
		bson.M{"$set": bson.M{socialmodel.RequestFieldStatus: socialmodel.RequestStatusAccepted}},
	)
	if err != nil {
		return errs.Wrap(err)
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound.WrapMsg("pending request", "from", fromID, "to", toID)
	}
	return nil
}

// DeleteRequest 无条件删除（Decline/Cancel/Reconcile 共用，幂等）
func (s *Store) DeleteRequest(ctx context.Context, fromID, toID string) error {
	_, err := s.RequestColl.DeleteOne(ctx, bson.M{socialmodel.RequestFieldID: socialmodel.RequestKey(fromID, toID)})
	return errs.Wrap(err)
}

// AcceptedRequestsFrom reconcile 的输入：我发出且对方已同意的申请
func (s *Store) AcceptedRequestsFrom(ctx context.Context, fromID string) ([]socialmodel.FriendRequest, error) {
	cur, err := s.RequestColl.Find(ctx, bson.M{
		socialmodel.RequestFieldFromUserID: fromID,
		socialmodel.RequestFieldStatus:     socialmodel.RequestStatusAccepted,
	})
	if err != nil {
		return nil, errs.Wrap(err)
	}
	var out []socialmodel.FriendRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.Wrap(err)
	}
	return out, nil
}

// AddFriend $addToSet 去重加好友（只写 userID 自己的文档）
func (s *Store) AddFriend(ctx context.Context, userID, friendID string) error {
	_, err := s.UserColl.UpdateOne(ctx,
		bson.M{socialmodel.UserFieldID: userID},
		bson.M{
			"$addToSet": bson.M{socialmodel.UserFieldFriendIDs: friendID},
			"$set":      bson.M{socialmodel.UserFieldUpdateTime: time.Now()},
		},
	)
	return errs.Wrap(err)
}

// PullFriend $pull 移除好友
func (s *Store) PullFriend(ctx context.Context, userID, friendID string) error {
	_, err := s.UserColl.UpdateOne(ctx,
		bson.M{socialmodel.UserFieldID: userID},
		bson.M{
			"$pull": bson.M{socialmodel.UserFieldFriendIDs: friendID},
			"$set":  bson.M{socialmodel.UserFieldUpdateTime: time.Now()},
		},
	)
	return errs.Wrap(err)
}

// AddBookkeeping / PullBookkeeping 维护 sent/received 镜像账本
func (s *Store) AddBookkeeping(ctx context.Context, userID, field, otherID string) error {
	_, err := s.UserColl.UpdateOne(ctx,
		bson.M{socialmodel.UserFieldID: userID},
		bson.M{"$addToSet": bson.M{field: otherID}},
	)
	return errs.Wrap(err)
}

func (s *Store) PullBookkeeping(ctx context.Context, userID, field, otherID string) error {
	_, err := s.UserColl.UpdateOne(ctx,
		bson.M{socialmodel.UserFieldID: userID},
		bson.M{"$pull": bson.M{field: otherID}},
	)
	return errs.Wrap(err)
}

// AddBlocked / PullBlocked 拉黑集合
func (s *Store) AddBlocked(ctx context.Context, userID, blockedID string) error {
	_, err := s.UserColl.UpdateOne(ctx,
		bson.M{socialmodel.UserFieldID: userID},
		bson.M{
			"$addToSet": bson.M{socialmodel.UserFieldBlockedIDs: blockedID},
			"$set":      bson.M{socialmodel.UserFieldUpdateTime: time.Now()},
		},
	)
	return errs.Wrap(err)
}

func (s *Store) PullBlocked(ctx context.Context, userID, blockedID string) error {
	_, err := s.UserColl.UpdateOne(ctx,
		bson.M{socialmodel.UserFieldID: userID},
		bson.M{
			"$pull": bson.M{socialmodel.UserFieldBlockedIDs: blockedID},
			"$set":  bson.M{socialmodel.UserFieldUpdateTime: time.Now()},
		},
	)
	return errs.Wrap(err)
}
