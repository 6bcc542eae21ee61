package notify

import (
	"context"
	"time"

	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/errs"
	"SocialCore/tools/ids"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InboxLimit 收件箱单次最多取最近多少条
const InboxLimit = 20

type Store struct {
	NotificationColl *mongo.Collection // notification
}

func NewStore(db *mongo.Database) *Store {
	n := socialmodel.Notification{}
	return &Store{NotificationColl: db.Collection(n.GetTableName())}
}

func (s *Store) Insert(ctx context.Context, n *socialmodel.Notification) error {
	if n.ID == "" {
		n.ID = ids.GenerateString()
	}
	if n.CreateTime.IsZero() {
		n.CreateTime = time.Now()
	}
	if _, err := s.NotificationColl.InsertOne(ctx, n); err != nil {
		return errs.Wrap(err)
	}
	return nil
}

// Inbox 最近 InboxLimit 条，按创建时间倒序
func (s *Store) Inbox(ctx context.Context, recipientID string) ([]*socialmodel.Notification, error) {
	cur, err := s.NotificationColl.Find(ctx,
		bson.M{socialmodel.NotificationFieldRecipientID: recipientID},
		options.Find().
			SetSort(bson.M{socialmodel.NotificationFieldCreateTime: -1}).
			SetLimit(InboxLimit))
	if err != nil {
		return nil, errs.Wrap(err)
	}
	defer cur.Close(ctx)
	var list []*socialmodel.Notification
	if err := cur.All(ctx, &list); err != nil {
		return nil, errs.Wrap(err)
	}
	return list, nil
}

// MarkRead 按调用方给的ID批量置已读。只动属于本人的记录。
func (s *Store) MarkRead(ctx context.Context, recipientID string, notificationIDs []string) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	_, err := s.NotificationColl.UpdateMany(ctx,
		bson.M{
			socialmodel.NotificationFieldID:          bson.M{"$in": notificationIDs},
			socialmodel.NotificationFieldRecipientID: recipientID,
		},
		bson.M{"$set": bson.M{socialmodel.NotificationFieldIsRead: true}})
	return errs.Wrap(err)
}

// UnreadCount 收件箱未读数（兜底用，常态走缓存计数）
func (s *Store) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	n, err := s.NotificationColl.CountDocuments(ctx, bson.M{
		socialmodel.NotificationFieldRecipientID: recipientID,
		socialmodel.NotificationFieldIsRead:      false,
	})
	if err != nil {
		return 0, errs.Wrap(err)
	}
	return n, nil
}
