package model

import (
	"time"

	"SocialCore/service/mgo"

	"go.mongodb.org/mongo-driver/mongo"
)

// 通知类型
const (
	NotifyFriendRequest  = "friend_request"
	NotifyRequestAccept  = "request_accept"
	NotifyPostReaction   = "post_reaction"
	NotifyComment        = "comment"
	NotifyCommentReply   = "comment_reply"
	NotifyBestAnswer     = "best_answer"
	NotifyCampaignStatus = "campaign_status"
)

// Notification 收件箱记录。尽力而为投递：写失败不回传给触发方。
type Notification struct {
	ID          string       `bson:"_id"` // 雪花ID
	RecipientID string       `bson:"recipient_id"`
	Kind        string       `bson:"kind"`
	Actor       UserSnapshot `bson:"actor"` // 触发者快照

	// 可选引用：帖子/群组/广告之一
	PostID     string `bson:"post_id,omitempty"`
	GroupID    string `bson:"group_id,omitempty"`
	CampaignID string `bson:"campaign_id,omitempty"`

	IsRead     bool      `bson:"is_read"`
	CreateTime time.Time `bson:"create_time"`
}

const (
	NotificationFieldID          = "_id"
	NotificationFieldRecipientID = "recipient_id"
	NotificationFieldIsRead      = "is_read"
	NotificationFieldCreateTime  = "create_time"
)

func (n *Notification) GetTableName() string {
	return "notification"
}

func (n *Notification) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(n.GetTableName())
}
