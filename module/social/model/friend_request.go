package model

import (
	"fmt"
	"time"

	"SocialCore/service/mgo"

	"go.mongodb.org/mongo-driver/mongo"
)

// 申请状态：pending 等待接收方处理；accepted 接收方已同意、
// 等发起方 reconcile 消费后整条记录删除
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
)

// FriendRequest 好友申请的会合记录。主键由 (from, to) 推导，
// 同一无序对最多存在一条（创建前两个方向都要探测）。
// 发起方创建；接收方改 status；两侧收敛后由发起方删除。
type FriendRequest struct {
	ID   string       `bson:"_id"`  // "<fromID>_<toID>"
	From UserSnapshot `bson:"from"` // 发起方快照
	To   UserSnapshot `bson:"to"`   // 接收方快照

	Status     string    `bson:"status"`
	CreateTime time.Time `bson:"create_time"`
}

const (
	RequestFieldID         = "_id"
	RequestFieldFromUserID = "from.user_id"
	RequestFieldToUserID   = "to.user_id"
	RequestFieldStatus     = "status"
	RequestFieldCreateTime = "create_time"
)

func (r *FriendRequest) GetTableName() string {
	return "friend_request"
}

func (r *FriendRequest) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(r.GetTableName())
}

// RequestKey 申请记录主键（方向有序）
func RequestKey(fromID, toID string) string {
	return fmt.Sprintf("%s_%s", fromID, toID)
}
