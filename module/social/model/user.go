package model

import (
	"strings"
	"time"

	"SocialCore/service/mgo"

	"go.mongodb.org/mongo-driver/mongo"
)

// 好友申请隐私规则
const (
	PrivacyPublic           = "public"             // 任何人可发申请
	PrivacyFriends          = "friends"            // 仅好友（即不接受新申请）
	PrivacyFriendsOfFriends = "friends_of_friends" // 需要至少一个共同好友
)

// User 用户主档。friend_ids 由双方客户端按握手协议各自收敛，
// 除此之外的字段只允许本人写入。
type User struct {
	ID         string `bson:"_id"`         // 雪花ID
	Handle     string `bson:"handle"`      // 登录名/搜索句柄
	Name       string `bson:"name"`        // 展示昵称
	SearchName string `bson:"search_name"` // 小写冗余，供前缀搜索
	Avatar     string `bson:"avatar"`      // 头像URL（外部媒体服务）
	Bio        string `bson:"bio"`         // 个人简介（广告兴趣匹配的匹配面）
	City       string `bson:"city"`        // 所在城市
	Gender     string `bson:"gender"`      // male/female/other
	BirthYear  int    `bson:"birth_year"`  // 出生年，用于广告年龄段匹配

	FriendIDs          []string `bson:"friend_ids"`           // 好友集合（对称、去重）
	SentRequestIDs     []string `bson:"sent_request_ids"`     // 我发出的待处理申请（镜像账本）
	ReceivedRequestIDs []string `bson:"received_request_ids"` // 我收到的待处理申请（镜像账本）
	BlockedIDs         []string `bson:"blocked_ids"`          // 拉黑集合

	PrivacyRule string `bson:"privacy_rule"` // 申请隐私规则

	CommentSuspendedUntil time.Time `bson:"comment_suspended_until,omitempty"` // 评论禁言截止
	PostSuspendedUntil    time.Time `bson:"post_suspended_until,omitempty"`    // 发帖禁言截止

	CreateTime time.Time `bson:"create_time"`
	UpdateTime time.Time `bson:"update_time"`
}

const (
	UserFieldID                 = "_id"
	UserFieldFriendIDs          = "friend_ids"
	UserFieldSentRequestIDs     = "sent_request_ids"
	UserFieldReceivedRequestIDs = "received_request_ids"
	UserFieldBlockedIDs         = "blocked_ids"
	UserFieldPrivacyRule        = "privacy_rule"
	UserFieldUpdateTime         = "update_time"
)

func (u *User) GetTableName() string {
	return "user"
}

func (u *User) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(u.GetTableName())
}

// Age 按出生年粗算年龄
func (u *User) Age(now time.Time) int {
	if u.BirthYear <= 0 {
		return 0
	}
	return now.Year() - u.BirthYear
}

// IsFriend 判断对方是否已在好友集合中
func (u *User) IsFriend(userID string) bool {
	for _, id := range u.FriendIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// HasBlocked 判断是否拉黑了对方
func (u *User) HasBlocked(userID string) bool {
	for _, id := range u.BlockedIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// CommentSuspended 评论禁言是否仍生效
func (u *User) CommentSuspended(now time.Time) bool {
	return u.CommentSuspendedUntil.After(now)
}

// PostSuspended 发帖禁言是否仍生效
func (u *User) PostSuspended(now time.Time) bool {
	return u.PostSuspendedUntil.After(now)
}

// MutualFriends 求两个用户好友集合的交集（friends_of_friends 规则用）
func MutualFriends(a, b *User) []string {
	set := make(map[string]struct{}, len(a.FriendIDs))
	for _, id := range a.FriendIDs {
		set[id] = struct{}{}
	}
	var out []string
	for _, id := range b.FriendIDs {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// NormalizeSearchName 搜索名统一小写去空白
func NormalizeSearchName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
