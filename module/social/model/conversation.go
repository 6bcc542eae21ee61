package model

import (
	"time"

	"SocialCore/service/mgo"

	"go.mongodb.org/mongo-driver/mongo"
)

// Conversation 两人会话。主键由参与者ID字典序拼接，
// 两端各自推导出同一个会话。
type Conversation struct {
	ID             string    `bson:"_id"` // "<小ID>_<大ID>"
	ParticipantIDs []string  `bson:"participant_ids"`
	CreateTime     time.Time `bson:"create_time"`
	LastActivity   time.Time `bson:"last_activity"` // 会话列表按此倒序
}

const (
	ConversationFieldID             = "_id"
	ConversationFieldParticipantIDs = "participant_ids"
	ConversationFieldLastActivity   = "last_activity"
	ConversationFieldCreateTime     = "create_time"
)

func (c *Conversation) GetTableName() string {
	return "conversation"
}

func (c *Conversation) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(c.GetTableName())
}

// ConversationKey 参与者无序对 -> 确定性会话ID
func ConversationKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "_" + b
}

// Other 返回会话中对端的用户ID
func (c *Conversation) Other(userID string) string {
	for _, id := range c.ParticipantIDs {
		if id != userID {
			return id
		}
	}
	return ""
}

// ReplySnippet 回复引用的消息摘要（冗余，不回查原消息）
type ReplySnippet struct {
	MessageID string `bson:"message_id"`
	SenderID  string `bson:"sender_id"`
	Preview   string `bson:"preview"` // 文本截断或媒体占位
}

// Message 会话消息。表情与帖子不同：emoji -> 用户集合，
// 同一用户可同时挂多个不同 emoji。
type Message struct {
	ID             string `bson:"_id"` // 雪花ID
	ConversationID string `bson:"conversation_id"`
	SenderID       string `bson:"sender_id"`
	RecipientID    string `bson:"recipient_id"`

	Type          string `bson:"type"` // text/image/audio
	Text          string `bson:"text,omitempty"`
	ImageURL      string `bson:"image_url,omitempty"`
	AudioURL      string `bson:"audio_url,omitempty"`
	AudioDuration int    `bson:"audio_duration,omitempty"` // 秒

	ReplyTo *ReplySnippet `bson:"reply_to,omitempty"`

	Reactions map[string][]string `bson:"reactions,omitempty"` // emoji -> userID 集合

	Read       bool      `bson:"read"`
	CreateTime time.Time `bson:"create_time"`
}

const (
	MessageFieldID             = "_id"
	MessageFieldConversationID = "conversation_id"
	MessageFieldSenderID       = "sender_id"
	MessageFieldRecipientID    = "recipient_id"
	MessageFieldRead           = "read"
	MessageFieldReactions      = "reactions"
	MessageFieldCreateTime     = "create_time"
)

func (m *Message) GetTableName() string {
	return "message"
}

func (m *Message) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(m.GetTableName())
}
