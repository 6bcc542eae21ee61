package model

import (
	"time"

	"SocialCore/service/mgo"

	"go.mongodb.org/mongo-driver/mongo"
)

// 评论/消息内容类型
const (
	ContentText  = "text"
	ContentImage = "image"
	ContentAudio = "audio"
)

// Post 帖子文档。评论内嵌为有序序列（不是独立行），
// 任何单条评论的修改都要整段读改写，必须走事务。
type Post struct {
	ID         string       `bson:"_id"` // 雪花ID
	Author     UserSnapshot `bson:"author"`
	CreateTime time.Time    `bson:"create_time"`

	Text     string `bson:"text,omitempty"`
	ImageURL string `bson:"image_url,omitempty"`

	Comments []Comment `bson:"comments"` // 内嵌评论序列

	// userID -> emoji，一人一条，重选覆盖，同值再选即取消
	Reactions map[string]string `bson:"reactions"`

	// $inc 单独维护，并发增删下与 len(comments) 可能漂移（尽力而为）
	CommentCount int64 `bson:"comment_count"`

	Poll *Poll `bson:"poll,omitempty"` // 可选投票

	BestAnswerID string `bson:"best_answer_id,omitempty"` // 作者标记的最佳评论
}

// Comment 内嵌评论。软删只清空内容与表情，id/author 保留，
// 引用它的回复仍可解析。
type Comment struct {
	ID     string       `bson:"id"` // 雪花ID（post 内唯一）
	Author UserSnapshot `bson:"author"`

	Type          string `bson:"type"` // text/image/audio 三选一
	Text          string `bson:"text,omitempty"`
	ImageURL      string `bson:"image_url,omitempty"`
	AudioURL      string `bson:"audio_url,omitempty"`
	AudioDuration int    `bson:"audio_duration,omitempty"` // 秒

	// 单层回复：只存直接父评论；更深的链在写入时折叠到顶层祖先
	ParentID string `bson:"parent_id,omitempty"`

	Reactions map[string]string `bson:"reactions,omitempty"` // userID -> emoji

	IsDeleted  bool      `bson:"is_deleted"`
	CreateTime time.Time `bson:"create_time"`
}

// Poll 投票。一个用户只能投一次（跨所有选项判重）。
type Poll struct {
	Question string       `bson:"question"`
	Options  []PollOption `bson:"options"`
}

type PollOption struct {
	Text     string   `bson:"text"`
	Votes    int64    `bson:"votes"`
	VoterIDs []string `bson:"voter_ids"`
}

const (
	PostFieldID           = "_id"
	PostFieldAuthorID     = "author.user_id"
	PostFieldCreateTime   = "create_time"
	PostFieldComments     = "comments"
	PostFieldReactions    = "reactions"
	PostFieldCommentCount = "comment_count"
	PostFieldPoll         = "poll"
	PostFieldBestAnswerID = "best_answer_id"
)

func (p *Post) GetTableName() string {
	return "post"
}

func (p *Post) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(p.GetTableName())
}

// FindComment 在内嵌序列中按 id 定位，返回下标；未命中 -1
func (p *Post) FindComment(commentID string) int {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return i
		}
	}
	return -1
}

// LiveCommentCount 未删评论数（维护任务重算 comment_count 用）
func (p *Post) LiveCommentCount() int64 {
	var n int64
	for i := range p.Comments {
		if !p.Comments[i].IsDeleted {
			n++
		}
	}
	return n
}

// HasVoted 判断用户是否已在任一选项投过票
func (pl *Poll) HasVoted(userID string) bool {
	for i := range pl.Options {
		for _, v := range pl.Options[i].VoterIDs {
			if v == userID {
				return true
			}
		}
	}
	return false
}
