package content

import (
	"context"
	"time"

	"SocialCore/data/database/mgo/mongoutil"
	"SocialCore/data/database/utils/tx"
	socialmodel "SocialCore/module/social/model"
	"SocialCore/tools/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	PostColl *mongo.Collection // post
	ConvColl *mongo.Collection // conversation
	MsgColl  *mongo.Collection // message
	UserColl *mongo.Collection // user
	Tx       tx.Tx
}

func NewStore(db *mongo.Database, mtx tx.Tx) *Store {
	post := socialmodel.Post{}
	conv := socialmodel.Conversation{}
	msg := socialmodel.Message{}
	usr := socialmodel.User{}
	return &Store{
		PostColl: db.Collection(post.GetTableName()),
		ConvColl: db.Collection(conv.GetTableName()),
		MsgColl:  db.Collection(msg.GetTableName()),
		UserColl: db.Collection(usr.GetTableName()),
		Tx:       mtx,
	}
}

func (s *Store) GetPost(ctx context.Context, postID string) (*socialmodel.Post, error) {
	var p socialmodel.Post
	err := s.PostColl.FindOne(ctx, bson.M{socialmodel.PostFieldID: postID}).Decode(&p)
	if mongoutil.IsNotFound(err) {
		return nil, errs.ErrNotFound.WrapMsg("post", "id", postID)
	}
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return &p, nil
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

func (s *Store) InsertPost(ctx context.Context, p *socialmodel.Post) error {
	_, err := s.PostColl.InsertOne(ctx, p)
	return errs.Wrap(err)
}

// MutatePost 整读改写：事务体内读出帖子、应用 fn、把受影响字段写回。
// 内嵌序列不支持按元素原子修改，只能整段回写；fn 必须纯（无 I/O、无外部副作用），
// 驱动冲突重试时会重放 fn。fn 返回 false 表示无修改（跳过回写）。
func (s *Store) MutatePost(ctx context.Context, postID string, fn func(p *socialmodel.Post) (bool, error)) error {
	return s.Tx.Transaction(ctx, func(c context.Context) error {
		p, err := s.GetPost(c, postID)
		if err != nil {
			return err
		}
		changed, err := fn(p)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		_, err = s.PostColl.UpdateOne(c,
			bson.M{socialmodel.PostFieldID: postID},
			bson.M{"$set": bson.M{
				socialmodel.PostFieldComments:     p.Comments,
				socialmodel.PostFieldPoll:         p.Poll,
				socialmodel.PostFieldBestAnswerID: p.BestAnswerID,
			}},
		)
		return errs.Wrap(err)
	})
}

// IncCommentCount 事务外单独 $inc；并发增删下与序列长度可能短暂不一致
func (s *Store) IncCommentCount(ctx context.Context, postID string, delta int64) error {
	_, err := s.PostColl.UpdateOne(ctx,
		bson.M{socialmodel.PostFieldID: postID},
		bson.M{"$inc": bson.M{socialmodel.PostFieldCommentCount: delta}},
	)
	return errs.Wrap(err)
}

// SetCommentCount 维护任务 RecountComments 用
func (s *Store) SetCommentCount(ctx context.Context, postID string, n int64) error {
	_, err := s.PostColl.UpdateOne(ctx,
		bson.M{socialmodel.PostFieldID: postID},
		bson.M{"$set": bson.M{socialmodel.PostFieldCommentCount: n}},
	)
	return errs.Wrap(err)
}

// SetPostReaction / UnsetPostReaction 帖子级表情只动 reactions.<userID> 一个键
func (s *Store) SetPostReaction(ctx context.Context, postID, userID, emoji string) error {
	_, err := s.PostColl.UpdateOne(ctx,
		bson.M{socialmodel.PostFieldID: postID},
		bson.M{"$set": bson.M{socialmodel.PostFieldReactions + "." + userID: emoji}},
	)
	return errs.Wrap(err)
}

func (s *Store) UnsetPostReaction(ctx context.Context, postID, userID string) error {
	_, err := s.PostColl.UpdateOne(ctx,
		bson.M{socialmodel.PostFieldID: postID},
		bson.M{"$unset": bson.M{socialmodel.PostFieldReactions + "." + userID: ""}},
	)
	return errs.Wrap(err)
}

func (s *Store) GetMessage(ctx context.Context, msgID string) (*socialmodel.Message, error) {
	var m socialmodel.Message
	err := s.MsgColl.FindOne(ctx, bson.M{socialmodel.MessageFieldID: msgID}).Decode(&m)
	if mongoutil.IsNotFound(err) {
		return nil, errs.ErrNotFound.WrapMsg("message", "id", msgID)
	}
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return &m, nil
}

// AddMessageReaction / PullMessageReaction 集合语义：$addToSet / $pull 单个 emoji 键
func (s *Store) AddMessageReaction(ctx context.Context, msgID, userID, emoji string) error {
	_, err := s.MsgColl.UpdateOne(ctx,
		bson.M{socialmodel.MessageFieldID: msgID},
		bson.M{"$addToSet": bson.M{socialmodel.MessageFieldReactions + "." + emoji: userID}},
	)
	return errs.Wrap(err)
}

func (s *Store) PullMessageReaction(ctx context.Context, msgID, userID, emoji string) error {
	_, err := s.MsgColl.UpdateOne(ctx,
		bson.M{socialmodel.MessageFieldID: msgID},
		bson.M{"$pull": bson.M{socialmodel.MessageFieldReactions + "." + emoji: userID}},
	)
	return errs.Wrap(err)
}

// UpsertConversation 会话不存在时建档，存在时只推进 last_activity
func (s *Store) UpsertConversation(ctx context.Context, convID string, participants []string, at time.Time) error {
	_, err := s.ConvColl.UpdateOne(ctx,
		bson.M{socialmodel.ConversationFieldID: convID},
		bson.M{
			"$setOnInsert": bson.M{
				socialmodel.ConversationFieldParticipantIDs: participants,
				socialmodel.ConversationFieldCreateTime:     at,
			},
			"$set": bson.M{socialmodel.ConversationFieldLastActivity: at},
		},
		options.Update().SetUpsert(true),
	)
	return errs.Wrap(err)
}

func (s *Store) InsertMessage(ctx context.Context, m *socialmodel.Message) error {
	_, err := s.MsgColl.InsertOne(ctx, m)
	return errs.Wrap(err)
}

// LatestMessage 会话最近一条（会话摘要的依赖读1）
func (s *Store) LatestMessage(ctx context.Context, convID string) (*socialmodel.Message, error) {
	var m socialmodel.Message
	err := s.MsgColl.FindOne(ctx,
		bson.M{socialmodel.MessageFieldConversationID: convID},
		options.FindOne().SetSort(bson.D{{Key: socialmodel.MessageFieldCreateTime, Value: -1}}),
	).Decode(&m)
	if mongoutil.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return &m, nil
}

// UnreadCount 观察者视角未读数（会话摘要的依赖读2）
func (s *Store) UnreadCount(ctx context.Context, convID, viewerID string) (int64, error) {
	n, err := s.MsgColl.CountDocuments(ctx, bson.M{
		socialmodel.MessageFieldConversationID: convID,
		socialmodel.MessageFieldRecipientID:    viewerID,
		socialmodel.MessageFieldRead:           false,
	})
	if err != nil {
		return 0, errs.Wrap(err)
	}
	return n, nil
}

// MarkMessagesRead 批量置已读
func (s *Store) MarkMessagesRead(ctx context.Context, convID, viewerID string) error {
	_, err := s.MsgColl.UpdateMany(ctx,
		bson.M{
			socialmodel.MessageFieldConversationID: convID,
			socialmodel.MessageFieldRecipientID:    viewerID,
			socialmodel.MessageFieldRead:           false,
		},
		bson.M{"$set": bson.M{socialmodel.MessageFieldRead: true}},
	)
	return errs.Wrap(err)
}
