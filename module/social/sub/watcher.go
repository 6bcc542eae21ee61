package sub

import (
	"context"

	"SocialCore/data/database/mgo/mongoutil"
	"SocialCore/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event 单文档推送。Value 为 nil 表示文档已删除。
type Event[T any] struct {
	ID    string
	Value *T
}

// Watcher 对单个文档的推送订阅。返回事件通道与 disposer；
// disposer 由调用方持有并且只调用一次。
type Watcher[T any] interface {
	Watch(ctx context.Context, id string) (<-chan Event[T], func(), error)
}

// changeStream 变更流的最小消费面，mongo 的 ChangeStream 满足
type changeStream interface {
	Next(ctx context.Context) bool
	Decode(val any) error
	Close(ctx context.Context) error
}

type rawChange[T any] struct {
	OperationType string `bson:"operationType"`
	FullDocument  *T     `bson:"fullDocument"`
}

// CollectionWatcher change stream 实现。先挂按 _id 过滤的变更流，
// 流就位之后再点读补初始状态：开流与点读之间落盘的写会出现在流里，
// 最多重复推送、不会漏推。消费方必须把每次推送当作最新权威状态。
type CollectionWatcher[T any] struct {
	Coll *mongo.Collection

	openStream func(ctx context.Context, id string) (changeStream, error)
	readOne    func(ctx context.Context, id string) (*T, error)
}

func NewCollectionWatcher[T any](coll *mongo.Collection) *CollectionWatcher[T] {
	w := &CollectionWatcher[T]{Coll: coll}
	w.openStream = w.mongoStream
	w.readOne = w.mongoRead
	return w
}

func (w *CollectionWatcher[T]) mongoStream(ctx context.Context, id string) (changeStream, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"documentKey._id": id}}},
	}
	return w.Coll.Watch(ctx, pipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
}

func (w *CollectionWatcher[T]) mongoRead(ctx context.Context, id string) (*T, error) {
	var doc T
	err := w.Coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if mongoutil.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (w *CollectionWatcher[T]) Watch(ctx context.Context, id string) (<-chan Event[T], func(), error) {
	wctx, cancel := context.WithCancel(ctx)
	ch := make(chan Event[T], 8)

	go func() {
		defer close(ch)

		// 开流必须在点读之前，否则两步之间的写永远到不了通道
		cs, err := w.openStream(wctx, id)
		if err != nil {
			logger.Warnf("[watch] change stream open failed id=%s: %v", id, err)
			return
		}
		defer func() { _ = cs.Close(context.Background()) }()

		doc, err := w.readOne(wctx, id)
		if err != nil {
			logger.Warnf("[watch] initial read failed id=%s: %v", id, err)
			return
		}
		select {
		case ch <- Event[T]{ID: id, Value: doc}:
		case <-wctx.Done():
			return
		}

		for cs.Next(wctx) {
			var evt rawChange[T]
			if err := cs.Decode(&evt); err != nil {
				logger.Warnf("[watch] decode event id=%s: %v", id, err)
				continue
			}
			var out Event[T]
			if evt.OperationType == "delete" {
				out = Event[T]{ID: id}
			} else if evt.FullDocument != nil {
				out = Event[T]{ID: id, Value: evt.FullDocument}
			} else {
				continue
			}
			select {
			case ch <- out:
			case <-wctx.Done():
				return
			}
		}
	}()

	return ch, cancel, nil
}
