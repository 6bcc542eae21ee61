package storage

import (
	"context"
	"time"

	"SocialCore/logger"
	socialmodel "SocialCore/module/social/model"
	rds "SocialCore/service/storage/redis"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// conv unread key: sc:cunread:<conv>:<viewer>
// 会话未读数读穿缓存，权威数据在消息表。写路径负责删 key，
// TTL 兜底防失效漏删后长期脏读。
const convUnreadTTL = 30 * time.Second

func convUnreadKey(convID, viewerID string) string {
	return "sc:cunread:" + convID + ":" + viewerID
}

// ConvLoader 会话摘要的依赖读：最近消息直读消息表，
// 未读数先查缓存，未命中回源并回填。
type ConvLoader struct {
	Source interface {
		LatestMessage(ctx context.Context, convID string) (*socialmodel.Message, error)
		UnreadCount(ctx context.Context, convID, viewerID string) (int64, error)
	}
}

func (l ConvLoader) LatestMessage(ctx context.Context, convID string) (*socialmodel.Message, error) {
	return l.Source.LatestMessage(ctx, convID)
}

func (l ConvLoader) UnreadCount(ctx context.Context, convID, viewerID string) (int64, error) {
	key := convUnreadKey(convID, viewerID)
	n, err := rds.GetRedis().Get(ctx, key).Int64()
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, redis.Nil) {
		logger.Warnf("[storage] conv unread cache read conv=%s viewer=%s: %v", convID, viewerID, err)
	}
	n, err = l.Source.UnreadCount(ctx, convID, viewerID)
	if err != nil {
		return 0, err
	}
	if err := rds.GetRedis().Set(ctx, key, n, convUnreadTTL).Err(); err != nil {
		logger.Warnf("[storage] conv unread cache fill conv=%s viewer=%s: %v", convID, viewerID, err)
	}
	return n, nil
}

// Invalidate 发消息/置已读后删缓存
func (l ConvLoader) Invalidate(ctx context.Context, convID, viewerID string) {
	if err := rds.GetRedis().Del(ctx, convUnreadKey(convID, viewerID)).Err(); err != nil {
		logger.Warnf("[storage] conv unread cache del conv=%s viewer=%s: %v", convID, viewerID, err)
	}
}
