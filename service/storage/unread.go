package storage

import (
	"context"

	rds "SocialCore/service/storage/redis"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// unread key: sc:unread:<user>
// 收件箱未读计数缓存，红点读这里，落库的通知记录才是权威
func unreadKey(user string) string { return "sc:unread:" + user }

// UnreadCounter 实现通知路由的计数出口
type UnreadCounter struct{}

func (UnreadCounter) IncrUnread(ctx context.Context, user string) error {
	return errors.WithStack(rds.GetRedis().Incr(ctx, unreadKey(user)).Err())
}

func (UnreadCounter) ResetUnread(ctx context.Context, user string) error {
	return errors.WithStack(rds.GetRedis().Del(ctx, unreadKey(user)).Err())
}

// GetUnread 读计数，key 不存在按 0 处理
func GetUnread(ctx context.Context, user string) (int64, error) {
	n, err := rds.GetRedis().Get(ctx, unreadKey(user)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return n, nil
}
