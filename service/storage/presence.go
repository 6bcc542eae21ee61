package storage

import (
	"context"
	"time"

	rds "SocialCore/service/storage/redis"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// presence key: sc:presence:<user>
// Value 为推送网关ID，TTL 控制在线有效期
func presenceKey(user string) string { return "sc:presence:" + user }

// PresenceOnline 上线登记并续期
func PresenceOnline(ctx context.Context, user, gatewayID string, ttl time.Duration) error {
	return errors.WithStack(rds.GetRedis().Set(ctx, presenceKey(user), gatewayID, ttl).Err())
}

// PresenceOffline 主动下线（删 key）
func PresenceOffline(ctx context.Context, user string) error {
	return errors.WithStack(rds.GetRedis().Del(ctx, presenceKey(user)).Err())
}

// PresenceLookup 查询用户是否在线及所在网关
func PresenceLookup(ctx context.Context, user string) (gatewayID string, online bool, err error) {
	val, err := rds.GetRedis().Get(ctx, presenceKey(user)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.WithStack(err)
	}
	return val, true, nil
}
