package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	once sync.Once
	mgr  *Manager
)

// Manager 进程级 Redis 单例，缓存计数和在线状态都走这里
type Manager struct {
	client *redis.Client
}

type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

func (c *Config) withDefaults() {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:6379"
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 16
	}
}

// InitRedis 初始化单例，重复调用只有第一次生效
func InitRedis(c Config) error {
	var initErr error
	once.Do(func() {
		c.withDefaults()
		rdb := redis.NewClient(&redis.Options{
			Addr:         c.Addr,
			Password:     c.Password,
			DB:           c.DB,
			PoolSize:     c.PoolSize,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			initErr = err
			return
		}
		mgr = &Manager{client: rdb}
	})
	return initErr
}

func GetRedis() *redis.Client {
	if mgr == nil {
		panic("redis not initialized, call InitRedis first")
	}
	return mgr.client
}

func CloseRedis() error {
	if mgr != nil && mgr.client != nil {
		return mgr.client.Close()
	}
	return nil
}
