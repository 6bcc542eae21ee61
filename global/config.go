package global

import (
	"context"
	"os"
	"strconv"
	"strings"

	"SocialCore/data/database/mgo/mongoutil"
	"SocialCore/service/media"
	mgoSrv "SocialCore/service/mgo"
	"SocialCore/service/natsx"
	redis "SocialCore/service/storage/redis"
	ids "SocialCore/tools/ids"

	"github.com/golang/glog"
)

// AppConfig 进程配置。默认值可跑本地，线上用环境变量覆盖。
type AppConfig struct {
	GatewayNodeID  string
	Port           int
	AllowedOrigins []string

	MongoURI      string
	MongoDatabase string
	MongoUser     string
	MongoPassword string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NatsServers []string
	NatsUser    string
	NatsPass    string

	S3Region string
	S3Bucket string
}

var Global = AppConfig{
	GatewayNodeID: "social_gateway_1",
	Port:          8080,

	MongoURI:      "mongodb://localhost:27017",
	MongoDatabase: "socialcore",

	RedisAddr: "127.0.0.1:6379",

	NatsServers: []string{"nats://127.0.0.1:4222"},

	S3Region: "ap-southeast-1",
	S3Bucket: "socialcore-media",
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// LoadEnv 环境变量覆盖默认配置
func LoadEnv() {
	g := &Global
	g.GatewayNodeID = env("SC_GATEWAY_ID", g.GatewayNodeID)
	if p, err := strconv.Atoi(env("SC_PORT", "")); err == nil {
		g.Port = p
	}
	if v := env("SC_ALLOWED_ORIGINS", ""); v != "" {
		g.AllowedOrigins = strings.Split(v, ",")
	}
	g.MongoURI = env("SC_MONGO_URI", g.MongoURI)
	g.MongoDatabase = env("SC_MONGO_DB", g.MongoDatabase)
	g.MongoUser = env("SC_MONGO_USER", g.MongoUser)
	g.MongoPassword = env("SC_MONGO_PASSWORD", g.MongoPassword)
	g.RedisAddr = env("SC_REDIS_ADDR", g.RedisAddr)
	g.RedisPassword = env("SC_REDIS_PASSWORD", g.RedisPassword)
	if d, err := strconv.Atoi(env("SC_REDIS_DB", "")); err == nil {
		g.RedisDB = d
	}
	if v := env("SC_NATS_SERVERS", ""); v != "" {
		g.NatsServers = strings.Split(v, ",")
	}
	g.NatsUser = env("SC_NATS_USER", g.NatsUser)
	g.NatsPass = env("SC_NATS_PASS", g.NatsPass)
	g.S3Region = env("SC_S3_REGION", g.S3Region)
	g.S3Bucket = env("SC_S3_BUCKET", g.S3Bucket)
}

func GetJwtSecret() []byte {
	if v := os.Getenv("SC_JWT_SECRET"); v != "" {
		return []byte(v)
	}
	return []byte("mN9b1f8zPq+W2xjX/45sKcVd0TfyoG+3Hp5Z8q9Rj1o=")
}

// ConfigAll 基础设施按序初始化
func ConfigAll(ctx context.Context) {
	LoadEnv()
	ConfigIds()
	ConfigRedis()
	ConfigMgo(ctx)
}

func ConfigIds() {
	ids.SetNodeID(100)
}

func ConfigRedis() {
	err := redis.InitRedis(redis.Config{
		Addr:     Global.RedisAddr,
		Password: Global.RedisPassword,
		DB:       Global.RedisDB,
	})
	if err != nil {
		glog.Errorf("[boot] redis init: %v", err)
	}
}

// ConfigMgo 异步起 Mongo，调用方自己 WaitReady
func ConfigMgo(ctx context.Context) {
	cfg := &mongoutil.Config{
		Uri:         Global.MongoURI,
		Database:    Global.MongoDatabase,
		Username:    Global.MongoUser,
		Password:    Global.MongoPassword,
		MaxPoolSize: 20,
	}
	mgoSrv.StartAsync(ctx, cfg)
}

// ConfigNats 失败返回 nil，在线推送降级为只落库
func ConfigNats() *natsx.Client {
	client, err := natsx.NewClient(natsx.Config{
		Servers:  Global.NatsServers,
		Name:     Global.GatewayNodeID,
		User:     Global.NatsUser,
		Password: Global.NatsPass,
	})
	if err != nil {
		glog.Errorf("[boot] nats connect: %v", err)
		return nil
	}
	return client
}

// ConfigMedia 失败返回 nil，带媒体的发帖会报上传错误
func ConfigMedia(ctx context.Context) *media.S3Uploader {
	up, err := media.NewS3Uploader(ctx, media.Config{
		Region: Global.S3Region,
		Bucket: Global.S3Bucket,
	})
	if err != nil {
		glog.Errorf("[boot] s3 uploader: %v", err)
		return nil
	}
	return up
}
