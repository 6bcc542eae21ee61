package main

import (
	"context"
	"os/signal"
	"syscall"

	"SocialCore/global"
	"SocialCore/logger"
	"SocialCore/module/social/ads"
	"SocialCore/module/social/content"
	"SocialCore/module/social/notify"
	"SocialCore/module/social/relationship"
	"SocialCore/service/api"
	mgoSrv "SocialCore/service/mgo"
	"SocialCore/service/natsx"
	"SocialCore/service/storage"
	storageRedis "SocialCore/service/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	global.ConfigAll(ctx)
	if err := mgoSrv.WaitReady(ctx, mgoSrv.Manager()); err != nil {
		logger.Fatalf("[boot] mongo not ready: %v", err)
	}
	defer func() { _ = storageRedis.CloseRedis() }()

	db := mgoSrv.GetDB()
	mtx := mgoSrv.GetTx()

	natsClient := global.ConfigNats()
	var pusher *natsx.NotifyPusher
	if natsClient != nil {
		pusher = natsx.NewNotifyPusher(natsClient)
		defer func() { _ = natsClient.Close() }()
	}

	var uploader content.Uploader
	if up := global.ConfigMedia(ctx); up != nil {
		uploader = up
	}

	notifyStore := notify.NewStore(db)
	var counter notify.Counter = storage.UnreadCounter{}
	var push notify.Pusher
	if pusher != nil {
		push = pusher
	}
	router := notify.NewRouter(notifyStore, counter, push)

	relStore := relationship.NewStore(db, mtx)
	relSvc := relationship.NewService(relStore, router)

	contentStore := content.NewStore(db, mtx)
	engine := content.NewEngine(contentStore, uploader, router)
	convLoader := storage.ConvLoader{Source: contentStore}
	engine.SetUnreadCache(convLoader)

	adsStore := ads.NewStore(db)
	adsSvc := ads.NewService(adsStore, router)

	server := api.NewServer(api.Options{
		Port:           global.Global.Port,
		GatewayID:      global.Global.GatewayNodeID,
		AllowedOrigins: global.Global.AllowedOrigins,
		JWTSecret:      global.GetJwtSecret(),
	}, api.Deps{
		Relationship: relSvc,
		RelStore:     relStore,
		Content:      engine,
		ContentStore: contentStore,
		Ads:          adsSvc,
		Notify:       router,
		Pusher:       pusher,
		ConvLoader:   convLoader,
	})

	if err := server.Run(); err != nil {
		logger.Fatalf("[boot] api server: %v", err)
	}
}
