package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"SocialCore/logger"
	midsec "SocialCore/middleware/security"
	"SocialCore/module/social/content"
	socialmodel "SocialCore/module/social/model"
	"SocialCore/module/social/relationship"
	"SocialCore/module/social/sub"
	"SocialCore/service/natsx"
	"SocialCore/service/storage"
	"SocialCore/tools/decode"
	"SocialCore/tools/safe"
	secu "SocialCore/tools/security"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	presenceTTL    = 60 * time.Second
	convRescan     = 30 * time.Second
	reconcileEvery = 60 * time.Second
	writeDeadline  = 10 * time.Second
)

// wsFrame 下行帧：好友快照 / 会话列表 / 收件箱新增
type wsFrame struct {
	Type string `json:"type"` // friends / conversations / notify
	Data any    `json:"data"`
}

type wsGateway struct {
	gatewayID string
	jwtOpts   *midsec.Options

	userColl *mongo.Collection
	convColl *mongo.Collection
	loader   sub.Loader
	pusher   *natsx.NotifyPusher

	engine *content.Engine
	rel    *relationship.Service
}

// 上行帧：少量轻操作直接走长连接，省一次 HTTP 往返
type wsCommand struct {
	Type string         `json:"type"` // conversation_read / reconcile
	Data map[string]any `json:"data"`
}

type convReadCmd struct {
	ConversationID string `json:"conversation_id"`
}

// HandleWS 推送网关入口。握手鉴权后起三条推流：
// 好友资料合并快照、会话列表、在线通知。
func (g *wsGateway) HandleWS(c *gin.Context) {
	userID := g.authenticate(c)
	if userID == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[ws] upgrade user=%s: %v", userID, err)
		return
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	if err := storage.PresenceOnline(ctx, userID, g.gatewayID, presenceTTL); err != nil {
		logger.Warnf("[ws] presence online user=%s: %v", userID, err)
	}
	defer func() {
		offCtx, offCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer offCancel()
		if err := storage.PresenceOffline(offCtx, userID); err != nil {
			logger.Warnf("[ws] presence offline user=%s: %v", userID, err)
		}
	}()

	frames := make(chan wsFrame, 32)
	g.startFriendStream(ctx, userID, frames)
	g.startConversationStream(ctx, userID, frames)
	g.startNotifyStream(ctx, userID, frames)

	// 会话期内先跑一次 reconcile 收敛窗口，之后周期补偿
	g.rel.StartReconcileLoop(ctx, userID, reconcileEvery)

	// 写协程：唯一写者
	safe.SafeGo(func() {
		ticker := time.NewTicker(presenceTTL / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = storage.PresenceOnline(ctx, userID, g.gatewayID, presenceTTL)
				_ = ws.SetWriteDeadline(time.Now().Add(writeDeadline))
				if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
					cancel()
					return
				}
			case f := <-frames:
				_ = ws.SetWriteDeadline(time.Now().Add(writeDeadline))
				if err := ws.WriteJSON(f); err != nil {
					logger.Infof("[ws] write user=%s: %v", userID, err)
					cancel()
					return
				}
			}
		}
	})

	// 读循环
	for {
		mt, data, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived) {
				logger.Infof("[ws] read user=%s: %v", userID, err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		g.handleCommand(ctx, userID, data)
	}
}

func (g *wsGateway) handleCommand(ctx context.Context, userID string, data []byte) {
	var cmd wsCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		logger.Infof("[ws] bad command user=%s: %v", userID, err)
		return
	}
	switch cmd.Type {
	case "conversation_read":
		arg, err := decode.DecodeMap[convReadCmd](cmd.Data)
		if err != nil || arg.ConversationID == "" {
			return
		}
		if err := g.engine.MarkConversationRead(ctx, arg.ConversationID, userID); err != nil {
			logger.Warnf("[ws] conversation read user=%s: %v", userID, err)
		}
	case "reconcile":
		if err := g.rel.Reconcile(ctx, userID); err != nil {
			logger.Warnf("[ws] reconcile user=%s: %v", userID, err)
		}
	}
}

// authenticate 握手期校验。浏览器 ws 不带自定义头，token 走 query 兜底。
func (g *wsGateway) authenticate(c *gin.Context) string {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				token = strings.TrimSpace(authz[len("bearer "):])
			}
		}
	}
	if token == "" {
		return ""
	}
	claims, err := secu.Verify(g.jwtOpts.JWT, token)
	if err != nil {
		return ""
	}
	return claims.Subject()
}

// startFriendStream 自己的资料文档驱动好友子订阅集合
func (g *wsGateway) startFriendStream(ctx context.Context, userID string, frames chan<- wsFrame) {
	watcher := sub.NewCollectionWatcher[socialmodel.User](g.userColl)
	composer := sub.NewComposer[socialmodel.User](watcher)
	safe.SafeGo(func() { composer.Run(ctx) })

	selfCh, cancelSelf, err := watcher.Watch(ctx, userID)
	if err != nil {
		logger.Warnf("[ws] watch self user=%s: %v", userID, err)
		return
	}
	safe.SafeGo(func() {
		defer cancelSelf()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-selfCh:
				if !ok {
					return
				}
				if ev.Value != nil {
					composer.SetParents(ev.Value.FriendIDs)
				}
			}
		}
	})
	safe.SafeGo(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-composer.Out():
				if !ok {
					return
				}
				sendFrame(ctx, frames, wsFrame{Type: "friends", Data: snap})
			}
		}
	})
}

// startConversationStream 会话集合没有挂在用户文档上，
// 父集合靠定期扫参与者索引刷新
func (g *wsGateway) startConversationStream(ctx context.Context, userID string, frames chan<- wsFrame) {
	watcher := sub.NewCollectionWatcher[socialmodel.Conversation](g.convColl)
	composer := sub.NewComposer[socialmodel.Conversation](watcher)
	list := sub.NewConversationList(g.loader, userID)

	safe.SafeGo(func() { composer.Run(ctx) })
	safe.SafeGo(func() { list.Run(ctx, composer.Out()) })

	safe.SafeGo(func() {
		refresh := func(c context.Context) error {
			ids, err := g.conversationIDs(c, userID)
			if err != nil {
				return err
			}
			composer.SetParents(ids)
			return nil
		}
		safe.RetryLoop(ctx, "conv-rescan", convRescan, 5*time.Minute, refresh)
	})

	safe.SafeGo(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case rows, ok := <-list.Out():
				if !ok {
					return
				}
				sendFrame(ctx, frames, wsFrame{Type: "conversations", Data: rows})
			}
		}
	})
}

func (g *wsGateway) conversationIDs(ctx context.Context, userID string) ([]string, error) {
	cur, err := g.convColl.Find(ctx, bson.M{socialmodel.ConversationFieldParticipantIDs: userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var ids []string
	for cur.Next(ctx) {
		var conv socialmodel.Conversation
		if err := cur.Decode(&conv); err != nil {
			return nil, err
		}
		ids = append(ids, conv.ID)
	}
	return ids, cur.Err()
}

func (g *wsGateway) startNotifyStream(ctx context.Context, userID string, frames chan<- wsFrame) {
	if g.pusher == nil {
		return
	}
	nsub, err := g.pusher.SubscribeNotify(userID, func(n socialmodel.Notification) {
		sendFrame(ctx, frames, wsFrame{Type: "notify", Data: n})
	})
	if err != nil {
		logger.Warnf("[ws] notify subscribe user=%s: %v", userID, err)
		return
	}
	safe.SafeGo(func() {
		<-ctx.Done()
		_ = nsub.Drain()
	})
}

func sendFrame(ctx context.Context, frames chan<- wsFrame, f wsFrame) {
	select {
	case frames <- f:
	case <-ctx.Done():
	default:
		// 写不动就丢：快照会整份重发，通知以收件箱落库为准
	}
}
