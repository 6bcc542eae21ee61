package api

import (
	"fmt"
	"net/http"

	"SocialCore/logger"
	mid "SocialCore/middleware"
	midsec "SocialCore/middleware/security"
	"SocialCore/module/social/ads"
	"SocialCore/module/social/content"
	"SocialCore/module/social/notify"
	"SocialCore/module/social/relationship"
	"SocialCore/module/social/sub"
	"SocialCore/service/mgo"
	"SocialCore/service/natsx"

	"github.com/gin-gonic/gin"
)

type Options struct {
	Port           int
	GatewayID      string
	AllowedOrigins []string
	JWTSecret      []byte
}

type Server struct {
	opts   Options
	engine *gin.Engine

	rel     *relationshipHandler
	cont    *contentHandler
	ad      *adsHandler
	ntf     *notifyHandler
	gateway *wsGateway
	auth    *authHandler
}

type Deps struct {
	Relationship *relationship.Service
	RelStore     *relationship.Store
	Content      *content.Engine
	ContentStore *content.Store
	Ads          *ads.Service
	Notify       *notify.Router
	Pusher       *natsx.NotifyPusher

	// ConvLoader 可选：带缓存的会话摘要读；nil 时直读消息表
	ConvLoader sub.Loader
}

func NewServer(opts Options, d Deps) *Server {
	jwtOpts := midsec.DefaultOptions(opts.JWTSecret)
	mid.ConfigAuth(jwtOpts)

	loader := d.ConvLoader
	if loader == nil {
		loader = d.ContentStore
	}

	s := &Server{
		opts: opts,
		rel:  &relationshipHandler{svc: d.Relationship},
		cont: &contentHandler{engine: d.Content},
		ad:   &adsHandler{svc: d.Ads, userStore: d.RelStore},
		ntf:  &notifyHandler{router: d.Notify},
		auth: &authHandler{jwtOpts: jwtOpts},
		gateway: &wsGateway{
			gatewayID: opts.GatewayID,
			jwtOpts:   jwtOpts,
			userColl:  d.RelStore.UserColl,
			convColl:  d.ContentStore.ConvColl,
			loader:    loader,
			pusher:    d.Pusher,
			engine:    d.Content,
			rel:       d.Relationship,
		},
	}
	s.engine = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	m := mid.GlobalManager()
	m.Use(mid.Origin(s.opts.AllowedOrigins))
	m.ApplyTo(r)

	auth := mid.RouteOpt{IsAuth: true}
	open := mid.RouteOpt{}

	mid.GET(r, "/healthz", s.health, open)
	mid.POST(r, "/auth/token", s.auth.token, open)

	rel := r.Group("/relationship")
	mid.POST(rel, "/request", s.rel.sendRequest, auth)
	mid.POST(rel, "/accept", s.rel.accept, auth)
	mid.POST(rel, "/decline", s.rel.decline, auth)
	mid.POST(rel, "/cancel", s.rel.cancel, auth)
	mid.POST(rel, "/reconcile", s.rel.reconcile, auth)
	mid.POST(rel, "/unfriend", s.rel.unfriend, auth)
	mid.POST(rel, "/block", s.rel.block, auth)
	mid.POST(rel, "/unblock", s.rel.unblock, auth)
	mid.GET(rel, "/presence", s.rel.presence, auth)

	ct := r.Group("/content")
	mid.POST(ct, "/post", s.cont.createPost, auth)
	mid.POST(ct, "/react", s.cont.react, auth)
	mid.POST(ct, "/comment", s.cont.addComment, auth)
	mid.POST(ct, "/comment/edit", s.cont.editComment, auth)
	mid.POST(ct, "/comment/delete", s.cont.deleteComment, auth)
	mid.POST(ct, "/comment/best", s.cont.markBestAnswer, auth)
	mid.POST(ct, "/poll/vote", s.cont.vote, auth)
	mid.POST(ct, "/post/recount", s.cont.recountComments, auth)
	mid.POST(ct, "/message", s.cont.sendMessage, auth)
	mid.POST(ct, "/conversation/read", s.cont.markConversationRead, auth)

	ad := r.Group("/ads")
	mid.POST(ad, "/campaign", s.ad.submit, auth)
	mid.POST(ad, "/campaign/review", s.ad.review, auth)
	mid.GET(ad, "/pick", s.ad.pick, auth)
	mid.POST(ad, "/click", s.ad.click, auth)
	mid.GET(ad, "/mine", s.ad.mine, auth)

	nt := r.Group("/notify")
	mid.GET(nt, "/inbox", s.ntf.inbox, auth)
	mid.POST(nt, "/read", s.ntf.markRead, auth)
	mid.GET(nt, "/unread", s.ntf.unread, auth)

	r.GET("/ws", s.gateway.HandleWS)
	return r
}

// health 就绪探针：mongo 未连上时报 503，负载均衡据此摘流量
func (s *Server) health(c *gin.Context) {
	if _, ok := mgo.TryGetDB(); !ok {
		body := gin.H{"status": "starting"}
		if err := mgo.Err(); err != nil {
			body["error"] = err.Error()
		}
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	OK(c, gin.H{"status": "ok"})
}

// Run 阻塞监听
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.opts.Port)
	logger.Infof("[api] listening on %s", addr)
	return s.engine.Run(addr)
}

var _ sub.Loader = (*content.Store)(nil)
