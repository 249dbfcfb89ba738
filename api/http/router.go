package http

import (
	"github.com/gin-gonic/gin"

	"realm/api/api/http/controller/auth"
	"realm/api/api/http/controller/home"
	"realm/api/api/http/controller/preauth"
	"realm/api/api/interceptor"
	"realm/api/api/ws"
	"realm/api/config"
	"realm/api/service"
)

// Deps 路由依赖，由 main 组装
type Deps struct {
	Conf       *config.Config
	Maps       *service.MapService
	Huts       *service.HutService
	Characters *service.CharacterService
	Feed       *ws.Hub
	Limiter    *interceptor.Limiter
}

func Routers(e *gin.RouterGroup, d Deps) {
	game := &d.Conf.Game
	secret := []byte(d.Conf.Jwt.Secret)

	homeGroup := e.Group("/")
	homeGroup.GET("public/config", home.Public(game))
	homeGroup.GET("zones", home.Zones(game))
	homeGroup.GET("castles", home.Castles(game))

	homeGroup.GET("maps/:mapId/tmj", home.MapTmj(d.Maps))
	homeGroup.GET("maps/:mapId/tile", home.MapTile(d.Maps))
	homeGroup.GET("maps/:mapId/render.png", home.MapRender(d.Maps))
	homeGroup.GET("maps/:mapId/huts", home.HutsInView(d.Huts, d.Maps))

	homeGroup.GET("huts", home.HutList(d.Huts, game))
	homeGroup.GET("huts/search", home.HutSearch(d.Huts))
	homeGroup.GET("huts/player/:userId", home.HutsByPlayer(d.Huts))

	homeGroup.GET("ws/huts", d.Feed.Handle)

	preAuthGroup := e.Group("/preauth")
	preAuthGroup.POST("init", preauth.Init(d.Characters, secret, d.Conf.Jwt.TTL,
		interceptor.NewInitDataVerifier(d.Conf.Telegram.BotToken, d.Conf.Telegram.InitMaxAge)))

	authGroup := e.Group("/auth", interceptor.TokenInterceptor(secret))
	authGroup.GET("/character", auth.CharacterGet(d.Characters))
	authGroup.POST("/character", auth.CharacterCreate(d.Characters))

	authGroup.GET("/state", auth.StateGet)
	authGroup.POST("/state", auth.StateSave)

	authGroup.POST("/huts/quote", auth.HutQuote(d.Huts))

	// 写操作限流
	writeGroup := authGroup.Group("/", interceptor.RateLimitInterceptor(d.Limiter))
	writeGroup.POST("huts", auth.HutBuild(d.Huts))
	writeGroup.POST("huts/:id/upgrade", auth.HutUpgrade(d.Huts))
	writeGroup.POST("huts/:id/visit", auth.HutVisit(d.Huts))
}
