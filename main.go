package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	apihttp "realm/api/api/http"
	"realm/api/api/interceptor"
	"realm/api/api/ws"
	"realm/api/config"
	"realm/api/log"
	"realm/api/service"
	"realm/api/service/mappkg"
	"realm/api/system"
)

func main() {
	conf := config.GetConfig()

	log.Init(log.Options{
		Level:      conf.Log.Level,
		File:       conf.Log.File,
		MaxSizeMB:  conf.Log.MaxSizeMB,
		MaxBackups: conf.Log.MaxBackups,
		MaxAgeDays: conf.Log.MaxAgeDays,
		JSON:       conf.Log.JSON,
	})

	if conf.Jwt.Secret == "" {
		log.Fatal("jwt.secret is required (REALM_JWT_SECRET)")
	}
	if conf.Telegram.BotToken == "" {
		log.Warn("telegram.bot_token not set, init data signatures are NOT verified")
	}
	if err := system.InitDb(conf.Mysql); err != nil {
		log.Fatalf("init db: %v", err)
	}
	db := system.GetDb()

	index, err := service.NewHutIndex()
	if err != nil {
		log.Fatalf("init search index: %v", err)
	}
	defer index.Close()

	feed := ws.NewHub()
	maps := service.NewMapService(
		mappkg.NewMapStore(db, conf.Assets.MapsDir),
		mappkg.DirLoader{Dir: conf.Assets.TilesetsDir},
	)
	huts := service.NewHutService(db, &conf.Game, index, feed)
	chars := service.NewCharacterService(db, &conf.Game)

	if err := huts.ReindexAll(context.Background()); err != nil {
		log.Warnf("reindex huts: %v", err)
	}

	gin.SetMode(conf.Server.Mode)
	r := gin.New()
	r.Use(gin.LoggerWithWriter(log.Logger().Writer()), gin.Recovery())
	r.Use(cors.New(corsConfig(conf.Server.CorsOrigins)))
	r.Use(sessions.Sessions("realm_session", cookie.NewStore([]byte(conf.Server.SessionKey))))
	r.Use(interceptor.HeaderInterceptor())

	apihttp.Routers(&r.RouterGroup, apihttp.Deps{
		Conf:       conf,
		Maps:       maps,
		Huts:       huts,
		Characters: chars,
		Feed:       feed,
		Limiter:    interceptor.NewLimiter(conf.Game.BuildPerMinute, conf.Game.BuildBurst),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", conf.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Infof("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	log.Info("server exited")
}

// corsConfig 配置里出现 "*" 时放开全部来源
func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Telegram-Init-Data", "X-Client-Version"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cc.AllowAllOrigins = true
			cc.AllowCredentials = false
			return cc
		}
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
		cc.AllowCredentials = false
		return cc
	}
	cc.AllowOrigins = origins
	return cc
}
