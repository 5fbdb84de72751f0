package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"GlobeTalk/data/database/mgo/mongoutil"
	"GlobeTalk/global"
	"GlobeTalk/logger"
	"GlobeTalk/service/chat"
	"GlobeTalk/service/chat/handlers"
	"GlobeTalk/service/directory"
	"GlobeTalk/service/storage"
	"GlobeTalk/service/translate"
	"GlobeTalk/tools/ids"
)

func main() {
	cfg := global.Load()
	ids.SetNodeID(100)

	ctx := context.Background()

	mongoCli, err := mongoutil.NewMongoDB(ctx, &mongoutil.Config{
		Uri:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		logger.Log.Fatal("mongo connect failed", zap.Error(err))
	}
	db := mongoCli.GetDB()

	var mirror *storage.PresenceMirror
	if rdb, rerr := storage.NewRedis(ctx, storage.RedisConfig(cfg.Redis)); rerr != nil {
		logger.Warnf("redis unavailable, presence mirror disabled: %v", rerr)
	} else {
		mirror = storage.NewPresenceMirror(rdb, cfg.GatewayID, cfg.PresenceTTL)
	}

	dir := directory.NewMongoDirectory(db)
	store := storage.NewMongoMessageStore(db)
	translator := translate.NewClient(translate.Config{
		Endpoint: cfg.Translate.Endpoint,
		APIKey:   cfg.Translate.APIKey,
		Timeout:  cfg.TranslateTimeout,
	})

	reg := chat.NewRegistry()
	presence := chat.NewPresence(reg, mirror)
	fanout := chat.NewFanout(chat.FanoutConfig{
		Workers:          cfg.FanoutWorkers,
		DirectoryTimeout: cfg.DirectoryTimeout,
		TranslateTimeout: cfg.TranslateTimeout,
		StoreTimeout:     cfg.StoreTimeout,
	}, reg, dir, store, translator)
	typing := chat.NewTyping(reg)

	srv := chat.NewServer(chat.Config{
		GatewayID:        cfg.GatewayID,
		JWTSecret:        cfg.JWTSecret,
		SendQueueSize:    cfg.SendQueueSize,
		DirectoryTimeout: cfg.DirectoryTimeout,
	}, reg, presence, fanout, typing, dir)

	srv.Disp().Register(handlers.NewMessageHandler())
	srv.Disp().Register(handlers.NewStartTypingHandler())
	srv.Disp().Register(handlers.NewStopTypingHandler())
	srv.Disp().Register(handlers.NewChatJoinedHandler())
	srv.Disp().Register(handlers.NewChatLeavedHandler())

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/chat", srv.HandleWS)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "gateway": cfg.GatewayID})
	})
	r.GET("/online", func(c *gin.Context) {
		c.JSON(http.StatusOK, presence.Snapshot())
	})

	logger.Infof("[HTTP] listening on %s gateway=%s", cfg.Addr, cfg.GatewayID)
	if err := r.Run(cfg.Addr); err != nil {
		logger.Log.Fatal("http server failed", zap.Error(err))
	}
}
