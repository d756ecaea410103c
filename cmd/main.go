package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SpadesEngine/config"
	"SpadesEngine/internal/middleware"
	"SpadesEngine/internal/rules"
	"SpadesEngine/internal/storage"
	"SpadesEngine/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	path := os.Getenv("SPADES_CONFIG")
	cfg, err := config.Load(path)
	if err != nil {
		utils.Print.Fatal("config load failed", "err", err)
	}

	logger, err := utils.Init(cfg.Log.Level)
	if err != nil {
		utils.Print.Fatal("logger init failed", "err", err)
	}

	//-------------------------------------------------------
	// 1. 结果缓存：Redis 或内存
	//-------------------------------------------------------
	var cache rules.Cache
	if cfg.Redis.Enabled {
		rdb, err := storage.InitRedis(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("redis init failed", "addr", cfg.Redis.Addr, "err", err)
		}
		defer rdb.Close()
		cache = rules.NewRedisCache(rdb)
		logger.Info("moves cache", "backend", "redis", "addr", cfg.Redis.Addr)
	} else {
		cache = rules.NewMemoryCache()
		logger.Info("moves cache", "backend", "memory")
	}

	//-------------------------------------------------------
	// 2. Gin + CORS
	//-------------------------------------------------------
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
	}
	if len(cfg.Server.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.Server.AllowOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	//-------------------------------------------------------
	// 3. 规则接口，配置了 jwt.secret 时需要 Bearer token
	//-------------------------------------------------------
	svc := rules.NewService(cache, cfg.Cache.TTLSeconds, logger)
	v1 := r.Group("/v1")
	if cfg.JWT.Secret != "" {
		v1.Use(middleware.JwtAuthMiddleware([]byte(cfg.JWT.Secret)))
	} else {
		logger.Warn("jwt.secret is empty, /v1 is unauthenticated")
	}
	rules.NewHandler(svc).Register(v1)

	//-------------------------------------------------------
	// 4. 启动 + 优雅退出
	//-------------------------------------------------------
	srv := &http.Server{Addr: cfg.Server.Port, Handler: r}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server running", "addr", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
