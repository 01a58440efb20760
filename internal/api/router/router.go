package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stiendat/osuvnfc-discord-bot/internal/api/handler"
	"github.com/stiendat/osuvnfc-discord-bot/internal/api/middleware"
	"github.com/stiendat/osuvnfc-discord-bot/pkg/redis"
)

// Setup 初始化并返回运维 HTTP 路由引擎
func Setup(h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1（只读） ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(rdb, 60, time.Minute))
	{
		v1.GET("/stats", h.Ops.Stats)
		v1.GET("/invites/:code", h.Ops.InviteStatus)
	}

	return r
}
