package router

import (
	"blogreact/internal/handlers"
	"blogreact/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Dependencies struct {
	Log       *zap.Logger
	Auth      gin.HandlerFunc
	Reactions *handlers.ReactionHandler
	Health    *handlers.HealthHandler
}

// New builds the engine with logging, recovery and all routes.
func New(d Dependencies) *gin.Engine {
	handlers.RegisterValidators()

	r := gin.New()
	r.Use(middleware.Logger(d.Log), gin.Recovery())
	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Dependencies) {
	r.GET("/healthz", d.Health.Check) // 健康检查，无需登录

	// 受保护路由 (Protected Routes)
	reactions := r.Group("/api/v1/reactions")
	reactions.Use(d.Auth)
	{
		reactions.POST("", d.Reactions.Create)       // 点评/恢复已删除的点评
		reactions.GET("/:id", d.Reactions.List)      // 博客的点评列表与统计
		reactions.PUT("/:id", d.Reactions.Update)    // 修改点评类型
		reactions.DELETE("/:id", d.Reactions.Delete) // 软删除点评
	}
}
