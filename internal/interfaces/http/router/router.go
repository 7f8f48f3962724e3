// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aetherium-books-api/internal/config"
	"aetherium-books-api/internal/interfaces/http/handler"
	"aetherium-books-api/internal/interfaces/http/middleware"
)

// Router HTTP 路由器
type Router struct {
	engine  *gin.Engine
	cfg     *config.Config
	actions *handler.ActionHandler
	health  *handler.HealthHandler
	limiter middleware.RateLimiter
}

// New 创建新的路由器，limiter 为 nil 时不限流
func New(cfg *config.Config, actions *handler.ActionHandler, health *handler.HealthHandler, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:  gin.New(),
		cfg:     cfg,
		actions: actions,
		health:  health,
		limiter: limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.CORS(r.cfg.Security.CORS))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.health.Health)
	r.engine.GET("/ready", r.health.Ready)
	r.engine.GET("/live", r.health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		path := r.cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.engine.Group("/v1")
	RegisterActionRoutes(v1, r.actions, middleware.RateLimit(r.cfg.Security.RateLimit, r.limiter))
}

// RegisterActionRoutes 注册动作路由
func RegisterActionRoutes(v1 *gin.RouterGroup, h *handler.ActionHandler, mw ...gin.HandlerFunc) {
	actions := v1.Group("/actions", mw...)
	{
		actions.POST("/contact", h.Contact)
		actions.POST("/sign-up", h.SignUp)
		actions.POST("/sign-in", h.SignIn)
		actions.POST("/ask", h.Ask)
		actions.POST("/chapters/generate", h.GenerateChapter)
		actions.POST("/translate/urdu", h.TranslateUrdu)
	}
}
