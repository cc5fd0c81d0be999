package routes

import (
	"github.com/lucasz92/zenitwms-sub000/internal/core/config"
	"github.com/lucasz92/zenitwms-sub000/internal/core/container"
	"github.com/lucasz92/zenitwms-sub000/internal/middleware"
	"github.com/lucasz92/zenitwms-sub000/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(c *container.Container, cfg *config.Config, log *zap.Logger) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(log.Named("http")),
		middleware.RecoveryMiddleware(log),
		middleware.CORS(cfg.CORSOrigins),
	)

	RegisterUtilityRoutes(router, c)
	RegisterProtectedRoutes(router, c, cfg)

	return router
}

func RegisterUtilityRoutes(router *gin.Engine, c *container.Container) {
	router.GET("/health", c.Health.Handler())
}

func RegisterProtectedRoutes(router *gin.Engine, c *container.Container, cfg *config.Config) {
	api := router.Group("/api")
	api.Use(
		middleware.TimeoutMiddleware(cfg.RequestTimeout),
		security.JWTMiddleware(c.Verifier),
	)

	c.UserHandler.RegisterRoutes(api)
	c.ProductHandler.RegisterRoutes(api)
	c.StockHandler.RegisterRoutes(api)
	c.LocationHandler.RegisterRoutes(api)
	c.TransferHandler.RegisterRoutes(api)
	c.AlertHandler.RegisterRoutes(api)
	c.KnowledgeHandler.RegisterRoutes(api)
	c.DashboardHandler.RegisterRoutes(api)
	c.AuditLogHandler.RegisterRoutes(api)
}
