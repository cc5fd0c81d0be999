package container

import (
	"context"
	"database/sql"

	"github.com/lucasz92/zenitwms-sub000/internal/alerts"
	auditLogRepo "github.com/lucasz92/zenitwms-sub000/internal/auditlog"
	"github.com/lucasz92/zenitwms-sub000/internal/core/config"
	"github.com/lucasz92/zenitwms-sub000/internal/dashboard"
	"github.com/lucasz92/zenitwms-sub000/internal/inventory/products"
	"github.com/lucasz92/zenitwms-sub000/internal/inventory/stocks"
	"github.com/lucasz92/zenitwms-sub000/internal/inventory/transfers"
	"github.com/lucasz92/zenitwms-sub000/internal/knowledge"
	"github.com/lucasz92/zenitwms-sub000/internal/locations"
	"github.com/lucasz92/zenitwms-sub000/internal/middleware"
	"github.com/lucasz92/zenitwms-sub000/internal/rate_limiter"
	"github.com/lucasz92/zenitwms-sub000/internal/repository"
	"github.com/lucasz92/zenitwms-sub000/internal/users"
	"github.com/lucasz92/zenitwms-sub000/pkg/auditlog"
	"github.com/lucasz92/zenitwms-sub000/pkg/security"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const version = "1.0.0"

type Container struct {
	Repository       *repository.Repository
	AuditLog         *auditlog.Auditlog
	Verifier         *security.TokenVerifier
	Health           *middleware.HealthChecker
	AssistantLimiter *rate_limiter.RateLimiter
	UserHandler      *users.UsersHandler
	ProductHandler   *products.ProductHandler
	StockHandler     *stocks.StockHandler
	LocationHandler  *locations.LocationHandler
	TransferHandler  *transfers.TransferHandler
	AlertHandler     *alerts.AlertHandler
	KnowledgeHandler *knowledge.KnowledgeHandler
	DashboardHandler *dashboard.DashboardHandler
	AuditLogHandler  *auditLogRepo.AuditLogHandler
}

// NewAppContainer wires every component over one pool. rdb may be nil.
func NewAppContainer(db *sql.DB, rdb *redis.Client, cfg *config.Config, log *zap.Logger) *Container {
	repo := repository.NewRepository(db)

	auditRepository := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditRepository, log.Named("audit"))

	userRepository := users.NewRepository(repo)
	productRepository := products.NewRepository(repo)
	movementRepository := stocks.NewMovementRepository(repo)
	locationRepository := locations.NewLocationRepository(repo)
	transferRepository := transfers.NewRepository(repo)

	ledger := stocks.NewLedger(repo, productRepository, movementRepository, userRepository, log.Named("ledger"))
	productService := products.NewService(repo, productRepository, ledger, auditLog, log.Named("products"))
	locationService := locations.NewService(repo, locationRepository, productRepository, auditLog, log.Named("locations"))
	transferService := transfers.NewService(repo, transferRepository, productRepository, ledger, log.Named("transfers"))
	alertService := alerts.NewService(alerts.NewRepository(repo), productService, auditLog, log.Named("alerts"))
	knowledgeService := knowledge.NewService(knowledge.NewRepository(repo), auditLog, log.Named("knowledge"))

	var statsCache dashboard.StatsCache = dashboard.NopCache{}
	checks := map[string]middleware.Pinger{"database": db}
	if rdb != nil {
		statsCache = dashboard.NewRedisCache(rdb, cfg.StatsCacheTTL, log.Named("cache"))
		checks["redis"] = middleware.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	dashboardService := dashboard.NewService(dashboard.NewRepository(repo), statsCache, cfg.ReadTimeout, log.Named("dashboard"))

	limiter := rate_limiter.NewRateLimiter(cfg.AssistantRateLimit, cfg.AssistantRateWindow)

	return &Container{
		Repository:       repo,
		AuditLog:         auditLog,
		Verifier:         security.NewTokenVerifier(cfg.AuthJWTSecret),
		Health:           middleware.NewHealthChecker(version, checks),
		AssistantLimiter: limiter,
		UserHandler:      users.NewHandler(userRepository, log.Named("users")),
		ProductHandler:   products.NewHandler(productService),
		StockHandler:     stocks.NewStockHandler(ledger),
		LocationHandler:  locations.NewLocationHandler(locationService),
		TransferHandler:  transfers.NewHandler(transferService),
		AlertHandler:     alerts.NewHandler(alertService),
		KnowledgeHandler: knowledge.NewHandler(knowledgeService, limiter),
		DashboardHandler: dashboard.NewHandler(dashboardService),
		AuditLogHandler:  auditLogRepo.NewHandler(auditRepository),
	}
}
