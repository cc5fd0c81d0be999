package dashboard

import (
	"context"
	"sync"
	"time"

	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"

	"go.uber.org/zap"
)

const (
	defaultLowStockLimit = 20
	maxLowStockLimit     = 100
)

type Stats struct {
	Products         int       `json:"products"`
	LowStock         int       `json:"low_stock"`
	OutOfStock       int       `json:"out_of_stock"`
	PendingAlerts    int       `json:"pending_alerts"`
	PendingTransfers int       `json:"pending_transfers"`
	MovementsToday   int       `json:"movements_today"`
	Degraded         bool      `json:"degraded"`
	GeneratedAt      time.Time `json:"generated_at"`
}

type DashboardService struct {
	repo    DashboardRepository
	cache   StatsCache
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time
}

func NewService(repo DashboardRepository, cache StatsCache, timeout time.Duration, log *zap.Logger) *DashboardService {
	if cache == nil {
		cache = NopCache{}
	}
	return &DashboardService{
		repo:    repo,
		cache:   cache,
		timeout: timeout,
		log:     log,
		now:     time.Now,
	}
}

// Stats runs every count in parallel, each under its own timeout. A
// degraded result is returned but never cached.
func (s *DashboardService) Stats(ctx context.Context) *Stats {
	if cached, ok := s.cache.Get(ctx); ok {
		return cached
	}

	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := &Stats{GeneratedAt: now}
	reads := []struct {
		name   string
		target *int
		read   func(ctx context.Context) (int, error)
	}{
		{"products", &stats.Products, s.repo.CountProducts},
		{"low_stock", &stats.LowStock, s.repo.CountLowStock},
		{"out_of_stock", &stats.OutOfStock, s.repo.CountOutOfStock},
		{"pending_alerts", &stats.PendingAlerts, s.repo.CountPendingAlerts},
		{"pending_transfers", &stats.PendingTransfers, s.repo.CountPendingTransfers},
		{"movements_today", &stats.MovementsToday, func(ctx context.Context) (int, error) {
			return s.repo.CountMovementsSince(ctx, startOfDay)
		}},
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		degraded bool
	)
	for _, r := range reads {
		wg.Add(1)
		go func(name string, target *int, read func(ctx context.Context) (int, error)) {
			defer wg.Done()
			value, err := WithFallback(ctx, s.timeout, s.log, name, 0, read)
			mu.Lock()
			defer mu.Unlock()
			*target = value
			if err != nil {
				degraded = true
			}
		}(r.name, r.target, r.read)
	}
	wg.Wait()

	stats.Degraded = degraded
	if !degraded {
		s.cache.Set(ctx, *stats)
	}
	return stats
}

func (s *DashboardService) LowStock(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = defaultLowStockLimit
	}
	if limit > maxLowStockLimit {
		limit = maxLowStockLimit
	}

	products, err := WithFallback(ctx, s.timeout, s.log, "low_stock_list", []models.Product{}, func(ctx context.Context) ([]models.Product, error) {
		return s.repo.GetLowStock(ctx, limit)
	})
	if err != nil && ctx.Err() != nil {
		return nil, custom_error.Persistence(ctx.Err())
	}

	return products, nil
}
