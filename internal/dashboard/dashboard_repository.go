package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/lucasz92/zenitwms-sub000/internal/repository"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type DashboardRepository interface {
	CountProducts(ctx context.Context) (int, error)
	CountLowStock(ctx context.Context) (int, error)
	CountOutOfStock(ctx context.Context) (int, error)
	CountPendingAlerts(ctx context.Context) (int, error)
	CountPendingTransfers(ctx context.Context) (int, error)
	CountMovementsSince(ctx context.Context, since time.Time) (int, error)
	GetLowStock(ctx context.Context, limit int) ([]models.Product, error)
}

type dashboardRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) DashboardRepository {
	return &dashboardRepository{repository: r}
}

func (r *dashboardRepository) count(ctx context.Context, table string, where ...goqu.Expression) (int, error) {
	query := r.repository.GoquDBWrapper.From(table)
	if len(where) > 0 {
		query = query.Where(where...)
	}

	total, err := query.CountContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return int(total), nil
}

func (r *dashboardRepository) CountProducts(ctx context.Context) (int, error) {
	return r.count(ctx, "products")
}

// CountLowStock excludes products that are already out of stock.
func (r *dashboardRepository) CountLowStock(ctx context.Context) (int, error) {
	return r.count(ctx, "products",
		goqu.C("stock").Gt(0),
		goqu.C("stock").Lte(goqu.I("min_stock")),
	)
}

func (r *dashboardRepository) CountOutOfStock(ctx context.Context) (int, error) {
	return r.count(ctx, "products", goqu.C("stock").Lte(0))
}

func (r *dashboardRepository) CountPendingAlerts(ctx context.Context) (int, error) {
	return r.count(ctx, "alerts", goqu.C("status").Neq(string(models.AlertCompleted)))
}

func (r *dashboardRepository) CountPendingTransfers(ctx context.Context) (int, error) {
	return r.count(ctx, "transfer_orders", goqu.C("status").Eq(string(models.TransferPending)))
}

func (r *dashboardRepository) CountMovementsSince(ctx context.Context, since time.Time) (int, error) {
	return r.count(ctx, "inventory_movements", goqu.C("created_at").Gte(since))
}

func (r *dashboardRepository) GetLowStock(ctx context.Context, limit int) ([]models.Product, error) {
	products := []models.Product{}
	err := r.repository.GoquDBWrapper.From("products").
		Select("id", "code", "name", "stock", "min_stock", "unit", "category").
		Where(goqu.C("stock").Lte(goqu.I("min_stock"))).
		Order(goqu.I("stock").Asc(), goqu.I("code").Asc()).
		Limit(uint(limit)).
		ScanStructsContext(ctx, &products)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}

	return products, nil
}
