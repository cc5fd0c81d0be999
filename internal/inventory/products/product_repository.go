package products

import (
	"context"
	"fmt"

	"github.com/lucasz92/zenitwms-sub000/internal/repository"
	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

type ProductRepository interface {
	GetProduct(ctx context.Context, q repository.Querier, id int) (*models.Product, error)
	GetProductByCode(ctx context.Context, q repository.Querier, code string) (*models.Product, error)
	GetProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int, error)
	PersistProduct(ctx context.Context, q repository.Querier, product models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, q repository.Querier, id int, changes map[string]interface{}) error
	UpdateStock(ctx context.Context, q repository.Querier, id int, stock int) error
	HasMovements(ctx context.Context, q repository.Querier, id int) (bool, error)
	DeleteProduct(ctx context.Context, q repository.Querier, id int) error
}

type productRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) ProductRepository {
	return &productRepository{repository: r}
}

var productColumns = []interface{}{
	"id", "code", "name", "description", "price", "stock", "min_stock", "unit",
	"category", "synonyms", "supplier", "notes", "image_url", "created_at", "updated_at",
}

// GetProduct reads the row under a row lock when q is a transaction, so
// concurrent ledger writes on the same product serialize.
func (r *productRepository) GetProduct(ctx context.Context, q repository.Querier, id int) (*models.Product, error) {
	query := q.From("products").Select(productColumns...).Where(goqu.Ex{"id": id})
	if _, ok := q.(*goqu.TxDatabase); ok {
		query = query.ForUpdate(exp.Wait)
	}

	var product models.Product
	found, err := query.ScanStructContext(ctx, &product)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}

	return &product, nil
}

func (r *productRepository) GetProductByCode(ctx context.Context, q repository.Querier, code string) (*models.Product, error) {
	var product models.Product
	found, err := q.From("products").
		Select(productColumns...).
		Where(goqu.Ex{"code": models.NormalizeCode(code)}).
		ScanStructContext(ctx, &product)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", code, err)
	}
	if !found {
		return nil, nil
	}

	return &product, nil
}

func (r *productRepository) GetProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int, error) {
	filter.normalize()

	query := r.repository.GoquDBWrapper.From("products")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(goqu.Or(
			goqu.C("code").ILike(pattern),
			goqu.C("name").ILike(pattern),
			goqu.C("synonyms").ILike(pattern),
			goqu.C("category").ILike(pattern),
		))
	}
	if filter.Category != "" {
		query = query.Where(goqu.Ex{"category": filter.Category})
	}
	if filter.LowStock {
		query = query.Where(goqu.C("stock").Lte(goqu.I("min_stock")))
	}

	total, err := query.CountContext(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	products := []models.Product{}
	err = query.Select(productColumns...).
		Order(goqu.I("code").Asc()).
		Limit(uint(filter.PageSize)).
		Offset(uint((filter.Page-1)*filter.PageSize)).
		ScanStructsContext(ctx, &products)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, int(total), nil
}

func (r *productRepository) PersistProduct(ctx context.Context, q repository.Querier, product models.Product) (*models.Product, error) {
	var persisted models.Product
	_, err := q.Insert("products").
		Rows(product).
		Returning(productColumns...).
		Executor().ScanStructContext(ctx, &persisted)
	if err != nil {
		return nil, custom_error.WrapDBError(err)
	}

	return &persisted, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, q repository.Querier, id int, changes map[string]interface{}) error {
	record := goqu.Record{"updated_at": goqu.L("NOW()")}
	for column, value := range changes {
		record[column] = value
	}

	result, err := q.Update("products").Set(record).Where(goqu.Ex{"id": id}).Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.WrapDBError(err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return custom_error.NotFound("product %d not found", id)
	}

	return nil
}

func (r *productRepository) UpdateStock(ctx context.Context, q repository.Querier, id int, stock int) error {
	_, err := q.Update("products").
		Set(goqu.Record{"stock": stock, "updated_at": goqu.L("NOW()")}).
		Where(goqu.Ex{"id": id}).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update stock of product %d: %w", id, err)
	}

	return nil
}

func (r *productRepository) HasMovements(ctx context.Context, q repository.Querier, id int) (bool, error) {
	count, err := q.From("inventory_movements").Where(goqu.Ex{"product_id": id}).CountContext(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count movements of product %d: %w", id, err)
	}

	return count > 0, nil
}

// DeleteProduct vacates every location holding the product before removing
// it; both statements must share q's transaction.
func (r *productRepository) DeleteProduct(ctx context.Context, q repository.Querier, id int) error {
	_, err := q.Update("locations").
		Set(goqu.Record{"product_id": nil, "is_primary": false}).
		Where(goqu.Ex{"product_id": id}).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to vacate locations of product %d: %w", id, err)
	}

	result, err := q.Delete("products").Where(goqu.Ex{"id": id}).Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.WrapDBError(err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return custom_error.NotFound("product %d not found", id)
	}

	return nil
}
