package products

import (
	"context"

	"github.com/lucasz92/zenitwms-sub000/internal/inventory/stocks"
	"github.com/lucasz92/zenitwms-sub000/internal/repository"
	"github.com/lucasz92/zenitwms-sub000/pkg/auditlog"
	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"
	"github.com/lucasz92/zenitwms-sub000/pkg/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type StockRecorder interface {
	Apply(ctx context.Context, q repository.Querier, actor *models.User, req stocks.MovementRequest) (*stocks.MovementResult, error)
}

type ProductService struct {
	tx     repository.Store
	repo   ProductRepository
	ledger StockRecorder
	audit  auditlog.Logger
	log    *zap.Logger
}

func NewService(tx repository.Store, repo ProductRepository, ledger StockRecorder, audit auditlog.Logger, log *zap.Logger) *ProductService {
	return &ProductService{
		tx:     tx,
		repo:   repo,
		ledger: ledger,
		audit:  audit,
		log:    log,
	}
}

// CreateProduct stores the product with zero stock and books any opening
// stock as an entry movement in the same transaction.
func (s *ProductService) CreateProduct(ctx context.Context, actor *models.User, req CreateProductRequest) (*models.Product, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	code := models.NormalizeCode(req.Code)
	if code == "" {
		return nil, custom_error.Validation("code is required")
	}
	if req.Stock > 0 && actor == nil {
		return nil, custom_error.Validation("an authenticated user is required to book opening stock")
	}

	product := models.Product{
		Code:        code,
		Name:        req.Name,
		Description: req.Description,
		MinStock:    req.MinStock,
		Unit:        req.Unit,
		Category:    req.Category,
		Synonyms:    req.Synonyms,
		Supplier:    req.Supplier,
		Notes:       req.Notes,
		ImageURL:    req.ImageURL,
	}
	if product.Unit == "" {
		product.Unit = models.UnitPiece
	}
	if req.Price != nil {
		product.Price = decimal.NewNullDecimal(*req.Price)
	}

	var created *models.Product
	err := s.tx.WithTransaction(ctx, func(q repository.Querier) error {
		var err error
		if created, err = s.repo.PersistProduct(ctx, q, product); err != nil {
			return err
		}

		if req.Stock > 0 {
			result, err := s.ledger.Apply(ctx, q, actor, stocks.MovementRequest{
				ProductID: created.ID,
				Type:      models.MovementEntry,
				Quantity:  req.Stock,
				Notes:     "opening stock",
			})
			if err != nil {
				return err
			}
			created.Stock = result.Product.Stock
		}
		return nil
	})
	if err != nil {
		return nil, s.translate(err, code)
	}

	s.log.Info("Created product", zap.Int("product_id", created.ID), zap.String("code", created.Code))
	return created, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int, req UpdateProductRequest) (*models.Product, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	changes := req.changes()
	if code, ok := changes["code"]; ok && code == "" {
		return nil, custom_error.Validation("code must not be empty")
	}

	q := s.tx.Querier()
	if len(changes) > 0 {
		if err := s.repo.UpdateProduct(ctx, q, id, changes); err != nil {
			code, _ := changes["code"].(string)
			return nil, s.translate(err, code)
		}
	}

	return s.GetProduct(ctx, id)
}

func (s *ProductService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.repo.GetProduct(ctx, s.tx.Querier(), id)
	if err != nil {
		return nil, custom_error.Persistence(err)
	}
	if product == nil {
		return nil, custom_error.NotFound("product %d not found", id)
	}
	return product, nil
}

func (s *ProductService) GetProductByCode(ctx context.Context, code string) (*models.Product, error) {
	product, err := s.repo.GetProductByCode(ctx, s.tx.Querier(), code)
	if err != nil {
		return nil, custom_error.Persistence(err)
	}
	if product == nil {
		return nil, custom_error.NotFound("product %s not found", models.NormalizeCode(code))
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context, filter ProductFilter) (*ProductPage, error) {
	filter.normalize()

	items, total, err := s.repo.GetProducts(ctx, filter)
	if err != nil {
		return nil, custom_error.Persistence(err)
	}

	return &ProductPage{Items: items, Total: total, Page: filter.Page}, nil
}

// DeleteProduct refuses products with ledger history; their movements keep
// referencing them.
func (s *ProductService) DeleteProduct(ctx context.Context, actor *models.User, id int) error {
	var deleted *models.Product
	err := s.tx.WithTransaction(ctx, func(q repository.Querier) error {
		product, err := s.repo.GetProduct(ctx, q, id)
		if err != nil {
			return err
		}
		if product == nil {
			return custom_error.NotFound("product %d not found", id)
		}

		hasMovements, err := s.repo.HasMovements(ctx, q, id)
		if err != nil {
			return err
		}
		if hasMovements {
			return custom_error.Conflict("product %s has stock movements and cannot be deleted", product.Code)
		}

		deleted = product
		return s.repo.DeleteProduct(ctx, q, id)
	})
	if err != nil {
		if custom_error.IsForeignKeyViolation(err) {
			return custom_error.Conflict("product %d is still referenced and cannot be deleted", id)
		}
		return custom_error.Persistence(err)
	}

	go s.audit.Log(context.WithoutCancel(ctx), "deleted", map[string]interface{}{
		"code": deleted.Code,
		"name": deleted.Name,
	}, deleted, actor)

	return nil
}

func (s *ProductService) translate(err error, code string) error {
	if custom_error.IsUniqueViolation(err) {
		return custom_error.Conflict("a product with code %s already exists", code)
	}
	if custom_error.KindOf(err) == custom_error.KindPersistence {
		s.log.Error("Product write failed", zap.String("code", code), zap.Error(err))
	}
	return custom_error.Persistence(err)
}
