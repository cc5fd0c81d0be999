package stocks

import (
	"context"

	"github.com/lucasz92/zenitwms-sub000/internal/repository"
	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"
	"github.com/lucasz92/zenitwms-sub000/pkg/validation"

	"go.uber.org/zap"
)

type ProductStore interface {
	GetProduct(ctx context.Context, q repository.Querier, id int) (*models.Product, error)
	UpdateStock(ctx context.Context, q repository.Querier, id int, stock int) error
}

type UserEnsurer interface {
	EnsureUser(ctx context.Context, q repository.Querier, user models.User) error
}

// Ledger is the only writer of products.stock. Every change appends one
// movement in the same transaction as the counter update.
type Ledger struct {
	tx        repository.Transactor
	products  ProductStore
	movements MovementRepository
	users     UserEnsurer
	log       *zap.Logger
}

func NewLedger(tx repository.Transactor, products ProductStore, movements MovementRepository, users UserEnsurer, log *zap.Logger) *Ledger {
	return &Ledger{
		tx:        tx,
		products:  products,
		movements: movements,
		users:     users,
		log:       log,
	}
}

func (l *Ledger) RecordMovement(ctx context.Context, actor *models.User, req MovementRequest) (*MovementResult, error) {
	if actor == nil {
		return nil, custom_error.Validation("an authenticated user is required")
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var result *MovementResult
	err := l.tx.WithTransaction(ctx, func(q repository.Querier) error {
		var err error
		result, err = l.Apply(ctx, q, actor, req)
		return err
	})
	if err != nil {
		if custom_error.KindOf(err) == custom_error.KindPersistence {
			l.log.Error("Unable to record movement",
				zap.Int("product_id", req.ProductID),
				zap.String("type", string(req.Type)),
				zap.Error(err),
			)
		}
		return nil, custom_error.Persistence(err)
	}

	l.log.Info("Recorded movement",
		zap.Int("movement_id", result.Movement.ID),
		zap.Int("product_id", result.Product.ID),
		zap.String("type", string(req.Type)),
		zap.Int("quantity", req.Quantity),
		zap.Int("stock", result.Product.Stock),
	)

	return result, nil
}

// Apply performs one ledger write on q without opening a transaction of its
// own. Callers own the transaction and the input validation.
func (l *Ledger) Apply(ctx context.Context, q repository.Querier, actor *models.User, req MovementRequest) (*MovementResult, error) {
	if err := l.users.EnsureUser(ctx, q, *actor); err != nil {
		return nil, err
	}

	product, err := l.products.GetProduct(ctx, q, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, custom_error.NotFound("product %d not found", req.ProductID)
	}

	newStock, err := ComputeStock(product.Stock, req.Type, req.Quantity)
	if err != nil {
		return nil, err
	}

	movement, err := l.movements.InsertMovement(ctx, q, models.InventoryMovement{
		ProductID:      product.ID,
		UserID:         actor.ID,
		Type:           req.Type,
		Quantity:       req.Quantity,
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		Notes:          req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := l.products.UpdateStock(ctx, q, product.ID, newStock); err != nil {
		return nil, err
	}
	product.Stock = newStock

	return &MovementResult{Movement: *movement, Product: *product}, nil
}

func (l *Ledger) ListMovements(ctx context.Context, filter MovementFilter) ([]MovementView, error) {
	if filter.Type != "" && !models.MovementType(filter.Type).IsValid() {
		return nil, custom_error.Validation("type must be one of [entry exit adjustment transfer]")
	}

	movements, err := l.movements.GetMovements(ctx, filter)
	if err != nil {
		return nil, custom_error.Persistence(err)
	}

	return movements, nil
}
