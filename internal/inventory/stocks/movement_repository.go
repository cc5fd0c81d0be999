package stocks

import (
	"context"
	"fmt"
	"time"

	"github.com/lucasz92/zenitwms-sub000/internal/repository"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type MovementRepository interface {
	InsertMovement(ctx context.Context, q repository.Querier, movement models.InventoryMovement) (*models.InventoryMovement, error)
	GetMovements(ctx context.Context, filter MovementFilter) ([]MovementView, error)
}

type movementRepository struct {
	repository *repository.Repository
}

func NewMovementRepository(r *repository.Repository) MovementRepository {
	return &movementRepository{repository: r}
}

func (r *movementRepository) InsertMovement(ctx context.Context, q repository.Querier, movement models.InventoryMovement) (*models.InventoryMovement, error) {
	record := goqu.Record{
		"product_id": movement.ProductID,
		"user_id":    movement.UserID,
		"type":       string(movement.Type),
		"quantity":   movement.Quantity,
		"notes":      movement.Notes,
	}
	if movement.FromLocationID != nil {
		record["from_location_id"] = *movement.FromLocationID
	}
	if movement.ToLocationID != nil {
		record["to_location_id"] = *movement.ToLocationID
	}

	var inserted struct {
		ID        int       `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	_, err := q.Insert("inventory_movements").
		Rows(record).
		Returning("id", "created_at").
		Executor().ScanStructContext(ctx, &inserted)
	if err != nil {
		return nil, fmt.Errorf("failed to insert movement: %w", err)
	}

	persisted := movement
	persisted.ID = inserted.ID
	persisted.CreatedAt = inserted.CreatedAt

	return &persisted, nil
}

func (r *movementRepository) GetMovements(ctx context.Context, filter MovementFilter) ([]MovementView, error) {
	filter.normalize()

	conditions := repository.NewQueryBuilder().
		AddCondition("product_id", filter.ProductID).
		AddCondition("type", filter.Type)

	query := r.repository.GoquDBWrapper.
		From(goqu.T("inventory_movements").As("m")).
		Join(goqu.T("products").As("p"), goqu.On(goqu.Ex{"p.id": goqu.I("m.product_id")})).
		LeftJoin(goqu.T("users").As("u"), goqu.On(goqu.Ex{"u.id": goqu.I("m.user_id")})).
		Select(
			goqu.I("m.id").As("id"),
			goqu.I("m.product_id").As("product_id"),
			goqu.I("m.user_id").As("user_id"),
			goqu.I("m.type").As("type"),
			goqu.I("m.quantity").As("quantity"),
			goqu.I("m.from_location_id").As("from_location_id"),
			goqu.I("m.to_location_id").As("to_location_id"),
			goqu.I("m.notes").As("notes"),
			goqu.I("m.created_at").As("created_at"),
			goqu.I("p.code").As("product_code"),
			goqu.I("p.name").As("product_name"),
			goqu.COALESCE(goqu.I("u.name"), "").As("user_name"),
		).
		Order(goqu.I("m.created_at").Desc(), goqu.I("m.id").Desc()).
		Limit(uint(filter.Limit)).
		Offset(uint(filter.Offset))

	if conditions.HasConditions() {
		query = query.Where(conditions.BuildConditions(map[string]string{
			"product_id": "m.product_id",
			"type":       "m.type",
		}))
	}

	movements := []MovementView{}
	if err := query.ScanStructsContext(ctx, &movements); err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	return movements, nil
}
