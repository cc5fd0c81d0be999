package locations

import (
	"context"
	"fmt"

	"github.com/lucasz92/zenitwms-sub000/internal/repository"
	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type LocationRepository interface {
	GetLocation(ctx context.Context, q repository.Querier, id int) (*models.Location, error)
	GetLocations(ctx context.Context, filter LocationFilter) ([]LocationView, error)
	PersistLocation(ctx context.Context, q repository.Querier, location models.Location) (*models.Location, error)
	UpdateLocation(ctx context.Context, q repository.Querier, id int, changes map[string]interface{}) error
	ClearPrimary(ctx context.Context, q repository.Querier, productID int, exceptLocationID int) error
	AssignProduct(ctx context.Context, q repository.Querier, id int, productID *int, isPrimary bool) error
	InsertLocations(ctx context.Context, q repository.Querier, locations []models.Location) (int, error)
	DeleteLocation(ctx context.Context, q repository.Querier, id int) error
}

type locationRepository struct {
	repository *repository.Repository
}

func NewLocationRepository(r *repository.Repository) LocationRepository {
	return &locationRepository{repository: r}
}

var locationColumns = []interface{}{
	"id", "warehouse", "sector", "row", "col", "shelf", "position",
	"orientation", "product_id", "is_primary", "created_at",
}

func (r *locationRepository) GetLocation(ctx context.Context, q repository.Querier, id int) (*models.Location, error) {
	var location models.Location
	found, err := q.From("locations").
		Select(locationColumns...).
		Where(goqu.Ex{"id": id}).
		ScanStructContext(ctx, &location)
	if err != nil {
		return nil, fmt.Errorf("failed to get location %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}

	return &location, nil
}

func (r *locationRepository) GetLocations(ctx context.Context, filter LocationFilter) ([]LocationView, error) {
	conditions := repository.NewQueryBuilder().
		AddCondition("warehouse", filter.Warehouse).
		AddCondition("sector", filter.Sector).
		AddCondition("product_id", filter.ProductID)

	query := r.repository.GoquDBWrapper.
		From(goqu.T("locations").As("l")).
		LeftJoin(goqu.T("products").As("p"), goqu.On(goqu.Ex{"p.id": goqu.I("l.product_id")})).
		Select(
			goqu.I("l.id").As("id"),
			goqu.I("l.warehouse").As("warehouse"),
			goqu.I("l.sector").As("sector"),
			goqu.I("l.row").As("row"),
			goqu.I("l.col").As("col"),
			goqu.I("l.shelf").As("shelf"),
			goqu.I("l.position").As("position"),
			goqu.I("l.orientation").As("orientation"),
			goqu.I("l.product_id").As("product_id"),
			goqu.I("l.is_primary").As("is_primary"),
			goqu.I("l.created_at").As("created_at"),
			goqu.COALESCE(goqu.I("p.code"), "").As("product_code"),
			goqu.COALESCE(goqu.I("p.name"), "").As("product_name"),
		).
		Order(
			goqu.I("l.warehouse").Asc(),
			goqu.I("l.sector").Asc(),
			goqu.I("l.row").Asc(),
			goqu.I("l.col").Asc(),
			goqu.I("l.shelf").Asc(),
			goqu.I("l.position").Asc(),
		)

	if conditions.HasConditions() {
		query = query.Where(conditions.BuildConditions(map[string]string{
			"warehouse":  "l.warehouse",
			"sector":     "l.sector",
			"product_id": "l.product_id",
		}))
	}

	switch filter.State {
	case StateAvailable:
		query = query.Where(goqu.I("l.product_id").IsNull())
	case StateOccupied:
		query = query.Where(goqu.I("l.product_id").IsNotNull())
	}

	locations := []LocationView{}
	if err := query.ScanStructsContext(ctx, &locations); err != nil {
		return nil, fmt.Errorf("unable to list locations: %w", err)
	}

	return locations, nil
}

func (r *locationRepository) PersistLocation(ctx context.Context, q repository.Querier, location models.Location) (*models.Location, error) {
	var persisted models.Location
	_, err := q.Insert("locations").
		Rows(goqu.Record{
			"warehouse":   location.Warehouse,
			"sector":      location.Sector,
			"row":         location.Row,
			"col":         location.Column,
			"shelf":       location.Shelf,
			"position":    location.Position,
			"orientation": location.Orientation,
		}).
		Returning(locationColumns...).
		Executor().ScanStructContext(ctx, &persisted)
	if err != nil {
		return nil, custom_error.WrapDBError(err)
	}

	return &persisted, nil
}

func (r *locationRepository) UpdateLocation(ctx context.Context, q repository.Querier, id int, changes map[string]interface{}) error {
	result, err := q.Update("locations").
		Set(goqu.Record(changes)).
		Where(goqu.Ex{"id": id}).
		Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.WrapDBError(err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return custom_error.NotFound("location %d not found", id)
	}

	return nil
}

func (r *locationRepository) ClearPrimary(ctx context.Context, q repository.Querier, productID int, exceptLocationID int) error {
	_, err := q.Update("locations").
		Set(goqu.Record{"is_primary": false}).
		Where(
			goqu.C("product_id").Eq(productID),
			goqu.C("id").Neq(exceptLocationID),
			goqu.C("is_primary").IsTrue(),
		).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear primary locations of product %d: %w", productID, err)
	}

	return nil
}

func (r *locationRepository) AssignProduct(ctx context.Context, q repository.Querier, id int, productID *int, isPrimary bool) error {
	record := goqu.Record{"product_id": nil, "is_primary": isPrimary}
	if productID != nil {
		record["product_id"] = *productID
	}

	if _, err := q.Update("locations").Set(record).Where(goqu.Ex{"id": id}).Executor().ExecContext(ctx); err != nil {
		return custom_error.WrapDBError(err)
	}

	return nil
}

// InsertLocations skips coordinates that already exist and reports how many
// rows were written.
func (r *locationRepository) InsertLocations(ctx context.Context, q repository.Querier, locations []models.Location) (int, error) {
	if len(locations) == 0 {
		return 0, nil
	}

	rows := make([]interface{}, 0, len(locations))
	for _, l := range locations {
		rows = append(rows, goqu.Record{
			"warehouse":   l.Warehouse,
			"sector":      l.Sector,
			"row":         l.Row,
			"col":         l.Column,
			"shelf":       l.Shelf,
			"position":    l.Position,
			"orientation": l.Orientation,
		})
	}

	result, err := q.Insert("locations").
		Rows(rows...).
		OnConflict(goqu.DoNothing()).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to insert locations: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not retrieve rows affected: %w", err)
	}

	return int(inserted), nil
}

func (r *locationRepository) DeleteLocation(ctx context.Context, q repository.Querier, id int) error {
	result, err := q.Delete("locations").Where(goqu.Ex{"id": id}).Executor().ExecContext(ctx)
	if err != nil {
		return custom_error.WrapDBError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NotFound("location %d not found", id)
	}

	return nil
}
