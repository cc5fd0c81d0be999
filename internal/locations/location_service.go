package locations

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lucasz92/zenitwms-sub000/internal/repository"
	"github.com/lucasz92/zenitwms-sub000/pkg/auditlog"
	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"
	"github.com/lucasz92/zenitwms-sub000/pkg/validation"

	"go.uber.org/zap"
)

const maxRackLocations = 200

type ProductLookup interface {
	GetProduct(ctx context.Context, q repository.Querier, id int) (*models.Product, error)
}

type LocationService struct {
	tx       repository.Store
	repo     LocationRepository
	products ProductLookup
	audit    auditlog.Logger
	log      *zap.Logger
}

func NewService(tx repository.Store, repo LocationRepository, products ProductLookup, audit auditlog.Logger, log *zap.Logger) *LocationService {
	return &LocationService{
		tx:       tx,
		repo:     repo,
		products: products,
		audit:    audit,
		log:      log,
	}
}

// AssignProduct points a location at a product, or vacates it when
// req.ProductID is nil. Making it primary clears the flag on every other
// location of the same product in the same transaction.
func (s *LocationService) AssignProduct(ctx context.Context, actor *models.User, locationID int, req AssignRequest) (*models.Location, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	isPrimary := req.IsPrimary && req.ProductID != nil

	var location *models.Location
	err := s.tx.WithTransaction(ctx, func(q repository.Querier) error {
		var err error
		location, err = s.repo.GetLocation(ctx, q, locationID)
		if err != nil {
			return err
		}
		if location == nil {
			return custom_error.NotFound("location %d not found", locationID)
		}

		if req.ProductID != nil {
			product, err := s.products.GetProduct(ctx, q, *req.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return custom_error.NotFound("product %d not found", *req.ProductID)
			}

			if isPrimary {
				if err := s.repo.ClearPrimary(ctx, q, product.ID, locationID); err != nil {
					return err
				}
			}
		}

		if err := s.repo.AssignProduct(ctx, q, locationID, req.ProductID, isPrimary); err != nil {
			return err
		}

		location.ProductID = req.ProductID
		location.IsPrimary = isPrimary
		return nil
	})
	if err != nil {
		if custom_error.IsUniqueViolation(err) {
			return nil, custom_error.Conflict("product %d already has a primary location", *req.ProductID)
		}
		return nil, custom_error.Persistence(err)
	}

	action, data := "vacate", map[string]interface{}{}
	if req.ProductID != nil {
		action = "assign"
		data["product_id"] = *req.ProductID
		data["is_primary"] = isPrimary
	}
	go s.audit.Log(context.WithoutCancel(ctx), action, data, location, actor)

	return location, nil
}

// RackLocations expands a rack request into its empty locations. Columns are
// zero padded to two digits, shelves are numbered from 1.
func RackLocations(req CreateRackRequest) ([]models.Location, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.ColsStart > req.ColsEnd {
		return nil, custom_error.Validation("cols_start must not exceed cols_end")
	}
	// Shelves is capped by validation, so the product only needs the column
	// count to be bounded first.
	cols := req.ColsEnd - req.ColsStart + 1
	if cols > maxRackLocations || cols*req.Shelves > maxRackLocations {
		return nil, custom_error.Validation(fmt.Sprintf("a rack may hold at most %d locations, requested %d columns x %d shelves", maxRackLocations, cols, req.Shelves))
	}

	locations := make([]models.Location, 0, cols*req.Shelves)
	for i := 0; i < cols; i++ {
		col := req.ColsStart + i
		for shelf := 1; shelf <= req.Shelves; shelf++ {
			locations = append(locations, models.Location{
				Warehouse: req.Warehouse,
				Sector:    req.Sector,
				Row:       req.Row,
				Column:    fmt.Sprintf("%02d", col),
				Shelf:     strconv.Itoa(shelf),
			})
		}
	}

	return locations, nil
}

func (s *LocationService) CreateRack(ctx context.Context, actor *models.User, req CreateRackRequest) (*RackResult, error) {
	locations, err := RackLocations(req)
	if err != nil {
		return nil, err
	}

	result := &RackResult{Requested: len(locations)}
	err = s.tx.WithTransaction(ctx, func(q repository.Querier) error {
		inserted, err := s.repo.InsertLocations(ctx, q, locations)
		result.Inserted = inserted
		return err
	})
	if err != nil {
		s.log.Error("Unable to create rack", zap.String("warehouse", req.Warehouse), zap.String("row", req.Row), zap.Error(err))
		return nil, custom_error.Persistence(err)
	}

	s.log.Info("Created rack",
		zap.String("warehouse", req.Warehouse),
		zap.String("sector", req.Sector),
		zap.String("row", req.Row),
		zap.Int("requested", result.Requested),
		zap.Int("inserted", result.Inserted),
	)
	go s.audit.Log(context.WithoutCancel(ctx), "rack_created", map[string]interface{}{
		"warehouse":  req.Warehouse,
		"sector":     req.Sector,
		"row":        req.Row,
		"cols_start": req.ColsStart,
		"cols_end":   req.ColsEnd,
		"shelves":    req.Shelves,
		"inserted":   result.Inserted,
	}, &models.Location{}, actor)

	return result, nil
}

func (s *LocationService) CreateLocation(ctx context.Context, req LocationRequest) (*models.Location, error) {
	location, err := s.repo.PersistLocation(ctx, s.tx.Querier(), models.Location{
		Warehouse:   req.Warehouse,
		Sector:      req.Sector,
		Row:         req.Row,
		Column:      req.Column,
		Shelf:       req.Shelf,
		Position:    req.Position,
		Orientation: req.Orientation,
	})
	if err != nil {
		if custom_error.IsUniqueViolation(err) {
			return nil, custom_error.Conflict("a location with these coordinates already exists")
		}
		return nil, custom_error.Persistence(err)
	}

	return location, nil
}

func (s *LocationService) UpdateLocation(ctx context.Context, id int, req UpdateLocationRequest) (*models.Location, error) {
	changes := req.changes()
	q := s.tx.Querier()

	if len(changes) > 0 {
		if err := s.repo.UpdateLocation(ctx, q, id, changes); err != nil {
			if custom_error.IsUniqueViolation(err) {
				return nil, custom_error.Conflict("a location with these coordinates already exists")
			}
			return nil, custom_error.Persistence(err)
		}
	}

	return s.GetLocation(ctx, id)
}

func (s *LocationService) GetLocation(ctx context.Context, id int) (*models.Location, error) {
	location, err := s.repo.GetLocation(ctx, s.tx.Querier(), id)
	if err != nil {
		return nil, custom_error.Persistence(err)
	}
	if location == nil {
		return nil, custom_error.NotFound("location %d not found", id)
	}
	return location, nil
}

func (s *LocationService) ListLocations(ctx context.Context, filter LocationFilter) ([]LocationView, error) {
	if err := validation.Struct(filter); err != nil {
		return nil, err
	}

	locations, err := s.repo.GetLocations(ctx, filter)
	if err != nil {
		return nil, custom_error.Persistence(err)
	}
	return locations, nil
}

func (s *LocationService) ProductLocations(ctx context.Context, productID int) ([]LocationView, error) {
	return s.ListLocations(ctx, LocationFilter{ProductID: &productID})
}

func (s *LocationService) WarehouseMap(ctx context.Context, warehouse string) ([]WarehouseNode, error) {
	locations, err := s.ListLocations(ctx, LocationFilter{Warehouse: warehouse})
	if err != nil {
		return nil, err
	}
	return BuildWarehouseMap(locations), nil
}

func (s *LocationService) DeleteLocation(ctx context.Context, actor *models.User, id int) error {
	var location *models.Location
	err := s.tx.WithTransaction(ctx, func(q repository.Querier) error {
		var err error
		location, err = s.repo.GetLocation(ctx, q, id)
		if err != nil {
			return err
		}
		if location == nil {
			return custom_error.NotFound("location %d not found", id)
		}
		if location.IsOccupied() {
			return custom_error.Conflict("location %d holds a product, vacate before deleting", id)
		}
		if err := s.repo.DeleteLocation(ctx, q, id); err != nil {
			if custom_error.IsForeignKeyViolation(err) {
				return custom_error.Conflict("location %d is referenced by stock movements", id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return custom_error.Persistence(err)
	}

	go s.audit.Log(context.WithoutCancel(ctx), "deleted", map[string]interface{}{
		"warehouse": location.Warehouse,
		"sector":    location.Sector,
		"row":       location.Row,
		"column":    location.Column,
		"shelf":     location.Shelf,
	}, location, actor)

	return nil
}
