package stocks

import "github.com/lucasz92/zenitwms-sub000/pkg/models"

type MovementRequest struct {
	ProductID      int                 `json:"product_id" validate:"gt=0"`
	Type           models.MovementType `json:"type" validate:"required,oneof=entry exit adjustment transfer"`
	Quantity       int                 `json:"quantity" validate:"gt=0"`
	Notes          string              `json:"notes"`
	FromLocationID *int                `json:"from_location_id" validate:"omitempty,gt=0"`
	ToLocationID   *int                `json:"to_location_id" validate:"omitempty,gt=0"`
}

type MovementResult struct {
	Movement models.InventoryMovement `json:"movement"`
	Product  models.Product           `json:"product"`
}

type MovementFilter struct {
	ProductID *int   `form:"product_id"`
	Type      string `form:"type"`
	Limit     int    `form:"limit"`
	Offset    int    `form:"offset"`
}

const (
	defaultMovementLimit = 100
	maxMovementLimit     = 500
)

func (f *MovementFilter) normalize() {
	if f.Limit <= 0 {
		f.Limit = defaultMovementLimit
	}
	if f.Limit > maxMovementLimit {
		f.Limit = maxMovementLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// MovementView is a movement joined with the product and user it refers to.
type MovementView struct {
	models.InventoryMovement
	ProductCode string `json:"product_code" db:"product_code"`
	ProductName string `json:"product_name" db:"product_name"`
	UserName    string `json:"user_name" db:"user_name"`
}
