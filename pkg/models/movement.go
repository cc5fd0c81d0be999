package models

import "time"

type MovementType string

const (
	MovementEntry      MovementType = "entry"
	MovementExit       MovementType = "exit"
	MovementTransfer   MovementType = "transfer"
	MovementAdjustment MovementType = "adjustment"
)

// InventoryMovement is immutable once written.
type InventoryMovement struct {
	ID             int          `json:"id" db:"id" goqu:"skipinsert"`
	ProductID      int          `json:"product_id" db:"product_id"`
	UserID         string       `json:"user_id" db:"user_id"`
	Type           MovementType `json:"type" db:"type"`
	Quantity       int          `json:"quantity" db:"quantity"`
	FromLocationID *int         `json:"from_location_id" db:"from_location_id"`
	ToLocationID   *int         `json:"to_location_id" db:"to_location_id"`
	Notes          string       `json:"notes" db:"notes"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at" goqu:"skipinsert"`
}

func (t MovementType) IsValid() bool {
	switch t {
	case MovementEntry, MovementExit, MovementTransfer, MovementAdjustment:
		return true
	}
	return false
}
