package stocks

import (
	"fmt"

	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"
)

// ComputeStock returns the stock a product holds after applying a movement
// of the given type and quantity to current.
func ComputeStock(current int, movementType models.MovementType, quantity int) (int, error) {
	switch movementType {
	case models.MovementEntry:
		return current + quantity, nil
	case models.MovementExit, models.MovementTransfer:
		if current < quantity {
			return current, custom_error.InsufficientStock(current, quantity)
		}
		return current - quantity, nil
	case models.MovementAdjustment:
		return quantity, nil
	default:
		return current, custom_error.Validation(fmt.Sprintf("unknown movement type %q", movementType))
	}
}
