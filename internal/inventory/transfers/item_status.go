package transfers

import "github.com/lucasz92/zenitwms-sub000/pkg/models"

// DeriveItemStatus is recomputed on every received-quantity write and never
// set directly.
func DeriveItemStatus(expected, received int) models.ItemStatus {
	switch {
	case received <= 0:
		return models.ItemPending
	case received == expected:
		return models.ItemOK
	case received > expected:
		return models.ItemOver
	default:
		return models.ItemShort
	}
}
