package transfers

import "github.com/lucasz92/zenitwms-sub000/pkg/models"

type CreateTransferRequest struct {
	Type             models.TransferType   `json:"type" validate:"required,oneof=INBOUND REWORK SCRAP"`
	Origin           string                `json:"origin"`
	Target           string                `json:"target"`
	ReferenceContact string                `json:"reference_contact"`
	Items            []TransferItemRequest `json:"items" validate:"required,min=1,dive"`
}

type TransferItemRequest struct {
	ProductCode string `json:"product_code" validate:"required"`
	ProductName string `json:"product_name"`
	QtyExpected int    `json:"qty_expected" validate:"gt=0"`
}

type ReceivedQuantityRequest struct {
	QtyReceived *int `json:"qty_received" validate:"required,gte=0"`
}

type TransferLogRequest struct {
	Message string `json:"message" validate:"required"`
}

type TransferFilter struct {
	Status string `form:"status" json:"status" validate:"omitempty,oneof=PENDING COMPLETED"`
	Type   string `form:"type" json:"type" validate:"omitempty,oneof=INBOUND REWORK SCRAP"`
}

type CompletionResult struct {
	Order        models.TransferOrder `json:"order"`
	Movements    int                  `json:"movements"`
	SkippedCodes []string             `json:"skipped_codes"`
}
