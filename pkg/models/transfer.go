package models

import "time"

type TransferType string

const (
	TransferInbound TransferType = "INBOUND"
	TransferRework  TransferType = "REWORK"
	TransferScrap   TransferType = "SCRAP"
)

type TransferStatus string

const (
	TransferPending   TransferStatus = "PENDING"
	TransferCompleted TransferStatus = "COMPLETED"
)

type ItemStatus string

const (
	ItemPending ItemStatus = "PENDING"
	ItemOK      ItemStatus = "OK"
	ItemOver    ItemStatus = "OVER"
	ItemShort   ItemStatus = "SHORT"
)

type TransferOrder struct {
	ID               int            `json:"id" db:"id" goqu:"skipinsert"`
	TransferRef      string         `json:"transfer_ref" db:"transfer_ref"`
	Type             TransferType   `json:"type" db:"type"`
	Origin           string         `json:"origin" db:"origin"`
	Target           string         `json:"target" db:"target"`
	ReferenceContact string         `json:"reference_contact" db:"reference_contact"`
	Status           TransferStatus `json:"status" db:"status"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at" goqu:"skipinsert"`
	ClosedAt         *time.Time     `json:"closed_at" db:"closed_at"`
	Items            []TransferItem `json:"items,omitempty" db:"-"`
	Logs             []TransferLog  `json:"logs,omitempty" db:"-"`
}

func (t *TransferOrder) IsCompleted() bool {
	return t.Status == TransferCompleted
}

func (t *TransferOrder) MovementType() MovementType {
	if t.Type == TransferInbound {
		return MovementEntry
	}
	return MovementExit
}

type TransferItem struct {
	ID          int        `json:"id" db:"id" goqu:"skipinsert"`
	OrderID     int        `json:"order_id" db:"order_id"`
	ProductCode string     `json:"product_code" db:"product_code"`
	ProductName string     `json:"product_name" db:"product_name"`
	QtyExpected int        `json:"qty_expected" db:"qty_expected"`
	QtyReceived int        `json:"qty_received" db:"qty_received"`
	Status      ItemStatus `json:"status" db:"status"`
}

type TransferLog struct {
	ID        int       `json:"id" db:"id" goqu:"skipinsert"`
	OrderID   int       `json:"order_id" db:"order_id"`
	Message   string    `json:"message" db:"message"`
	Author    string    `json:"author" db:"author"`
	System    bool      `json:"system" db:"system"`
	CreatedAt time.Time `json:"created_at" db:"created_at" goqu:"skipinsert"`
}
