package models

import "time"

type Location struct {
	ID          int       `json:"id" db:"id" goqu:"skipinsert,skipupdate"`
	Warehouse   string    `json:"warehouse" db:"warehouse"`
	Sector      string    `json:"sector" db:"sector"`
	Row         string    `json:"row" db:"row"`
	Column      string    `json:"column" db:"col"`
	Shelf       string    `json:"shelf" db:"shelf"`
	Position    string    `json:"position" db:"position"`
	Orientation string    `json:"orientation" db:"orientation"`
	ProductID   *int      `json:"product_id" db:"product_id"`
	IsPrimary   bool      `json:"is_primary" db:"is_primary"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" goqu:"skipinsert,skipupdate"`
}

func (l *Location) IsOccupied() bool {
	return l.ProductID != nil
}

func (l *Location) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   l.ID,
		ResourceType: "location",
	}
}
