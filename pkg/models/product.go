package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type UnitType string

const (
	UnitPiece       UnitType = "unit"
	UnitMeter       UnitType = "meter"
	UnitSquareMeter UnitType = "m2"
	UnitKilogram    UnitType = "kg"
	UnitLiter       UnitType = "liter"
	UnitBox         UnitType = "box"
)

type StockStatus string

const (
	StockStatusOK  StockStatus = "ok"
	StockStatusLow StockStatus = "low"
	StockStatusOut StockStatus = "out"
)

type Product struct {
	ID          int                 `json:"id" db:"id" goqu:"skipinsert,skipupdate"`
	Code        string              `json:"code" db:"code"`
	Name        string              `json:"name" db:"name"`
	Description string              `json:"description" db:"description"`
	Price       decimal.NullDecimal `json:"price" db:"price"`
	Stock       int                 `json:"stock" db:"stock"`
	MinStock    int                 `json:"min_stock" db:"min_stock"`
	Unit        UnitType            `json:"unit" db:"unit"`
	Category    string              `json:"category" db:"category"`
	Synonyms    string              `json:"synonyms" db:"synonyms"`
	Supplier    string              `json:"supplier" db:"supplier"`
	Notes       string              `json:"notes" db:"notes"`
	ImageURL    *string             `json:"image_url" db:"image_url"`
	CreatedAt   time.Time           `json:"created_at" db:"created_at" goqu:"skipinsert,skipupdate"`
	UpdatedAt   time.Time           `json:"updated_at" db:"updated_at" goqu:"skipinsert"`
}

// NormalizeCode is applied to every product code before it is stored or
// looked up.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (p *Product) StockStatus() StockStatus {
	switch {
	case p.Stock <= 0:
		return StockStatusOut
	case p.Stock <= p.MinStock:
		return StockStatusLow
	default:
		return StockStatusOK
	}
}

func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		StockStatus StockStatus `json:"stock_status"`
	}{product(p), p.StockStatus()})
}

func (p *Product) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   p.ID,
		ResourceType: "product",
	}
}
