package products

import (
	"github.com/lucasz92/zenitwms-sub000/pkg/models"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Code        string           `json:"code" validate:"required"`
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       int              `json:"stock" validate:"gte=0"`
	MinStock    int              `json:"min_stock" validate:"gte=0"`
	Unit        models.UnitType  `json:"unit" validate:"omitempty,oneof=unit meter m2 kg liter box"`
	Category    string           `json:"category"`
	Synonyms    string           `json:"synonyms"`
	Supplier    string           `json:"supplier"`
	Notes       string           `json:"notes"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
}

// UpdateProductRequest carries only the fields to change. Stock is absent:
// it moves through the ledger only.
type UpdateProductRequest struct {
	Code        *string          `json:"code" validate:"omitempty,min=1"`
	Name        *string          `json:"name" validate:"omitempty,min=1"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ClearPrice  bool             `json:"clear_price"`
	MinStock    *int             `json:"min_stock" validate:"omitempty,gte=0"`
	Unit        *models.UnitType `json:"unit" validate:"omitempty,oneof=unit meter m2 kg liter box"`
	Category    *string          `json:"category"`
	Synonyms    *string          `json:"synonyms"`
	Supplier    *string          `json:"supplier"`
	Notes       *string          `json:"notes"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
}

func (r *UpdateProductRequest) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if r.Code != nil {
		changes["code"] = models.NormalizeCode(*r.Code)
	}
	if r.Name != nil {
		changes["name"] = *r.Name
	}
	if r.Description != nil {
		changes["description"] = *r.Description
	}
	if r.ClearPrice {
		changes["price"] = nil
	} else if r.Price != nil {
		changes["price"] = r.Price.String()
	}
	if r.MinStock != nil {
		changes["min_stock"] = *r.MinStock
	}
	if r.Unit != nil {
		changes["unit"] = string(*r.Unit)
	}
	if r.Category != nil {
		changes["category"] = *r.Category
	}
	if r.Synonyms != nil {
		changes["synonyms"] = *r.Synonyms
	}
	if r.Supplier != nil {
		changes["supplier"] = *r.Supplier
	}
	if r.Notes != nil {
		changes["notes"] = *r.Notes
	}
	if r.ImageURL != nil {
		changes["image_url"] = *r.ImageURL
	}
	return changes
}

type ProductFilter struct {
	Search   string `form:"q"`
	Category string `form:"category"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func (f *ProductFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
}

type ProductPage struct {
	Items []models.Product `json:"items"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
}
