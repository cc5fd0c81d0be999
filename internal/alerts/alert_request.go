package alerts

import "github.com/lucasz92/zenitwms-sub000/pkg/models"

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

type CreateAlertRequest struct {
	ProductID   *int                 `json:"product_id" validate:"omitempty,gt=0"`
	Type        string               `json:"type" validate:"required,max=64"`
	Description string               `json:"description"`
	Priority    models.AlertPriority `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Reporter    string               `json:"reporter"`
}

type StatusRequest struct {
	Status models.AlertStatus `json:"status" validate:"required,oneof=pending in_progress completed"`
}

type AlertFilter struct {
	Status   string `form:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority string `form:"priority" validate:"omitempty,oneof=low medium high critical"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

func (f *AlertFilter) normalize() {
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

type AlertPage struct {
	Items []models.Alert `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
}
