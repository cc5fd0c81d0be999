package locations

import "github.com/lucasz92/zenitwms-sub000/pkg/models"

type LocationRequest struct {
	Warehouse   string `json:"warehouse"`
	Sector      string `json:"sector"`
	Row         string `json:"row"`
	Column      string `json:"column"`
	Shelf       string `json:"shelf"`
	Position    string `json:"position"`
	Orientation string `json:"orientation"`
}

type UpdateLocationRequest struct {
	Warehouse   *string `json:"warehouse"`
	Sector      *string `json:"sector"`
	Row         *string `json:"row"`
	Column      *string `json:"column"`
	Shelf       *string `json:"shelf"`
	Position    *string `json:"position"`
	Orientation *string `json:"orientation"`
}

func (r *UpdateLocationRequest) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	set := func(column string, value *string) {
		if value != nil {
			changes[column] = *value
		}
	}
	set("warehouse", r.Warehouse)
	set("sector", r.Sector)
	set("row", r.Row)
	set("col", r.Column)
	set("shelf", r.Shelf)
	set("position", r.Position)
	set("orientation", r.Orientation)
	return changes
}

// AssignRequest with a nil product vacates the location.
type AssignRequest struct {
	ProductID *int `json:"product_id" validate:"omitempty,gt=0"`
	IsPrimary bool `json:"is_primary"`
}

type CreateRackRequest struct {
	Warehouse string `json:"warehouse"`
	Sector    string `json:"sector"`
	Row       string `json:"row"`
	ColsStart int    `json:"cols_start" validate:"gte=1"`
	ColsEnd   int    `json:"cols_end" validate:"gte=1"`
	Shelves   int    `json:"shelves" validate:"gte=1,lte=20"`
}

type RackResult struct {
	Requested int `json:"requested"`
	Inserted  int `json:"inserted"`
}

const (
	StateAvailable = "available"
	StateOccupied  = "occupied"
)

type LocationFilter struct {
	Warehouse string `form:"warehouse"`
	Sector    string `form:"sector"`
	State     string `form:"state" json:"state" validate:"omitempty,oneof=available occupied"`
	ProductID *int   `form:"product_id" json:"product_id"`
}

// LocationView is a location joined with the product it holds.
type LocationView struct {
	models.Location
	ProductCode string `json:"product_code" db:"product_code"`
	ProductName string `json:"product_name" db:"product_name"`
}
