package models

import "time"

type AlertPriority string

const (
	PriorityLow      AlertPriority = "low"
	PriorityMedium   AlertPriority = "medium"
	PriorityHigh     AlertPriority = "high"
	PriorityCritical AlertPriority = "critical"
)

type AlertStatus string

const (
	AlertPending    AlertStatus = "pending"
	AlertInProgress AlertStatus = "in_progress"
	AlertCompleted  AlertStatus = "completed"
)

type Alert struct {
	ID          int           `json:"id" db:"id" goqu:"skipinsert"`
	ProductID   *int          `json:"product_id" db:"product_id"`
	ProductCode string        `json:"product_code" db:"product_code"`
	ProductName string        `json:"product_name" db:"product_name"`
	Type        string        `json:"type" db:"type"`
	Description string        `json:"description" db:"description"`
	Priority    AlertPriority `json:"priority" db:"priority"`
	Status      AlertStatus   `json:"status" db:"status"`
	Reporter    string        `json:"reporter" db:"reporter"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at" goqu:"skipinsert"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at" goqu:"skipinsert"`
	ResolvedAt  *time.Time    `json:"resolved_at" db:"resolved_at"`
}

func (a *Alert) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "alert",
	}
}
