package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/lucasz92/zenitwms-sub000/internal/repository"
	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type AlertRepository interface {
	PersistAlert(ctx context.Context, alert models.Alert) (*models.Alert, error)
	GetAlert(ctx context.Context, id int) (*models.Alert, error)
	GetAlerts(ctx context.Context, filter AlertFilter) ([]models.Alert, int, error)
	UpdateStatus(ctx context.Context, id int, status models.AlertStatus, resolvedAt *time.Time) (*models.Alert, error)
	DeleteAlert(ctx context.Context, id int) error
}

type alertRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) AlertRepository {
	return &alertRepository{repository: r}
}

var alertColumns = []interface{}{
	"id", "product_id", "product_code", "product_name", "type", "description",
	"priority", "status", "reporter", "created_at", "updated_at", "resolved_at",
}

func (r *alertRepository) PersistAlert(ctx context.Context, alert models.Alert) (*models.Alert, error) {
	row := goqu.Record{
		"product_code": alert.ProductCode,
		"product_name": alert.ProductName,
		"type":         alert.Type,
		"description":  alert.Description,
		"priority":     string(alert.Priority),
		"status":       string(alert.Status),
		"reporter":     alert.Reporter,
	}
	if alert.ProductID != nil {
		row["product_id"] = *alert.ProductID
	}

	var persisted models.Alert
	_, err := r.repository.GoquDBWrapper.Insert("alerts").
		Rows(row).
		Returning(alertColumns...).
		Executor().ScanStructContext(ctx, &persisted)
	if err != nil {
		return nil, custom_error.WrapDBError(err)
	}

	return &persisted, nil
}

func (r *alertRepository) GetAlert(ctx context.Context, id int) (*models.Alert, error) {
	var alert models.Alert
	found, err := r.repository.GoquDBWrapper.From("alerts").
		Select(alertColumns...).
		Where(goqu.Ex{"id": id}).
		ScanStructContext(ctx, &alert)
	if err != nil {
		return nil, fmt.Errorf("failed to get alert %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}

	return &alert, nil
}

func (r *alertRepository) GetAlerts(ctx context.Context, filter AlertFilter) ([]models.Alert, int, error) {
	filter.normalize()

	conditions := repository.NewQueryBuilder().
		AddCondition("status", filter.Status).
		AddCondition("priority", filter.Priority)

	query := r.repository.GoquDBWrapper.From("alerts")
	if conditions.HasConditions() {
		query = query.Where(conditions.BuildConditions(nil))
	}

	total, err := query.CountContext(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count alerts: %w", err)
	}

	alerts := []models.Alert{}
	err = query.Select(alertColumns...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(uint(filter.PageSize)).
		Offset(uint((filter.Page-1)*filter.PageSize)).
		ScanStructsContext(ctx, &alerts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list alerts: %w", err)
	}

	return alerts, int(total), nil
}

// UpdateStatus writes resolved_at as given, so a nil value clears it.
func (r *alertRepository) UpdateStatus(ctx context.Context, id int, status models.AlertStatus, resolvedAt *time.Time) (*models.Alert, error) {
	record := goqu.Record{
		"status":      string(status),
		"updated_at":  goqu.L("NOW()"),
		"resolved_at": nil,
	}
	if resolvedAt != nil {
		record["resolved_at"] = *resolvedAt
	}

	var updated models.Alert
	found, err := r.repository.GoquDBWrapper.Update("alerts").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Returning(alertColumns...).
		Executor().ScanStructContext(ctx, &updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update alert %d: %w", id, err)
	}
	if !found {
		return nil, custom_error.NotFound("alert %d not found", id)
	}

	return &updated, nil
}

func (r *alertRepository) DeleteAlert(ctx context.Context, id int) error {
	result, err := r.repository.GoquDBWrapper.Delete("alerts").Where(goqu.Ex{"id": id}).Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete alert %d: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return custom_error.NotFound("alert %d not found", id)
	}

	return nil
}
