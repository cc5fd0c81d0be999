package transfers

import (
	"context"
	"fmt"
	"time"

	"github.com/lucasz92/zenitwms-sub000/internal/repository"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

type TransferRepository interface {
	InsertOrder(ctx context.Context, q repository.Querier, order models.TransferOrder) (*models.TransferOrder, error)
	InsertItems(ctx context.Context, q repository.Querier, items []models.TransferItem) ([]models.TransferItem, error)
	InsertLog(ctx context.Context, q repository.Querier, log models.TransferLog) (*models.TransferLog, error)
	GetOrder(ctx context.Context, q repository.Querier, id int) (*models.TransferOrder, error)
	GetOrders(ctx context.Context, filter TransferFilter) ([]models.TransferOrder, error)
	GetItem(ctx context.Context, q repository.Querier, id int) (*models.TransferItem, error)
	GetItems(ctx context.Context, q repository.Querier, orderID int) ([]models.TransferItem, error)
	GetLogs(ctx context.Context, q repository.Querier, orderID int) ([]models.TransferLog, error)
	UpdateItemReceived(ctx context.Context, q repository.Querier, id int, qtyReceived int, status models.ItemStatus) error
	CloseOrder(ctx context.Context, q repository.Querier, id int, closedAt time.Time) (bool, error)
	DeleteOrder(ctx context.Context, q repository.Querier, id int) error
}

type transferRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) TransferRepository {
	return &transferRepository{repository: r}
}

var (
	orderColumns = []interface{}{"id", "transfer_ref", "type", "origin", "target", "reference_contact", "status", "created_at", "closed_at"}
	itemColumns  = []interface{}{"id", "order_id", "product_code", "product_name", "qty_expected", "qty_received", "status"}
	logColumns   = []interface{}{"id", "order_id", "message", "author", "system", "created_at"}
)

func (r *transferRepository) InsertOrder(ctx context.Context, q repository.Querier, order models.TransferOrder) (*models.TransferOrder, error) {
	var persisted models.TransferOrder
	_, err := q.Insert("transfer_orders").
		Rows(goqu.Record{
			"transfer_ref":      order.TransferRef,
			"type":              string(order.Type),
			"origin":            order.Origin,
			"target":            order.Target,
			"reference_contact": order.ReferenceContact,
			"status":            string(order.Status),
		}).
		Returning(orderColumns...).
		Executor().ScanStructContext(ctx, &persisted)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transfer order: %w", err)
	}

	return &persisted, nil
}

func (r *transferRepository) InsertItems(ctx context.Context, q repository.Querier, items []models.TransferItem) ([]models.TransferItem, error) {
	rows := make([]interface{}, 0, len(items))
	for _, item := range items {
		rows = append(rows, goqu.Record{
			"order_id":     item.OrderID,
			"product_code": item.ProductCode,
			"product_name": item.ProductName,
			"qty_expected": item.QtyExpected,
			"qty_received": item.QtyReceived,
			"status":       string(item.Status),
		})
	}

	persisted := []models.TransferItem{}
	err := q.Insert("transfer_items").
		Rows(rows...).
		Returning(itemColumns...).
		Executor().ScanStructsContext(ctx, &persisted)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transfer items: %w", err)
	}

	return persisted, nil
}

func (r *transferRepository) InsertLog(ctx context.Context, q repository.Querier, log models.TransferLog) (*models.TransferLog, error) {
	var persisted models.TransferLog
	_, err := q.Insert("transfer_logs").
		Rows(goqu.Record{
			"order_id": log.OrderID,
			"message":  log.Message,
			"author":   log.Author,
			"system":   log.System,
		}).
		Returning(logColumns...).
		Executor().ScanStructContext(ctx, &persisted)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transfer log: %w", err)
	}

	return &persisted, nil
}

// GetOrder locks the order row when q is a transaction so that completion
// and received-quantity updates on the same order serialize.
func (r *transferRepository) GetOrder(ctx context.Context, q repository.Querier, id int) (*models.TransferOrder, error) {
	query := q.From("transfer_orders").Select(orderColumns...).Where(goqu.Ex{"id": id})
	if _, ok := q.(*goqu.TxDatabase); ok {
		query = query.ForUpdate(exp.Wait)
	}

	var order models.TransferOrder
	found, err := query.ScanStructContext(ctx, &order)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer order %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}

	return &order, nil
}

func (r *transferRepository) GetOrders(ctx context.Context, filter TransferFilter) ([]models.TransferOrder, error) {
	conditions := repository.NewQueryBuilder().
		AddCondition("status", filter.Status).
		AddCondition("type", filter.Type)

	query := r.repository.GoquDBWrapper.From("transfer_orders").
		Select(orderColumns...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc())
	if conditions.HasConditions() {
		query = query.Where(conditions.BuildConditions(nil))
	}

	orders := []models.TransferOrder{}
	if err := query.ScanStructsContext(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to list transfer orders: %w", err)
	}

	return orders, nil
}

func (r *transferRepository) GetItem(ctx context.Context, q repository.Querier, id int) (*models.TransferItem, error) {
	var item models.TransferItem
	found, err := q.From("transfer_items").
		Select(itemColumns...).
		Where(goqu.Ex{"id": id}).
		ScanStructContext(ctx, &item)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer item %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}

	return &item, nil
}

func (r *transferRepository) GetItems(ctx context.Context, q repository.Querier, orderID int) ([]models.TransferItem, error) {
	items := []models.TransferItem{}
	err := q.From("transfer_items").
		Select(itemColumns...).
		Where(goqu.Ex{"order_id": orderID}).
		Order(goqu.I("id").Asc()).
		ScanStructsContext(ctx, &items)
	if err != nil {
		return nil, fmt.Errorf("failed to get items of transfer order %d: %w", orderID, err)
	}

	return items, nil
}

func (r *transferRepository) GetLogs(ctx context.Context, q repository.Querier, orderID int) ([]models.TransferLog, error) {
	logs := []models.TransferLog{}
	err := q.From("transfer_logs").
		Select(logColumns...).
		Where(goqu.Ex{"order_id": orderID}).
		Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).
		ScanStructsContext(ctx, &logs)
	if err != nil {
		return nil, fmt.Errorf("failed to get logs of transfer order %d: %w", orderID, err)
	}

	return logs, nil
}

func (r *transferRepository) UpdateItemReceived(ctx context.Context, q repository.Querier, id int, qtyReceived int, status models.ItemStatus) error {
	_, err := q.Update("transfer_items").
		Set(goqu.Record{"qty_received": qtyReceived, "status": string(status)}).
		Where(goqu.Ex{"id": id}).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update transfer item %d: %w", id, err)
	}

	return nil
}

// CloseOrder reports false when the order was no longer PENDING.
func (r *transferRepository) CloseOrder(ctx context.Context, q repository.Querier, id int, closedAt time.Time) (bool, error) {
	result, err := q.Update("transfer_orders").
		Set(goqu.Record{"status": string(models.TransferCompleted), "closed_at": closedAt}).
		Where(goqu.Ex{"id": id, "status": string(models.TransferPending)}).
		Executor().ExecContext(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to close transfer order %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not retrieve rows affected: %w", err)
	}

	return affected == 1, nil
}

func (r *transferRepository) DeleteOrder(ctx context.Context, q repository.Querier, id int) error {
	if _, err := q.Delete("transfer_orders").Where(goqu.Ex{"id": id}).Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to delete transfer order %d: %w", id, err)
	}

	return nil
}
