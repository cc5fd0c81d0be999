package transfers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lucasz92/zenitwms-sub000/internal/inventory/stocks"
	"github.com/lucasz92/zenitwms-sub000/internal/repository"
	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"
	"github.com/lucasz92/zenitwms-sub000/pkg/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const systemAuthor = "system"

type ProductResolver interface {
	GetProductByCode(ctx context.Context, q repository.Querier, code string) (*models.Product, error)
}

type StockApplier interface {
	Apply(ctx context.Context, q repository.Querier, actor *models.User, req stocks.MovementRequest) (*stocks.MovementResult, error)
}

type TransferService struct {
	tx       repository.Store
	tr       TransferRepository
	products ProductResolver
	ledger   StockApplier
	log      *zap.Logger
	now      func() time.Time
}

func NewService(tx repository.Store, tr TransferRepository, products ProductResolver, ledger StockApplier, log *zap.Logger) *TransferService {
	return &TransferService{
		tx:       tx,
		tr:       tr,
		products: products,
		ledger:   ledger,
		log:      log,
		now:      time.Now,
	}
}

func newTransferRef(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("TRF-%s-%s", now.Format("20060102"), suffix)
}

// CreateTransfer opens a PENDING order with every item waiting for its
// count. Missing product names are filled from the catalogue when the code
// is known.
func (s *TransferService) CreateTransfer(ctx context.Context, actor *models.User, req CreateTransferRequest) (*models.TransferOrder, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	for i := range req.Items {
		req.Items[i].ProductCode = models.NormalizeCode(req.Items[i].ProductCode)
		if req.Items[i].ProductCode == "" {
			return nil, custom_error.Validation("product_code is required")
		}
	}

	author := systemAuthor
	if actor != nil {
		author = actor.DisplayName()
	}

	var order *models.TransferOrder
	err := s.tx.WithTransaction(ctx, func(q repository.Querier) error {
		var err error
		order, err = s.tr.InsertOrder(ctx, q, models.TransferOrder{
			TransferRef:      newTransferRef(s.now()),
			Type:             req.Type,
			Origin:           req.Origin,
			Target:           req.Target,
			ReferenceContact: req.ReferenceContact,
			Status:           models.TransferPending,
		})
		if err != nil {
			return err
		}

		items := make([]models.TransferItem, 0, len(req.Items))
		for _, item := range req.Items {
			name := item.ProductName
			if name == "" {
				product, err := s.products.GetProductByCode(ctx, q, item.ProductCode)
				if err != nil {
					return err
				}
				if product != nil {
					name = product.Name
				}
			}
			items = append(items, models.TransferItem{
				OrderID:     order.ID,
				ProductCode: item.ProductCode,
				ProductName: name,
				QtyExpected: item.QtyExpected,
				QtyReceived: 0,
				Status:      DeriveItemStatus(item.QtyExpected, 0),
			})
		}

		if order.Items, err = s.tr.InsertItems(ctx, q, items); err != nil {
			return err
		}

		created, err := s.tr.InsertLog(ctx, q, models.TransferLog{
			OrderID: order.ID,
			Message: fmt.Sprintf("Transfer created by %s with %d items", author, len(items)),
			Author:  systemAuthor,
			System:  true,
		})
		if err != nil {
			return err
		}
		order.Logs = []models.TransferLog{*created}
		return nil
	})
	if err != nil {
		s.log.Error("Unable to create transfer", zap.String("type", string(req.Type)), zap.Error(err))
		return nil, custom_error.Persistence(err)
	}

	s.log.Info("Created transfer", zap.Int("transfer_id", order.ID), zap.String("transfer_ref", order.TransferRef))
	return order, nil
}

func (s *TransferService) UpdateReceivedQuantity(ctx context.Context, itemID int, req ReceivedQuantityRequest) (*models.TransferItem, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var item *models.TransferItem
	err := s.tx.WithTransaction(ctx, func(q repository.Querier) error {
		var err error
		item, err = s.tr.GetItem(ctx, q, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return custom_error.NotFound("transfer item %d not found", itemID)
		}

		order, err := s.tr.GetOrder(ctx, q, item.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return custom_error.NotFound("transfer order %d not found", item.OrderID)
		}
		if order.IsCompleted() {
			return custom_error.Conflict("transfer %s is completed, received quantities can no longer change", order.TransferRef)
		}

		item.QtyReceived = *req.QtyReceived
		item.Status = DeriveItemStatus(item.QtyExpected, item.QtyReceived)
		return s.tr.UpdateItemReceived(ctx, q, item.ID, item.QtyReceived, item.Status)
	})
	if err != nil {
		return nil, custom_error.Persistence(err)
	}

	return item, nil
}

// CompleteTransfer books every received quantity on the ledger and closes
// the order, all in one transaction. Items whose code matches no product
// have no stock effect and are returned in SkippedCodes.
func (s *TransferService) CompleteTransfer(ctx context.Context, actor *models.User, orderID int) (*CompletionResult, error) {
	if actor == nil {
		return nil, custom_error.Validation("an authenticated user is required")
	}

	result := &CompletionResult{SkippedCodes: []string{}}
	err := s.tx.WithTransaction(ctx, func(q repository.Querier) error {
		order, err := s.tr.GetOrder(ctx, q, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return custom_error.NotFound("transfer order %d not found", orderID)
		}
		if order.IsCompleted() {
			return custom_error.AlreadyCompleted("transfer %s is already completed", order.TransferRef)
		}

		items, err := s.tr.GetItems(ctx, q, orderID)
		if err != nil {
			return err
		}

		notes := fmt.Sprintf("%s (%s)", order.TransferRef, order.Type)
		for _, item := range items {
			if item.QtyReceived <= 0 {
				continue
			}

			product, err := s.products.GetProductByCode(ctx, q, item.ProductCode)
			if err != nil {
				return err
			}
			if product == nil {
				result.SkippedCodes = append(result.SkippedCodes, item.ProductCode)
				continue
			}

			if _, err := s.ledger.Apply(ctx, q, actor, stocks.MovementRequest{
				ProductID: product.ID,
				Type:      order.MovementType(),
				Quantity:  item.QtyReceived,
				Notes:     notes,
			}); err != nil {
				return err
			}
			result.Movements++
		}

		closedAt := s.now()
		closed, err := s.tr.CloseOrder(ctx, q, orderID, closedAt)
		if err != nil {
			return err
		}
		if !closed {
			return custom_error.AlreadyCompleted("transfer %s is already completed", order.TransferRef)
		}
		order.Status = models.TransferCompleted
		order.ClosedAt = &closedAt

		message := fmt.Sprintf("Transfer completed by %s: %d stock movements", actor.DisplayName(), result.Movements)
		if len(result.SkippedCodes) > 0 {
			message += fmt.Sprintf("; skipped unknown product codes: %s", strings.Join(result.SkippedCodes, ", "))
		}
		if _, err := s.tr.InsertLog(ctx, q, models.TransferLog{
			OrderID: orderID,
			Message: message,
			Author:  systemAuthor,
			System:  true,
		}); err != nil {
			return err
		}

		if order.Logs, err = s.tr.GetLogs(ctx, q, orderID); err != nil {
			return err
		}
		order.Items = items
		result.Order = *order
		return nil
	})
	if err != nil {
		if custom_error.KindOf(err) == custom_error.KindPersistence {
			s.log.Error("Unable to complete transfer", zap.Int("transfer_id", orderID), zap.Error(err))
		}
		return nil, custom_error.Persistence(err)
	}

	for _, code := range result.SkippedCodes {
		s.log.Warn("Transfer item skipped, no product with this code",
			zap.String("transfer_ref", result.Order.TransferRef),
			zap.String("product_code", code),
		)
	}
	s.log.Info("Completed transfer",
		zap.String("transfer_ref", result.Order.TransferRef),
		zap.Int("movements", result.Movements),
		zap.Int("skipped", len(result.SkippedCodes)),
	)

	return result, nil
}

func (s *TransferService) AddTransferLog(ctx context.Context, actor *models.User, orderID int, req TransferLogRequest) (*models.TransferLog, error) {
	req.Message = strings.TrimSpace(req.Message)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	author := systemAuthor
	if actor != nil {
		author = actor.DisplayName()
	}

	var entry *models.TransferLog
	err := s.tx.WithTransaction(ctx, func(q repository.Querier) error {
		order, err := s.tr.GetOrder(ctx, q, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return custom_error.NotFound("transfer order %d not found", orderID)
		}

		entry, err = s.tr.InsertLog(ctx, q, models.TransferLog{
			OrderID: orderID,
			Message: req.Message,
			Author:  author,
		})
		return err
	})
	if err != nil {
		return nil, custom_error.Persistence(err)
	}

	return entry, nil
}

// DeleteTransfer removes a PENDING order with its items and logs. Completed
// orders are part of the stock history and stay.
func (s *TransferService) DeleteTransfer(ctx context.Context, orderID int) error {
	err := s.tx.WithTransaction(ctx, func(q repository.Querier) error {
		order, err := s.tr.GetOrder(ctx, q, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return custom_error.NotFound("transfer order %d not found", orderID)
		}
		if order.IsCompleted() {
			return custom_error.Conflict("transfer %s is completed and cannot be deleted", order.TransferRef)
		}
		return s.tr.DeleteOrder(ctx, q, orderID)
	})
	if err != nil {
		return custom_error.Persistence(err)
	}

	s.log.Info("Deleted transfer", zap.Int("transfer_id", orderID))
	return nil
}

func (s *TransferService) GetTransfer(ctx context.Context, orderID int) (*models.TransferOrder, error) {
	q := s.tx.Querier()

	order, err := s.tr.GetOrder(ctx, q, orderID)
	if err != nil {
		return nil, custom_error.Persistence(err)
	}
	if order == nil {
		return nil, custom_error.NotFound("transfer order %d not found", orderID)
	}

	if order.Items, err = s.tr.GetItems(ctx, q, orderID); err != nil {
		return nil, custom_error.Persistence(err)
	}
	if order.Logs, err = s.tr.GetLogs(ctx, q, orderID); err != nil {
		return nil, custom_error.Persistence(err)
	}

	return order, nil
}

func (s *TransferService) GetTransfers(ctx context.Context, filter TransferFilter) ([]models.TransferOrder, error) {
	if err := validation.Struct(filter); err != nil {
		return nil, err
	}

	orders, err := s.tr.GetOrders(ctx, filter)
	if err != nil {
		return nil, custom_error.Persistence(err)
	}
	return orders, nil
}
