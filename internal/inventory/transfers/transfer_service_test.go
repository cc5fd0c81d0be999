package transfers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/lucasz92/zenitwms-sub000/internal/inventory/stocks"
	"github.com/lucasz92/zenitwms-sub000/internal/repository"
	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memTransfers keeps orders, items, logs, products and movements in memory.
// A failing transaction restores every collection.
type memTransfers struct {
	orders    map[int]models.TransferOrder
	items     map[int]models.TransferItem
	logs      []models.TransferLog
	products  map[string]models.Product
	movements []models.InventoryMovement
	nextID    int
}

func newMemTransfers(products ...models.Product) *memTransfers {
	m := &memTransfers{
		orders:   map[int]models.TransferOrder{},
		items:    map[int]models.TransferItem{},
		products: map[string]models.Product{},
	}
	for _, p := range products {
		m.products[p.Code] = p
	}
	return m
}

func (m *memTransfers) id() int {
	m.nextID++
	return m.nextID
}

func (m *memTransfers) Querier() repository.Querier { return nil }

func (m *memTransfers) WithTransaction(ctx context.Context, fn func(tx repository.Querier) error) error {
	orders := make(map[int]models.TransferOrder, len(m.orders))
	for k, v := range m.orders {
		orders[k] = v
	}
	items := make(map[int]models.TransferItem, len(m.items))
	for k, v := range m.items {
		items[k] = v
	}
	products := make(map[string]models.Product, len(m.products))
	for k, v := range m.products {
		products[k] = v
	}
	logs := append([]models.TransferLog(nil), m.logs...)
	movements := append([]models.InventoryMovement(nil), m.movements...)

	if err := fn(nil); err != nil {
		m.orders, m.items, m.products, m.logs, m.movements = orders, items, products, logs, movements
		return err
	}
	return nil
}

func (m *memTransfers) InsertOrder(ctx context.Context, q repository.Querier, order models.TransferOrder) (*models.TransferOrder, error) {
	order.ID = m.id()
	order.CreatedAt = time.Now()
	m.orders[order.ID] = order
	return &order, nil
}

func (m *memTransfers) InsertItems(ctx context.Context, q repository.Querier, items []models.TransferItem) ([]models.TransferItem, error) {
	persisted := make([]models.TransferItem, 0, len(items))
	for _, item := range items {
		item.ID = m.id()
		m.items[item.ID] = item
		persisted = append(persisted, item)
	}
	return persisted, nil
}

func (m *memTransfers) InsertLog(ctx context.Context, q repository.Querier, log models.TransferLog) (*models.TransferLog, error) {
	log.ID = m.id()
	log.CreatedAt = time.Now()
	m.logs = append(m.logs, log)
	return &log, nil
}

func (m *memTransfers) GetOrder(ctx context.Context, q repository.Querier, id int) (*models.TransferOrder, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func (m *memTransfers) GetOrders(ctx context.Context, filter TransferFilter) ([]models.TransferOrder, error) {
	orders := []models.TransferOrder{}
	for _, o := range m.orders {
		if filter.Status != "" && string(o.Status) != filter.Status {
			continue
		}
		if filter.Type != "" && string(o.Type) != filter.Type {
			continue
		}
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders, nil
}

func (m *memTransfers) GetItem(ctx context.Context, q repository.Querier, id int) (*models.TransferItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (m *memTransfers) GetItems(ctx context.Context, q repository.Querier, orderID int) ([]models.TransferItem, error) {
	items := []models.TransferItem{}
	for _, item := range m.items {
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *memTransfers) GetLogs(ctx context.Context, q repository.Querier, orderID int) ([]models.TransferLog, error) {
	logs := []models.TransferLog{}
	for _, l := range m.logs {
		if l.OrderID == orderID {
			logs = append(logs, l)
		}
	}
	return logs, nil
}

func (m *memTransfers) UpdateItemReceived(ctx context.Context, q repository.Querier, id int, qtyReceived int, status models.ItemStatus) error {
	item := m.items[id]
	item.QtyReceived = qtyReceived
	item.Status = status
	m.items[id] = item
	return nil
}

func (m *memTransfers) CloseOrder(ctx context.Context, q repository.Querier, id int, closedAt time.Time) (bool, error) {
	order, ok := m.orders[id]
	if !ok || order.Status != models.TransferPending {
		return false, nil
	}
	order.Status = models.TransferCompleted
	order.ClosedAt = &closedAt
	m.orders[id] = order
	return true, nil
}

func (m *memTransfers) DeleteOrder(ctx context.Context, q repository.Querier, id int) error {
	delete(m.orders, id)
	for itemID, item := range m.items {
		if item.OrderID == id {
			delete(m.items, itemID)
		}
	}
	return nil
}

func (m *memTransfers) GetProductByCode(ctx context.Context, q repository.Querier, code string) (*models.Product, error) {
	p, ok := m.products[code]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// Apply books the movement the way the ledger does, against the in-memory
// product table.
func (m *memTransfers) Apply(ctx context.Context, q repository.Querier, actor *models.User, req stocks.MovementRequest) (*stocks.MovementResult, error) {
	for code, p := range m.products {
		if p.ID != req.ProductID {
			continue
		}
		next, err := stocks.ComputeStock(p.Stock, req.Type, req.Quantity)
		if err != nil {
			return nil, err
		}
		movement := models.InventoryMovement{
			ID:        m.id(),
			ProductID: p.ID,
			UserID:    actor.ID,
			Type:      req.Type,
			Quantity:  req.Quantity,
			Notes:     req.Notes,
		}
		m.movements = append(m.movements, movement)
		p.Stock = next
		m.products[code] = p
		return &stocks.MovementResult{Movement: movement, Product: p}, nil
	}
	return nil, custom_error.NotFound("product %d not found", req.ProductID)
}

func newTestService(m *memTransfers) *TransferService {
	s := NewService(m, m, m, m, zap.NewNop())
	s.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	return s
}

var operator = &models.User{ID: "user_1", Name: "Ana", Role: "operator"}

func received(n int) ReceivedQuantityRequest {
	return ReceivedQuantityRequest{QtyReceived: &n}
}

func TestDeriveItemStatus(t *testing.T) {
	tests := []struct {
		expected, received int
		want               models.ItemStatus
	}{
		{20, 0, models.ItemPending},
		{20, -1, models.ItemPending},
		{20, 20, models.ItemOK},
		{20, 25, models.ItemOver},
		{20, 5, models.ItemShort},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d of %d", tt.received, tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveItemStatus(tt.expected, tt.received))
		})
	}
}

func TestCreateTransfer(t *testing.T) {
	m := newMemTransfers(models.Product{ID: 1, Code: "X1", Name: "Bolt M8", Stock: 5})
	s := newTestService(m)

	order, err := s.CreateTransfer(context.Background(), operator, CreateTransferRequest{
		Type:   models.TransferInbound,
		Origin: "Supplier",
		Items: []TransferItemRequest{
			{ProductCode: " x1 ", QtyExpected: 20},
			{ProductCode: "NEW-9", ProductName: "Washer", QtyExpected: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "TRF-20260314-", order.TransferRef[:13])
	assert.Len(t, order.TransferRef, 21)
	assert.Equal(t, models.TransferPending, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "X1", order.Items[0].ProductCode)
	assert.Equal(t, "Bolt M8", order.Items[0].ProductName)
	assert.Equal(t, "Washer", order.Items[1].ProductName)
	for _, item := range order.Items {
		assert.Equal(t, 0, item.QtyReceived)
		assert.Equal(t, models.ItemPending, item.Status)
	}
	require.Len(t, order.Logs, 1)
	assert.True(t, order.Logs[0].System)
	assert.Equal(t, "Transfer created by Ana with 2 items", order.Logs[0].Message)
}

func TestCreateTransferValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateTransferRequest
		message string
	}{
		{
			name:    "unknown type",
			req:     CreateTransferRequest{Type: "RETURN", Items: []TransferItemRequest{{ProductCode: "A", QtyExpected: 1}}},
			message: "type must be one of [INBOUND REWORK SCRAP]",
		},
		{
			name:    "no items",
			req:     CreateTransferRequest{Type: models.TransferInbound},
			message: "items is required",
		},
		{
			name:    "zero expected",
			req:     CreateTransferRequest{Type: models.TransferScrap, Items: []TransferItemRequest{{ProductCode: "A"}}},
			message: "qty_expected must be greater than 0",
		},
		{
			name:    "blank code",
			req:     CreateTransferRequest{Type: models.TransferRework, Items: []TransferItemRequest{{ProductCode: "   ", QtyExpected: 1}}},
			message: "product_code is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMemTransfers()
			_, err := newTestService(m).CreateTransfer(context.Background(), operator, tt.req)
			require.Error(t, err)
			assert.True(t, custom_error.IsKind(err, custom_error.KindValidation), "got %v", err)
			assert.Equal(t, tt.message, err.Error())
			assert.Empty(t, m.orders)
		})
	}
}

func createOrder(t *testing.T, s *TransferService, typ models.TransferType, items ...TransferItemRequest) *models.TransferOrder {
	t.Helper()
	order, err := s.CreateTransfer(context.Background(), operator, CreateTransferRequest{Type: typ, Items: items})
	require.NoError(t, err)
	return order
}

func TestCompleteInboundTransfer(t *testing.T) {
	m := newMemTransfers(models.Product{ID: 1, Code: "X1", Name: "Bolt M8", Stock: 5})
	s := newTestService(m)
	ctx := context.Background()

	order := createOrder(t, s, models.TransferInbound, TransferItemRequest{ProductCode: "X1", QtyExpected: 20})

	item, err := s.UpdateReceivedQuantity(ctx, order.Items[0].ID, received(20))
	require.NoError(t, err)
	assert.Equal(t, models.ItemOK, item.Status)

	result, err := s.CompleteTransfer(ctx, operator, order.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Movements)
	assert.Empty(t, result.SkippedCodes)
	assert.Equal(t, models.TransferCompleted, result.Order.Status)
	require.NotNil(t, result.Order.ClosedAt)
	assert.Equal(t, 25, m.products["X1"].Stock)

	require.Len(t, m.movements, 1)
	assert.Equal(t, models.MovementEntry, m.movements[0].Type)
	assert.Equal(t, 20, m.movements[0].Quantity)
	assert.Contains(t, m.movements[0].Notes, order.TransferRef)
	assert.Equal(t, "user_1", m.movements[0].UserID)

	require.Len(t, result.Order.Logs, 2)
	assert.Equal(t, "Transfer completed by Ana: 1 stock movements", result.Order.Logs[1].Message)

	t.Run("second completion is rejected", func(t *testing.T) {
		_, err := s.CompleteTransfer(ctx, operator, order.ID)
		assert.True(t, custom_error.IsKind(err, custom_error.KindAlreadyCompleted), "got %v", err)
		assert.Len(t, m.movements, 1)
		assert.Equal(t, 25, m.products["X1"].Stock)
	})

	t.Run("received quantity is frozen", func(t *testing.T) {
		_, err := s.UpdateReceivedQuantity(ctx, order.Items[0].ID, received(3))
		assert.True(t, custom_error.IsKind(err, custom_error.KindConflict), "got %v", err)
		assert.Equal(t, 20, m.items[order.Items[0].ID].QtyReceived)
	})

	t.Run("completed order cannot be deleted", func(t *testing.T) {
		err := s.DeleteTransfer(ctx, order.ID)
		assert.True(t, custom_error.IsKind(err, custom_error.KindConflict), "got %v", err)
		assert.Contains(t, m.orders, order.ID)
	})
}

func TestCompleteTransferSkipsUnknownAndUncounted(t *testing.T) {
	m := newMemTransfers(
		models.Product{ID: 1, Code: "A", Stock: 10},
		models.Product{ID: 2, Code: "B", Stock: 10},
	)
	s := newTestService(m)
	ctx := context.Background()

	order := createOrder(t, s, models.TransferRework,
		TransferItemRequest{ProductCode: "A", QtyExpected: 4},
		TransferItemRequest{ProductCode: "B", QtyExpected: 4},
		TransferItemRequest{ProductCode: "GHOST", ProductName: "Unknown", QtyExpected: 2},
	)
	_, err := s.UpdateReceivedQuantity(ctx, order.Items[0].ID, received(3))
	require.NoError(t, err)
	_, err = s.UpdateReceivedQuantity(ctx, order.Items[2].ID, received(2))
	require.NoError(t, err)

	result, err := s.CompleteTransfer(ctx, operator, order.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Movements)
	assert.Equal(t, []string{"GHOST"}, result.SkippedCodes)
	assert.Equal(t, 7, m.products["A"].Stock)
	assert.Equal(t, 10, m.products["B"].Stock)
	require.Len(t, m.movements, 1)
	assert.Equal(t, models.MovementExit, m.movements[0].Type)

	closing := result.Order.Logs[len(result.Order.Logs)-1]
	assert.True(t, strings.HasSuffix(closing.Message, "skipped unknown product codes: GHOST"), closing.Message)
}

func TestCompleteScrapTransferRollsBackOnInsufficientStock(t *testing.T) {
	m := newMemTransfers(
		models.Product{ID: 1, Code: "A", Stock: 10},
		models.Product{ID: 2, Code: "B", Stock: 1},
	)
	s := newTestService(m)
	ctx := context.Background()

	order := createOrder(t, s, models.TransferScrap,
		TransferItemRequest{ProductCode: "A", QtyExpected: 5},
		TransferItemRequest{ProductCode: "B", QtyExpected: 5},
	)
	_, err := s.UpdateReceivedQuantity(ctx, order.Items[0].ID, received(5))
	require.NoError(t, err)
	_, err = s.UpdateReceivedQuantity(ctx, order.Items[1].ID, received(5))
	require.NoError(t, err)

	_, err = s.CompleteTransfer(ctx, operator, order.ID)
	require.Error(t, err)
	assert.True(t, custom_error.IsKind(err, custom_error.KindInsufficientStock), "got %v", err)

	assert.Equal(t, 10, m.products["A"].Stock)
	assert.Equal(t, 1, m.products["B"].Stock)
	assert.Empty(t, m.movements)
	assert.Equal(t, models.TransferPending, m.orders[order.ID].Status)
	assert.Len(t, m.logs, 1)
}

func TestCompleteTransferErrors(t *testing.T) {
	m := newMemTransfers()
	s := newTestService(m)

	_, err := s.CompleteTransfer(context.Background(), nil, 1)
	assert.True(t, custom_error.IsKind(err, custom_error.KindValidation), "got %v", err)

	_, err = s.CompleteTransfer(context.Background(), operator, 99)
	assert.True(t, custom_error.IsKind(err, custom_error.KindNotFound), "got %v", err)
}

func TestUpdateReceivedQuantity(t *testing.T) {
	m := newMemTransfers()
	s := newTestService(m)
	ctx := context.Background()
	order := createOrder(t, s, models.TransferInbound, TransferItemRequest{ProductCode: "A", QtyExpected: 10})
	itemID := order.Items[0].ID

	tests := []struct {
		qty  int
		want models.ItemStatus
	}{
		{4, models.ItemShort},
		{12, models.ItemOver},
		{10, models.ItemOK},
		{0, models.ItemPending},
	}
	for _, tt := range tests {
		item, err := s.UpdateReceivedQuantity(ctx, itemID, received(tt.qty))
		require.NoError(t, err)
		assert.Equal(t, tt.want, item.Status)
		assert.Equal(t, tt.want, m.items[itemID].Status)
	}

	_, err := s.UpdateReceivedQuantity(ctx, itemID, ReceivedQuantityRequest{})
	assert.True(t, custom_error.IsKind(err, custom_error.KindValidation), "got %v", err)

	_, err = s.UpdateReceivedQuantity(ctx, itemID, received(-1))
	assert.True(t, custom_error.IsKind(err, custom_error.KindValidation), "got %v", err)

	_, err = s.UpdateReceivedQuantity(ctx, 999, received(1))
	assert.True(t, custom_error.IsKind(err, custom_error.KindNotFound), "got %v", err)
}

func TestAddTransferLog(t *testing.T) {
	m := newMemTransfers()
	s := newTestService(m)
	ctx := context.Background()
	order := createOrder(t, s, models.TransferInbound, TransferItemRequest{ProductCode: "A", QtyExpected: 1})

	entry, err := s.AddTransferLog(ctx, operator, order.ID, TransferLogRequest{Message: "  pallet damaged  "})
	require.NoError(t, err)
	assert.Equal(t, "pallet damaged", entry.Message)
	assert.Equal(t, "Ana", entry.Author)
	assert.False(t, entry.System)

	_, err = s.AddTransferLog(ctx, operator, order.ID, TransferLogRequest{Message: "   "})
	assert.True(t, custom_error.IsKind(err, custom_error.KindValidation), "got %v", err)

	_, err = s.AddTransferLog(ctx, operator, 999, TransferLogRequest{Message: "hello"})
	assert.True(t, custom_error.IsKind(err, custom_error.KindNotFound), "got %v", err)
}

func TestDeleteAndListTransfers(t *testing.T) {
	m := newMemTransfers()
	s := newTestService(m)
	ctx := context.Background()
	first := createOrder(t, s, models.TransferInbound, TransferItemRequest{ProductCode: "A", QtyExpected: 1})
	second := createOrder(t, s, models.TransferScrap, TransferItemRequest{ProductCode: "B", QtyExpected: 1})

	orders, err := s.GetTransfers(ctx, TransferFilter{Type: "SCRAP"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, second.ID, orders[0].ID)

	_, err = s.GetTransfers(ctx, TransferFilter{Status: "OPEN"})
	assert.True(t, custom_error.IsKind(err, custom_error.KindValidation), "got %v", err)

	require.NoError(t, s.DeleteTransfer(ctx, first.ID))
	_, err = s.GetTransfer(ctx, first.ID)
	assert.True(t, custom_error.IsKind(err, custom_error.KindNotFound), "got %v", err)

	loaded, err := s.GetTransfer(ctx, second.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 1)
	assert.Len(t, loaded.Logs, 1)
}
