package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "AB-12", NormalizeCode("  ab-12 \t"))
}

func TestStockStatus(t *testing.T) {
	tests := []struct {
		stock, min int
		want       StockStatus
	}{
		{stock: 7, min: 5, want: StockStatusOK},
		{stock: 5, min: 5, want: StockStatusLow},
		{stock: 0, min: 5, want: StockStatusOut},
		{stock: 0, min: 0, want: StockStatusOut},
	}

	for _, tt := range tests {
		p := Product{Stock: tt.stock, MinStock: tt.min}
		assert.Equal(t, tt.want, p.StockStatus(), "stock=%d min=%d", tt.stock, tt.min)
	}
}

func TestProductJSONIncludesStockStatus(t *testing.T) {
	p := Product{ID: 1, Code: "X1", Stock: 10, MinStock: 5, Price: decimal.NewNullDecimal(decimal.RequireFromString("12.50"))}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "ok", decoded["stock_status"])
	assert.Equal(t, "X1", decoded["code"])
	assert.Equal(t, "12.5", decoded["price"])
}

func TestTransferOrderMovementType(t *testing.T) {
	assert.Equal(t, MovementEntry, (&TransferOrder{Type: TransferInbound}).MovementType())
	assert.Equal(t, MovementExit, (&TransferOrder{Type: TransferRework}).MovementType())
	assert.Equal(t, MovementExit, (&TransferOrder{Type: TransferScrap}).MovementType())
}
