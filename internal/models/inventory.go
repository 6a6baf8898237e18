package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem represents a single product row resolved from the retailer CSV.
// Optional CSV columns are filled in from derivation rules at load time so the
// rest of the system always sees a fully-populated record.
type InventoryItem struct {
	ProductName       string          `json:"product_name"`
	Category          string          `json:"category"`
	CurrentStock      int             `json:"current_stock"`
	ReorderPoint      int             `json:"reorder_point"`
	ReorderQuantity   int             `json:"reorder_quantity"`
	LeadTimeDays      int             `json:"lead_time_days"`
	WarehouseLocation string          `json:"warehouse_location"`
	CostPerUnit       decimal.Decimal `json:"cost_per_unit"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
}

// IsLowStock reports whether the item is at or below its reorder point
func (i *InventoryItem) IsLowStock() bool {
	return i.CurrentStock <= i.ReorderPoint
}

// StockValue returns the cost value of the stock on hand
func (i *InventoryItem) StockValue() decimal.Decimal {
	return i.CostPerUnit.Mul(decimal.NewFromInt(int64(i.CurrentStock)))
}

// InventoryItemStatus is a per-item line in the inventory summary
type InventoryItemStatus struct {
	ProductName  string `json:"product_name"`
	CurrentStock int    `json:"current_stock"`
	ReorderPoint int    `json:"reorder_point"`
	Status       string `json:"status"`
}

// InventorySummary aggregates the current inventory position
type InventorySummary struct {
	TotalItems          int                   `json:"total_items"`
	LowStockItems       int                   `json:"low_stock_items"`
	TotalInventoryValue decimal.Decimal       `json:"total_inventory_value"`
	Items               []InventoryItemStatus `json:"items"`
	Timestamp           time.Time             `json:"timestamp"`
}
