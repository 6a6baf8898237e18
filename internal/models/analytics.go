package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryBreakdown aggregates the inventory position of one category
type CategoryBreakdown struct {
	Category         string          `json:"category"`
	Products         int             `json:"products"`
	TotalStock       int             `json:"total_stock"`
	StockValue       decimal.Decimal `json:"stock_value"`
	RevenuePotential decimal.Decimal `json:"revenue_potential"`
	AvgReorderPoint  int             `json:"avg_reorder_point"`
}

// WarehouseBreakdown aggregates the inventory position of one warehouse zone
type WarehouseBreakdown struct {
	Location   string          `json:"location"`
	Products   int             `json:"products"`
	TotalStock int             `json:"total_stock"`
	StockValue decimal.Decimal `json:"stock_value"`
}

// StockHealth buckets items by their stock-to-reorder-point ratio:
// critical at or below half the reorder point, warning at or below it,
// healthy up to double it, overstocked beyond that.
type StockHealth struct {
	Critical    int `json:"critical"`
	Warning     int `json:"warning"`
	Healthy     int `json:"healthy"`
	Overstocked int `json:"overstocked"`
}

// ProductValue is one entry in a top-products ranking
type ProductValue struct {
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Value       decimal.Decimal `json:"value"`
}

// FinancialMetrics aggregates the money position of the whole inventory.
// Revenue potential prices every unit at its selling price; the average
// margin is the potential profit as a percentage of revenue potential.
type FinancialMetrics struct {
	InventoryValue   decimal.Decimal `json:"inventory_value"`
	RevenuePotential decimal.Decimal `json:"revenue_potential"`
	PotentialProfit  decimal.Decimal `json:"potential_profit"`
	AverageMarginPct decimal.Decimal `json:"average_margin_pct"`
}

// InventoryAnalytics is the full analytics view over the current inventory
type InventoryAnalytics struct {
	Categories   []CategoryBreakdown  `json:"categories"`
	Warehouses   []WarehouseBreakdown `json:"warehouses"`
	StockHealth  StockHealth          `json:"stock_health"`
	Financial    FinancialMetrics     `json:"financial"`
	TopByValue   []ProductValue       `json:"top_by_value"`
	TopByRevenue []ProductValue       `json:"top_by_revenue"`
	Timestamp    time.Time            `json:"timestamp"`
}
