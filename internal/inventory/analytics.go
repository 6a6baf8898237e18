package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tawfik37/atim-go/internal/models"
)

// topProducts caps the top-by-value and top-by-revenue rankings
const topProducts = 10

var hundred = decimal.NewFromInt(100)

// Analytics computes the category, warehouse, stock-health and financial
// breakdowns of the current inventory. Pure aggregation over the loaded
// items; nothing here mutates the store.
func (s *Store) Analytics() models.InventoryAnalytics {
	s.mu.RLock()
	items := make([]models.InventoryItem, len(s.items))
	copy(items, s.items)
	s.mu.RUnlock()

	analytics := models.InventoryAnalytics{
		Financial: models.FinancialMetrics{
			InventoryValue:   decimal.Zero,
			RevenuePotential: decimal.Zero,
			PotentialProfit:  decimal.Zero,
			AverageMarginPct: decimal.Zero,
		},
		Timestamp: time.Now(),
	}

	categories := map[string]*models.CategoryBreakdown{}
	reorderTotals := map[string]int{}
	warehouses := map[string]*models.WarehouseBreakdown{}

	byValue := make([]models.ProductValue, 0, len(items))
	byRevenue := make([]models.ProductValue, 0, len(items))

	for _, item := range items {
		value := item.StockValue()
		revenue := item.SellingPrice.Mul(decimal.NewFromInt(int64(item.CurrentStock)))

		cat, ok := categories[item.Category]
		if !ok {
			cat = &models.CategoryBreakdown{
				Category:         item.Category,
				StockValue:       decimal.Zero,
				RevenuePotential: decimal.Zero,
			}
			categories[item.Category] = cat
		}
		cat.Products++
		cat.TotalStock += item.CurrentStock
		cat.StockValue = cat.StockValue.Add(value)
		cat.RevenuePotential = cat.RevenuePotential.Add(revenue)
		reorderTotals[item.Category] += item.ReorderPoint

		wh, ok := warehouses[item.WarehouseLocation]
		if !ok {
			wh = &models.WarehouseBreakdown{
				Location:   item.WarehouseLocation,
				StockValue: decimal.Zero,
			}
			warehouses[item.WarehouseLocation] = wh
		}
		wh.Products++
		wh.TotalStock += item.CurrentStock
		wh.StockValue = wh.StockValue.Add(value)

		switch {
		case item.CurrentStock*2 <= item.ReorderPoint:
			analytics.StockHealth.Critical++
		case item.CurrentStock <= item.ReorderPoint:
			analytics.StockHealth.Warning++
		case item.CurrentStock <= item.ReorderPoint*2:
			analytics.StockHealth.Healthy++
		default:
			analytics.StockHealth.Overstocked++
		}

		analytics.Financial.InventoryValue = analytics.Financial.InventoryValue.Add(value)
		analytics.Financial.RevenuePotential = analytics.Financial.RevenuePotential.Add(revenue)

		byValue = append(byValue, models.ProductValue{
			ProductName: item.ProductName,
			Category:    item.Category,
			Stock:       item.CurrentStock,
			Value:       value,
		})
		byRevenue = append(byRevenue, models.ProductValue{
			ProductName: item.ProductName,
			Category:    item.Category,
			Stock:       item.CurrentStock,
			Value:       revenue,
		})
	}

	analytics.Financial.PotentialProfit = analytics.Financial.RevenuePotential.Sub(analytics.Financial.InventoryValue)
	if analytics.Financial.RevenuePotential.IsPositive() {
		analytics.Financial.AverageMarginPct = analytics.Financial.PotentialProfit.
			Div(analytics.Financial.RevenuePotential).Mul(hundred).Round(2)
	}

	analytics.Categories = make([]models.CategoryBreakdown, 0, len(categories))
	for name, cat := range categories {
		cat.AvgReorderPoint = reorderTotals[name] / cat.Products
		analytics.Categories = append(analytics.Categories, *cat)
	}
	sort.Slice(analytics.Categories, func(i, j int) bool {
		return analytics.Categories[i].Category < analytics.Categories[j].Category
	})

	analytics.Warehouses = make([]models.WarehouseBreakdown, 0, len(warehouses))
	for _, wh := range warehouses {
		analytics.Warehouses = append(analytics.Warehouses, *wh)
	}
	sort.Slice(analytics.Warehouses, func(i, j int) bool {
		return analytics.Warehouses[i].Location < analytics.Warehouses[j].Location
	})

	analytics.TopByValue = topRanked(byValue)
	analytics.TopByRevenue = topRanked(byRevenue)
	return analytics
}

// topRanked orders products by descending value, ties broken by name for
// determinism, and caps the list.
func topRanked(products []models.ProductValue) []models.ProductValue {
	sort.Slice(products, func(i, j int) bool {
		if !products[i].Value.Equal(products[j].Value) {
			return products[i].Value.GreaterThan(products[j].Value)
		}
		return products[i].ProductName < products[j].ProductName
	})
	if len(products) > topProducts {
		products = products[:topProducts]
	}
	return products
}
