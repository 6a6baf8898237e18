package inventory

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tawfik37/atim-go/internal/models"
)

const analyticsCSV = `Shoe Description,Number of Items Left,Category,Reorder Point,Reorder Quantity,Lead Time (days),Warehouse Location,Cost Per Unit,Selling Price
Running Shoes A,10,Sneakers,40,80,7,Zone A,10.00,25.00
Running Shoes B,40,Sneakers,40,80,7,Zone A,10.00,20.00
Hiking Boots,80,Boots,40,80,10,Zone B,20.00,30.00
Strappy Sandals,200,Sandals,40,80,7,Zone B,5.00,10.00
`

func TestAnalyticsBreakdowns(t *testing.T) {
	store, err := NewStoreFromReader(strings.NewReader(analyticsCSV), testInventoryConfig(""), testLogger())
	require.NoError(t, err)

	analytics := store.Analytics()

	require.Len(t, analytics.Categories, 3)
	boots, sandals, sneakers := analytics.Categories[0], analytics.Categories[1], analytics.Categories[2]

	assert.Equal(t, "Boots", boots.Category)
	assert.Equal(t, 1, boots.Products)
	assert.Equal(t, 80, boots.TotalStock)
	assert.True(t, boots.StockValue.Equal(decimal.NewFromInt(1600)), "boots value %s", boots.StockValue)
	assert.True(t, boots.RevenuePotential.Equal(decimal.NewFromInt(2400)), "boots revenue %s", boots.RevenuePotential)
	assert.Equal(t, 40, boots.AvgReorderPoint)

	assert.Equal(t, "Sandals", sandals.Category)
	assert.Equal(t, 200, sandals.TotalStock)

	assert.Equal(t, "Sneakers", sneakers.Category)
	assert.Equal(t, 2, sneakers.Products)
	assert.Equal(t, 50, sneakers.TotalStock)
	assert.True(t, sneakers.StockValue.Equal(decimal.NewFromInt(500)), "sneakers value %s", sneakers.StockValue)
	assert.True(t, sneakers.RevenuePotential.Equal(decimal.NewFromInt(1050)), "sneakers revenue %s", sneakers.RevenuePotential)

	require.Len(t, analytics.Warehouses, 2)
	zoneA, zoneB := analytics.Warehouses[0], analytics.Warehouses[1]
	assert.Equal(t, "Zone A", zoneA.Location)
	assert.Equal(t, 2, zoneA.Products)
	assert.Equal(t, 50, zoneA.TotalStock)
	assert.True(t, zoneA.StockValue.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "Zone B", zoneB.Location)
	assert.Equal(t, 280, zoneB.TotalStock)
	assert.True(t, zoneB.StockValue.Equal(decimal.NewFromInt(2600)))

	assert.False(t, analytics.Timestamp.IsZero())
}

func TestAnalyticsFinancialMetrics(t *testing.T) {
	store, err := NewStoreFromReader(strings.NewReader(analyticsCSV), testInventoryConfig(""), testLogger())
	require.NoError(t, err)

	fin := store.Analytics().Financial
	assert.True(t, fin.InventoryValue.Equal(decimal.NewFromInt(3100)), "inventory value %s", fin.InventoryValue)
	assert.True(t, fin.RevenuePotential.Equal(decimal.NewFromInt(5450)), "revenue potential %s", fin.RevenuePotential)
	assert.True(t, fin.PotentialProfit.Equal(decimal.NewFromInt(2350)), "potential profit %s", fin.PotentialProfit)
	assert.Equal(t, "43.12", fin.AverageMarginPct.StringFixed(2))
}

func TestAnalyticsStockHealthTiers(t *testing.T) {
	tests := []struct {
		name  string
		stock int
		want  models.StockHealth
	}{
		{"half reorder point is critical", 20, models.StockHealth{Critical: 1}},
		{"just above half is warning", 21, models.StockHealth{Warning: 1}},
		{"at reorder point is warning", 40, models.StockHealth{Warning: 1}},
		{"above reorder point is healthy", 41, models.StockHealth{Healthy: 1}},
		{"at double reorder point is healthy", 80, models.StockHealth{Healthy: 1}},
		{"above double is overstocked", 81, models.StockHealth{Overstocked: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &Store{items: []models.InventoryItem{{
				ProductName:  "Test Shoe",
				Category:     "Sneakers",
				CurrentStock: tc.stock,
				ReorderPoint: 40,
				CostPerUnit:  decimal.NewFromInt(10),
				SellingPrice: decimal.NewFromInt(20),
			}}}
			assert.Equal(t, tc.want, store.Analytics().StockHealth)
		})
	}
}

func TestAnalyticsZeroRevenueSkipsMargin(t *testing.T) {
	store := &Store{items: []models.InventoryItem{{
		ProductName:  "Shelf Warmer",
		Category:     "Boots",
		CurrentStock: 0,
		ReorderPoint: 40,
		CostPerUnit:  decimal.NewFromInt(10),
		SellingPrice: decimal.NewFromInt(20),
	}}}

	fin := store.Analytics().Financial
	assert.True(t, fin.AverageMarginPct.IsZero())
	assert.True(t, fin.PotentialProfit.IsZero())
}

func TestAnalyticsTopListsCappedAndOrdered(t *testing.T) {
	items := make([]models.InventoryItem, 0, 12)
	for i := 1; i <= 12; i++ {
		items = append(items, models.InventoryItem{
			ProductName:  fmt.Sprintf("Shoe %02d", i),
			Category:     "Sneakers",
			CurrentStock: i,
			ReorderPoint: 5,
			CostPerUnit:  decimal.NewFromInt(10),
			SellingPrice: decimal.NewFromInt(20),
		})
	}
	store := &Store{items: items}

	analytics := store.Analytics()
	require.Len(t, analytics.TopByValue, 10)
	require.Len(t, analytics.TopByRevenue, 10)

	// Highest stock means highest value; 12 and 11 lead, 01 and 02 fall off.
	assert.Equal(t, "Shoe 12", analytics.TopByValue[0].ProductName)
	assert.Equal(t, "Shoe 03", analytics.TopByValue[9].ProductName)
	assert.True(t, analytics.TopByValue[0].Value.Equal(decimal.NewFromInt(120)))
	assert.True(t, analytics.TopByRevenue[0].Value.Equal(decimal.NewFromInt(240)))

	for i := 1; i < len(analytics.TopByValue); i++ {
		assert.True(t, analytics.TopByValue[i].Value.LessThanOrEqual(analytics.TopByValue[i-1].Value))
	}
}

func TestAnalyticsTieBrokenByName(t *testing.T) {
	store := &Store{items: []models.InventoryItem{
		{ProductName: "Zeta Boot", Category: "Boots", CurrentStock: 5, ReorderPoint: 2,
			CostPerUnit: decimal.NewFromInt(10), SellingPrice: decimal.NewFromInt(20)},
		{ProductName: "Alpha Boot", Category: "Boots", CurrentStock: 5, ReorderPoint: 2,
			CostPerUnit: decimal.NewFromInt(10), SellingPrice: decimal.NewFromInt(20)},
	}}

	top := store.Analytics().TopByValue
	require.Len(t, top, 2)
	assert.Equal(t, "Alpha Boot", top[0].ProductName)
	assert.Equal(t, "Zeta Boot", top[1].ProductName)
}
