package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tawfik37/atim-go/internal/config"
)

func TestInferCategory(t *testing.T) {
	tests := []struct {
		productName string
		want        string
	}{
		{"Waterproof Hiking Boots", CategoryOutdoor},
		{"Trail Hiking Shoes", CategoryOutdoor},
		{"Insulated Winter Boots", CategoryOutdoor},
		{"Leather Ankle Boots", CategoryFallWinter},
		{"Strappy Sandals", CategorySummer},
		{"Classic Espadrilles", CategorySummer},
		{"Running Shoes", CategoryAthletic},
		{"Cross Training Shoes", CategoryAthletic},
		{"Dress Oxfords", CategoryFormal},
		{"Penny Loafers", CategoryFormal},
		{"Chunky Sneakers", CategoryCasual},
		{"Canvas Slip-Ons", CategoryCasual},
		{"White Sneakers", CategoryCasual},
		{"Mystery Shoe", CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.productName, func(t *testing.T) {
			assert.Equal(t, tt.want, inferCategory(tt.productName))
		})
	}
}

func TestDeriveDefaults(t *testing.T) {
	store := &Store{cfg: config.InventoryConfig{DefaultLeadTimeDays: 14}}

	t.Run("reorder values scale with stock", func(t *testing.T) {
		d := store.deriveDefaults(200, CategoryCasual)
		assert.Equal(t, 130, d.ReorderPoint) // 0.65 * 200
		assert.Equal(t, 300, d.ReorderQuantity)
	})

	t.Run("reorder values have floors", func(t *testing.T) {
		d := store.deriveDefaults(10, CategoryCasual)
		assert.Equal(t, 50, d.ReorderPoint)
		assert.Equal(t, 100, d.ReorderQuantity)
	})

	t.Run("category drives lead time and warehouse", func(t *testing.T) {
		d := store.deriveDefaults(100, CategoryOutdoor)
		assert.Equal(t, 21, d.LeadTimeDays)
		assert.Equal(t, "Zone B", d.WarehouseLocation)
	})

	t.Run("unknown category falls back to configured lead time", func(t *testing.T) {
		d := store.deriveDefaults(100, "Novelty")
		assert.Equal(t, 14, d.LeadTimeDays)
		assert.Equal(t, "Zone A", d.WarehouseLocation)
	})

	t.Run("cost adjusts for stock level", func(t *testing.T) {
		mid := store.deriveDefaults(100, CategoryCasual)
		high := store.deriveDefaults(500, CategoryCasual)
		scarce := store.deriveDefaults(50, CategoryCasual)

		assert.True(t, mid.CostPerUnit.Equal(decimal.NewFromFloat(30.00)))
		assert.True(t, high.CostPerUnit.Equal(decimal.NewFromFloat(27.00)))
		assert.True(t, scarce.CostPerUnit.Equal(decimal.NewFromFloat(33.00)))
	})

	t.Run("selling price is double the cost", func(t *testing.T) {
		d := store.deriveDefaults(100, CategoryFormal)
		assert.True(t, d.SellingPrice.Equal(d.CostPerUnit.Mul(decimal.NewFromInt(2))))
	})
}
