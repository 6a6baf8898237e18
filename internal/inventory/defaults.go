package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tawfik37/atim-go/internal/models"
)

// Product categories inferred from the product name
const (
	CategoryOutdoor    = "Outdoor"
	CategoryFallWinter = "Fall/Winter"
	CategorySummer     = "Summer"
	CategoryAthletic   = "Athletic"
	CategoryFormal     = "Formal"
	CategoryCasual     = "Casual"
	CategoryGeneral    = "General"
)

var leadTimeByCategory = map[string]int{
	CategoryOutdoor:    21,
	CategoryFallWinter: 16,
	CategoryAthletic:   12,
	CategorySummer:     10,
	CategoryFormal:     14,
	CategoryCasual:     10,
}

var warehouseByCategory = map[string]string{
	CategoryOutdoor:    "Zone B",
	CategoryFallWinter: "Zone B",
	CategoryAthletic:   "Zone A",
	CategorySummer:     "Zone C",
	CategoryFormal:     "Zone B",
	CategoryCasual:     "Zone A",
	CategoryGeneral:    "Zone A",
}

var baseCostByCategory = map[string]float64{
	CategoryOutdoor:    65.00,
	CategoryFallWinter: 55.00,
	CategoryAthletic:   45.00,
	CategorySummer:     25.00,
	CategoryFormal:     75.00,
	CategoryCasual:     30.00,
	CategoryGeneral:    40.00,
}

// inferCategory maps a product name onto a category using keyword matching.
// More specific terms are checked before generic ones.
func inferCategory(productName string) string {
	name := strings.ToLower(productName)

	switch {
	case strings.Contains(name, "waterproof") || strings.Contains(name, "hiking"):
		return CategoryOutdoor
	case strings.Contains(name, "boot"):
		if strings.Contains(name, "winter") {
			return CategoryOutdoor
		}
		return CategoryFallWinter
	case strings.Contains(name, "sandal") || strings.Contains(name, "espadrille"):
		return CategorySummer
	case containsAny(name, "running", "runner", "athletic", "training"):
		return CategoryAthletic
	case containsAny(name, "dress", "formal", "loafer"):
		return CategoryFormal
	case containsAny(name, "chunky", "casual", "canvas", "slip"):
		return CategoryCasual
	case strings.Contains(name, "sneaker"):
		return CategoryCasual
	default:
		return CategoryGeneral
	}
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// deriveDefaults fills in the optional inventory fields from stock level and
// category when the CSV does not provide them.
func (s *Store) deriveDefaults(currentStock int, category string) models.InventoryItem {
	reorderPoint := int(float64(currentStock) * 0.65)
	if reorderPoint < 50 {
		reorderPoint = 50
	}

	reorderQty := int(float64(currentStock) * 1.5)
	if reorderQty < 100 {
		reorderQty = 100
	}

	leadTime, ok := leadTimeByCategory[category]
	if !ok {
		leadTime = s.cfg.DefaultLeadTimeDays
	}

	warehouse, ok := warehouseByCategory[category]
	if !ok {
		warehouse = "Zone A"
	}

	baseCost, ok := baseCostByCategory[category]
	if !ok {
		baseCost = 40.00
	}
	cost := decimal.NewFromFloat(baseCost)

	// High stock usually means cheaper items, low stock pricier ones
	switch {
	case currentStock > 200:
		cost = cost.Mul(decimal.NewFromFloat(0.9))
	case currentStock < 80:
		cost = cost.Mul(decimal.NewFromFloat(1.1))
	}
	cost = cost.Round(2)

	return models.InventoryItem{
		ReorderPoint:      reorderPoint,
		ReorderQuantity:   reorderQty,
		LeadTimeDays:      leadTime,
		WarehouseLocation: warehouse,
		CostPerUnit:       cost,
		SellingPrice:      cost.Mul(decimal.NewFromInt(2)).Round(2),
	}
}
