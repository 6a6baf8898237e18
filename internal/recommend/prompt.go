package recommend

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tawfik37/atim-go/internal/models"
)

const systemInstruction = "You are an expert inventory management consultant for a shoe retailer. " +
	"You analyze market trends, inventory levels, and business context to provide " +
	"actionable recommendations for inventory management, reordering, warehousing, " +
	"and risk assessment. Your recommendations should be clear, specific, and " +
	"prioritized by business impact."

var titleCaser = cases.Title(language.AmericanEnglish)

// BuildPrompt assembles the consultant prompt from trend classifications,
// inventory state and business context. The trend data is read-only context;
// nothing here mutates it.
func BuildPrompt(trends models.RankedTrendList, items []models.InventoryItem, summary models.InventorySummary, season string, holidays []string) string {
	var sb strings.Builder

	sb.WriteString(systemInstruction)
	sb.WriteString("\n\n## Market Trends\n")
	if len(trends) == 0 {
		sb.WriteString("No strong trends identified in this analysis window.\n")
	}
	for _, t := range trends {
		fmt.Fprintf(&sb, "- %s: Status=%s, Confidence=%.2f, Velocity=%.2f, Strength=%.2f\n",
			titleCaser.String(t.Keyword), t.Status, t.Confidence, t.Velocity, t.Strength)
	}

	sb.WriteString("\n## Current Inventory\n")
	for _, item := range items {
		fmt.Fprintf(&sb, "- %s (%s): stock=%d, reorder_point=%d, reorder_qty=%d, lead_time=%dd, location=%s, cost=%s, price=%s\n",
			item.ProductName, item.Category, item.CurrentStock, item.ReorderPoint,
			item.ReorderQuantity, item.LeadTimeDays, item.WarehouseLocation,
			item.CostPerUnit.StringFixed(2), item.SellingPrice.StringFixed(2))
	}

	fmt.Fprintf(&sb, "\n## Inventory Summary\nTotal products: %d\nLow stock items: %d\nTotal inventory value: $%s\n",
		summary.TotalItems, summary.LowStockItems, summary.TotalInventoryValue.StringFixed(2))

	fmt.Fprintf(&sb, "\n## Business Context\nCurrent season: %s\n", season)
	if len(holidays) > 0 {
		fmt.Fprintf(&sb, "Upcoming events: %s\n", strings.Join(holidays, ", "))
	}

	sb.WriteString("\n## Task\n" +
		"Provide prioritized inventory recommendations covering:\n" +
		"1. Which products to reorder now, with suggested quantities\n" +
		"2. Which rising trends justify increased stock ahead of demand\n" +
		"3. Which declining products should be marked down or phased out\n" +
		"4. Warehouse placement adjustments\n" +
		"5. Risks to watch over the next reorder cycle\n")

	return sb.String()
}
