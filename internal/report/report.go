// Package report renders analysis results as plain-text reports for the CLI
// and the report API endpoint.
package report

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tawfik37/atim-go/internal/models"
)

var titleCaser = cases.Title(language.AmericanEnglish)

// Render produces the full analysis report: inventory overview, analytics
// breakdowns, ranked trends, recommendations and low-stock alerts.
func Render(result *models.AnalysisResult, summary models.InventorySummary, analytics models.InventoryAnalytics, lowStock []models.InventoryItem, recommendations, season string) string {
	var sb strings.Builder

	sb.WriteString("============================================================\n")
	sb.WriteString("         AI TREND & INVENTORY MANAGER (ATIM)\n")
	sb.WriteString("============================================================\n\n")
	fmt.Fprintf(&sb, "Analysis date: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Current season: %s\n\n", season)

	sb.WriteString(renderSummary(summary))
	sb.WriteString(renderAnalytics(analytics))
	sb.WriteString(renderTrends(result))

	sb.WriteString("--- AI-Powered Recommendations ---\n\n")
	sb.WriteString(strings.TrimRight(recommendations, "\n"))
	sb.WriteString("\n\n")

	sb.WriteString(renderLowStock(lowStock))
	return sb.String()
}

func renderSummary(summary models.InventorySummary) string {
	var sb strings.Builder
	sb.WriteString("--- Inventory Overview ---\n")
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Total products\t%d\n", summary.TotalItems)
	fmt.Fprintf(w, "Low stock items\t%d\n", summary.LowStockItems)
	fmt.Fprintf(w, "Total inventory value\t$%s\n", summary.TotalInventoryValue.StringFixed(2))
	_ = w.Flush()
	sb.WriteString("\n")
	return sb.String()
}

func renderAnalytics(analytics models.InventoryAnalytics) string {
	var sb strings.Builder
	sb.WriteString("--- Category Breakdown ---\n")
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Category\tProducts\tStock\tValue\tRevenue Potential")
	for _, cat := range analytics.Categories {
		fmt.Fprintf(w, "%s\t%d\t%d\t$%s\t$%s\n",
			cat.Category, cat.Products, cat.TotalStock,
			cat.StockValue.StringFixed(2), cat.RevenuePotential.StringFixed(2))
	}
	_ = w.Flush()
	sb.WriteString("\n")

	sb.WriteString("--- Stock Health ---\n")
	w = tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Critical\t%d\n", analytics.StockHealth.Critical)
	fmt.Fprintf(w, "Warning\t%d\n", analytics.StockHealth.Warning)
	fmt.Fprintf(w, "Healthy\t%d\n", analytics.StockHealth.Healthy)
	fmt.Fprintf(w, "Overstocked\t%d\n", analytics.StockHealth.Overstocked)
	_ = w.Flush()
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Revenue potential $%s, potential profit $%s (avg margin %s%%)\n\n",
		analytics.Financial.RevenuePotential.StringFixed(2),
		analytics.Financial.PotentialProfit.StringFixed(2),
		analytics.Financial.AverageMarginPct.StringFixed(2))
	return sb.String()
}

func renderTrends(result *models.AnalysisResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Trending Products (%d analyzed, %d skipped) ---\n", result.Analyzed, result.Skipped)
	if len(result.Trends) == 0 {
		sb.WriteString("No strong trends found. Consider widening the confidence threshold.\n\n")
		return sb.String()
	}

	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Rank\tProduct\tStatus\tConfidence\tVelocity\tStrength")
	for i, t := range result.Trends {
		fmt.Fprintf(w, "#%d\t%s\t%s\t%.1f\t%+.1f\t%.1f\n",
			i+1, titleCaser.String(t.Keyword), t.Status, t.Confidence, t.Velocity, t.Strength)
	}
	_ = w.Flush()
	sb.WriteString("\n")
	return sb.String()
}

func renderLowStock(lowStock []models.InventoryItem) string {
	var sb strings.Builder
	sb.WriteString("--- Low Stock Alerts ---\n")
	if len(lowStock) == 0 {
		sb.WriteString("All items are above their reorder point.\n")
		return sb.String()
	}

	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Product\tStock\tReorder Point\tAction")
	for _, item := range lowStock {
		action := "REORDER"
		if item.CurrentStock*2 < item.ReorderPoint {
			action = "URGENT"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", item.ProductName, item.CurrentStock, item.ReorderPoint, action)
	}
	_ = w.Flush()
	return sb.String()
}
