package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tawfik37/atim-go/internal/config"
	"github.com/tawfik37/atim-go/internal/models"
)

// CSV column headers. Only the first two are required; the rest are resolved
// from derivation rules when absent.
const (
	colProductName  = "Shoe Description"
	colCurrentStock = "Number of Items Left"
	colCategory     = "Category"
	colReorderPoint = "Reorder Point"
	colReorderQty   = "Reorder Quantity"
	colLeadTime     = "Lead Time (days)"
	colWarehouse    = "Warehouse Location"
	colCostPerUnit  = "Cost Per Unit"
	colSellingPrice = "Selling Price"
)

// ErrNoItems is returned when the CSV parses but contains no usable rows
var ErrNoItems = errors.New("no valid inventory items found in CSV file")

// Store manages the retailer's inventory loaded from a CSV file. Optional
// columns are resolved once at load time so every item the rest of the
// system sees is fully populated.
type Store struct {
	csvFile string
	cfg     config.InventoryConfig
	logger  *logrus.Logger

	mu    sync.RWMutex
	items []models.InventoryItem
}

// NewStore loads the inventory from the configured CSV file
func NewStore(cfg config.InventoryConfig, logger *logrus.Logger) (*Store, error) {
	if logger == nil {
		logger = logrus.New()
	}
	s := &Store{
		csvFile: cfg.CSVFile,
		cfg:     cfg,
		logger:  logger,
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStoreFromReader loads inventory rows from r, for uploaded files
func NewStoreFromReader(r io.Reader, cfg config.InventoryConfig, logger *logrus.Logger) (*Store, error) {
	if logger == nil {
		logger = logrus.New()
	}
	s := &Store{
		csvFile: cfg.CSVFile,
		cfg:     cfg,
		logger:  logger,
	}
	items, err := s.parse(r)
	if err != nil {
		return nil, err
	}
	s.items = items
	return s, nil
}

// Reload re-reads the inventory from the CSV file
func (s *Store) Reload() error {
	f, err := os.Open(s.csvFile)
	if err != nil {
		return fmt.Errorf("failed to open inventory CSV %q: %w", s.csvFile, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.WithError(err).Debug("Error closing inventory CSV")
		}
	}()

	items, err := s.parse(f)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.logger.WithField("items", len(items)).Info("Inventory loaded from CSV")
	return nil
}

func (s *Store) parse(r io.Reader) ([]models.InventoryItem, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("inventory CSV is empty")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	for _, required := range []string{colProductName, colCurrentStock} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("inventory CSV must contain column %q, found: %v", required, header)
		}
	}

	var items []models.InventoryItem
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		name := strings.TrimSpace(field(record, columns, colProductName))
		stockRaw := strings.TrimSpace(field(record, columns, colCurrentStock))
		if name == "" || stockRaw == "" {
			continue
		}
		stock, err := strconv.Atoi(stockRaw)
		if err != nil {
			s.logger.WithField("product", name).Warn("Skipping row with non-numeric stock value")
			continue
		}

		category := strings.TrimSpace(field(record, columns, colCategory))
		if category == "" {
			category = inferCategory(name)
		}

		defaults := s.deriveDefaults(stock, category)
		item := models.InventoryItem{
			ProductName:       name,
			Category:          category,
			CurrentStock:      stock,
			ReorderPoint:      intField(record, columns, colReorderPoint, defaults.ReorderPoint),
			ReorderQuantity:   intField(record, columns, colReorderQty, defaults.ReorderQuantity),
			LeadTimeDays:      intField(record, columns, colLeadTime, defaults.LeadTimeDays),
			WarehouseLocation: stringField(record, columns, colWarehouse, defaults.WarehouseLocation),
			CostPerUnit:       decimalField(record, columns, colCostPerUnit, defaults.CostPerUnit),
			SellingPrice:      decimalField(record, columns, colSellingPrice, defaults.SellingPrice),
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, ErrNoItems
	}
	return items, nil
}

// Items returns a copy of all inventory items
func (s *Store) Items() []models.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]models.InventoryItem, len(s.items))
	copy(items, s.items)
	return items
}

// FindByKeyword returns items whose name or category contains the keyword
func (s *Store) FindByKeyword(keyword string) []models.InventoryItem {
	needle := strings.ToLower(keyword)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []models.InventoryItem
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.ProductName), needle) ||
			strings.Contains(strings.ToLower(item.Category), needle) {
			matches = append(matches, item)
		}
	}
	return matches
}

// Keywords returns the lowercased, deduplicated product names for trend
// analysis. The keyword list is an explicit input to the pipeline, never
// process-wide state.
func (s *Store) Keywords() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool, len(s.items))
	keywords := make([]string, 0, len(s.items))
	for _, item := range s.items {
		keyword := strings.ToLower(item.ProductName)
		if !seen[keyword] {
			seen[keyword] = true
			keywords = append(keywords, keyword)
		}
	}
	return keywords
}

// LowStockItems returns items at or below their reorder point
func (s *Store) LowStockItems() []models.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var low []models.InventoryItem
	for _, item := range s.items {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}
	return low
}

// Summary aggregates the current inventory position
func (s *Store) Summary() models.InventorySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := models.InventorySummary{
		TotalItems:          len(s.items),
		TotalInventoryValue: decimal.Zero,
		Items:               make([]models.InventoryItemStatus, 0, len(s.items)),
		Timestamp:           time.Now(),
	}

	for _, item := range s.items {
		status := "Adequate"
		if item.IsLowStock() {
			status = "Low Stock"
			summary.LowStockItems++
		}
		summary.TotalInventoryValue = summary.TotalInventoryValue.Add(item.StockValue())
		summary.Items = append(summary.Items, models.InventoryItemStatus{
			ProductName:  item.ProductName,
			CurrentStock: item.CurrentStock,
			ReorderPoint: item.ReorderPoint,
			Status:       status,
		})
	}
	return summary
}

// UpdateStock sets a new stock level for a product and persists the change
// to the CSV file when save is true. Product matching is case-insensitive.
func (s *Store) UpdateStock(productName string, newStock int, save bool) error {
	if newStock < 0 {
		return fmt.Errorf("stock level must not be negative, got %d", newStock)
	}

	s.mu.Lock()
	found := false
	for i := range s.items {
		if strings.EqualFold(s.items[i].ProductName, productName) {
			s.items[i].CurrentStock = newStock
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return fmt.Errorf("product %q not found in inventory", productName)
	}
	if save {
		return s.Save()
	}
	return nil
}

// Save writes the full inventory, all columns populated, back to the CSV file
func (s *Store) Save() error {
	s.mu.RLock()
	items := make([]models.InventoryItem, len(s.items))
	copy(items, s.items)
	s.mu.RUnlock()

	f, err := os.Create(s.csvFile)
	if err != nil {
		return fmt.Errorf("failed to create inventory CSV %q: %w", s.csvFile, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.WithError(err).Warn("Error closing inventory CSV after save")
		}
	}()

	writer := csv.NewWriter(f)
	header := []string{
		colProductName, colCurrentStock, colCategory, colReorderPoint,
		colReorderQty, colLeadTime, colWarehouse, colCostPerUnit, colSellingPrice,
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, item := range items {
		record := []string{
			item.ProductName,
			strconv.Itoa(item.CurrentStock),
			item.Category,
			strconv.Itoa(item.ReorderPoint),
			strconv.Itoa(item.ReorderQuantity),
			strconv.Itoa(item.LeadTimeDays),
			item.WarehouseLocation,
			item.CostPerUnit.StringFixed(2),
			item.SellingPrice.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func field(record []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func intField(record []string, columns map[string]int, name string, fallback int) int {
	raw := strings.TrimSpace(field(record, columns, name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func stringField(record []string, columns map[string]int, name, fallback string) string {
	raw := strings.TrimSpace(field(record, columns, name))
	if raw == "" {
		return fallback
	}
	return raw
}

func decimalField(record []string, columns map[string]int, name string, fallback decimal.Decimal) decimal.Decimal {
	raw := strings.TrimSpace(field(record, columns, name))
	if raw == "" {
		return fallback
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return fallback
	}
	return v.Round(2)
}
