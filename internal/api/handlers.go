package api

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tawfik37/atim-go/internal/analyzer"
	"github.com/tawfik37/atim-go/internal/cache"
	"github.com/tawfik37/atim-go/internal/config"
	"github.com/tawfik37/atim-go/internal/inventory"
	"github.com/tawfik37/atim-go/internal/models"
	"github.com/tawfik37/atim-go/internal/notify"
	"github.com/tawfik37/atim-go/internal/recommend"
	"github.com/tawfik37/atim-go/internal/report"
)

// Handler carries the service dependencies for all API endpoints
type Handler struct {
	cfg         *config.Config
	analyzer    *analyzer.Analyzer
	recommender *recommend.Service
	notifier    *notify.NotificationService
	redis       *cache.RedisClient
	logger      *logrus.Logger

	mu    sync.RWMutex
	store *inventory.Store
}

// NewHandler creates the API handler. redis and store may be nil; endpoints
// that need an inventory respond 409 until one is uploaded or loaded.
func NewHandler(cfg *config.Config, store *inventory.Store, trendAnalyzer *analyzer.Analyzer, recommender *recommend.Service, notifier *notify.NotificationService, redisClient *cache.RedisClient, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		cfg:         cfg,
		store:       store,
		analyzer:    trendAnalyzer,
		recommender: recommender,
		notifier:    notifier,
		redis:       redisClient,
		logger:      logger,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type UpdateStockRequest struct {
	ProductName string `json:"product_name" binding:"required"`
	NewStock    *int   `json:"new_stock" binding:"required"`
}

type UploadResponse struct {
	Message string                  `json:"message"`
	Summary models.InventorySummary `json:"summary"`
}

type InventoryResponse struct {
	Items   []models.InventoryItem  `json:"items"`
	Summary models.InventorySummary `json:"summary"`
}

type RecommendationsResponse struct {
	Recommendations string                 `json:"recommendations"`
	Analysis        *models.AnalysisResult `json:"analysis"`
	Season          string                 `json:"season"`
	Timestamp       time.Time              `json:"timestamp"`
}

// HealthCheck reports service health
func (h *Handler) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Services:  map[string]string{},
	}

	if h.redis != nil {
		if err := h.redis.HealthCheck(c.Request.Context()); err != nil {
			response.Status = "degraded"
			response.Services["redis"] = "unhealthy"
		} else {
			response.Services["redis"] = "healthy"
		}
	}

	if h.currentStore() != nil {
		response.Services["inventory"] = "loaded"
	} else {
		response.Services["inventory"] = "not loaded"
	}

	c.JSON(http.StatusOK, response)
}

// UploadInventory accepts a CSV file upload and replaces the active store
func (h *Handler) UploadInventory(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing file upload field 'file'"})
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "only .csv files are accepted"})
		return
	}
	if h.cfg.Server.MaxUploadSize > 0 && fileHeader.Size > h.cfg.Server.MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file exceeds maximum upload size"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to read uploaded file"})
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			h.logger.WithError(err).Debug("Error closing uploaded file")
		}
	}()

	store, err := inventory.NewStoreFromReader(file, h.cfg.Inventory, h.logger)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}

	if err := store.Save(); err != nil {
		h.logger.WithError(err).Warn("Failed to persist uploaded inventory to CSV")
	}

	h.mu.Lock()
	h.store = store
	h.mu.Unlock()

	h.logger.WithField("file", fileHeader.Filename).Info("Inventory uploaded")
	c.JSON(http.StatusOK, UploadResponse{
		Message: "inventory loaded",
		Summary: store.Summary(),
	})
}

// GetInventory returns the current items and summary
func (h *Handler) GetInventory(c *gin.Context) {
	store := h.currentStore()
	if store == nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "no inventory loaded, upload a CSV first"})
		return
	}
	c.JSON(http.StatusOK, InventoryResponse{
		Items:   store.Items(),
		Summary: store.Summary(),
	})
}

// GetAnalytics returns category, warehouse, stock-health and financial
// breakdowns of the loaded inventory
func (h *Handler) GetAnalytics(c *gin.Context) {
	store := h.currentStore()
	if store == nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "no inventory loaded, upload a CSV first"})
		return
	}
	c.JSON(http.StatusOK, store.Analytics())
}

// UpdateStock sets a new stock level for one product
func (h *Handler) UpdateStock(c *gin.Context) {
	store := h.currentStore()
	if store == nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "no inventory loaded, upload a CSV first"})
		return
	}

	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := store.UpdateStock(req.ProductName, *req.NewStock, true); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "stock updated", "product_name": req.ProductName, "new_stock": *req.NewStock})
}

// AnalyzeTrends runs the classification pipeline over the inventory keywords
func (h *Handler) AnalyzeTrends(c *gin.Context) {
	result, status, errMsg := h.runAnalysis(c)
	if errMsg != "" {
		c.JSON(status, ErrorResponse{Error: errMsg})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GenerateRecommendations runs the pipeline and produces guidance text
func (h *Handler) GenerateRecommendations(c *gin.Context) {
	store := h.currentStore()
	result, status, errMsg := h.runAnalysis(c)
	if errMsg != "" {
		c.JSON(status, ErrorResponse{Error: errMsg})
		return
	}

	recommendations := h.recommender.GenerateRecommendations(
		c.Request.Context(), result.Trends, store.Items(), store.Summary(),
		h.cfg.Inventory.CurrentSeason, upcomingHolidays())

	c.JSON(http.StatusOK, RecommendationsResponse{
		Recommendations: recommendations,
		Analysis:        result,
		Season:          h.cfg.Inventory.CurrentSeason,
		Timestamp:       time.Now(),
	})
}

// GetReport renders the full plain-text analysis report
func (h *Handler) GetReport(c *gin.Context) {
	store := h.currentStore()
	result, status, errMsg := h.runAnalysis(c)
	if errMsg != "" {
		c.JSON(status, ErrorResponse{Error: errMsg})
		return
	}

	recommendations := h.recommender.GenerateRecommendations(
		c.Request.Context(), result.Trends, store.Items(), store.Summary(),
		h.cfg.Inventory.CurrentSeason, upcomingHolidays())

	text := report.Render(result, store.Summary(), store.Analytics(), store.LowStockItems(),
		recommendations, h.cfg.Inventory.CurrentSeason)
	c.String(http.StatusOK, text)
}

// runAnalysis is shared by the analyze, recommendations and report endpoints
func (h *Handler) runAnalysis(c *gin.Context) (*models.AnalysisResult, int, string) {
	store := h.currentStore()
	if store == nil {
		return nil, http.StatusConflict, "no inventory loaded, upload a CSV first"
	}

	minConfidence := h.cfg.Analyzer.MinConfidence
	if raw := c.Query("min_confidence"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, http.StatusBadRequest, "min_confidence must be a number"
		}
		minConfidence = v
	}

	maxResults := h.cfg.Analyzer.MaxResults
	if raw := c.Query("max_results"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, http.StatusBadRequest, "max_results must be an integer"
		}
		maxResults = v
	}

	keywords := store.Keywords()
	if max := h.cfg.Trends.MaxKeywords; max > 0 && len(keywords) > max {
		h.logger.WithFields(logrus.Fields{
			"total": len(keywords),
			"limit": max,
		}).Info("Limiting keywords to stay under upstream rate limits")
		keywords = keywords[:max]
	}

	result, err := h.analyzer.GetHighConfidenceTrends(c.Request.Context(), keywords,
		h.cfg.Trends.Geo, h.cfg.Trends.Timeframe, minConfidence, maxResults)
	if err != nil {
		if errors.Is(err, analyzer.ErrInvalidParameter) {
			return nil, http.StatusBadRequest, err.Error()
		}
		h.logger.WithError(err).Error("Trend analysis failed")
		return nil, http.StatusInternalServerError, "trend analysis failed"
	}

	if h.notifier != nil && h.notifier.Enabled() {
		go func(trends models.RankedTrendList, lowStock []models.InventoryItem) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			h.notifier.NotifyTrends(ctx, trends)
			h.notifier.NotifyLowStock(ctx, lowStock)
		}(result.Trends, store.LowStockItems())
	}

	return result, http.StatusOK, ""
}

func (h *Handler) currentStore() *inventory.Store {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.store
}

// upcomingHolidays lists the retail events fed into the recommendation
// prompt. Static for now, like the season it should eventually derive from
// the calendar.
func upcomingHolidays() []string {
	return []string{"Labor Day", "Back to School", "Fall Fashion Week"}
}
