package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"drawing-service/internal/services"
)

// CacheHandler handles cache-related HTTP endpoints
type CacheHandler struct {
	assets   *services.AssetService
	metadata *services.MetadataService
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(assets *services.AssetService, metadata *services.MetadataService) *CacheHandler {
	return &CacheHandler{assets: assets, metadata: metadata}
}

// WarmCache handles POST /cache/warm to load every catalog image into the cache
// @Summary Warm the image cache
// @Description Loads the image of every drawing entry into the cache layer chosen for its size
// @Tags cache
// @Produce json
// @Success 200 {object} metrics.WarmupReport "All images cached"
// @Success 202 {object} map[string]interface{} "Metadata still loading"
// @Failure 207 {object} metrics.WarmupReport "Some images failed"
// @Router /cache/warm [post]
func (h *CacheHandler) WarmCache(c *fiber.Ctx) error {
	data, ok := h.metadata.ProcessedData()
	if !ok {
		return loadingResponse(c)
	}

	seen := make(map[string]struct{}, len(data.Drawings))
	files := make([]string, 0, len(data.Drawings))
	for _, drawing := range data.Drawings {
		if _, dup := seen[drawing.ImageFile]; dup {
			continue
		}
		seen[drawing.ImageFile] = struct{}{}
		files = append(files, drawing.ImageFile)
	}

	report := h.assets.Warm(c.UserContext(), files, c.QueryInt("workers", 4))
	c.Set("X-Warmup-Total-Ms", formatFloat(report.TotalLatencyMs))
	c.Set("X-Warmup-Object-Count", formatInt(report.ObjectCount))
	c.Set("X-Warmup-Error-Count", formatInt(report.ErrorCount))

	status := fiber.StatusOK
	if report.ErrorCount > 0 {
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(report)
}

// GetCacheStats handles GET /cache/stats to retrieve cache statistics
// @Summary Get cache statistics
// @Tags cache
// @Produce json
// @Success 200 {object} services.MultiLayerCacheStats "Cache statistics"
// @Router /cache/stats [get]
func (h *CacheHandler) GetCacheStats(c *fiber.Ctx) error {
	start := time.Now()
	stats := h.assets.CacheStatistics()
	c.Set("X-Stats-Latency-Ms", formatFloat(float64(time.Since(start).Microseconds())/1000.0))
	return c.JSON(stats)
}

// InvalidateDrawing handles DELETE /cache/drawings/* to remove one image from cache
// @Summary Invalidate a cached image
// @Tags cache
// @Param file path string true "Image file name"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]interface{} "Invalid file name"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /cache/drawings/{file} [delete]
func (h *CacheHandler) InvalidateDrawing(c *fiber.Ctx) error {
	key, err := services.DrawingKey(c.Params("*"))
	if err != nil {
		return serviceError(c, err)
	}
	if err := h.assets.Invalidate(c.UserContext(), key); err != nil {
		log.Printf("Error invalidating cache for %s: %v", key, err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to invalidate cache")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ClearCache handles POST /cache/clear to clear all cached images
// @Summary Clear entire cache
// @Tags cache
// @Produce json
// @Success 200 {object} map[string]interface{} "Cache cleared"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /cache/clear [post]
func (h *CacheHandler) ClearCache(c *fiber.Ctx) error {
	if err := h.assets.ClearCache(c.UserContext()); err != nil {
		log.Printf("Error clearing cache: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to clear cache")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cache cleared successfully",
	})
}
