package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"drawing-service/internal/models"
	"drawing-service/internal/normalizer"
	"drawing-service/internal/revisions"
	"drawing-service/internal/services"
)

// DrawingHandler exposes the processed drawing catalog.
type DrawingHandler struct {
	metadata    *services.MetadataService
	assets      *services.AssetService
	metadataKey string
}

func NewDrawingHandler(metadata *services.MetadataService, assets *services.AssetService, metadataKey string) *DrawingHandler {
	return &DrawingHandler{metadata: metadata, assets: assets, metadataKey: metadataKey}
}

// ListDrawings handles GET /drawings.
// @Summary List drawings
// @Description Returns the discipline index and the drawing list, optionally filtered by discipline. Answers 202 while metadata is loading.
// @Tags drawings
// @Produce json
// @Param discipline query string false "Discipline filter, 전체 for all"
// @Success 200 {object} models.ProcessedData "Processed drawing data"
// @Success 202 {object} map[string]interface{} "Metadata still loading"
// @Failure 400 {object} map[string]interface{} "Unknown discipline"
// @Router /drawings [get]
func (h *DrawingHandler) ListDrawings(c *fiber.Ctx) error {
	data, ok := h.metadata.ProcessedData()
	if !ok {
		return loadingResponse(c)
	}

	discipline := c.Query("discipline", models.AllDisciplines)
	if !data.HasDiscipline(discipline) {
		return errorResponse(c, fiber.StatusBadRequest, "unknown discipline: "+discipline)
	}
	return c.JSON(models.ProcessedData{
		Disciplines: data.Disciplines,
		Drawings:    normalizer.FilterByDiscipline(data.Drawings, discipline),
	})
}

// GetDrawing handles GET /drawings/:id.
// @Summary Get a drawing entry
// @Tags drawings
// @Produce json
// @Param id path string true "Drawing entry ID"
// @Success 200 {object} models.AppDrawing "Drawing entry"
// @Success 202 {object} map[string]interface{} "Metadata still loading"
// @Failure 404 {object} map[string]interface{} "Drawing not found"
// @Router /drawings/{id} [get]
func (h *DrawingHandler) GetDrawing(c *fiber.Ctx) error {
	drawing, err := h.findDrawing(c)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(drawing)
}

// GetRevisions handles GET /drawings/:id/revisions.
// @Summary Get the revision history of a drawing entry
// @Description Region history when the entry pins a region, else the discipline history, else all region histories in order.
// @Tags drawings
// @Produce json
// @Param id path string true "Drawing entry ID"
// @Success 200 {array} models.Revision "Revision history, possibly empty"
// @Success 202 {object} map[string]interface{} "Metadata still loading"
// @Failure 404 {object} map[string]interface{} "Drawing not found"
// @Router /drawings/{id}/revisions [get]
func (h *DrawingHandler) GetRevisions(c *fiber.Ctx) error {
	drawing, err := h.findDrawing(c)
	if err != nil {
		return serviceError(c, err)
	}
	raw, _ := h.metadata.Raw()
	return c.JSON(revisions.Resolve(drawing, raw))
}

// GetProject handles GET /project.
// @Summary Get project information
// @Tags drawings
// @Produce json
// @Success 200 {object} map[string]interface{} "Project and declared disciplines"
// @Success 202 {object} map[string]interface{} "Metadata still loading"
// @Router /project [get]
func (h *DrawingHandler) GetProject(c *fiber.Ctx) error {
	raw, ok := h.metadata.Raw()
	if !ok {
		return loadingResponse(c)
	}
	return c.JSON(fiber.Map{
		"project":     raw.Project,
		"disciplines": raw.Disciplines,
	})
}

// Reload handles POST /drawings/reload.
// @Summary Re-fetch the metadata document
// @Description There is no automatic retry after a failed load; this triggers one. The cached copy of the raw document is dropped either way.
// @Tags drawings
// @Produce json
// @Success 200 {object} services.MetadataStatus "Reloaded"
// @Failure 502 {object} map[string]interface{} "Fetch failed, fallback catalog installed"
// @Router /drawings/reload [post]
func (h *DrawingHandler) Reload(c *fiber.Ctx) error {
	err := h.metadata.Reload(c.UserContext())
	if h.assets != nil {
		if err := h.assets.Invalidate(c.UserContext(), h.metadataKey); err != nil {
			log.Printf("Error invalidating cached metadata document: %v", err)
		}
	}
	if err != nil {
		log.Printf("Metadata reload failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": true, "message": err.Error(), "status": h.metadata.Status(),
		})
	}
	return c.JSON(h.metadata.Status())
}

func (h *DrawingHandler) findDrawing(c *fiber.Ctx) (*models.AppDrawing, error) {
	data, ok := h.metadata.ProcessedData()
	if !ok {
		return nil, services.ErrMetadataLoading
	}
	id, err := pathParam(c, "id")
	if err != nil {
		return nil, services.ErrDrawingNotFound
	}
	drawing := data.FindDrawing(id)
	if drawing == nil {
		return nil, services.ErrDrawingNotFound
	}
	return drawing, nil
}
