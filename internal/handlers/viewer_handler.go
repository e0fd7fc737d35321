package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"drawing-service/internal/services"
)

// ViewerHandler drives viewer sessions.
type ViewerHandler struct {
	viewer   *services.ViewerService
	validate *validator.Validate
}

func NewViewerHandler(viewer *services.ViewerService) *ViewerHandler {
	return &ViewerHandler{viewer: viewer, validate: validator.New()}
}

// DisciplineRequest is the body of PUT /viewer/sessions/:id/discipline.
type DisciplineRequest struct {
	Discipline string `json:"discipline" validate:"required"`
}

// CreateSession handles POST /viewer/sessions.
// @Summary Start a viewer session
// @Tags viewer
// @Produce json
// @Success 201 {object} services.ViewerState "New session on the 전체 discipline"
// @Success 202 {object} map[string]interface{} "Metadata still loading"
// @Router /viewer/sessions [post]
func (h *ViewerHandler) CreateSession(c *fiber.Ctx) error {
	state, err := h.viewer.CreateSession(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	log.Printf("Viewer session %s created", state.Session.ID)
	return c.Status(fiber.StatusCreated).JSON(state)
}

// GetSession handles GET /viewer/sessions/:id.
// @Summary Get the view of a session
// @Tags viewer
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.ViewerState "Session view"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /viewer/sessions/{id} [get]
func (h *ViewerHandler) GetSession(c *fiber.Ctx) error {
	state, err := h.viewer.GetView(c.UserContext(), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(state)
}

// SelectDiscipline handles PUT /viewer/sessions/:id/discipline.
// @Summary Change the discipline filter
// @Description Keeps selected drawings that remain in the list; selects the first drawing when none remain.
// @Tags viewer
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body DisciplineRequest true "Discipline"
// @Success 200 {object} services.ViewerState "Session view"
// @Failure 400 {object} map[string]interface{} "Unknown discipline"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /viewer/sessions/{id}/discipline [put]
func (h *ViewerHandler) SelectDiscipline(c *fiber.Ctx) error {
	var request DisciplineRequest
	if err := c.BodyParser(&request); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(request); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "discipline is required")
	}
	state, err := h.viewer.SelectDiscipline(c.UserContext(), c.Params("id"), request.Discipline)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(state)
}

// ToggleCompare handles POST /viewer/sessions/:id/compare.
// @Summary Toggle compare mode
// @Description Turning compare mode off keeps only the primary drawing.
// @Tags viewer
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.ViewerState "Session view"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /viewer/sessions/{id}/compare [post]
func (h *ViewerHandler) ToggleCompare(c *fiber.Ctx) error {
	state, err := h.viewer.ToggleCompareMode(c.UserContext(), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(state)
}

// ClickDrawing handles POST /viewer/sessions/:id/drawings/:drawingId.
// @Summary Click a drawing in the list
// @Description Single mode replaces the selection. Compare mode toggles the drawing, holding at most four and evicting the oldest non-primary drawing.
// @Tags viewer
// @Produce json
// @Param id path string true "Session ID"
// @Param drawingId path string true "Drawing entry ID"
// @Success 200 {object} services.ViewerState "Session view"
// @Failure 404 {object} map[string]interface{} "Session or drawing not found"
// @Router /viewer/sessions/{id}/drawings/{drawingId} [post]
func (h *ViewerHandler) ClickDrawing(c *fiber.Ctx) error {
	drawingID, err := pathParam(c, "drawingId")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, InvalidParameterError)
	}
	state, err := h.viewer.ClickDrawing(c.UserContext(), c.Params("id"), drawingID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(state)
}

// DeleteSession handles DELETE /viewer/sessions/:id.
// @Summary End a viewer session
// @Tags viewer
// @Param id path string true "Session ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /viewer/sessions/{id} [delete]
func (h *ViewerHandler) DeleteSession(c *fiber.Ctx) error {
	if err := h.viewer.DeleteSession(c.UserContext(), c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
