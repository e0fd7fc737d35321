package handlers

import (
	"github.com/gofiber/fiber/v2"

	"drawing-service/internal/services"
)

// Handlers bundles the route handlers of the service.
type Handlers struct {
	Drawings *DrawingHandler
	Viewer   *ViewerHandler
	Assets   *AssetHandler
	Cache    *CacheHandler
	Metadata *services.MetadataService
}

// SetupRoutes registers the data and API routes on app.
func SetupRoutes(app *fiber.App, h Handlers) fiber.Router {
	data := app.Group("/data")
	data.Get("/metadata.json", h.Assets.GetMetadataDocument)
	data.Get("/drawings/*", h.Assets.GetDrawingImage)

	api := app.Group("/api")
	api.Get("/drawings", h.Drawings.ListDrawings)
	api.Post("/drawings/reload", h.Drawings.Reload)
	api.Get("/drawings/:id", h.Drawings.GetDrawing)
	api.Get("/drawings/:id/revisions", h.Drawings.GetRevisions)
	api.Get("/project", h.Drawings.GetProject)

	viewer := api.Group("/viewer/sessions")
	viewer.Post("/", h.Viewer.CreateSession)
	viewer.Get("/:id", h.Viewer.GetSession)
	viewer.Put("/:id/discipline", h.Viewer.SelectDiscipline)
	viewer.Post("/:id/compare", h.Viewer.ToggleCompare)
	viewer.Post("/:id/drawings/:drawingId", h.Viewer.ClickDrawing)
	viewer.Delete("/:id", h.Viewer.DeleteSession)

	cache := api.Group("/cache")
	cache.Get("/stats", h.Cache.GetCacheStats)
	cache.Post("/warm", h.Cache.WarmCache)
	cache.Post("/clear", h.Cache.ClearCache)
	cache.Delete("/drawings/*", h.Cache.InvalidateDrawing)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"metadata": h.Metadata.Status(),
		})
	})
	return api
}
