package handlers

import (
	"log"
	"path"

	"github.com/gofiber/fiber/v2"

	"drawing-service/internal/services"
)

// AssetHandler serves the metadata document and drawing images.
type AssetHandler struct {
	assets      *services.AssetService
	metadataKey string
}

func NewAssetHandler(assets *services.AssetService, metadataKey string) *AssetHandler {
	return &AssetHandler{assets: assets, metadataKey: metadataKey}
}

// GetMetadataDocument handles GET /data/metadata.json.
// @Summary Get the raw metadata document
// @Tags assets
// @Produce json
// @Success 200 {object} models.Metadata "Metadata document"
// @Failure 404 {object} map[string]interface{} "Document not found"
// @Router /data/metadata.json [get]
func (h *AssetHandler) GetMetadataDocument(c *fiber.Ctx) error {
	asset, err := h.assets.Open(c.UserContext(), h.metadataKey)
	if err != nil {
		log.Printf("Error opening metadata document: %v", err)
		return serviceError(c, err)
	}
	c.Type("json")
	return h.send(c, asset)
}

// GetDrawingImage handles GET /data/drawings/*.
// @Summary Get a drawing image
// @Description The file name is URL-unescaped and NFD-normalized before lookup, so composed and decomposed Hangul names resolve to the same image.
// @Tags assets
// @Produce image/png
// @Param file path string true "Image file name"
// @Success 200 {file} binary "Image"
// @Failure 400 {object} map[string]interface{} "Invalid file name"
// @Failure 404 {object} map[string]interface{} "Image not found"
// @Router /data/drawings/{file} [get]
func (h *AssetHandler) GetDrawingImage(c *fiber.Ctx) error {
	asset, err := h.assets.OpenDrawing(c.UserContext(), c.Params("*"))
	if err != nil {
		return serviceError(c, err)
	}
	if ext := path.Ext(asset.Key); ext != "" {
		c.Type(ext[1:])
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return h.send(c, asset)
}

func (h *AssetHandler) send(c *fiber.Ctx, asset *services.Asset) error {
	c.Set("X-Cache-Layer", asset.Trace.LayerUsed)
	c.Set("Server-Timing", asset.Trace.ServerTiming())
	return c.SendStream(asset.Body, int(asset.Size))
}
