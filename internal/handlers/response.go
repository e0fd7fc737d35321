package handlers

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"drawing-service/internal/repository"
	"drawing-service/internal/services"
	"drawing-service/internal/storage"
)

const InvalidParameterError = "invalid path parameter"

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": true, "message": message,
	})
}

// loadingResponse is sent while the initial metadata fetch is pending.
func loadingResponse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"loading": true})
}

// serviceError maps service sentinels to HTTP statuses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrMetadataLoading):
		return loadingResponse(c)
	case errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, services.ErrDrawingNotFound),
		errors.Is(err, storage.ErrAssetNotFound):
		return errorResponse(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrUnknownDiscipline),
		errors.Is(err, storage.ErrInvalidAssetKey):
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	default:
		return errorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
}

// pathParam returns a URL-unescaped route parameter. Drawing ids carry
// spaces and Hangul.
func pathParam(c *fiber.Ctx, name string) (string, error) {
	return url.PathUnescape(c.Params(name))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}
