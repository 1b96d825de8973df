package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jmanoj0905/Serverless-CV-Match/internal/services"
)

type ResultHandler struct {
	storage       services.ObjectStorageService
	resultsPrefix string
}

func NewResultHandler(storage services.ObjectStorageService, resultsPrefix string) *ResultHandler {
	return &ResultHandler{
		storage:       storage,
		resultsPrefix: resultsPrefix,
	}
}

// HandleGetResult handles GET /result/:filename. Absence of the report is the
// observable signal that the pipeline has not (or not successfully) run for
// this resume, hence the 404.
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	filename := c.Params("filename")
	if filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "filename is required",
		})
	}

	data, err := h.storage.GetObject(c.UserContext(), h.resultsPrefix+filename+".json")
	if err != nil {
		if errors.Is(err, services.ErrObjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "no match report for this resume",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read match report",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}
