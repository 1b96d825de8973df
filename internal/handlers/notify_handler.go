package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/jmanoj0905/Serverless-CV-Match/internal/models"
	"github.com/jmanoj0905/Serverless-CV-Match/internal/services"
)

type NotifyHandler struct {
	pipeline services.PipelineService
	logger   *zap.Logger
}

func NewNotifyHandler(pipeline services.PipelineService, logger *zap.Logger) *NotifyHandler {
	return &NotifyHandler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// HandleEvent handles POST /events, the bucket notification webhook. The
// response acknowledges the notification once every record has been
// attempted; per-record failures are logged, not surfaced, and redelivery is
// left to the notifier.
func (h *NotifyHandler) HandleEvent(c *fiber.Ctx) error {
	var event models.EventNotification

	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid notification payload",
		})
	}

	if err := h.pipeline.ProcessNotification(c.UserContext(), &event); err != nil {
		h.logger.Error("notification processed with failures", zap.Error(err))
	}

	return c.JSON(models.EventResponse{OK: true})
}
