package handlers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jmanoj0905/Serverless-CV-Match/internal/models"
	"github.com/jmanoj0905/Serverless-CV-Match/internal/services"
)

type UploadHandler struct {
	storage       services.ObjectStorageService
	bucket        string
	resumesPrefix string
	maxFileSize   int64
}

func NewUploadHandler(
	storage services.ObjectStorageService,
	bucket string,
	resumesPrefix string,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		storage:       storage,
		bucket:        bucket,
		resumesPrefix: resumesPrefix,
		maxFileSize:   maxFileSize,
	}
}

// HandleUpload handles POST /upload. The resume lands under the resume
// prefix; the bucket notification then triggers the matching pipeline.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("resume too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename := filepath.Base(file.Filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" && ext != ".txt" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("invalid file extension: %s", ext),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to open uploaded file",
		})
	}
	defer src.Close()

	contentType := "text/plain"
	if ext == ".pdf" {
		contentType = "application/pdf"
	}

	key := h.resumesPrefix + filename
	if err := h.storage.PutObject(c.UserContext(), key, src, file.Size, contentType); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to store resume: %v", err),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		Key:    key,
		Bucket: h.bucket,
		Size:   file.Size,
	})
}
