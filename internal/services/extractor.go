package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrExtractionTimeout is returned when a detection job does not reach a
// terminal status within the configured number of polls.
var ErrExtractionTimeout = errors.New("text detection timed out")

var pdfMagic = []byte("%PDF")

type ExtractorService interface {
	ExtractText(ctx context.Context, key string) (string, error)
}

type extractorService struct {
	storage      ObjectStorageService
	detector     TextDetectionService
	pollInterval time.Duration
	maxAttempts  int
	logger       *zap.Logger
}

func NewExtractorService(
	storage ObjectStorageService,
	detector TextDetectionService,
	pollInterval time.Duration,
	maxAttempts int,
	logger *zap.Logger,
) ExtractorService {
	return &extractorService{
		storage:      storage,
		detector:     detector,
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
		logger:       logger,
	}
}

// ExtractText returns the plain text of a stored resume. Objects without the
// PDF signature are decoded as UTF-8 with invalid sequences dropped; PDFs go
// through an asynchronous detection job polled at a fixed interval. A failed
// detection yields empty text, not an error.
func (e *extractorService) ExtractText(ctx context.Context, key string) (string, error) {
	data, err := e.storage.GetObject(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to fetch document %q: %w", key, err)
	}

	if !bytes.HasPrefix(data, pdfMagic) {
		return strings.ToValidUTF8(string(data), ""), nil
	}

	jobID, err := e.detector.StartDetection(ctx, data)
	if err != nil {
		return "", fmt.Errorf("failed to start text detection for %q: %w", key, err)
	}

	e.logger.Debug("text detection started",
		zap.String("key", key),
		zap.String("job_id", jobID),
	)

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("text detection interrupted: %w", ctx.Err())
		case <-time.After(e.pollInterval):
		}

		result, err := e.detector.GetDetection(jobID)
		if err != nil {
			return "", fmt.Errorf("failed to poll text detection %q: %w", jobID, err)
		}

		switch result.Status {
		case DetectionSucceeded:
			return joinBlocks(result.Blocks), nil
		case DetectionFailed:
			// Degraded, not fatal: the resume is treated as having no
			// readable content.
			e.logger.Warn("text detection reported failure",
				zap.String("key", key),
				zap.String("job_id", jobID),
			)
			return "", nil
		}
	}

	return "", fmt.Errorf("%w after %d attempts (key %q)", ErrExtractionTimeout, e.maxAttempts, key)
}

func joinBlocks(blocks []TextBlock) string {
	lines := make([]string, 0, len(blocks))
	for _, block := range blocks {
		lines = append(lines, block.Text)
	}
	return strings.Join(lines, "\n")
}
