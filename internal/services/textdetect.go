package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

type DetectionStatus string

const (
	DetectionInProgress DetectionStatus = "IN_PROGRESS"
	DetectionSucceeded  DetectionStatus = "SUCCEEDED"
	DetectionFailed     DetectionStatus = "FAILED"
)

var ErrDetectionJobNotFound = errors.New("detection job not found")

// TextBlock is one detected line of text.
type TextBlock struct {
	Page int
	Text string
}

type DetectionResult struct {
	Status DetectionStatus
	Blocks []TextBlock
}

// TextDetectionService mirrors the submit-and-poll contract of managed
// document OCR APIs: StartDetection returns a job ID immediately and the
// caller polls GetDetection until the job reaches a terminal status.
type TextDetectionService interface {
	StartDetection(ctx context.Context, data []byte) (string, error)
	GetDetection(jobID string) (*DetectionResult, error)
}

// localTextDetectionService runs detection in-process over the PDF parser.
// The extractor only sees the TextDetectionService interface, so a managed
// OCR backend can replace this without touching the pipeline.
type localTextDetectionService struct {
	jobs   sync.Map // job ID -> *detectionJob
	logger *zap.Logger
}

type detectionJob struct {
	mu     sync.Mutex
	result DetectionResult
}

func NewLocalTextDetectionService(logger *zap.Logger) TextDetectionService {
	return &localTextDetectionService{logger: logger}
}

// StartDetection implements TextDetectionService.
func (s *localTextDetectionService) StartDetection(_ context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("document is empty")
	}

	jobID := uuid.New().String()
	job := &detectionJob{result: DetectionResult{Status: DetectionInProgress}}
	s.jobs.Store(jobID, job)

	go s.run(jobID, job, data)

	return jobID, nil
}

// GetDetection implements TextDetectionService.
func (s *localTextDetectionService) GetDetection(jobID string) (*DetectionResult, error) {
	v, ok := s.jobs.Load(jobID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDetectionJobNotFound, jobID)
	}

	job := v.(*detectionJob)
	job.mu.Lock()
	defer job.mu.Unlock()

	// Blocks are write-once after the job reaches a terminal status, so the
	// shallow copy is safe to hand out.
	result := job.result
	return &result, nil
}

func (s *localTextDetectionService) run(jobID string, job *detectionJob, data []byte) {
	// The PDF parser panics on some malformed documents; a panic must
	// surface as a FAILED job, never crash the process.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("text detection panicked",
				zap.String("job_id", jobID),
				zap.Any("panic", r),
			)
			s.complete(job, DetectionResult{Status: DetectionFailed})
		}
	}()

	blocks, err := detectLines(data)
	if err != nil {
		s.logger.Warn("text detection failed",
			zap.String("job_id", jobID),
			zap.Error(err),
		)
		s.complete(job, DetectionResult{Status: DetectionFailed})
		return
	}

	s.complete(job, DetectionResult{Status: DetectionSucceeded, Blocks: blocks})
}

func (s *localTextDetectionService) complete(job *detectionJob, result DetectionResult) {
	job.mu.Lock()
	job.result = result
	job.mu.Unlock()
}

// detectLines parses the PDF and returns its text row by row, top to bottom,
// in page order.
func detectLines(data []byte) ([]TextBlock, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	var blocks []TextBlock
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			// Skip unreadable pages, keep the rest.
			continue
		}

		for _, row := range rows {
			var line strings.Builder
			for _, text := range row.Content {
				line.WriteString(text.S)
			}
			if s := strings.TrimSpace(line.String()); s != "" {
				blocks = append(blocks, TextBlock{Page: pageIndex, Text: s})
			}
		}
	}

	if len(blocks) == 0 {
		return nil, errors.New("no text content found in PDF")
	}

	return blocks, nil
}
