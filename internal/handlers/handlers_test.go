package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jmanoj0905/Serverless-CV-Match/internal/models"
	"github.com/jmanoj0905/Serverless-CV-Match/internal/services"
)

type stubPipeline struct {
	mu     sync.Mutex
	events []*models.EventNotification
	err    error
}

func (s *stubPipeline) ProcessNotification(_ context.Context, event *models.EventNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

type stubStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    []string
}

func newStubStorage() *stubStorage {
	return &stubStorage{objects: map[string][]byte{}}
}

func (s *stubStorage) EnsureBucket(context.Context) error { return nil }

func (s *stubStorage) GetObject(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", services.ErrObjectNotFound, key)
	}
	return data, nil
}

func (s *stubStorage) PutObject(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	s.puts = append(s.puts, key)
	return nil
}

func (s *stubStorage) PutJSON(context.Context, string, interface{}) error { return nil }

func (s *stubStorage) LoadJobCatalog(context.Context) ([]models.JobPosting, error) {
	return nil, nil
}

func TestHandleEventAcknowledgesNotification(t *testing.T) {
	pipeline := &stubPipeline{}
	app := fiber.New()
	app.Post("/events", NewNotifyHandler(pipeline, zap.NewNop()).HandleEvent)

	body := `{"Records": [{"s3": {"bucket": {"name": "resume-match"}, "object": {"key": "resumes/a.pdf"}}}]}`
	req := httptest.NewRequest("POST", "/events", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, pipeline.events, 1)
	require.Len(t, pipeline.events[0].Records, 1)
	assert.Equal(t, "resumes/a.pdf", pipeline.events[0].Records[0].S3.Object.Key)
}

func TestHandleEventAcksDespitePipelineFailure(t *testing.T) {
	pipeline := &stubPipeline{err: errors.New("record failed")}
	app := fiber.New()
	app.Post("/events", NewNotifyHandler(pipeline, zap.NewNop()).HandleEvent)

	req := httptest.NewRequest("POST", "/events", bytes.NewReader([]byte(`{"Records": []}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHandleEventRejectsBadPayload(t *testing.T) {
	app := fiber.New()
	app.Post("/events", NewNotifyHandler(&stubPipeline{}, zap.NewNop()).HandleEvent)

	req := httptest.NewRequest("POST", "/events", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleGetResult(t *testing.T) {
	storage := newStubStorage()
	storage.objects["results/a.pdf.json"] = []byte(`{"matches": []}`)

	app := fiber.New()
	app.Get("/result/:filename", NewResultHandler(storage, "results/").HandleGetResult)

	resp, err := app.Test(httptest.NewRequest("GET", "/result/a.pdf", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"matches": []}`, string(body))
}

func TestHandleGetResultNotReady(t *testing.T) {
	app := fiber.New()
	app.Get("/result/:filename", NewResultHandler(newStubStorage(), "results/").HandleGetResult)

	resp, err := app.Test(httptest.NewRequest("GET", "/result/missing.pdf", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func multipartResume(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("resume", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestHandleUploadStoresUnderResumePrefix(t *testing.T) {
	storage := newStubStorage()
	app := fiber.New()
	app.Post("/upload", NewUploadHandler(storage, "resume-match", "resumes/", 1<<20).HandleUpload)

	body, contentType := multipartResume(t, "jane.txt", "Jane Doe, Software Engineer")
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.Equal(t, []string{"resumes/jane.txt"}, storage.puts)
	assert.Equal(t, []byte("Jane Doe, Software Engineer"), storage.objects["resumes/jane.txt"])
}

func TestHandleUploadRejectsUnknownExtension(t *testing.T) {
	storage := newStubStorage()
	app := fiber.New()
	app.Post("/upload", NewUploadHandler(storage, "resume-match", "resumes/", 1<<20).HandleUpload)

	body, contentType := multipartResume(t, "jane.exe", "binary")
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, storage.puts)
}
