package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/jmanoj0905/Serverless-CV-Match/internal/config"
)

// GeminiService provides the two model operations the pipeline needs: text
// embeddings and deterministic text generation. Resume and job embeddings
// must come from the same instance so they share a vector space.
type GeminiService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateText(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error)
}

type geminiService struct {
	client        *genai.Client
	modelName     string
	embedModel    string
	embedMaxChars int
	logger        *zap.Logger
}

func NewGeminiService(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:        client,
		modelName:     cfg.Model,
		embedModel:    cfg.EmbedModel,
		embedMaxChars: cfg.EmbedMaxChars,
		logger:        logger,
	}, nil
}

// GenerateEmbedding implements GeminiService. Input is truncated to a fixed
// prefix before the call to bound request size; the truncation point is
// deterministic so repeated runs embed identical text.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = truncateRunes(text, g.embedMaxChars)

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, errors.New("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxTokens,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", errors.New("no response generated")
	}

	text := resp.Text()
	if text == "" {
		g.logger.Warn("gemini returned no text content", zap.String("model", g.modelName))
		return "", errors.New("no text content in response")
	}

	return text, nil
}
