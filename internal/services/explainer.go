package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jmanoj0905/Serverless-CV-Match/internal/models"
)

const (
	defaultFitScore      = 50
	maxRawReasonsChars   = 800
	explainerMaxTokens   = 450
	explainerTemperature = 0
)

// ExplainerService turns a resume/job pair into a structured verdict. The
// contract is total: Explain always returns a valid Explanation, whatever
// the model sends back.
type ExplainerService interface {
	Explain(ctx context.Context, resumeText string, job models.JobPosting) models.Explanation
}

type explainerService struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	logger        *zap.Logger
}

func NewExplainerService(gemini GeminiService, logger *zap.Logger) ExplainerService {
	return &explainerService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		logger:        logger,
	}
}

// Explain implements ExplainerService. Generation runs at temperature zero
// with a bounded output length; the raw completion is never trusted to be
// well-formed JSON.
func (e *explainerService) Explain(ctx context.Context, resumeText string, job models.JobPosting) models.Explanation {
	prompt := e.promptBuilder.BuildMatchPrompt(resumeText, job)

	raw, err := e.gemini.GenerateText(ctx, prompt, explainerTemperature, explainerMaxTokens)
	if err != nil {
		e.logger.Warn("explanation generation failed",
			zap.String("job_id", job.JobID),
			zap.Error(err),
		)
		return degradedVerdict("")
	}

	verdict, ok := decodeVerdict(raw)
	if !ok {
		e.logger.Debug("explanation response was not valid JSON, degraded verdict used",
			zap.String("job_id", job.JobID),
		)
	}

	return verdict
}

// decodeVerdict parses a model completion into an Explanation. The second
// return value reports whether the completion was well-formed; on any parse
// failure a degraded verdict carrying a bounded prefix of the raw text is
// returned instead. It never panics and never returns an invalid verdict.
func decodeVerdict(raw string) (models.Explanation, bool) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return degradedVerdict(raw), false
	}

	return models.Explanation{
		Reasons:   coerceString(data["reasons"]),
		Strengths: coerceStringList(data["strengths"]),
		Gaps:      coerceStringList(data["gaps"]),
		FitScore:  coerceFitScore(data["fit_score"]),
	}, true
}

func degradedVerdict(raw string) models.Explanation {
	return models.Explanation{
		Reasons:   truncateRunes(raw, maxRawReasonsChars),
		Strengths: []string{},
		Gaps:      []string{},
		FitScore:  defaultFitScore,
	}
}

// extractJSON strips markdown fences and isolates the outermost JSON object,
// since models routinely wrap their JSON in prose or code blocks.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}

func coerceString(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

func coerceStringList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// coerceFitScore accepts a number or a numeric string, defaults to 50 for
// anything else, and clamps the result into [0, 100].
func coerceFitScore(v interface{}) int {
	score := defaultFitScore

	switch val := v.(type) {
	case float64:
		score = int(val)
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			score = int(parsed)
		}
	case json.Number:
		if parsed, err := val.Float64(); err == nil {
			score = int(parsed)
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
