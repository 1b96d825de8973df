package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jmanoj0905/Serverless-CV-Match/internal/models"
)

// PipelineService runs the full matching pipeline for every record of a
// bucket notification: extract resume text, embed it, rank the job catalog by
// cosine similarity, explain the top candidates, and write the report back to
// the object store.
type PipelineService interface {
	ProcessNotification(ctx context.Context, event *models.EventNotification) error
}

type pipelineService struct {
	storage       ObjectStorageService
	extractor     ExtractorService
	gemini        GeminiService
	explainer     ExplainerService
	resumesPrefix string
	resultsPrefix string
	topK          int
	concurrency   int
	logger        *zap.Logger
}

func NewPipelineService(
	storage ObjectStorageService,
	extractor ExtractorService,
	gemini GeminiService,
	explainer ExplainerService,
	resumesPrefix string,
	resultsPrefix string,
	topK int,
	concurrency int,
	logger *zap.Logger,
) PipelineService {
	if topK <= 0 {
		topK = 5
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	return &pipelineService{
		storage:       storage,
		extractor:     extractor,
		gemini:        gemini,
		explainer:     explainer,
		resumesPrefix: resumesPrefix,
		resultsPrefix: resultsPrefix,
		topK:          topK,
		concurrency:   concurrency,
		logger:        logger,
	}
}

// ProcessNotification implements PipelineService. Records are isolated from
// each other: a failure on one is logged and reported, but every record in
// the notification is still attempted. No retry happens here; redelivery is
// the notifier's job.
func (p *pipelineService) ProcessNotification(ctx context.Context, event *models.EventNotification) error {
	var errs []error

	for _, record := range event.Records {
		if err := p.processRecord(ctx, record.S3.Object.Key); err != nil {
			p.logger.Error("record processing failed",
				zap.String("key", record.S3.Object.Key),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("record %q: %w", record.S3.Object.Key, err))
		}
	}

	return errors.Join(errs...)
}

func (p *pipelineService) processRecord(ctx context.Context, rawKey string) error {
	// Notification keys arrive percent-encoded with '+' for spaces.
	key, err := url.QueryUnescape(rawKey)
	if err != nil {
		return fmt.Errorf("failed to decode object key: %w", err)
	}

	if !strings.HasPrefix(key, p.resumesPrefix) {
		p.logger.Debug("skipping object outside resume namespace", zap.String("key", key))
		return nil
	}

	p.logger.Info("processing resume", zap.String("key", key))

	resumeText, err := p.extractor.ExtractText(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to extract resume text: %w", err)
	}

	// No fallback here: similarity is meaningless without the resume
	// embedding, so this failure aborts the record.
	resumeVector, err := p.gemini.GenerateEmbedding(ctx, resumeText)
	if err != nil {
		return fmt.Errorf("failed to embed resume: %w", err)
	}

	jobs, err := p.storage.LoadJobCatalog(ctx)
	if err != nil {
		return err
	}

	candidates, err := p.embedCatalog(ctx, jobs)
	if err != nil {
		return err
	}

	ranked := RankCandidates(resumeVector, candidates)
	if len(ranked) > p.topK {
		ranked = ranked[:p.topK]
	}

	matches := p.explainAll(ctx, resumeText, ranked)

	resultKey := p.resultsPrefix + strings.TrimPrefix(key, p.resumesPrefix) + ".json"
	if err := p.storage.PutJSON(ctx, resultKey, models.MatchReport{Matches: matches}); err != nil {
		return fmt.Errorf("failed to write match report: %w", err)
	}

	p.logger.Info("match report written",
		zap.String("key", key),
		zap.String("result_key", resultKey),
		zap.Int("matches", len(matches)),
	)

	return nil
}

// embedCatalog computes a fresh embedding for every catalog entry with a
// bounded fan-out. A job whose embedding fails is skipped with a logged
// omission rather than scored as zero similarity; only a catalog where every
// embedding failed aborts the record.
func (p *pipelineService) embedCatalog(ctx context.Context, jobs []models.JobPosting) ([]JobCandidate, error) {
	vectors := make([][]float32, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			vector, err := p.gemini.GenerateEmbedding(gctx, JobText(job))
			if err != nil {
				p.logger.Warn("skipping job, embedding failed",
					zap.String("job_id", job.JobID),
					zap.Error(err),
				)
				return nil
			}
			vectors[i] = vector
			return nil
		})
	}
	_ = g.Wait()

	// Candidate order follows catalog order, which is what breaks
	// similarity ties downstream.
	candidates := make([]JobCandidate, 0, len(jobs))
	for i, job := range jobs {
		if vectors[i] == nil {
			continue
		}
		candidates = append(candidates, JobCandidate{Job: job, Vector: vectors[i]})
	}

	if len(jobs) > 0 && len(candidates) == 0 {
		return nil, errors.New("failed to embed every job in the catalog")
	}

	return candidates, nil
}

// explainAll generates explanations for the ranked candidates with the same
// bounded fan-out. Results are placed by rank index, so the report preserves
// ranking order no matter which explanation finishes first. Explain is total,
// so there are no per-task failures to collect.
func (p *pipelineService) explainAll(ctx context.Context, resumeText string, ranked []models.ScoredCandidate) []models.MatchResult {
	results := make([]models.MatchResult, len(ranked))

	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)

	for i, candidate := range ranked {
		g.Go(func() error {
			explanation := p.explainer.Explain(ctx, resumeText, candidate.Job)
			results[i] = models.MatchResult{
				JobID:     candidate.Job.JobID,
				Title:     candidate.Job.Title,
				Company:   candidate.Job.Company,
				Location:  candidate.Job.Location,
				Score:     candidate.Score,
				FitScore:  explanation.FitScore,
				Reasons:   explanation.Reasons,
				Strengths: explanation.Strengths,
				Gaps:      explanation.Gaps,
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
