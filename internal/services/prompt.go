package services

import (
	"fmt"
	"strings"

	"github.com/jmanoj0905/Serverless-CV-Match/internal/models"
)

const (
	maxResumePromptChars = 4000
	maxJobPromptChars    = 2000
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildMatchPrompt creates the prompt for one resume/job fit assessment. The
// resume and job description are cut to fixed prefixes so prompt size stays
// bounded regardless of input.
func (pb *PromptBuilder) BuildMatchPrompt(resumeText string, job models.JobPosting) string {
	return fmt.Sprintf(`You are a hiring assistant. Given RESUME and JOB:

RESUME:
%s

JOB:
Title: %s
Company: %s
Location: %s
Type: %s
Description: %s
Skills: %s

1) Give a concise match analysis (3-4 sentences).
2) List 5 strongest aligned skills/experiences (short bullets).
3) List 3-5 gaps (short bullets).
4) Provide a Fit Score (0-100) with one line reasoning.

Return strict JSON with keys: reasons (string), strengths (array), gaps (array), fit_score (int).`,
		truncateRunes(resumeText, maxResumePromptChars),
		job.Title,
		job.Company,
		job.Location,
		job.Type,
		truncateRunes(job.Description, maxJobPromptChars),
		strings.Join(job.Skills, ", "),
	)
}

// truncateRunes returns a deterministic prefix of s at most n runes long.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
