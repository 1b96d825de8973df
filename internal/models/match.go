package models

// ScoredCandidate pairs a job posting with its cosine similarity against the
// resume embedding. Score is in [-1, 1].
type ScoredCandidate struct {
	Job   JobPosting
	Score float64
}

// Explanation is the normalized verdict produced by the LLM for one
// resume/job pair. FitScore is always within [0, 100]; Strengths and Gaps
// are never nil.
type Explanation struct {
	Reasons   string   `json:"reasons"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
	FitScore  int      `json:"fit_score"`
}

// MatchResult is one ranked entry of the final report.
type MatchResult struct {
	JobID     string   `json:"job_id"`
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	Location  string   `json:"location"`
	Score     float64  `json:"score"`
	FitScore  int      `json:"fit_score"`
	Reasons   string   `json:"reasons"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
}

// MatchReport is the result document written back to the object store,
// one per processed resume. Matches preserve ranking order.
type MatchReport struct {
	Matches []MatchResult `json:"matches"`
}
