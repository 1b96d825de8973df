package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/jmanoj0905/Serverless-CV-Match/internal/models"
)

// cosineEpsilon keeps the similarity finite when either vector is all-zero.
const cosineEpsilon = 1e-9

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]. Vectors of different lengths are compared over the shorter
// prefix, matching a plain zip of the two sequences.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, magA, magB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, x := range a {
		magA += float64(x) * float64(x)
	}
	for _, y := range b {
		magB += float64(y) * float64(y)
	}

	return dot / (math.Sqrt(magA)*math.Sqrt(magB) + cosineEpsilon)
}

// JobCandidate is a catalog entry with its freshly computed embedding.
type JobCandidate struct {
	Job    models.JobPosting
	Vector []float32
}

// RankCandidates orders candidates by descending similarity to the query
// vector. The sort is stable, so ties keep their catalog order. Truncation to
// a top-K is the caller's policy.
func RankCandidates(query []float32, candidates []JobCandidate) []models.ScoredCandidate {
	scored := make([]models.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, models.ScoredCandidate{
			Job:   c.Job,
			Score: CosineSimilarity(query, c.Vector),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

// JobText builds the composite text a job is embedded from. Resumes and jobs
// go through the same embedding model, so this fixes the job side of the
// shared vector space.
func JobText(job models.JobPosting) string {
	return fmt.Sprintf("%s at %s. %s", job.Title, job.Company, job.Description)
}
