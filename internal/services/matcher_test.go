package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmanoj0905/Serverless-CV-Match/internal/models"
)

func TestCosineSimilarityIsSymmetric(t *testing.T) {
	a := []float32{0.3, -0.7, 0.2, 0.5}
	b := []float32{0.1, 0.9, -0.4, 0.2}

	assert.Equal(t, CosineSimilarity(a, b), CosineSimilarity(b, a))
}

func TestCosineSimilarityOfSelfIsOne(t *testing.T) {
	a := []float32{0.25, -1.5, 3.0, 0.75}

	assert.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-6)
}

func TestCosineSimilarityZeroVectorIsFinite(t *testing.T) {
	zero := []float32{0, 0, 0}
	b := []float32{1, 2, 3}

	sim := CosineSimilarity(zero, b)
	require.False(t, math.IsNaN(sim))
	require.False(t, math.IsInf(sim, 0))
	assert.Equal(t, 0.0, sim)

	sim = CosineSimilarity(zero, zero)
	require.False(t, math.IsNaN(sim))
	assert.Equal(t, 0.0, sim)
}

func TestCosineSimilarityMismatchedLengths(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{1, 0, 0, 0}

	assert.NotPanics(t, func() { CosineSimilarity(a, b) })
}

func TestRankCandidatesStableDescending(t *testing.T) {
	// Against query [1,0] the candidate similarity equals x/|v|. J1 and J3
	// share the exact same vector, so their scores tie and catalog order must
	// decide.
	query := []float32{1, 0}
	tied := []float32{0.9, float32(math.Sqrt(1 - 0.81))}

	candidates := []JobCandidate{
		{Job: models.JobPosting{JobID: "J1"}, Vector: tied},
		{Job: models.JobPosting{JobID: "J2"}, Vector: []float32{0.3, float32(math.Sqrt(1 - 0.09))}},
		{Job: models.JobPosting{JobID: "J3"}, Vector: tied},
		{Job: models.JobPosting{JobID: "J4"}, Vector: []float32{0.5, float32(math.Sqrt(1 - 0.25))}},
	}

	ranked := RankCandidates(query, candidates)
	require.Len(t, ranked, 4)

	var order []string
	for _, c := range ranked {
		order = append(order, c.Job.JobID)
	}
	assert.Equal(t, []string{"J1", "J3", "J4", "J2"}, order)

	assert.InDelta(t, 0.9, ranked[0].Score, 1e-6)
	assert.InDelta(t, 0.3, ranked[3].Score, 1e-6)
}

func TestRankCandidatesEmpty(t *testing.T) {
	ranked := RankCandidates([]float32{1, 0}, nil)
	assert.Empty(t, ranked)
}

func TestJobText(t *testing.T) {
	job := models.JobPosting{
		Title:       "Backend Engineer",
		Company:     "Acme",
		Description: "Build APIs.",
	}

	assert.Equal(t, "Backend Engineer at Acme. Build APIs.", JobText(job))
}
