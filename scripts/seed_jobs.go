package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/jmanoj0905/Serverless-CV-Match/internal/config"
	"github.com/jmanoj0905/Serverless-CV-Match/internal/models"
	"github.com/jmanoj0905/Serverless-CV-Match/internal/services"
)

// Uploads a job catalog to the match bucket.
//
// Usage: go run ./scripts <path-to-jobs.json>
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: seed_jobs <path-to-jobs.json>")
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read catalog file: %v", err)
	}

	var jobs []models.JobPosting
	if err := json.Unmarshal(data, &jobs); err != nil {
		log.Fatalf("Catalog is not a valid job array: %v", err)
	}
	for i, job := range jobs {
		if job.JobID == "" || job.Title == "" || job.Company == "" || job.Description == "" {
			log.Fatalf("Job at index %d is missing a required field", i)
		}
	}

	cfg := config.Load()

	storage, err := services.NewObjectStorageService(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	ctx := context.Background()
	if err := storage.EnsureBucket(ctx); err != nil {
		log.Fatalf("Failed to ensure bucket: %v", err)
	}

	if err := storage.PutJSON(ctx, cfg.Storage.JobsKey, jobs); err != nil {
		log.Fatalf("Failed to upload catalog: %v", err)
	}

	log.Printf("Uploaded %d jobs to %s/%s", len(jobs), cfg.Storage.Bucket, cfg.Storage.JobsKey)
}
