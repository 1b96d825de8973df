package models

// JobPosting is one entry of the job catalog stored as a JSON array in the
// object store. JobID is unique within the catalog.
type JobPosting struct {
	JobID       string   `json:"job_id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Description string   `json:"description"`
	Location    string   `json:"location,omitempty"`
	Type        string   `json:"type,omitempty"`
	Skills      []string `json:"skills,omitempty"`
}
