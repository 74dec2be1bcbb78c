package dto

// SyncReport summarizes a price sync run.
type SyncReport struct {
	Total  int               `json:"total"`
	Synced int               `json:"synced"`
	Failed map[string]string `json:"failed,omitempty"`
}

// RefreshReport summarizes an indicator refresh run. Partial lists stocks whose history was too
// short for some indicators.
type RefreshReport struct {
	Total     int               `json:"total"`
	Refreshed int               `json:"refreshed"`
	Partial   []string          `json:"partial,omitempty"`
	Failed    map[string]string `json:"failed,omitempty"`
}

// RunJobRequest selects one job to start. A zero JobID starts every due schedule instead.
type RunJobRequest struct {
	JobID uint `json:"job_id"`
}
