package dto

import "time"

// FilterCriterion is one user-authored screening condition.
type FilterCriterion struct {
	ID            int           `json:"id" yaml:"id"`
	IndicatorType IndicatorType `json:"indicatorType" yaml:"indicatorType"`
	Operator      Operator      `json:"operator" yaml:"operator"`
	Threshold     float64       `json:"threshold" yaml:"threshold"`
	MaxThreshold  *float64      `json:"maxThreshold,omitempty" yaml:"maxThreshold"`
	Enabled       bool          `json:"enabled" yaml:"enabled"`
}

// Bounds returns the inclusive range of a between criterion regardless of the order the
// thresholds were entered in. A missing maxThreshold collapses the range to Threshold.
func (c FilterCriterion) Bounds() (lower, upper float64) {
	lower, upper = c.Threshold, c.Threshold
	if c.MaxThreshold != nil {
		upper = *c.MaxThreshold
	}
	if lower > upper {
		lower, upper = upper, lower
	}
	return lower, upper
}

// EnabledCount returns how many criteria take part in evaluation.
func EnabledCount(criteria []FilterCriterion) int {
	n := 0
	for _, c := range criteria {
		if c.Enabled {
			n++
		}
	}
	return n
}

type ScreenRequest struct {
	Criteria []FilterCriterion `json:"criteria" yaml:"criteria" validate:"max=100"`
	// Universe is optional; the stored universe is screened when it is empty.
	Universe []Stock           `json:"universe,omitempty" yaml:"universe" validate:"omitempty,dive"`
}

type ScreenResult struct {
	RunID        string            `json:"run_id"`
	Criteria     []FilterCriterion `json:"criteria"`
	UniverseSize int               `json:"universe_size"`
	MatchedCount int               `json:"matched_count"`
	Stocks       []Stock           `json:"stocks"`
	ScreenedAt   time.Time         `json:"screened_at"`
	Warnings     []string          `json:"warnings,omitempty"`
}

type Preset struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Criteria    []FilterCriterion `json:"criteria"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type UpsertPresetRequest struct {
	Name        string            `json:"name" validate:"required,max=100"`
	Description string            `json:"description" validate:"max=500"`
	Criteria    []FilterCriterion `json:"criteria" validate:"max=100"`
}
