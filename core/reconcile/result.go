package reconcile

import (
	"fmt"
	"time"
)

// RunResult is the aggregate outcome of one applied plan.
// It is built once by ApplyPlan and only read afterwards.
type RunResult struct {
	// TotalSeen is the number of source items processed by the upsert pass.
	TotalSeen int `json:"total_seen"`

	// TargetBefore is the row count listed before any mutation, or -1 when unknown.
	TargetBefore int `json:"target_before"`

	// Created counts rows successfully created.
	Created int `json:"created"`

	// Updated counts rows successfully updated.
	Updated int `json:"updated"`

	// Deleted counts rows successfully deleted.
	Deleted int `json:"deleted"`

	// DeleteCandidates counts rows the delete pass attempted to remove.
	DeleteCandidates int `json:"delete_candidates"`

	// Failed counts every per-item failure across both passes.
	Failed int `json:"failed"`

	// Published is true when the final publish succeeded.
	Published bool `json:"published"`

	// PublishError holds the publish failure, if any.
	PublishError string `json:"publish_error,omitempty"`

	// DryRun is true when counts describe planned rather than applied operations.
	DryRun bool `json:"dry_run"`

	// Duration is the wall-clock time spent applying the plan.
	Duration time.Duration `json:"duration"`
}

// SuccessCount is the number of successful create, update and delete operations.
func (r RunResult) SuccessCount() int {
	return r.Created + r.Updated + r.Deleted
}

// TotalOperations is the number of source items plus the delete candidates.
func (r RunResult) TotalOperations() int {
	return r.TotalSeen + r.DeleteCandidates
}

// SuccessRate returns SuccessCount / TotalOperations.
// With no operations at all the table was already in sync with an empty source;
// the rate is then reported as 1 and defined is false.
func (r RunResult) SuccessRate() (rate float64, defined bool) {
	total := r.TotalOperations()
	if total == 0 {
		return 1, false
	}
	return float64(r.SuccessCount()) / float64(total), true
}

// TargetAfter estimates the row count after the run, or -1 when TargetBefore is unknown.
func (r RunResult) TargetAfter() int {
	if r.TargetBefore < 0 {
		return -1
	}
	return r.TargetBefore + r.Created - r.Deleted
}

// FormatRate renders the success rate as a percentage with one decimal.
func (r RunResult) FormatRate() string {
	rate, _ := r.SuccessRate()
	return fmt.Sprintf("%.1f%%", rate*100)
}

// Field is one entry of the run summary.
type Field struct {
	Key   string
	Value string
}

// Fields returns the run summary as ordered key/value pairs.
func (r RunResult) Fields() []Field {
	fields := []Field{
		{Key: "source_items", Value: fmt.Sprint(r.TotalSeen)},
		{Key: "rows_before", Value: formatCount(r.TargetBefore)},
		{Key: "created", Value: fmt.Sprint(r.Created)},
		{Key: "updated", Value: fmt.Sprint(r.Updated)},
		{Key: "deleted", Value: fmt.Sprint(r.Deleted)},
		{Key: "failed", Value: fmt.Sprint(r.Failed)},
		{Key: "rows_after", Value: formatCount(r.TargetAfter())},
		{Key: "success_rate", Value: r.FormatRate()},
		{Key: "duration", Value: fmt.Sprintf("%.2fs", r.Duration.Seconds())},
	}
	if r.DryRun {
		fields = append(fields, Field{Key: "dry_run", Value: "true"})
	}
	return fields
}

func formatCount(n int) string {
	if n < 0 {
		return "unknown"
	}
	return fmt.Sprint(n)
}
