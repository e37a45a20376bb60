package sync

import (
	"fmt"
	"strings"
	"time"

	"catalog-sync/core/reconcile"

	"github.com/google/uuid"
)

// Mode selects what a run does.
type Mode string

const (
	// ModeSync upserts the catalog, prunes stale rows and publishes.
	ModeSync Mode = "sync"
	// ModeCleanup deletes every row of the cleanup tables and publishes them.
	ModeCleanup Mode = "cleanup"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSync, ModeCleanup:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// Report is the outcome of one run.
type Report struct {
	RunID      uuid.UUID `json:"run_id"`
	Mode       Mode      `json:"mode"`
	TableID    string    `json:"table_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Aborted holds the reason a run stopped before reconciling, e.g. an empty catalog.
	Aborted string `json:"aborted,omitempty"`

	Result reconcile.RunResult `json:"result"`

	// Tables holds one result per table for cleanup runs.
	Tables []TableReport `json:"tables,omitempty"`
}

// TableReport is the result of one table in a multi-table run.
type TableReport struct {
	TableID string              `json:"table_id"`
	Skipped string              `json:"skipped,omitempty"`
	Result  reconcile.RunResult `json:"result"`
}

// SuccessRate returns the run success rate between 0 and 1.
func (r *Report) SuccessRate() float64 {
	rate, _ := r.Result.SuccessRate()
	return rate
}

// merge folds the result of one table into the run totals.
func merge(total *reconcile.RunResult, part reconcile.RunResult) {
	if total.TargetBefore < 0 || part.TargetBefore < 0 {
		total.TargetBefore = -1
	} else {
		total.TargetBefore += part.TargetBefore
	}
	total.TotalSeen += part.TotalSeen
	total.Created += part.Created
	total.Updated += part.Updated
	total.Deleted += part.Deleted
	total.DeleteCandidates += part.DeleteCandidates
	total.Failed += part.Failed
	total.Duration += part.Duration

	if part.PublishError != "" {
		total.PublishError = strings.TrimPrefix(total.PublishError+"; "+part.PublishError, "; ")
	}
	total.Published = total.PublishError == "" && (total.Published || part.Published)
}
