package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-sync/core/reconcile"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RunRecord is one row of the run history table.
type RunRecord struct {
	ID               uint      `gorm:"primaryKey"`
	RunID            string    `gorm:"column:run_id;size:36;uniqueIndex"`
	Mode             string    `gorm:"column:mode;size:16;index"`
	TableID          string    `gorm:"column:table_id;size:255"`
	StartedAt        time.Time `gorm:"column:started_at;index"`
	FinishedAt       time.Time `gorm:"column:finished_at"`
	Aborted          string    `gorm:"column:aborted;size:255"`
	DryRun           bool      `gorm:"column:dry_run"`
	SourceItems      int       `gorm:"column:source_items"`
	RowsBefore       int       `gorm:"column:rows_before"`
	Created          int       `gorm:"column:created"`
	Updated          int       `gorm:"column:updated"`
	Deleted          int       `gorm:"column:deleted"`
	DeleteCandidates int       `gorm:"column:delete_candidates"`
	Failed           int       `gorm:"column:failed"`
	SuccessRate      float64   `gorm:"column:success_rate"`
	Published        bool      `gorm:"column:published"`
	PublishError     string    `gorm:"column:publish_error;size:1024"`
	DurationMs       int64     `gorm:"column:duration_ms"`
}

// TableName sets the table name for GORM.
func (RunRecord) TableName() string {
	return "sync_runs"
}

// HistoryStore keeps the run history in MySQL.
type HistoryStore struct {
	db *gorm.DB
}

// NewHistoryStore creates a history store on an open connection.
func NewHistoryStore(db *gorm.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Migrate creates or updates the history table.
func (h *HistoryStore) Migrate() error {
	if err := h.db.AutoMigrate(&RunRecord{}); err != nil {
		return fmt.Errorf("failed to migrate run history: %w", err)
	}
	return nil
}

// Save inserts the report.
func (h *HistoryStore) Save(ctx context.Context, report *Report) error {
	rec := toRecord(report)
	if err := h.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to save run %s: %w", report.RunID, err)
	}
	return nil
}

// Latest returns the most recent run of the mode, or nil when none was recorded.
func (h *HistoryStore) Latest(ctx context.Context, mode Mode) (*Report, error) {
	var rec RunRecord
	err := h.db.WithContext(ctx).
		Where("mode = ?", string(mode)).
		Order("started_at DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run history: %w", err)
	}
	return rec.toReport(), nil
}

func toRecord(r *Report) RunRecord {
	res := r.Result
	return RunRecord{
		RunID:            r.RunID.String(),
		Mode:             string(r.Mode),
		TableID:          r.TableID,
		StartedAt:        r.StartedAt,
		FinishedAt:       r.FinishedAt,
		Aborted:          r.Aborted,
		DryRun:           res.DryRun,
		SourceItems:      res.TotalSeen,
		RowsBefore:       res.TargetBefore,
		Created:          res.Created,
		Updated:          res.Updated,
		Deleted:          res.Deleted,
		DeleteCandidates: res.DeleteCandidates,
		Failed:           res.Failed,
		SuccessRate:      r.SuccessRate(),
		Published:        res.Published,
		PublishError:     res.PublishError,
		DurationMs:       res.Duration.Milliseconds(),
	}
}

func (rec RunRecord) toReport() *Report {
	id, _ := uuid.Parse(rec.RunID)
	return &Report{
		RunID:      id,
		Mode:       Mode(rec.Mode),
		TableID:    rec.TableID,
		StartedAt:  rec.StartedAt,
		FinishedAt: rec.FinishedAt,
		Aborted:    rec.Aborted,
		Result: reconcile.RunResult{
			TotalSeen:        rec.SourceItems,
			TargetBefore:     rec.RowsBefore,
			Created:          rec.Created,
			Updated:          rec.Updated,
			Deleted:          rec.Deleted,
			DeleteCandidates: rec.DeleteCandidates,
			Failed:           rec.Failed,
			Published:        rec.Published,
			PublishError:     rec.PublishError,
			DryRun:           rec.DryRun,
			Duration:         time.Duration(rec.DurationMs) * time.Millisecond,
		},
	}
}
