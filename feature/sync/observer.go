package sync

import (
	"fmt"

	"catalog-sync/core/metrics"
	"catalog-sync/core/reconcile"

	"go.uber.org/zap"
)

// progress logs every applied action and counts it in the metrics.
type progress struct {
	mode    Mode
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func (p *progress) OnEvent(e reconcile.Event) {
	a := e.Action
	p.metrics.ObserveOperation(string(p.mode), a.Type, e.Err)

	fields := []zap.Field{
		zap.String("progress", fmt.Sprintf("%d/%d", e.Index, e.Total)),
		zap.String("action", string(a.Type)),
		zap.String("key", a.Key),
		zap.String("name", a.Name),
	}
	if a.RowID != "" {
		fields = append(fields, zap.String("row_id", a.RowID))
	}

	if e.Err != nil {
		p.logger.Error("Operation failed", append(fields, zap.Error(e.Err))...)
		return
	}

	switch a.Type {
	case reconcile.ActionCreate:
		p.logger.Info("Created", fields...)
	case reconcile.ActionUpdate:
		p.logger.Info("Updated", fields...)
	case reconcile.ActionDelete:
		p.logger.Info("Deleted", fields...)
	default:
		p.logger.Warn("Skipped", append(fields, zap.String("reason", a.Reason))...)
	}
}

// summaryFields renders the run summary as structured log fields.
func summaryFields(r *Report) []zap.Field {
	fields := []zap.Field{
		zap.String("run_id", r.RunID.String()),
		zap.String("mode", string(r.Mode)),
		zap.String("table_id", r.TableID),
	}
	for _, f := range r.Result.Fields() {
		fields = append(fields, zap.String(f.Key, f.Value))
	}
	if r.Result.PublishError != "" {
		fields = append(fields, zap.String("publish_error", r.Result.PublishError))
	}
	return fields
}
