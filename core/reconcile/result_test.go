package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunResult_SuccessRate(t *testing.T) {
	tests := []struct {
		name        string
		result      RunResult
		wantRate    float64
		wantDefined bool
		wantText    string
	}{
		{
			name:        "AllSucceeded",
			result:      RunResult{TotalSeen: 4, Created: 2, Updated: 2},
			wantRate:    1,
			wantDefined: true,
			wantText:    "100.0%",
		},
		{
			name:        "WithDeletes",
			result:      RunResult{TotalSeen: 3, DeleteCandidates: 1, Created: 1, Updated: 1, Deleted: 1, Failed: 1},
			wantRate:    0.75,
			wantDefined: true,
			wantText:    "75.0%",
		},
		{
			name:        "NothingToDo",
			result:      RunResult{},
			wantRate:    1,
			wantDefined: false,
			wantText:    "100.0%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, defined := tt.result.SuccessRate()
			assert.InDelta(t, tt.wantRate, rate, 1e-9)
			assert.Equal(t, tt.wantDefined, defined)
			assert.Equal(t, tt.wantText, tt.result.FormatRate())
		})
	}
}

func TestRunResult_Counts(t *testing.T) {
	r := RunResult{TotalSeen: 10, TargetBefore: 8, Created: 3, Updated: 6, Deleted: 1, DeleteCandidates: 2, Failed: 2}

	assert.Equal(t, 10, r.SuccessCount())
	assert.Equal(t, 12, r.TotalOperations())
	assert.Equal(t, 10, r.TargetAfter())

	unknown := RunResult{TargetBefore: -1, Created: 2}
	assert.Equal(t, -1, unknown.TargetAfter())
}

func TestRunResult_Fields(t *testing.T) {
	r := RunResult{TotalSeen: 2, TargetBefore: -1, Created: 2, Duration: 1500 * time.Millisecond}

	fields := r.Fields()
	got := make(map[string]string, len(fields))
	for _, f := range fields {
		got[f.Key] = f.Value
	}

	assert.Equal(t, "source_items", fields[0].Key)
	assert.Equal(t, "2", got["created"])
	assert.Equal(t, "unknown", got["rows_before"])
	assert.Equal(t, "unknown", got["rows_after"])
	assert.Equal(t, "100.0%", got["success_rate"])
	assert.Equal(t, "1.50s", got["duration"])
	_, hasDryRun := got["dry_run"]
	assert.False(t, hasDryRun)

	r.DryRun = true
	assert.Equal(t, "dry_run", r.Fields()[len(r.Fields())-1].Key)
}
