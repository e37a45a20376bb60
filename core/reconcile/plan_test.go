package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanSync_ListFailureIsFatal(t *testing.T) {
	store := newMemStore()
	store.listErr = errors.New("connection reset")
	spec := &Spec{Adapter: &testAdapter{}, Store: store}

	plan, err := PlanSync(context.Background(), spec, items("a"), fullSync())
	assert.Error(t, err)
	assert.Nil(t, plan)
	assert.ErrorIs(t, err, store.listErr)
	assert.Empty(t, store.creates)
}

func TestPlanSync_PointLookupWithoutPruneSkipsListing(t *testing.T) {
	store := newMemStore(TargetRow{ID: "1", Key: "a"})
	spec := &Spec{Adapter: &testAdapter{}, Store: store}

	plan, err := PlanSync(context.Background(), spec, items("a", "b"), Options{Lookup: LookupPoint})
	require.NoError(t, err)

	assert.Equal(t, 0, store.listCalls)
	assert.Equal(t, 2, store.findCalls)
	assert.Equal(t, -1, plan.TargetBefore)
	assert.Equal(t, 1, plan.Summary.Updates)
	assert.Equal(t, 1, plan.Summary.Creates)
}

func TestPlanSync_PointLookupWithPruneListsOnce(t *testing.T) {
	store := newMemStore(TargetRow{ID: "1", Key: "a"}, TargetRow{ID: "2", Key: "z"})
	spec := &Spec{Adapter: &testAdapter{}, Store: store}

	plan, err := PlanSync(context.Background(), spec, items("a"), Options{Lookup: LookupPoint, Prune: true})
	require.NoError(t, err)

	assert.Equal(t, 1, store.listCalls)
	assert.Equal(t, 1, store.findCalls)
	assert.Equal(t, 2, plan.TargetBefore)
	assert.Equal(t, 1, plan.Summary.Deletes)
}

func TestPlanSync_BulkLookupNeverQueriesRows(t *testing.T) {
	store := newMemStore(TargetRow{ID: "1", Key: "a"})
	spec := &Spec{Adapter: &testAdapter{}, Store: store}

	_, err := PlanSync(context.Background(), spec, items("a", "b", "c"), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, store.listCalls)
	assert.Equal(t, 0, store.findCalls)
}

func TestPlanSync_PointLookupFailureBecomesSkip(t *testing.T) {
	store := newMemStore()
	store.findErr = map[string]error{"b": errors.New("timeout")}
	spec := &Spec{Adapter: &testAdapter{}, Store: store}

	plan, err := PlanSync(context.Background(), spec, items("a", "b", "c"), Options{Lookup: LookupPoint, Publish: true})
	require.NoError(t, err)

	assert.Equal(t, 1, plan.Summary.Skips)
	assert.Equal(t, 2, plan.Summary.Creates)
	assert.Equal(t, ActionSkip, plan.Actions[1].Type)
	assert.ErrorIs(t, plan.Actions[1].Err, store.findErr["b"])

	result := ApplyPlan(context.Background(), spec, plan, Options{Lookup: LookupPoint, Publish: true}, nil)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, store.publishCalls)
}

func TestPlanSync_EmptyKeyIsSkipped(t *testing.T) {
	store := newMemStore()
	spec := &Spec{Adapter: &testAdapter{}, Store: store}

	plan, err := PlanSync(context.Background(), spec, []SourceItem{testItem{key: "", name: "Nameless"}}, fullSync())
	require.NoError(t, err)

	require.Len(t, plan.Actions, 1)
	assert.Equal(t, ActionSkip, plan.Actions[0].Type)
	assert.ErrorIs(t, plan.Actions[0].Err, ErrEmptyKey)
}

func TestPlanSync_ActionOrder(t *testing.T) {
	store := newMemStore(
		TargetRow{ID: "1", Key: "s1", Name: "Stale one"},
		TargetRow{ID: "2", Key: "b"},
		TargetRow{ID: "3", Key: "s2"},
	)
	spec := &Spec{Adapter: &testAdapter{}, Store: store}

	plan, err := PlanSync(context.Background(), spec, items("a", "b"), fullSync())
	require.NoError(t, err)

	var got []string
	for _, a := range plan.Actions {
		got = append(got, string(a.Type)+":"+a.Key)
	}
	assert.Equal(t, []string{"create:a", "update:b", "delete:s1", "delete:s2"}, got)
	assert.Equal(t, "Stale one", plan.Actions[2].Name)
	assert.Equal(t, "1", plan.Actions[2].RowID)
	assert.Equal(t, 3, plan.TargetBefore)
}

func TestPlanSync_InvalidInput(t *testing.T) {
	_, err := PlanSync(context.Background(), &Spec{}, nil, Options{})
	assert.Error(t, err)

	_, err = PlanSync(context.Background(), &Spec{Adapter: &testAdapter{}}, nil, Options{})
	assert.Error(t, err)

	spec := &Spec{Adapter: &testAdapter{}, Store: newMemStore()}
	_, err = PlanSync(context.Background(), spec, nil, Options{Lookup: "sideways"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
}
