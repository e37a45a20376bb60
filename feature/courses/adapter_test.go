package courses

import (
	"testing"
	"time"

	"catalog-sync/feature/catalog"
	"catalog-sync/feature/hubdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter(t *testing.T) {
	a := NewAdapter(&Transformer{Now: func() time.Time { return fixedNow }})
	course := catalog.Course{URLKey: "k", Name: "Course K"}

	assert.Equal(t, "courses", a.Name())
	assert.Equal(t, "k", a.SourceKey(course))
	assert.Equal(t, "k", a.SourceKey(&course))
	assert.Equal(t, "Course K", a.SourceName(course))
	assert.Equal(t, "k", a.SourceName(catalog.Course{URLKey: "k"}))

	payload, err := a.Transform(course)
	require.NoError(t, err)
	row, ok := payload.(hubdb.RowInput)
	require.True(t, ok)
	assert.Equal(t, "k", row.Values[hubdb.KeyColumn])
}

func TestAdapter_RejectsForeignItems(t *testing.T) {
	a := NewAdapter(nil)

	assert.Equal(t, "", a.SourceKey("not a course"))
	assert.Equal(t, "", a.SourceName(42))

	_, err := a.Transform("not a course")
	assert.Error(t, err)
}

func TestItems_PreservesOrder(t *testing.T) {
	items := Items([]catalog.Course{{URLKey: "b"}, {URLKey: "a"}})

	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].(catalog.Course).URLKey)
	assert.Equal(t, "a", items[1].(catalog.Course).URLKey)
}
