package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func coursesPage(start, n int) []map[string]any {
	items := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, map[string]any{
			"url_key": fmt.Sprintf("course-%d", start+i),
			"name":    fmt.Sprintf("Course %d", start+i),
		})
	}
	return items
}

// pagedServer serves the given page sizes in order; pages past the list are empty.
func pagedServer(t *testing.T, pageSize int, sizes []int, hits *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "0", r.URL.Query().Get("featured-only"))
		assert.Equal(t, strconv.Itoa(pageSize), r.URL.Query().Get("page_size"))

		pageNum, err := strconv.Atoi(r.URL.Query().Get("page"))
		assert.NoError(t, err)

		var items []map[string]any
		if pageNum <= len(sizes) {
			items = coursesPage((pageNum-1)*pageSize, sizes[pageNum-1])
		} else {
			items = []map[string]any{}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "total_count": 0})
	}))
}

func newTestClient(t *testing.T, url string, pageSize int) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: url, PageSize: pageSize, MaxPages: 50}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestFetchAll_StopsOnShortPage(t *testing.T) {
	var hits int32
	srv := pagedServer(t, 20, []int{20, 20, 7}, &hits)
	defer srv.Close()

	courses, err := newTestClient(t, srv.URL, 20).FetchAll(context.Background())

	require.NoError(t, err)
	assert.Len(t, courses, 47)
	assert.Equal(t, "course-0", courses[0].URLKey)
	assert.Equal(t, "course-46", courses[46].URLKey)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestFetchAll_StopsOnEmptyPage(t *testing.T) {
	var hits int32
	srv := pagedServer(t, 20, []int{20, 20}, &hits)
	defer srv.Close()

	courses, err := newTestClient(t, srv.URL, 20).FetchAll(context.Background())

	require.NoError(t, err)
	assert.Len(t, courses, 40)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestFetchAll_EmptyCatalog(t *testing.T) {
	var hits int32
	srv := pagedServer(t, 20, nil, &hits)
	defer srv.Close()

	courses, err := newTestClient(t, srv.URL, 20).FetchAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, courses)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetchAll_KeepsDuplicateKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"url_key":"a","name":"A"},{"url_key":"a","name":"A again"}]}`))
	}))
	defer srv.Close()

	courses, err := newTestClient(t, srv.URL, 20).FetchAll(context.Background())

	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "A again", courses[1].Name)
}

func TestFetchAll_UpstreamFailureFailsWholeFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": coursesPage(0, 2)})
	}))
	defer srv.Close()

	courses, err := newTestClient(t, srv.URL, 2).FetchAll(context.Background())

	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Nil(t, courses)
}

func TestFetchAll_MalformedPage(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"items": [`},
		{"missing items", `{"total_count": 3}`},
		{"null items", `{"items": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv.URL, 20).FetchAll(context.Background())
			assert.ErrorIs(t, err, ErrMalformedPage)
		})
	}
}

func TestFetchAll_MaxPagesGuard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"items": coursesPage(0, 1)})
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, PageSize: 1, MaxPages: 3}, zap.NewNop())
	require.NoError(t, err)

	_, err = c.FetchAll(context.Background())
	assert.ErrorIs(t, err, ErrMalformedPage)
}

func TestCourse_DecodesAttributeBag(t *testing.T) {
	raw := `{
		"url_key": "intro-tax",
		"name": "Intro to Tax",
		"vendor": {"id": 12, "name": "Acme", "logo_src": "logo.png", "link": "https://acme.test"},
		"prices_unformatted": {"price": 49.5},
		"attributes": [
			{"code": "lcv_level", "option_value": "Basic"},
			{"code": "lcv_fields_of_study_value", "option_value": ["Tax", "Ethics"]},
			{"code": "lcv_level", "option_value": "Advanced"}
		]
	}`

	var c Course
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	level, ok := c.Attribute(AttrLevel)
	assert.True(t, ok)
	assert.Equal(t, "Basic", level)

	fields, ok := c.Attribute(AttrFieldsOfStudy)
	assert.True(t, ok)
	assert.Equal(t, []any{"Tax", "Ethics"}, fields)

	_, ok = c.Attribute(AttrLength)
	assert.False(t, ok)

	assert.Equal(t, "Acme", c.VendorName())
	assert.Equal(t, float64(12), c.Vendor.ID)
	assert.Equal(t, 49.5, c.Prices.Price)
	assert.Equal(t, "", Course{}.VendorName())
}
