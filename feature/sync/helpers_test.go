package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"catalog-sync/core/metrics"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/courses"
	"catalog-sync/feature/hubdb"
	"catalog-sync/feature/hubdb/hubdbtest"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testTable = "114590372"

var testNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

// stubCatalog serves a fixed catalog.
type stubCatalog struct {
	courses []catalog.Course
	err     error
	calls   int
}

func (s *stubCatalog) FetchAll(ctx context.Context) ([]catalog.Course, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]catalog.Course(nil), s.courses...), nil
}

// memRecorder keeps saved reports in memory.
type memRecorder struct {
	saved   []*Report
	saveErr error
	latest  *Report
}

func (m *memRecorder) Save(ctx context.Context, r *Report) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, r)
	return nil
}

func (m *memRecorder) Latest(ctx context.Context, mode Mode) (*Report, error) {
	return m.latest, nil
}

// memArchive records archived reports.
type memArchive struct {
	names []string
	err   error
}

func (m *memArchive) Archive(ctx context.Context, r *Report) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	name := string(r.Mode) + "/" + r.RunID.String() + ".json"
	m.names = append(m.names, name)
	return name, nil
}

func testCourses(keys ...string) []catalog.Course {
	out := make([]catalog.Course, 0, len(keys))
	for _, k := range keys {
		out = append(out, catalog.Course{URLKey: k, Name: "Course " + k})
	}
	return out
}

type fixture struct {
	srv     *hubdbtest.Server
	catalog *stubCatalog
	metrics *metrics.Metrics
	service *Service
}

type fixtureOption func(*Config, *hubdb.Config, *Dependencies)

func withCleanupTables(ids ...string) fixtureOption {
	return func(_ *Config, h *hubdb.Config, _ *Dependencies) { h.CleanupTableIDs = ids }
}

func withConfig(f func(*Config)) fixtureOption {
	return func(c *Config, _ *hubdb.Config, _ *Dependencies) { f(c) }
}

func withDeps(f func(*Dependencies)) fixtureOption {
	return func(_ *Config, _ *hubdb.Config, d *Dependencies) { f(d) }
}

func newFixture(t *testing.T, catalogCourses []catalog.Course, opts ...fixtureOption) *fixture {
	t.Helper()

	srv := hubdbtest.NewServer("token")
	t.Cleanup(srv.Close)
	srv.AddTable(testTable)

	cfg := Config{Lookup: "bulk", Prune: true, Publish: true, TimeoutMinutes: 1}
	hcfg := hubdb.Config{BaseURL: srv.URL, PrivateAppToken: "token", TableID: testTable}
	cat := &stubCatalog{courses: catalogCourses}
	m := metrics.New("test")
	deps := Dependencies{
		Catalog:     cat,
		Transformer: &courses.Transformer{Now: func() time.Time { return testNow }},
		Logger:      zap.NewNop(),
		Metrics:     m,
	}

	for _, opt := range opts {
		opt(&cfg, &hcfg, &deps)
	}

	client, err := hubdb.NewClient(hcfg, zap.NewNop())
	require.NoError(t, err)
	deps.HubDB = client

	svc := NewService(cfg, hcfg, deps)
	svc.now = func() time.Time { return testNow }

	return &fixture{srv: srv, catalog: cat, metrics: m, service: svc}
}

var errBoom = errors.New("boom")
