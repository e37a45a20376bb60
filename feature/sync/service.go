package sync

import (
	"context"
	"fmt"
	"strings"
	stdsync "sync"
	"time"

	"catalog-sync/core/metrics"
	"catalog-sync/core/reconcile"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/courses"
	"catalog-sync/feature/hubdb"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CatalogReader reads the complete course catalog.
type CatalogReader interface {
	FetchAll(ctx context.Context) ([]catalog.Course, error)
}

// TableClient is the part of the HubDB client a run needs.
type TableClient interface {
	Ping(ctx context.Context) error
	GetTable(ctx context.Context, tableID string) (*hubdb.Table, error)
	Table(tableID string) *hubdb.TableStore
}

// Recorder persists finished runs.
type Recorder interface {
	Save(ctx context.Context, report *Report) error
	Latest(ctx context.Context, mode Mode) (*Report, error)
}

// ReportArchiver stores a copy of finished runs and returns the object name.
type ReportArchiver interface {
	Archive(ctx context.Context, report *Report) (string, error)
}

// Dependencies are the collaborators of a Service. History and Archive are optional.
type Dependencies struct {
	Catalog     CatalogReader
	HubDB       TableClient
	Transformer *courses.Transformer
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	History     Recorder
	Archive     ReportArchiver
}

// RunOptions tunes a single run.
type RunOptions struct {
	// DryRun plans and counts without writing to HubDB.
	DryRun bool
}

// Service coordinates sync and cleanup runs.
// Runs are serialized: HubDB has a single writer at any time.
type Service struct {
	cfg           Config
	tableID       string
	cleanupTables []string

	catalog CatalogReader
	hubdb   TableClient
	adapter *courses.Adapter
	logger  *zap.Logger
	metrics *metrics.Metrics
	history Recorder
	archive ReportArchiver

	group singleflight.Group
	runMu stdsync.Mutex

	mu   stdsync.RWMutex
	last map[Mode]*Report

	now func() time.Time
}

// NewService creates a run coordinator for the catalog table of tables.
func NewService(cfg Config, tables hubdb.Config, deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		cfg:           cfg,
		tableID:       tables.TableID,
		cleanupTables: tables.Tables(),
		catalog:       deps.Catalog,
		hubdb:         deps.HubDB,
		adapter:       courses.NewAdapter(deps.Transformer),
		logger:        logger,
		metrics:       deps.Metrics,
		history:       deps.History,
		archive:       deps.Archive,
		last:          make(map[Mode]*Report),
		now:           time.Now,
	}
}

// Run executes one run of the given mode.
//
// It returns an error only for fatal failures: a failed precondition, an unreadable
// catalog or an unlistable table. Per-row failures and publish failures are part of the
// returned report.
func (s *Service) Run(ctx context.Context, mode Mode, opts RunOptions) (*Report, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	report := &Report{
		RunID:     uuid.New(),
		Mode:      mode,
		StartedAt: s.now().UTC(),
		Result:    reconcile.RunResult{TargetBefore: -1, DryRun: opts.DryRun},
	}

	l := s.logger.With(zap.String("run_id", report.RunID.String()), zap.String("mode", string(mode)))
	if opts.DryRun {
		l = l.With(zap.Bool("dry_run", true))
	}
	l.Info("Run started")

	var err error
	switch mode {
	case ModeSync:
		report.TableID = s.tableID
		err = s.runSync(ctx, l, report, opts)
	case ModeCleanup:
		report.TableID = strings.Join(s.cleanupTables, ",")
		err = s.runCleanup(ctx, l, report, opts)
	default:
		err = fmt.Errorf("unknown mode %q", mode)
	}

	report.FinishedAt = s.now().UTC()

	if err != nil {
		s.metrics.ObserveRun(string(mode), nil, err, report.FinishedAt)
		l.Error("Run failed", zap.Error(err))
		return nil, err
	}

	if report.Aborted != "" {
		s.metrics.ObserveRun(string(mode), nil, nil, report.FinishedAt)
	} else {
		s.metrics.ObserveRun(string(mode), &report.Result, nil, report.FinishedAt)
		l.Info("Run complete", summaryFields(report)...)
	}

	s.remember(report)
	s.persist(ctx, l, report)
	return report, nil
}

// Trigger runs like Run but collapses concurrent triggers of the same mode into one run.
// shared is true when the caller received the report of a run started by another caller.
func (s *Service) Trigger(ctx context.Context, mode Mode, opts RunOptions) (report *Report, shared bool, err error) {
	key := string(mode)
	if opts.DryRun {
		key += ":dry-run"
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		return s.Run(ctx, mode, opts)
	})
	if err != nil {
		return nil, shared, err
	}
	return v.(*Report), shared, nil
}

// Last returns the latest finished run of the mode, falling back to the history store.
func (s *Service) Last(ctx context.Context, mode Mode) (*Report, error) {
	s.mu.RLock()
	r, ok := s.last[mode]
	s.mu.RUnlock()
	if ok {
		return r, nil
	}

	if s.history != nil {
		r, err := s.history.Latest(ctx, mode)
		if err != nil {
			return nil, err
		}
		if r != nil {
			return r, nil
		}
	}
	return nil, ErrNoReport
}

func (s *Service) runSync(ctx context.Context, l *zap.Logger, report *Report, opts RunOptions) error {
	if err := s.preflight(ctx, l); err != nil {
		return err
	}
	s.logSchema(ctx, l, s.tableID)

	list, err := s.catalog.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceFetch, err)
	}

	if len(list) == 0 && !s.cfg.AllowEmptyCatalog {
		l.Warn("No courses found, leaving the table untouched")
		report.Aborted = "empty catalog"
		return nil
	}

	l.Info("Starting sync", zap.Int("courses", len(list)), zap.String("table_id", s.tableID))

	spec := &reconcile.Spec{Adapter: s.adapter, Store: s.hubdb.Table(s.tableID)}
	ropts := reconcile.Options{
		Lookup:  s.cfg.LookupStrategy(),
		Prune:   s.cfg.Prune,
		Publish: s.cfg.Publish,
		DryRun:  opts.DryRun,
	}

	plan, err := reconcile.PlanSync(ctx, spec, courses.Items(list), ropts)
	if err != nil {
		return fmt.Errorf("failed to plan sync of table %s: %w", s.tableID, err)
	}

	if plan.TargetBefore >= 0 {
		l.Info("Found existing rows", zap.Int("rows", plan.TargetBefore))
	}
	l.Info("Planned operations",
		zap.Int("creates", plan.Summary.Creates),
		zap.Int("updates", plan.Summary.Updates),
		zap.Int("deletes", plan.Summary.Deletes),
		zap.Int("skips", plan.Summary.Skips))

	report.Result = reconcile.ApplyPlan(ctx, spec, plan, ropts, &progress{mode: ModeSync, logger: l, metrics: s.metrics})

	if s.cfg.Prune {
		if report.Result.Deleted > 0 {
			l.Info("Removed stale rows", zap.Int("deleted", report.Result.Deleted))
		} else if plan.Summary.Deletes == 0 {
			l.Info("No stale rows found")
		}
	}
	s.logPublish(l, s.tableID, report.Result)
	return nil
}

func (s *Service) runCleanup(ctx context.Context, l *zap.Logger, report *Report, opts RunOptions) error {
	l.Warn("Cleanup deletes every row of the configured tables", zap.Strings("tables", s.cleanupTables))

	if err := s.preflight(ctx, l); err != nil {
		return err
	}

	report.Result = reconcile.RunResult{DryRun: opts.DryRun}
	ropts := reconcile.Options{Prune: true, Publish: s.cfg.Publish, DryRun: opts.DryRun}

	for _, tableID := range s.cleanupTables {
		tl := l.With(zap.String("table_id", tableID))
		spec := &reconcile.Spec{Adapter: s.adapter, Store: everyRow{Store: s.hubdb.Table(tableID)}}

		plan, err := reconcile.PlanSync(ctx, spec, nil, ropts)
		if err != nil {
			return fmt.Errorf("failed to list rows of table %s: %w", tableID, err)
		}

		if plan.TargetBefore == 0 {
			tl.Info("Table is already empty")
			report.Tables = append(report.Tables, TableReport{TableID: tableID, Skipped: "already empty"})
			merge(&report.Result, reconcile.RunResult{})
			continue
		}

		tl.Warn("Deleting rows", zap.Int("rows", plan.TargetBefore))
		result := reconcile.ApplyPlan(ctx, spec, plan, ropts, &progress{mode: ModeCleanup, logger: tl, metrics: s.metrics})
		tl.Info("Table cleanup complete", zap.Int("deleted", result.Deleted), zap.Int("failed", result.Failed))
		s.logPublish(tl, tableID, result)

		report.Tables = append(report.Tables, TableReport{TableID: tableID, Result: result})
		merge(&report.Result, result)
	}

	return nil
}

func (s *Service) preflight(ctx context.Context, l *zap.Logger) error {
	if s.hubdb == nil {
		return fmt.Errorf("%w: %w", ErrPrecondition, hubdb.ErrMissingToken)
	}
	if err := s.hubdb.Ping(ctx); err != nil {
		return fmt.Errorf("%w: hubdb connectivity check: %w", ErrPrecondition, err)
	}
	l.Info("Connected to HubDB")
	return nil
}

// logSchema logs the column count of the table. A failure is not fatal.
func (s *Service) logSchema(ctx context.Context, l *zap.Logger, tableID string) {
	table, err := s.hubdb.GetTable(ctx, tableID)
	if err != nil {
		l.Warn("Failed to fetch table schema", zap.String("table_id", tableID), zap.Error(err))
		return
	}
	l.Info("Fetched table schema",
		zap.String("table_id", tableID),
		zap.String("table", table.Name),
		zap.Int("columns", len(table.Columns)))
}

func (s *Service) logPublish(l *zap.Logger, tableID string, result reconcile.RunResult) {
	switch {
	case result.PublishError != "":
		l.Error("Failed to publish table", zap.String("table_id", tableID), zap.String("error", result.PublishError))
	case result.Published:
		l.Info("Published table", zap.String("table_id", tableID))
	}
}

func (s *Service) remember(r *Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[r.Mode] = r
}

// persist saves and archives the report. Failures are logged and never fail the run.
func (s *Service) persist(ctx context.Context, l *zap.Logger, r *Report) {
	if s.history != nil {
		if err := s.history.Save(ctx, r); err != nil {
			l.Warn("Failed to save run history", zap.Error(err))
		}
	}
	if s.archive != nil {
		key, err := s.archive.Archive(ctx, r)
		if err != nil {
			l.Warn("Failed to archive run report", zap.Error(err))
			return
		}
		l.Info("Archived run report", zap.String("object", key))
	}
}

// everyRow keys every row by its id so that a reconciliation against an empty source
// deletes the whole table, including rows without a url key.
type everyRow struct {
	reconcile.Store
}

func (s everyRow) ListRows(ctx context.Context) ([]reconcile.TargetRow, error) {
	rows, err := s.Store.ListRows(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Name == "" {
			rows[i].Name = rows[i].Key
		}
		rows[i].Key = "row:" + rows[i].ID
	}
	return rows, nil
}
