package cmd

import (
	"context"
	"fmt"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	"catalog-sync/core/metrics"
	"catalog-sync/core/storage"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/courses"
	"catalog-sync/feature/hubdb"
	syncFeature "catalog-sync/feature/sync"

	"go.uber.org/zap"
)

// runtime holds the collaborators shared by the commands.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	service *syncFeature.Service
}

// loadRuntime loads the configuration, builds the logger and wires the run service.
// Configuration problems are reported as precondition failures before any network call.
func loadRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", syncFeature.ErrPrecondition, err)
	}

	hub, err := hubdb.NewClient(cfg.HubSpot, l)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", syncFeature.ErrPrecondition, err)
	}

	source, err := catalog.NewClient(cfg.Catalog, l)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", syncFeature.ErrPrecondition, err)
	}

	m := metrics.New(cfg.Metrics.Namespace)

	deps := syncFeature.Dependencies{
		Catalog:     source,
		HubDB:       hub,
		Transformer: courses.NewTransformer(),
		Logger:      l,
		Metrics:     m,
	}

	// Run history and report archive are optional; a failure only disables them.
	if cfg.Database.Enabled {
		if history, err := openHistory(cfg.Database); err != nil {
			l.Warn("Run history disabled", zap.Error(err))
		} else {
			deps.History = history
			l.Info("Run history enabled", zap.String("database", cfg.Database.Name))
		}
	}

	if cfg.Storage.Enabled {
		if archive, err := openArchive(ctx, cfg.Storage); err != nil {
			l.Warn("Report archive disabled", zap.Error(err))
		} else {
			deps.Archive = archive
			l.Info("Report archive enabled", zap.String("bucket", cfg.Storage.Bucket))
		}
	}

	return &runtime{
		cfg:     cfg,
		logger:  l,
		metrics: m,
		service: syncFeature.NewService(cfg.Sync, cfg.HubSpot, deps),
	}, nil
}

func openHistory(cfg database.Config) (*syncFeature.HistoryStore, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	history := syncFeature.NewHistoryStore(db)
	if err := history.Migrate(); err != nil {
		return nil, err
	}
	return history, nil
}

func openArchive(ctx context.Context, cfg storage.Config) (*syncFeature.Archiver, error) {
	client, err := storage.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	archive := syncFeature.NewArchiver(client, cfg.Bucket, cfg.Prefix)
	if err := archive.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return archive, nil
}

// runContext bounds a command run by the configured timeout.
func (r *runtime) runContext(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := r.cfg.Sync.Timeout()
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

// logReport logs the final outcome of a run.
func logReport(l *zap.Logger, report *syncFeature.Report) {
	if report.Aborted != "" {
		l.Warn("Run aborted, no changes were made", zap.String("reason", report.Aborted))
		return
	}
	if report.Result.DryRun {
		l.Info("Dry-run mode: No changes were made.")
	}
	if report.Result.Failed > 0 {
		l.Warn("Run finished with failures",
			zap.Int("failed", report.Result.Failed),
			zap.String("success_rate", report.Result.FormatRate()))
	}
}
