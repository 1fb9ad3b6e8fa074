package container

import (
	"fmt"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/adapters/excel"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/adapters/stats/nonparametric"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/adapters/watch"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/app"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal/config"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal/metrics"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Metrics is nil when METRICS_ENABLED is false
	Metrics *metrics.Metrics

	// Adapters
	Reader   *excel.DataReader
	Provider *nonparametric.Provider
	Watcher  *watch.Watcher

	// Application services
	Service *app.AnalysisService
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Reader:   excel.NewDataReader(logger.Named("reader")),
		Provider: nonparametric.NewProvider(),
	}
	if cfg.Server.MetricsEnabled {
		c.Metrics = metrics.New()
	}

	var tests []ports.HypothesisTest
	for _, family := range []stats.TestFamily{stats.IndependentGroups, stats.PairedSamples} {
		test, err := nonparametric.NewHypothesisTest(family, c.Provider)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s test: %w", family, err)
		}
		tests = append(tests, test)
	}

	c.Service = app.NewAnalysisService(
		app.NewSession(),
		c.Provider,
		tests,
		app.NewTestRunner(cfg.Analysis.Workers),
		app.NewMemoryResultCache(),
		cfg.Analysis.DefaultCorrection,
		logger.Named("analysis"),
		c.Metrics,
	)

	return c, nil
}

// StartupSource describes the configured startup tables
func (c *Container) StartupSource() app.TableSource {
	return app.TableSource{
		FeaturePath:  c.Config.Data.FeatureTable,
		MetadataPath: c.Config.Data.MetadataTable,
		Transpose:    c.Config.Data.Transpose,
	}
}

// LoadStartupData reads the configured tables and, when enabled, starts watching them.
// It does nothing when no tables are configured.
func (c *Container) LoadStartupData() error {
	if !c.Config.HasStartupData() {
		c.Logger.Info("No startup tables configured; waiting for an upload")
		return nil
	}

	src := c.StartupSource()
	if err := c.Service.LoadFiles(c.Reader, src, "startup"); err != nil {
		return fmt.Errorf("failed to load startup tables: %w", err)
	}
	if !c.Config.Data.Watch {
		return nil
	}

	w, err := watch.NewWatcher(c.Logger.Named("watch"), watch.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Watch(src.Paths(), c.Service.Reload(c.Reader, src)); err != nil {
		w.Stop()
		return fmt.Errorf("failed to watch startup tables: %w", err)
	}
	c.Watcher = w
	return nil
}

// Shutdown releases watchers and flushes logs
func (c *Container) Shutdown() {
	if c.Watcher != nil {
		if err := c.Watcher.Stop(); err != nil {
			c.Logger.Warn("Failed to stop watcher: %v", err)
		}
	}
	c.Logger.Sync()
}
