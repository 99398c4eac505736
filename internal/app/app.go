package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/classifier"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/config"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/infrastructure/jekyll"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/infrastructure/metrics"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/infrastructure/parser"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/infrastructure/pdf"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/infrastructure/scheduler"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/infrastructure/storage"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/infrastructure/telegram"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/logging"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/ports"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/scanner"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/segmenter"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/usecase"
)

// Application wires configs to use cases for one CLI invocation.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	runID   string
	metrics *metrics.Recorder
	db      *sql.DB
}

// CodeOptions are per-invocation overrides of the parse-code command.
type CodeOptions struct {
	PDFPath    string
	SiteRoot   string
	Duplicates string
	DryRun     bool
}

// New tags the logger with a fresh run id and prepares shared adapters.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	runID := uuid.NewString()
	return &Application{
		cfg:     cfg,
		logger:  baseLogger.With("run_id", runID),
		runID:   runID,
		metrics: metrics.NewRecorder(cfg.Metrics.TextfilePath),
	}
}

// RunID identifies this invocation in logs.
func (a *Application) RunID() string {
	return a.runID
}

// Logger returns the run-scoped logger.
func (a *Application) Logger() *slog.Logger {
	return a.logger
}

// Classifier builds the citation classifier from embedded or configured tables.
func (a *Application) Classifier() (*classifier.Classifier, error) {
	var (
		tables classifier.Tables
		err    error
	)
	if path := a.cfg.Classifier.TablesPath; path != "" {
		tables, err = classifier.LoadTables(path)
	} else {
		tables, err = classifier.DefaultTables()
	}
	if err != nil {
		return nil, err
	}
	return classifier.New(tables)
}

// CodePipeline wires the PDF extractor, segmenter options and the Jekyll sink.
func (a *Application) CodePipeline(opts CodeOptions) (*usecase.CodePipeline, error) {
	pdfPath := a.cfg.Code.PDFPath
	if opts.PDFPath != "" {
		pdfPath = opts.PDFPath
	}

	policyName := a.cfg.Code.Duplicates
	if opts.Duplicates != "" {
		policyName = opts.Duplicates
	}
	policy, ok := segmenter.ParseDuplicatePolicy(policyName)
	if !ok {
		return nil, fmt.Errorf("unknown duplicate policy %q (want all, first or last)", policyName)
	}

	deps := usecase.CodeDeps{
		Source:  pdf.NewExtractor(pdfPath, a.logger.With("component", "pdf")),
		Options: segmenter.Options{Duplicates: policy},
		Metrics: a.metrics,
		Logger:  a.logger.With("component", "code"),
	}
	if !opts.DryRun {
		deps.Sink = a.writer(opts.SiteRoot)
	}

	return usecase.NewCodePipeline(deps), nil
}

// IngestPipeline wires post source, ledger, classifier, sink and notifier.
func (a *Application) IngestPipeline(ctx context.Context, dryRun bool) (*usecase.IngestPipeline, error) {
	cit, err := a.Classifier()
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}

	registry := scanner.NewRegistry()
	httpClient := &http.Client{Timeout: a.cfg.Ingest.Timeout}
	registry.Register(parser.NewChannelScanner(httpClient, a.cfg.Ingest.BaseURL, a.logger.With("component", "scanner.web")))

	var notifier ports.Notifier
	if token := a.cfg.Telegram.BotToken; token != "" {
		api, err := telegram.NewAPI(token, a.cfg.Telegram.APIEndpoint, a.cfg.Ingest.Timeout)
		if err != nil {
			return nil, err
		}
		registry.Register(telegram.NewBotScanner(api, a.logger.With("component", "scanner.bot")))
		if a.cfg.Notifications.Enabled() && !dryRun {
			notifier = telegram.NewNotifier(api, a.cfg.Notifications.ChatID)
		}
	} else if a.cfg.Ingest.Scanner == "bot" {
		return nil, fmt.Errorf("bot scanner requires TELEGRAM_BOT_TOKEN")
	}

	ledger, err := a.ledger(ctx)
	if err != nil {
		return nil, err
	}

	deps := usecase.IngestDeps{
		Source:   parser.NewStrategySource(registry, a.cfg.Ingest, a.logger.With("component", "source")),
		Ledger:   ledger,
		Citator:  cit,
		Notifier: notifier,
		Metrics:  a.metrics,
		Logger:   a.logger.With("component", "ingest"),
	}
	if !dryRun {
		deps.Sink = a.writer("")
	}

	return usecase.NewIngestPipeline(deps), nil
}

// Watch runs the ingest pipeline on the configured cron schedule until ctx is done.
func (a *Application) Watch(ctx context.Context, runOnStart bool) error {
	pipeline, err := a.IngestPipeline(ctx, false)
	if err != nil {
		return err
	}

	driver := scheduler.NewCronScheduler(
		a.cfg.Scheduler.CronExpression,
		a.cfg.Scheduler.Location(),
		runOnStart,
		a.logger.With("component", "cron"),
	)
	sched := usecase.NewScheduler(driver, pipeline, a.logger.With("component", "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("watching channel", "cron", a.cfg.Scheduler.CronExpression, "channel", a.cfg.Ingest.Channel)

	<-ctx.Done()
	return sched.Stop(context.Background())
}

// Close releases the ledger database, if one was opened.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func (a *Application) writer(root string) *jekyll.Writer {
	if root == "" {
		root = a.cfg.Site.Root
	}
	return jekyll.NewWriter(root, a.cfg.Site.SourceLabel, a.logger.With("component", "jekyll"))
}

func (a *Application) ledger(ctx context.Context) (ports.LedgerStore, error) {
	switch driver := a.cfg.Ledger.Driver; driver {
	case "", config.LedgerFile:
		path := a.cfg.Ledger.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(a.cfg.Site.Root, path)
		}
		return storage.NewFileLedger(path), nil
	case config.LedgerSQLite, config.LedgerPostgres:
		db, err := storage.OpenDB(ctx, driver, a.cfg.Ledger.DSN)
		if err != nil {
			return nil, fmt.Errorf("open ledger: %w", err)
		}
		store := storage.NewSQLLedger(db, driver)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, errors.Join(err, db.Close())
		}
		a.db = db
		return store, nil
	default:
		return nil, fmt.Errorf("unknown ledger driver %q", driver)
	}
}
