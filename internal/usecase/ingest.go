package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/intake"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/ports"
)

// ErrNoPosts is returned when the post source yields nothing at all.
var ErrNoPosts = errors.New("no posts returned by source")

// IngestJob labels ingest runs in metrics.
const IngestJob = "ingest"

// IngestDeps wires all driven adapters into the ingest pipeline.
// A nil Sink turns the run into a dry run: posts are classified but nothing
// is written and the ledger is left untouched.
type IngestDeps struct {
	Source   ports.PostSource
	Ledger   ports.LedgerStore
	Citator  ports.Citator
	Sink     ports.DecisionSink
	Notifier ports.Notifier
	Metrics  ports.Metrics
	Logger   *slog.Logger
}

// IngestReport summarises one ingest run.
type IngestReport struct {
	Fetched int
	Skipped int
	Uncited int
	Matches []domain.CitationMatch
	Written []string
	Failed  []int64
	DryRun  bool
}

// IngestPipeline turns fresh channel posts into decision documents.
type IngestPipeline struct {
	source   ports.PostSource
	ledger   ports.LedgerStore
	citator  ports.Citator
	sink     ports.DecisionSink
	notifier ports.Notifier
	metrics  ports.Metrics
	logger   *slog.Logger
}

// NewIngestPipeline constructs the orchestration component.
func NewIngestPipeline(deps IngestDeps) *IngestPipeline {
	return &IngestPipeline{
		source:   deps.Source,
		ledger:   deps.Ledger,
		citator:  deps.Citator,
		sink:     deps.Sink,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
	}
}

// Run loads the ledger, fetches posts, classifies the fresh ones and writes
// decisions for posts that cite at least one article. Uncited posts are marked
// processed without output; posts whose write failed stay unmarked for the next run.
func (p *IngestPipeline) Run(ctx context.Context) (report IngestReport, err error) {
	defer func() { finishRun(p.metrics, p.logger, IngestJob, err) }()

	if p.source == nil || p.ledger == nil || p.citator == nil {
		return report, fmt.Errorf("ingest pipeline is not fully configured")
	}
	report.DryRun = p.sink == nil

	ledger, err := p.ledger.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load ledger: %w", err)
	}
	p.debug("ledger loaded", "processed", ledger.Len())

	posts, err := p.source.FetchPosts(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch posts: %w", err)
	}
	report.Fetched = len(posts)
	if len(posts) == 0 {
		return report, ErrNoPosts
	}

	fresh, skipped := intake.Partition(posts, ledger)
	report.Skipped = len(skipped)
	p.info("posts partitioned", "fetched", len(posts), "fresh", len(fresh), "skipped", len(skipped))

	changed := false
	var interrupted error
	for i, post := range fresh {
		if err := ctx.Err(); err != nil {
			interrupted = err
			p.warn("ingest interrupted, keeping progress", "remaining", len(fresh)-i)
			break
		}

		numbers := p.citator.Classify(post.Text)
		if len(numbers) == 0 {
			report.Uncited++
			p.debug("post cites no article", "post", post.ID)
			if !report.DryRun {
				intake.Record(ledger, post)
				changed = true
			}
			continue
		}

		match := domain.CitationMatch{PostID: post.ID, SourceText: post.Text, ArticleNumbers: numbers}
		report.Matches = append(report.Matches, match)
		if report.DryRun {
			continue
		}

		path, werr := p.sink.WriteDecision(ctx, post, match)
		if werr != nil {
			report.Failed = append(report.Failed, post.ID)
			p.warn("decision write failed", "post", post.ID, "error", werr)
			continue
		}
		report.Written = append(report.Written, path)
		intake.Record(ledger, post)
		changed = true
	}

	// Decisions already on disk must be recorded even when the run was cancelled.
	if changed {
		if err := p.ledger.Save(context.WithoutCancel(ctx), ledger); err != nil {
			return report, errors.Join(fmt.Errorf("save ledger: %w", err), interrupted)
		}
	}
	if interrupted != nil {
		return report, fmt.Errorf("ingest interrupted: %w", interrupted)
	}

	if p.metrics != nil {
		p.metrics.PostsFetched(report.Fetched)
		p.metrics.PostsSkipped(report.Skipped)
		p.metrics.PostsUncited(report.Uncited)
		p.metrics.DecisionsWritten(len(report.Written))
		p.metrics.DecisionsFailed(len(report.Failed))
	}

	p.info("ingest finished",
		"written", len(report.Written),
		"uncited", report.Uncited,
		"failed", len(report.Failed),
		"dry_run", report.DryRun)

	if p.notifier != nil && len(report.Written) > 0 {
		if nerr := p.notifier.PublishDigest(ctx, buildSummaryMessage(report)); nerr != nil {
			p.warn("summary notification failed", "error", nerr)
		}
	}

	return report, nil
}

func buildSummaryMessage(report IngestReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SudPraktika: нових рішень %d\n", len(report.Written))
	fmt.Fprintf(&b, "Отримано постів: %d, вже оброблено: %d, без статей КК: %d\n",
		report.Fetched, report.Skipped, report.Uncited)
	if len(report.Failed) > 0 {
		fmt.Fprintf(&b, "Помилок запису: %d\n", len(report.Failed))
	}

	failed := make(map[int64]struct{}, len(report.Failed))
	for _, id := range report.Failed {
		failed[id] = struct{}{}
	}
	for _, match := range report.Matches {
		if _, ok := failed[match.PostID]; ok {
			continue
		}
		articles := make([]string, len(match.ArticleNumbers))
		for i, n := range match.ArticleNumbers {
			articles[i] = fmt.Sprintf("%d", n)
		}
		fmt.Fprintf(&b, "- пост %d: ст. %s\n", match.PostID, strings.Join(articles, ", "))
	}

	return strings.TrimRight(b.String(), "\n")
}

// finishRun stamps run metrics and flushes them; flush problems are only logged.
func finishRun(metrics ports.Metrics, logger *slog.Logger, job string, runErr error) {
	if metrics == nil {
		return
	}
	metrics.RunFinished(job, time.Now(), runErr)
	if err := metrics.Flush(); err != nil && logger != nil {
		logger.Warn("metrics flush failed", "job", job, "error", err)
	}
}

func (p *IngestPipeline) debug(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *IngestPipeline) info(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *IngestPipeline) warn(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
