package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/ports"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/segmenter"
)

// ErrNoArticles is returned when no segmentation rule matched the document.
var ErrNoArticles = errors.New("no articles found in document")

// CodeJob labels code parsing runs in metrics.
const CodeJob = "parse-code"

// CodeDeps wires the criminal code parsing run. A nil Sink means dry run.
type CodeDeps struct {
	Source  ports.DocumentSource
	Sink    ports.ArticleSink
	Options segmenter.Options
	Metrics ports.Metrics
	Logger  *slog.Logger
}

// CodeReport carries the segmentation result and the files written from it.
type CodeReport struct {
	segmenter.Result
	Files  []string
	DryRun bool
}

// CodePipeline turns the code document into article pages and the site index.
type CodePipeline struct {
	source  ports.DocumentSource
	sink    ports.ArticleSink
	options segmenter.Options
	metrics ports.Metrics
	logger  *slog.Logger
}

// NewCodePipeline constructs the code parsing use case.
func NewCodePipeline(deps CodeDeps) *CodePipeline {
	return &CodePipeline{
		source:  deps.Source,
		sink:    deps.Sink,
		options: deps.Options,
		metrics: deps.Metrics,
		logger:  deps.Logger,
	}
}

// Run extracts the document text, segments it and writes articles plus index.
func (p *CodePipeline) Run(ctx context.Context) (report CodeReport, err error) {
	defer func() { finishRun(p.metrics, p.logger, CodeJob, err) }()

	if p.source == nil {
		return report, fmt.Errorf("code pipeline has no document source")
	}
	report.DryRun = p.sink == nil

	text, err := p.source.ExtractText(ctx)
	if err != nil {
		return report, fmt.Errorf("extract text: %w", err)
	}
	p.debug("document text extracted", "runes", len([]rune(text)))

	report.Result = segmenter.Segment(text, p.options)
	if len(report.Articles) == 0 {
		return report, ErrNoArticles
	}

	if p.metrics != nil {
		p.metrics.ArticlesSegmented(len(report.Articles))
	}
	p.info("document segmented",
		"articles", len(report.Articles),
		"sections", len(report.Sections),
		"rule", report.Rule,
		"discarded", report.Discarded)

	if report.DryRun {
		return report, nil
	}

	report.Files, err = p.sink.WriteArticles(ctx, report.Articles)
	if err != nil {
		return report, fmt.Errorf("write articles: %w", err)
	}

	if err := p.sink.WriteIndex(ctx, report.Articles, report.Sections); err != nil {
		return report, fmt.Errorf("write index: %w", err)
	}

	p.info("articles written", "files", len(report.Files))
	return report, nil
}

func (p *CodePipeline) debug(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *CodePipeline) info(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
