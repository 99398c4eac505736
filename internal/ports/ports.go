package ports

import (
	"context"
	"time"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
)

// DocumentSource yields the raw text of the criminal code.
type DocumentSource interface {
	ExtractText(ctx context.Context) (string, error)
}

// PostSource pulls recent posts from the configured channel.
type PostSource interface {
	FetchPosts(ctx context.Context) ([]domain.Post, error)
}

// LedgerStore persists processed post identifiers between runs.
type LedgerStore interface {
	Load(ctx context.Context) (domain.Ledger, error)
	Save(ctx context.Context, ledger domain.Ledger) error
}

// Citator maps text onto cited article numbers.
type Citator interface {
	Classify(text string) []int
}

// ArticleSink materializes segmented articles as site content.
type ArticleSink interface {
	WriteArticles(ctx context.Context, articles []domain.Article) ([]string, error)
	WriteIndex(ctx context.Context, articles []domain.Article, sections []domain.Section) error
}

// DecisionSink materializes a classified post as site content.
type DecisionSink interface {
	WriteDecision(ctx context.Context, post domain.Post, match domain.CitationMatch) (string, error)
}

// Notifier streams run summaries to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Metrics records batch run counters.
type Metrics interface {
	ArticlesSegmented(n int)
	PostsFetched(n int)
	PostsSkipped(n int)
	PostsUncited(n int)
	DecisionsWritten(n int)
	DecisionsFailed(n int)
	RunFinished(job string, at time.Time, err error)
	Flush() error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
